package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/personvault/internal/collection"
	"github.com/roach88/personvault/internal/model"
	"github.com/roach88/personvault/internal/store"
	"github.com/roach88/personvault/internal/testutil"
)

// ClockStart is the first creation timestamp handed out in a run. Each
// later call to the clock advances by one second.
var ClockStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Harness executes the steps of one scenario.
type Harness struct {
	service *collection.Service
}

// Run executes a scenario against a fresh in-memory store and returns the
// result. An error is returned only when the run itself could not be set
// up; step and assertion failures are reported in the result.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:", store.WithCascadeDelete(scenario.CascadeDelete))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	clock := testutil.NewSteppingClock(ClockStart, time.Second)
	h := &Harness{
		service: collection.New(st,
			collection.WithClock(clock),
			collection.WithIDGenerator(testutil.NewFixedIDGenerator(scenario.OpID)),
			collection.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		),
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		if err := h.executeStep(ctx, i, step, result); err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
	}

	for _, msg := range evaluateAssertions(ctx, st, result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func (h *Harness) executeStep(ctx context.Context, i int, step Step, result *Result) error {
	user := model.User{ID: step.As}
	event := TraceEvent{Step: i, Action: step.Action, As: step.As}

	var (
		person model.Person
		err    error
	)
	if step.Person != nil {
		person, err = step.Person.ToPerson()
		if err != nil {
			return fmt.Errorf("decode person: %w", err)
		}
	}

	id := step.ID
	if step.Target != "" {
		id = result.Bindings[step.Target]
	}
	event.PersonID = id

	switch step.Action {
	case ActionAdd:
		var newID int64
		newID, err = h.service.Add(ctx, user, &person)
		if err == nil {
			event.PersonID = newID
			if step.Bind != "" {
				result.Bindings[step.Bind] = newID
			}
		}
		event.Outcome = outcomeOf(err)
	case ActionGet:
		var found bool
		_, found, err = h.service.Get(ctx, id)
		event.Outcome = outcomeOf(err)
		if err == nil && !found {
			event.Outcome = OutcomeNotFound
		}
	case ActionUpdate:
		err = h.service.Update(ctx, user, id, &person)
		event.Outcome = outcomeOf(err)
	case ActionRemove:
		err = h.service.Remove(ctx, user, id)
		event.Outcome = outcomeOf(err)
	case ActionCheckAccess:
		var allowed bool
		allowed, err = h.service.CheckAccess(ctx, user, id)
		event.Outcome = outcomeOf(err)
		if err == nil {
			event.Allowed = &allowed
		}
	default:
		return fmt.Errorf("unknown action %q", step.Action)
	}

	result.Trace = append(result.Trace, event)
	checkExpectation(i, step, event, err, result)
	return nil
}

func checkExpectation(i int, step Step, event TraceEvent, err error, result *Result) {
	want := OutcomeOK
	if step.Expect != nil && step.Expect.Outcome != "" {
		want = step.Expect.Outcome
	}
	if event.Outcome != want {
		msg := fmt.Sprintf("step %d (%s as %d): expected outcome %s, got %s", i, step.Action, step.As, want, event.Outcome)
		if err != nil {
			msg += ": " + err.Error()
		}
		result.AddError(msg)
		return
	}

	if step.Expect == nil || step.Expect.Allowed == nil {
		return
	}
	if event.Allowed == nil || *event.Allowed != *step.Expect.Allowed {
		got := "none"
		if event.Allowed != nil {
			got = fmt.Sprint(*event.Allowed)
		}
		result.AddError(fmt.Sprintf("step %d (check_access as %d): expected allowed=%t, got %s", i, step.As, *step.Expect.Allowed, got))
	}
}

// outcomeOf maps an operation error onto a trace outcome.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, store.ErrPersonNotFound):
		return OutcomeNotFound
	case errors.Is(err, collection.ErrAccessDenied):
		return OutcomeAccessDenied
	case errors.Is(err, model.ErrInvalidPerson):
		return OutcomeInvalid
	case errors.Is(err, store.ErrConstraint):
		return OutcomeConflict
	default:
		return OutcomeError
	}
}
