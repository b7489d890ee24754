package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/personvault/internal/seed"
)

// Scenario is a scripted sequence of collection operations plus the
// assertions that must hold once every step has run.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario demonstrates.
	Description string `yaml:"description"`

	// CascadeDelete opens the scenario store with orphan removal enabled.
	CascadeDelete bool `yaml:"cascade_delete,omitempty"`

	// OpID is the fixed operation id used for every step.
	// Defaults to the test generator's id when empty.
	OpID string `yaml:"op_id,omitempty"`

	Steps      []Step      `yaml:"steps"`
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one operation performed by a user.
type Step struct {
	// Action is one of add, get, update, remove, check_access.
	Action string `yaml:"action"`

	// As is the id of the acting user.
	As int32 `yaml:"as"`

	// Bind names the person created by an add step for later reference.
	Bind string `yaml:"bind,omitempty"`

	// Target references a person bound by an earlier add step.
	Target string `yaml:"target,omitempty"`

	// ID addresses a person by raw id, used for ids that were never created.
	ID int64 `yaml:"id,omitempty"`

	// Person carries the document for add and update steps.
	Person *seed.PersonDoc `yaml:"person,omitempty"`

	// Expect overrides the default expectation of a successful outcome.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect describes the outcome a step must produce.
type Expect struct {
	// Outcome is one of the Outcome* constants. Empty means OutcomeOK.
	Outcome string `yaml:"outcome,omitempty"`

	// Allowed is checked for check_access steps.
	Allowed *bool `yaml:"allowed,omitempty"`
}

// Assertion checks the final state of the store.
type Assertion struct {
	// Type is one of row_count, person_field, person_absent.
	Type string `yaml:"type"`

	// Table is the table counted by row_count.
	Table string `yaml:"table,omitempty"`

	// Count is the expected row count.
	Count int64 `yaml:"count,omitempty"`

	// Target references a bound person (person_field, person_absent).
	Target string `yaml:"target,omitempty"`

	// Field is the person field compared by person_field.
	Field string `yaml:"field,omitempty"`

	// Equals is the expected rendering of Field.
	Equals string `yaml:"equals,omitempty"`
}

// Step actions.
const (
	ActionAdd         = "add"
	ActionGet         = "get"
	ActionUpdate      = "update"
	ActionRemove      = "remove"
	ActionCheckAccess = "check_access"
)

// Assertion types.
const (
	AssertRowCount     = "row_count"
	AssertPersonField  = "person_field"
	AssertPersonAbsent = "person_absent"
)

// LoadScenario reads a scenario file. Unknown fields are rejected so a
// misspelled key fails loudly instead of being ignored.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	bound := make(map[string]bool)
	for i, step := range s.Steps {
		if err := validateStep(step, bound); err != nil {
			return fmt.Errorf("step %d: %w", i, err)
		}
		if step.Bind != "" {
			bound[step.Bind] = true
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(a, bound); err != nil {
			return fmt.Errorf("assertion %d: %w", i, err)
		}
	}
	return nil
}

func validateStep(step Step, bound map[string]bool) error {
	switch step.Action {
	case ActionAdd:
		if step.Person == nil {
			return fmt.Errorf("add requires person")
		}
		if step.Target != "" || step.ID != 0 {
			return fmt.Errorf("add does not take a target")
		}
		if step.Bind != "" && bound[step.Bind] {
			return fmt.Errorf("name %q is already bound", step.Bind)
		}
		return nil
	case ActionUpdate:
		if step.Person == nil {
			return fmt.Errorf("update requires person")
		}
	case ActionGet, ActionRemove, ActionCheckAccess:
		if step.Person != nil {
			return fmt.Errorf("%s does not take a person", step.Action)
		}
	case "":
		return fmt.Errorf("action is required")
	default:
		return fmt.Errorf("unknown action %q", step.Action)
	}

	if step.Bind != "" {
		return fmt.Errorf("only add steps can bind")
	}
	if step.Target == "" && step.ID == 0 {
		return fmt.Errorf("%s requires target or id", step.Action)
	}
	if step.Target != "" && step.ID != 0 {
		return fmt.Errorf("target and id are mutually exclusive")
	}
	if step.Target != "" && !bound[step.Target] {
		return fmt.Errorf("target %q is not bound by an earlier add", step.Target)
	}
	if step.Expect != nil && step.Expect.Allowed != nil && step.Action != ActionCheckAccess {
		return fmt.Errorf("allowed only applies to check_access")
	}
	return nil
}

func validateAssertion(a Assertion, bound map[string]bool) error {
	switch a.Type {
	case AssertRowCount:
		if a.Table == "" {
			return fmt.Errorf("row_count requires table")
		}
		return nil
	case AssertPersonField:
		if a.Field == "" {
			return fmt.Errorf("person_field requires field")
		}
	case AssertPersonAbsent:
	case "":
		return fmt.Errorf("type is required")
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}

	if a.Target == "" {
		return fmt.Errorf("%s requires target", a.Type)
	}
	if !bound[a.Target] {
		return fmt.Errorf("target %q is not bound", a.Target)
	}
	return nil
}
