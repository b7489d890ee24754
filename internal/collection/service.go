// Package collection is the caller-facing layer over the store. It stamps
// and validates persons, consults the access guard before every mutation,
// and logs each write with an operation id.
package collection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/personvault/internal/model"
	"github.com/roach88/personvault/internal/store"
)

// ErrAccessDenied is returned when the caller does not own the person.
var ErrAccessDenied = errors.New("access denied")

// Service mediates between callers and the store.
type Service struct {
	store *store.Store
	clock Clock
	ids   IDGenerator
	log   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock used to stamp creation dates.
func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithIDGenerator overrides the operation id generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Service) { s.ids = g }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// New creates a Service over st.
func New(st *store.Store, opts ...Option) *Service {
	s := &Service{
		store: st,
		clock: SystemClock{},
		ids:   UUIDv7Generator{},
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add stores p on behalf of user and returns the new person id.
// A zero CreationDate is stamped from the clock.
func (s *Service) Add(ctx context.Context, user model.User, p *model.Person) (int64, error) {
	op := s.ids.Generate()

	p.Normalize()
	if p.CreationDate.IsZero() {
		p.CreationDate = s.clock.Now()
	}
	if err := p.Validate(); err != nil {
		return 0, err
	}

	ok, err := s.store.Persons().Insert(ctx, p, user.ID)
	if err != nil {
		s.log.Error("add person failed", "op", op, "owner", user.ID, "error", err)
		return 0, fmt.Errorf("add person: %w", err)
	}
	if !ok {
		return 0, fmt.Errorf("add person: no row written")
	}

	s.log.Info("person added", "op", op, "person_id", p.ID, "owner", user.ID)
	return p.ID, nil
}

// Get returns the person with the given id.
func (s *Service) Get(ctx context.Context, id int64) (model.Person, bool, error) {
	return s.store.Persons().Read(ctx, id)
}

// List returns every person.
func (s *Service) List(ctx context.Context) ([]model.Person, error) {
	return s.store.Persons().List(ctx)
}

// ListMine returns the persons owned by user.
func (s *Service) ListMine(ctx context.Context, user model.User) ([]model.Person, error) {
	return s.store.Persons().ListByOwner(ctx, user.ID)
}

// Update replaces person id with p if user owns it. A zero CreationDate
// keeps the stored one.
func (s *Service) Update(ctx context.Context, user model.User, id int64, p *model.Person) error {
	op := s.ids.Generate()

	if err := s.authorize(ctx, op, user, id); err != nil {
		return err
	}

	p.Normalize()
	if p.CreationDate.IsZero() {
		current, found, err := s.store.Persons().Read(ctx, id)
		if err != nil {
			return fmt.Errorf("update person %d: %w", id, err)
		}
		if !found {
			return fmt.Errorf("update person %d: %w", id, store.ErrPersonNotFound)
		}
		p.CreationDate = current.CreationDate
	}
	if err := p.Validate(); err != nil {
		return err
	}

	if _, err := s.store.Persons().Update(ctx, p, id); err != nil {
		s.log.Error("update person failed", "op", op, "person_id", id, "error", err)
		return fmt.Errorf("update person %d: %w", id, err)
	}
	p.OwnerID = user.ID

	s.log.Info("person updated", "op", op, "person_id", id, "owner", user.ID)
	return nil
}

// Remove deletes person id if user owns it.
func (s *Service) Remove(ctx context.Context, user model.User, id int64) error {
	op := s.ids.Generate()

	if err := s.authorize(ctx, op, user, id); err != nil {
		return err
	}

	removed, err := s.store.Persons().Remove(ctx, id)
	if err != nil {
		s.log.Error("remove person failed", "op", op, "person_id", id, "error", err)
		return fmt.Errorf("remove person %d: %w", id, err)
	}
	if !removed {
		return fmt.Errorf("remove person %d: %w", id, store.ErrPersonNotFound)
	}

	s.log.Info("person removed", "op", op, "person_id", id, "owner", user.ID, "cascade", s.store.CascadeDelete())
	return nil
}

// CheckAccess exposes the store's ownership check.
func (s *Service) CheckAccess(ctx context.Context, user model.User, id int64) (bool, error) {
	return s.store.Guard().CheckAccess(ctx, id, user.ID)
}

// authorize runs the access guard. A failed check is reported as
// ErrPersonNotFound when the person does not exist and ErrAccessDenied
// otherwise.
func (s *Service) authorize(ctx context.Context, op string, user model.User, id int64) error {
	ok, err := s.store.Guard().CheckAccess(ctx, id, user.ID)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	_, found, err := s.store.Persons().Read(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("person %d: %w", id, store.ErrPersonNotFound)
	}

	s.log.Warn("access denied", "op", op, "person_id", id, "user", user.ID)
	return fmt.Errorf("person %d: %w", id, ErrAccessDenied)
}
