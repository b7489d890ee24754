// Package store provides SQLite-backed persistence for the Person aggregate.
//
// Three tables back the aggregate:
//   - coordinates: mandatory value entity, referenced by person.coordinates_id
//   - location: optional value entity, referenced by person.location_id (nullable)
//   - person: the aggregate root, carrying owner_id for the access guard
//
// # Write Discipline
//
// Every Person write that touches more than one table runs inside a single
// transaction (Store.WithTx). Either the whole cascade commits or none of it
// does; a failed Person insert never leaves an orphaned coordinates or
// location row behind.
//
// Foreign keys are taken from the generated key of the sub-entity insert
// (sql.Result.LastInsertId), never from a value lookup. ResolveID exists for
// callers that need value-based lookup, but rows are not unique by value and
// it returns the lowest matching id.
//
// # Result Shape
//
// Reads return (value, found, err). A missing row is (zero, false, nil);
// only database failures produce an error. The one exception is
// PersonRepo.Update, which returns ErrPersonNotFound for a missing target.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
