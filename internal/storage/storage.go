// Package storage defines the contracts the CLI talks to — the user
// store and the reporting mirror — plus the sentinel errors every
// backend returns.
//
// The CLI only depends on these interfaces, so the flat-file store can
// be swapped for a fake in tests and the reporting database can be
// rebuilt without the CLI knowing which engine holds it.
package storage

import (
	"errors"
	"iter"

	"github.com/aanand-mishra/academico/internal/types"
)

// Sentinel errors. Backends wrap them with context, so callers test
// with errors.Is.
var (
	// ErrNotFound means no record has the requested id (or credentials).
	ErrNotFound = errors.New("user not found")

	// ErrEmailTaken means another record already uses the email,
	// compared case-insensitively.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidRecord means a candidate failed field validation.
	ErrInvalidRecord = errors.New("invalid user record")

	// ErrNoStore means the store file does not exist.
	ErrNoStore = errors.New("store file does not exist")
)

// Storage is the user store contract.
type Storage interface {
	// EnsureSeeded creates the store with its header and the default
	// administrator when the file is absent. It reports whether it did.
	EnsureSeeded() (bool, error)

	// FindByCredentials returns the first record whose email matches
	// (case-insensitive) and whose password matches exactly.
	FindByCredentials(email, password string) (types.User, error)

	// FindByID returns the first record with the given id.
	FindByID(id int) (types.User, error)

	// EmailExists reports whether any parseable record uses email.
	EmailExists(email string) (bool, error)

	// MaxID returns the highest leading id in the store, 0 when empty.
	MaxID() (int, error)

	// ListAll yields every parseable record in file order. Each call
	// reads the file again from the top.
	ListAll() iter.Seq2[types.User, error]

	// Add validates the candidate, assigns the next id and appends it.
	Add(candidate types.User) (types.User, error)

	// UpdateByID replaces the record with the given id. The id of the
	// replacement is ignored.
	UpdateByID(id int, replacement types.User) (types.User, error)

	// DeleteByID removes the first record with the given id.
	DeleteByID(id int) error

	// SetStatus rewrites only the status column of one record.
	SetStatus(id int, status string) (types.User, error)

	// Snapshot copies the store into the backup directory and returns
	// the backup path, or "" when there was no store to copy.
	Snapshot() (string, error)
}

// Reporter is the contract of the reporting mirror.
type Reporter interface {
	// Sync replaces the mirror's content with users.
	Sync(users []types.User) error

	// ClassSummaries aggregates the students of each class.
	ClassSummaries() ([]types.ClassSummary, error)

	Close() error
}

// Collect drains a ListAll sequence into a slice, stopping at the first
// error. The slice is empty (not nil) when there are no records.
func Collect(seq iter.Seq2[types.User, error]) ([]types.User, error) {
	users := make([]types.User, 0)
	for u, err := range seq {
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, nil
}
