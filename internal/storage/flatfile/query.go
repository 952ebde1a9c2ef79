package flatfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"strings"

	"github.com/aanand-mishra/academico/internal/storage"
	"github.com/aanand-mishra/academico/internal/types"
)

// scanData calls fn with every line after the header, in file order,
// until fn returns false. A missing store yields storage.ErrNoStore.
//
// Lines have no length limit, the same as the whole-file reads of
// UpdateByID and DeleteByID. Line endings are stripped.
func (s *Store) scanData(fn func(line string) bool) error {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return storage.ErrNoStore
	}
	if err != nil {
		return fmt.Errorf("scan: open store: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	header := true
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			if header {
				header = false
			} else if !fn(strings.TrimRight(line, "\r\n")) {
				return nil
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("scan: read store: %w", err)
		}
	}
}

// ListAll yields every parseable record in file order. Unparseable lines
// are skipped. A missing store yields nothing; a read error is yielded
// once as the last element.
//
// The sequence is lazy and restartable: each range over it reopens the
// file and reads it from the top.
func (s *Store) ListAll() iter.Seq2[types.User, error] {
	return func(yield func(types.User, error) bool) {
		stopped := false
		err := s.scanData(func(line string) bool {
			u, ok := Parse(line)
			if !ok {
				return true
			}
			if !yield(u, nil) {
				stopped = true
				return false
			}
			return true
		})
		if err != nil && !stopped && !errors.Is(err, storage.ErrNoStore) {
			yield(types.User{}, err)
		}
	}
}

// FindByCredentials returns the first record whose email equals email
// ignoring case and whose password equals password exactly. A blank
// email or password never matches.
func (s *Store) FindByCredentials(email, password string) (types.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return types.User{}, storage.ErrNotFound
	}
	for u, err := range s.ListAll() {
		if err != nil {
			return types.User{}, fmt.Errorf("FindByCredentials: %w", err)
		}
		if strings.EqualFold(u.Email, email) && u.Password == password {
			return u, nil
		}
	}
	return types.User{}, storage.ErrNotFound
}

// FindByID returns the first record with the given id.
func (s *Store) FindByID(id int) (types.User, error) {
	for u, err := range s.ListAll() {
		if err != nil {
			return types.User{}, fmt.Errorf("FindByID: %w", err)
		}
		if u.ID == id {
			return u, nil
		}
	}
	s.log.Info("user not found", slog.Int("id", id))
	return types.User{}, fmt.Errorf("no user found with id: %d: %w", id, storage.ErrNotFound)
}

// EmailExists reports whether a parseable record uses email, ignoring
// case. A missing store has no emails.
func (s *Store) EmailExists(email string) (bool, error) {
	return s.emailUsed(email, func(types.User) bool { return true })
}

// emailUsed reports whether some record matching keep uses email.
func (s *Store) emailUsed(email string, keep func(types.User) bool) (bool, error) {
	for u, err := range s.ListAll() {
		if err != nil {
			return false, fmt.Errorf("EmailExists: %w", err)
		}
		if strings.EqualFold(u.Email, email) && keep(u) {
			return true, nil
		}
	}
	return false, nil
}

// MaxID returns the largest leading id in the store, or 0 for a missing
// or header-only store.
//
// MaxID reads the leading digits of each line and ignores the rest, so
// a line Parse would skip still counts if it starts with a number.
func (s *Store) MaxID() (int, error) {
	maxID := 0
	err := s.scanData(func(line string) bool {
		if id, ok := leadingID(line); ok && id > maxID {
			maxID = id
		}
		return true
	})
	if errors.Is(err, storage.ErrNoStore) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("MaxID: %w", err)
	}
	return maxID, nil
}
