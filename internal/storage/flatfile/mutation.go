package flatfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/aanand-mishra/academico/internal/storage"
	"github.com/aanand-mishra/academico/internal/types"
	"github.com/aanand-mishra/academico/internal/utils/validation"
)

// ─────────────────────────────────────────────────────────────────────────────
// Add validates candidate, assigns it the next id and appends it to the
// store.
//
// ORDER OF CHECKS:
// ────────────────
//  1. Field validation and the duplicate-email scan. A failure here
//     returns storage.ErrInvalidRecord or storage.ErrEmailTaken and
//     leaves both the store and the backup directory untouched.
//  2. id = MaxID() + 1, empty status becomes types.DefaultStatus.
//  3. Snapshot, then append one formatted line.
//
// The candidate's own ID is ignored.
// ─────────────────────────────────────────────────────────────────────────────
func (s *Store) Add(candidate types.User) (types.User, error) {
	u := normalize(candidate)
	if err := validation.Check(u); err != nil {
		return types.User{}, fmt.Errorf("Add: %w: %s", storage.ErrInvalidRecord, err.Error())
	}

	taken, err := s.EmailExists(u.Email)
	if err != nil {
		return types.User{}, fmt.Errorf("Add: %w", err)
	}
	if taken {
		return types.User{}, fmt.Errorf("Add: %s: %w", u.Email, storage.ErrEmailTaken)
	}

	maxID, err := s.MaxID()
	if err != nil {
		return types.User{}, fmt.Errorf("Add: %w", err)
	}
	u.ID = maxID + 1

	if _, err := s.Snapshot(); err != nil {
		return types.User{}, fmt.Errorf("Add: %w", err)
	}
	line, u := canonical(u)
	if err := s.appendLine(line); err != nil {
		return types.User{}, fmt.Errorf("Add: %w", err)
	}

	s.log.Info("user added", slog.Int("id", u.ID), slog.String("email", u.Email))
	return u, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// UpdateByID replaces the first record whose id is id with replacement,
// keeping id. Every other line, the header included, is written back
// byte for byte.
//
// The replacement is validated first, and its email must not belong to
// a record with a different id; those failures take no backup. After
// that the snapshot is unconditional: it is taken before the id is
// looked up, so an update of a missing id still leaves a backup behind.
//
// The new content is staged in a temporary file next to the store and
// renamed over it, so a crash mid-write never leaves a truncated store.
// ─────────────────────────────────────────────────────────────────────────────
func (s *Store) UpdateByID(id int, replacement types.User) (types.User, error) {
	u := normalize(replacement)
	u.ID = id
	if err := validation.Check(u); err != nil {
		return types.User{}, fmt.Errorf("UpdateByID: %w: %s", storage.ErrInvalidRecord, err.Error())
	}

	taken, err := s.emailUsed(u.Email, func(other types.User) bool { return other.ID != id })
	if err != nil {
		return types.User{}, fmt.Errorf("UpdateByID: %w", err)
	}
	if taken {
		return types.User{}, fmt.Errorf("UpdateByID: %s: %w", u.Email, storage.ErrEmailTaken)
	}

	if _, err := s.Snapshot(); err != nil {
		return types.User{}, fmt.Errorf("UpdateByID: %w", err)
	}

	lines, err := s.readLines()
	if err != nil {
		return types.User{}, fmt.Errorf("UpdateByID: %w", err)
	}

	i := indexOf(lines, id)
	if i < 0 {
		s.log.Info("user not found", slog.Int("id", id))
		return types.User{}, fmt.Errorf("no user found with id: %d: %w", id, storage.ErrNotFound)
	}
	lines[i], u = canonical(u)

	tmp, err := s.stage(lines)
	if err != nil {
		return types.User{}, fmt.Errorf("UpdateByID: %w", err)
	}
	if err := s.commit(tmp); err != nil {
		return types.User{}, fmt.Errorf("UpdateByID: %w", err)
	}

	s.log.Info("user updated", slog.Int("id", id))
	return u, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// DeleteByID removes the first record whose id is id. The header and
// every other line, unparseable ones included, are kept in order.
//
// When no record matches, nothing is written and no backup is taken.
// Otherwise the remaining lines are staged in a temporary file, the
// store is snapshotted, and the temporary file is renamed over it.
// ─────────────────────────────────────────────────────────────────────────────
func (s *Store) DeleteByID(id int) error {
	lines, err := s.readLines()
	if err != nil {
		return fmt.Errorf("DeleteByID: %w", err)
	}

	i := indexOf(lines, id)
	if i < 0 {
		s.log.Info("user not found", slog.Int("id", id))
		return fmt.Errorf("no user found with id: %d: %w", id, storage.ErrNotFound)
	}
	kept := append(lines[:i:i], lines[i+1:]...)

	tmp, err := s.stage(kept)
	if err != nil {
		return fmt.Errorf("DeleteByID: %w", err)
	}
	if _, err := s.Snapshot(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("DeleteByID: %w", err)
	}
	if err := s.commit(tmp); err != nil {
		return fmt.Errorf("DeleteByID: %w", err)
	}

	s.log.Info("user deleted", slog.Int("id", id))
	return nil
}

// SetStatus changes only the status column of the record with id, for
// example to types.StatusInactive. It goes through UpdateByID, so it
// takes a backup and rewrites the store the same way.
func (s *Store) SetStatus(id int, status string) (types.User, error) {
	u, err := s.FindByID(id)
	if err != nil {
		return types.User{}, fmt.Errorf("SetStatus: %w", err)
	}
	u.Status = status
	return s.UpdateByID(id, u)
}

// normalize trims the text fields the same way Parse does on read, so
// the stored record equals what later reads return.
func normalize(u types.User) types.User {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(u.Email)
	u.Password = strings.TrimSpace(u.Password)
	u.Role = strings.TrimSpace(u.Role)
	u.Course = strings.TrimSpace(u.Course)
	u.Class = strings.TrimSpace(u.Class)
	u.Status = strings.TrimSpace(u.Status)
	if u.Status == "" {
		u.Status = types.DefaultStatus
	}
	return u
}

// canonical formats u and reads the line back, so the record returned to
// the caller is the one later reads see: scores rounded to two decimals.
func canonical(u types.User) (string, types.User) {
	line := Format(u)
	if back, ok := Parse(line); ok {
		return line, back
	}
	return line, u
}

// indexOf returns the index of the first data line whose record has id,
// or -1. Line 0 is the header and never matches; unparseable lines
// never match either.
func indexOf(lines []string, id int) int {
	for i := 1; i < len(lines); i++ {
		if u, ok := Parse(lines[i]); ok && u.ID == id {
			return i
		}
	}
	return -1
}

// readLines loads the whole store as lines that keep their own line
// endings, so writing them back unchanged reproduces the file exactly.
func (s *Store) readLines() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, storage.ErrNoStore
	}
	if err != nil {
		return nil, fmt.Errorf("read store: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	lines := strings.SplitAfter(string(data), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}

// stage writes lines to a new temporary file in the store's directory
// and returns its path. The file is synced and closed; on any error it
// is removed.
func (s *Store) stage(lines []string) (path string, err error) {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	// Keep the store's permissions; CreateTemp uses 0600.
	if info, statErr := os.Stat(s.path); statErr == nil {
		if err := tmp.Chmod(info.Mode().Perm()); err != nil {
			return "", fmt.Errorf("chmod temp file: %w", err)
		}
	}

	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		if _, err := w.WriteString(line); err != nil {
			return "", fmt.Errorf("write temp file: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return "", fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return tmp.Name(), nil
}

// commit renames a staged file over the store. os.Rename replaces the
// destination on every platform Go supports, so no remove-then-rename
// window exists. On failure the staged file is removed.
func (s *Store) commit(tmp string) error {
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

// appendLine appends line to the store, creating the file with its
// header when it is missing or empty, and adding a newline first when
// the last line was left unterminated.
func (s *Store) appendLine(line string) error {
	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("open store for append: %w", err)
	}

	prefix, err := appendPrefix(f)
	if err != nil {
		f.Close()
		return err
	}
	if _, err := io.WriteString(f, prefix+line); err != nil {
		f.Close()
		return fmt.Errorf("append to store: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}

// appendPrefix returns what must precede a new line in f: the header for
// an empty file, a newline when the last byte is not one, else nothing.
func appendPrefix(f *os.File) (string, error) {
	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat store: %w", err)
	}
	if info.Size() == 0 {
		return Header + "\n", nil
	}

	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return "", fmt.Errorf("read store tail: %w", err)
	}
	if last[0] != '\n' {
		return "\n", nil
	}
	return "", nil
}
