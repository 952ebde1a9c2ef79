// Package flatfile provides the semicolon-delimited text file
// implementation of the storage.Storage interface.
//
// FILE LAYOUT:
// ────────────
//
//	id;nome;email;senha;nivel;curso;turma;idade;np1;np2;pim;media;atividade
//	1;Administrador;admin@admin.com;admin;Administrador;Sistema;Geral;30;0;0;0;0;Ativo
//
// The first line is always the header. Every other line is one user.
// Lines that do not parse are skipped by reads and kept verbatim by
// rewrites, so a hand-edited file never loses data through this package.
//
// CONCURRENCY:
// ────────────
// A Store assumes it is the only writer of its file. There is no lock,
// neither in-process nor on the file; two processes mutating the same
// store can lose each other's changes.
package flatfile

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aanand-mishra/academico/internal/config"
	"github.com/aanand-mishra/academico/internal/storage"
)

var _ storage.Storage = (*Store)(nil)

// Store is the concrete implementation of storage.Storage. It holds no
// open file: every operation opens, reads or writes, and closes before
// returning.
type Store struct {
	path      string
	backupDir string
	log       *slog.Logger
	now       func() time.Time
}

// Option customises a Store built by New.
type Option func(*Store)

// WithLogger sets the logger used for the one-line diagnostics of each
// major outcome (record added, record not found, backup created).
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithClock replaces time.Now when naming backups.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns a Store for the file at cfg.StoragePath, backing up into
// cfg.BackupDir. It does not touch the filesystem; call EnsureSeeded to
// create a missing store.
func New(cfg *config.Config, opts ...Option) (*Store, error) {
	if cfg.StoragePath == "" {
		return nil, errors.New("flatfile.New: storage path is empty")
	}

	backupDir := cfg.BackupDir
	if backupDir == "" {
		backupDir = filepath.Join(filepath.Dir(cfg.StoragePath), "backups")
	}

	s := &Store{
		path:      cfg.StoragePath,
		backupDir: backupDir,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the store file path.
func (s *Store) Path() string { return s.path }

// EnsureSeeded writes the header and the default administrator when the
// store file does not exist yet. An existing file is never modified.
func (s *Store) EnsureSeeded() (bool, error) {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("EnsureSeeded: create dir: %w", err)
		}
	}

	// O_EXCL: never clobber a store created between our check and now.
	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("EnsureSeeded: create store: %w", err)
	}

	if _, err := io.WriteString(f, Header+"\n"+adminLine+"\n"); err != nil {
		f.Close()
		os.Remove(s.path)
		return false, fmt.Errorf("EnsureSeeded: write store: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(s.path)
		return false, fmt.Errorf("EnsureSeeded: close store: %w", err)
	}

	s.log.Info("store created with default administrator",
		slog.String("path", s.path),
		slog.String("email", "admin@admin.com"))
	return true, nil
}
