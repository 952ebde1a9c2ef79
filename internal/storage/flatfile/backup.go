package flatfile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// backupStamp names backups at one-second resolution.
const backupStamp = "20060102_150405"

// Snapshot copies the full store file into the backup directory as
// <name>_backup_YYYYMMDD_HHMMSS<ext> and returns the new file's path.
//
// A missing store is not an error: Snapshot returns "" and nil.
//
// Two snapshots within the same second share a name and the later one
// overwrites the earlier; this is logged as a warning but not avoided.
func (s *Store) Snapshot() (string, error) {
	src, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("Snapshot: open store: %w", err)
	}
	defer src.Close()

	if err := os.MkdirAll(s.backupDir, 0o700); err != nil {
		return "", fmt.Errorf("Snapshot: create backup dir: %w", err)
	}

	dest := s.backupPath()
	if _, err := os.Stat(dest); err == nil {
		s.log.Warn("backup overwrites a snapshot taken in the same second",
			slog.String("path", dest))
	}

	dst, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("Snapshot: create backup: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("Snapshot: copy: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("Snapshot: close backup: %w", err)
	}

	s.log.Info("backup created", slog.String("path", dest))
	return dest, nil
}

func (s *Store) backupPath() string {
	base := filepath.Base(s.path)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext) + "_backup_" + s.now().Format(backupStamp) + ext
	return filepath.Join(s.backupDir, name)
}
