// Package sqlite provides the reporting mirror: a SQLite copy of the
// flat-file store that answers aggregate questions with SQL.
//
// WHY A MIRROR?
// ─────────────
// The flat file is the only source of truth, and every read of it is a
// full scan. Grouping students by class is a one-line GROUP BY once the
// records sit in a table, so the report command copies them in with
// Sync and queries the copy. Nothing ever writes back to the flat file
// from here.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/aanand-mishra/academico/internal/config"
	"github.com/aanand-mishra/academico/internal/storage"
	"github.com/aanand-mishra/academico/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

var _ storage.Reporter = (*SQLite)(nil)

// SQLite is the concrete implementation of storage.Reporter.
// It holds a *sql.DB which is a connection pool managed by database/sql.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at cfg.ReportPath, creates the users
// table if it does not already exist, and returns a ready-to-use *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	db, err := sql.Open("sqlite3", cfg.ReportPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	// Same columns as the store file. id is not a primary key: the
	// mirror copies whatever the file holds, duplicates included.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id        INTEGER NOT NULL,
			nome      TEXT    NOT NULL,
			email     TEXT    NOT NULL,
			nivel     TEXT    NOT NULL,
			curso     TEXT    NOT NULL,
			turma     TEXT    NOT NULL,
			idade     INTEGER NOT NULL,
			np1       REAL    NOT NULL,
			np2       REAL    NOT NULL,
			pim       REAL    NOT NULL,
			media     REAL    NOT NULL,
			atividade TEXT    NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// ─────────────────────────────────────────────────────────────────────────────
// Sync replaces every row of the mirror with users, inside one
// transaction: readers see either the old copy or the new one.
//
// Passwords are not copied; the report never needs them.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) Sync(users []types.User) (err error) {
	tx, err := s.Db.Begin()
	if err != nil {
		return fmt.Errorf("Sync: begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err := tx.Exec("DELETE FROM users"); err != nil {
		return fmt.Errorf("Sync: clear: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO users (id, nome, email, nivel, curso, turma, idade, np1, np2, pim, media, atividade)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("Sync: prepare: %w", err)
	}
	defer stmt.Close()

	for _, u := range users {
		if _, err := stmt.Exec(u.ID, u.Name, u.Email, u.Role, u.Course, u.Class,
			u.Age, u.NP1, u.NP2, u.PIM, u.Average, u.Status); err != nil {
			return fmt.Errorf("Sync: insert id %d: %w", u.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Sync: commit: %w", err)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// ClassSummaries returns, for every class that has students, the course
// of its first student (lowest id), the number of students and their
// mean average rounded to two decimals, ordered by class.
//
// A student is a row whose role is "Aluno", compared case-insensitively.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) ClassSummaries() ([]types.ClassSummary, error) {
	rows, err := s.Db.Query(`
		SELECT u.turma,
		       (SELECT f.curso FROM users f
		         WHERE f.turma = u.turma AND LOWER(f.nivel) = LOWER(?)
		         ORDER BY f.id LIMIT 1),
		       COUNT(*),
		       AVG(u.media)
		  FROM users u
		 WHERE LOWER(u.nivel) = LOWER(?)
		 GROUP BY u.turma
		 ORDER BY u.turma
	`, types.RoleStudent, types.RoleStudent)
	if err != nil {
		return nil, fmt.Errorf("ClassSummaries: query: %w", err)
	}
	defer rows.Close()

	summaries := make([]types.ClassSummary, 0)
	for rows.Next() {
		var cs types.ClassSummary
		if err := rows.Scan(&cs.Class, &cs.Course, &cs.Students, &cs.Average); err != nil {
			return nil, fmt.Errorf("ClassSummaries: scan row: %w", err)
		}
		cs.Average = types.Round2(cs.Average)
		summaries = append(summaries, cs)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ClassSummaries: rows iteration: %w", err)
	}
	return summaries, nil
}
