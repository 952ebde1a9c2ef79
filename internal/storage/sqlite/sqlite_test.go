package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/academico/internal/config"
	"github.com/aanand-mishra/academico/internal/types"
)

func newTestDB(t *testing.T) *SQLite {
	t.Helper()
	db, err := New(&config.Config{ReportPath: filepath.Join(t.TempDir(), "relatorio.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func student(id int, class, course string, average float64) types.User {
	return types.User{ID: id, Name: "s", Email: "s@x.y", Role: types.RoleStudent,
		Course: course, Class: class, Average: average, Status: types.StatusActive}
}

func TestClassSummaries(t *testing.T) {
	db := newTestDB(t)

	users := []types.User{
		{ID: 1, Name: "Administrador", Email: "admin@admin.com", Role: types.RoleAdmin, Class: "Geral", Average: 10},
		student(4, "T2", "Redes", 5),
		student(2, "T1", "ADS", 7),
		student(3, "T1", "BD", 8.5),
		{ID: 5, Name: "Prof", Email: "p@x.y", Role: types.RoleProfessor, Class: "T1", Average: 0},
		{ID: 6, Name: "Low", Email: "l@x.y", Role: "ALUNO", Course: "Redes", Class: "T2", Average: 6.34},
	}
	require.NoError(t, db.Sync(users))

	got, err := db.ClassSummaries()
	require.NoError(t, err)

	assert.Equal(t, []types.ClassSummary{
		{Class: "T1", Course: "ADS", Students: 2, Average: 7.75},
		{Class: "T2", Course: "Redes", Students: 2, Average: 5.67},
	}, got)
}

func TestSync_ReplacesPreviousCopy(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.Sync([]types.User{student(1, "T1", "ADS", 9), student(2, "T9", "ADS", 3)}))
	require.NoError(t, db.Sync([]types.User{student(3, "T1", "ADS", 5)}))

	got, err := db.ClassSummaries()
	require.NoError(t, err)
	assert.Equal(t, []types.ClassSummary{{Class: "T1", Course: "ADS", Students: 1, Average: 5}}, got)
}

func TestClassSummaries_Empty(t *testing.T) {
	db := newTestDB(t)

	got, err := db.ClassSummaries()
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}
