package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/academico/internal/types"
)

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"admin@admin.com", true},
		{"a@b.c", true},
		{"first.last@uni.edu.br", true},
		{"", false},
		{"@admin.com", false},
		{"admin.com", false},
		{"admin@", false},
		{"admin@.com", false},
		{"admin@admin", false},
		{"admin@admin.", false},
		{"a@b.c.", false},
		{"a@b.c.d", true},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidEmail(tt.email))
		})
	}
}

func TestCheck_Valid(t *testing.T) {
	u := types.User{Name: "Ana", Email: "ana@uni.br", Password: "x", Role: types.RoleStudent}
	assert.NoError(t, Check(u))
}

func TestCheck_ListsEveryField(t *testing.T) {
	u := types.User{Email: "not-an-email", Age: -1}

	err := Check(u)
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "field Name is required")
	assert.Contains(t, msg, "field Email must be a valid email address")
	assert.Contains(t, msg, "field Password is required")
	assert.Contains(t, msg, "field Role is required")
	assert.Contains(t, msg, "field Age must be at least 0")
}

func TestCheck_NotAStruct(t *testing.T) {
	assert.Error(t, Check(42))
}

func TestCheck_RejectsDelimiters(t *testing.T) {
	for _, bad := range []string{"A;B", "A\nB", "A\rB"} {
		u := types.User{Name: bad, Email: "ana@uni.br", Password: "x", Role: types.RoleStudent}
		err := Check(u)
		require.Error(t, err, "%q", bad)
		assert.Contains(t, err.Error(), "field Name must not contain")
	}
}
