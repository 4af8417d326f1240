package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for raw, want := range map[string]Role{
		"student":   RoleStudent,
		"TEACHER":   RoleTeacher,
		" society ": RoleSociety,
	} {
		got, err := ParseRole(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got)
	}

	for _, raw := range []string{"", "admin", "students"} {
		_, err := ParseRole(raw)
		assert.Error(t, err, raw)
	}
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleStudent.Valid())
	assert.True(t, RoleTeacher.Valid())
	assert.True(t, RoleSociety.Valid())
	assert.False(t, Role("admin").Valid())
	assert.False(t, Role("").Valid())
}

func TestRequiresCampusEmail(t *testing.T) {
	assert.True(t, RoleStudent.RequiresCampusEmail())
	assert.True(t, RoleTeacher.RequiresCampusEmail())
	assert.False(t, RoleSociety.RequiresCampusEmail())
}

func TestUserProfileOmitsHash(t *testing.T) {
	u := User{ID: "u1", Name: "Avery", Email: "avery@campus.edu", PasswordHash: "hash", Role: RoleStudent}
	p := u.Profile()
	assert.Equal(t, Profile{ID: "u1", Name: "Avery", Email: "avery@campus.edu", Role: RoleStudent}, p)
}
