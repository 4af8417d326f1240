package model

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of account types. Any role-dependent behavior must
// switch over all three constants so adding a role is a compile-visible change.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleSociety Role = "society"
)

func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleTeacher:
		return RoleTeacher, nil
	case RoleSociety:
		return RoleSociety, nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleSociety:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}

// RequiresCampusEmail reports whether signups for this role must use an
// institutional email domain. Society accounts are run by external organizers.
func (r Role) RequiresCampusEmail() bool {
	switch r {
	case RoleStudent, RoleTeacher:
		return true
	case RoleSociety:
		return false
	default:
		return false
	}
}

// User is the stored account record. Email is unique case-insensitively.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile is the client-facing view of a user, never carrying the hash.
type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (u User) Profile() Profile {
	return Profile{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// AuthResult is the payload returned by signup and login.
type AuthResult struct {
	User  Profile `json:"user"`
	Token string  `json:"token"`
}
