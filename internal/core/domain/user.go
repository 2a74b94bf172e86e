package domain

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"
)

// Role is the authorization level carried by a user and its tokens.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("username already exists")
var ErrInvalidCredentials = errors.New("invalid username or password")

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User models an account that can log in.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

const (
	// MinPasswordLength counts characters.
	MinPasswordLength = 4
	// MaxPasswordBytes is bcrypt's input limit.
	MaxPasswordBytes = 72
)

// ValidateRegistration applies the account shape rules used by every
// registration path, HTTP or CLI.
func ValidateRegistration(username, password string, role Role) error {
	verr := &ValidationError{}
	if username == "" {
		verr.Add("username", "username is required")
	}
	switch {
	case password == "":
		verr.Add("password", "password is required")
	case utf8.RuneCountInString(password) < MinPasswordLength:
		verr.Add("password", fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	case len(password) > MaxPasswordBytes:
		verr.Add("password", fmt.Sprintf("password must be at most %d bytes", MaxPasswordBytes))
	}
	if !role.Valid() {
		verr.Add("role", "role must be one of: ADMIN USER")
	}
	return verr.OrNil()
}
