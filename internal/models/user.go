package models

import (
	"fmt"
	"strings"
)

// Role is the capability level of a user
type Role int

// Role constants
const (
	RoleStudent    Role = 1
	RoleInstructor Role = 2
	RoleAdmin      Role = 3
)

var roleNames = map[Role]string{
	RoleStudent:    "student",
	RoleInstructor: "instructor",
	RoleAdmin:      "admin",
}

// ParseRole converts a role name into a Role
func ParseRole(name string) (Role, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for role, roleName := range roleNames {
		if roleName == name {
			return role, nil
		}
	}
	return 0, NewError(ErrValidation, "unknown role %q", name)
}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// CanTeach reports whether the role may author courses, modules and lessons
func (r Role) CanTeach() bool {
	return r == RoleInstructor || r == RoleAdmin
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// MarshalText encodes the role as its name
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes a role name
func (r *Role) UnmarshalText(text []byte) error {
	role, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = role
	return nil
}

// User represents a user in the system
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Never serialize password hash
	Role         Role   `json:"role"`
}

// RegisterRequest represents a request to create an account
type RegisterRequest struct {
	Username string `json:"username" example:"ada"`
	Email    string `json:"email" example:"ada@example.com"`
	Password string `json:"password" example:"Str0ngPass!"`
}

// LoginRequest represents a request to log in with username or email
//
// Clients may send the identifier as "login", "email" or "username".
type LoginRequest struct {
	Login    string `json:"login,omitempty" example:"ada@example.com"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password" example:"Str0ngPass!"`
}

// Identifier returns the first non-empty of login, email and username
func (r *LoginRequest) Identifier() string {
	for _, value := range []string{r.Login, r.Email, r.Username} {
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return ""
}

// TokenResponse is returned after a successful register or login
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// StatusLoggedOut is returned by logout
const StatusLoggedOut = "Successfully logged out."

// ProfileResponse is the caller's own profile
type ProfileResponse struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Role         Role   `json:"role" swaggertype:"string" example:"instructor"`
	IsInstructor bool   `json:"is_instructor"`
}

// UpdateRoleRequest assigns a role to a user
type UpdateRoleRequest struct {
	Role Role `json:"role" swaggertype:"string" example:"instructor"`
}
