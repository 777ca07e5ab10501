package models

import "fmt"

// Principal is an authenticated identity and its roles.
// It is resolved per request and never persisted.
type Principal struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// NewPrincipal creates a Principal with its own copy of roles
func NewPrincipal(username string, roles ...string) *Principal {
	return &Principal{
		Username: username,
		Roles:    append([]string{}, roles...),
	}
}

// HasRole checks if the principal has a specific role
func (p *Principal) HasRole(role string) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole checks if the principal has any of the specified roles
func (p *Principal) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if p.HasRole(role) {
			return true
		}
	}
	return false
}

// Credentials is a username/password pair presented at login
type Credentials struct {
	Username string
	Password string
}

// String redacts the password so credentials are safe to print
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{Username: %q, Password: <redacted>}", c.Username)
}

// GoString redacts the password for %#v
func (c Credentials) GoString() string {
	return c.String()
}
