package domain

import "strings"

// Role is the authorization level carried by a credential.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Identity models the authenticated actor. A nil *Identity means anonymous.
type Identity struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Validate checks the structural invariants of a decoded or restored identity.
func (i Identity) Validate() error {
	if strings.TrimSpace(i.Username) == "" {
		return ErrMalformedCredential
	}
	if !i.Role.Valid() {
		return ErrMalformedCredential
	}
	return nil
}

// IsAdmin reports whether the identity carries the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// SameIdentity reports whether a and b describe the same actor. Two nil
// identities are the same (both anonymous).
func SameIdentity(a, b *Identity) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Username == b.Username && a.Role == b.Role
}

// Credential is a bearer token plus the claims decoded from it.
type Credential struct {
	Token    string
	Identity Identity
}

// PersistedCredential is the raw durable record: the bearer token and the
// JSON-serialized identity, stored under two keys that are written and
// cleared together.
type PersistedCredential struct {
	Token    string
	Identity string
}

// Empty reports whether nothing was persisted.
func (p PersistedCredential) Empty() bool {
	return p.Token == "" && p.Identity == ""
}
