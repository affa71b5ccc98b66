package domain

import "time"

// User is an account held by the backend.
type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Identity returns the claims a token issued for u carries.
func (u User) Identity() Identity {
	return Identity{Username: u.Username, Role: u.Role}
}
