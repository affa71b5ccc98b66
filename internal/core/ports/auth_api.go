package ports

import "context"

// AuthAPI is the remote authentication endpoint set.
type AuthAPI interface {
	// Login exchanges credentials for a bearer token.
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, username, password string) error
}
