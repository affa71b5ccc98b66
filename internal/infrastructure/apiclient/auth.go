package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// Login calls POST /auth/login. Auth endpoints never carry a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var resp loginResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		route:  "/auth/login",
		path:   "/auth/login",
		body:   credentialsRequest{Username: username, Password: password},
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if resp.AccessToken == "" {
		return "", errors.New("login: backend returned no access token")
	}
	return resp.AccessToken, nil
}

// Register calls POST /auth/register.
func (c *Client) Register(ctx context.Context, username, password string) error {
	err := c.do(ctx, request{
		method: http.MethodPost,
		route:  "/auth/register",
		path:   "/auth/register",
		body:   credentialsRequest{Username: username, Password: password},
	}, nil)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}
