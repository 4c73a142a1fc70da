package api

import (
	"context"
	"net/http"

	"gymtag/client/internal/domain"
)

// LoginResult is the credential-exchange response shape shared by the
// password and Google sign-in flows.
type LoginResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Login exchanges email/password for a bearer token and profile.
// A 401 here maps to ErrInvalidCredentials and never tears the session
// down; the forced-logout rule exempts the login exchange itself.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var result LoginResult
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   map[string]string{"email": email, "password": password},
		out:    &result,
		noAuth: true,
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates an account. The backend returns only a token; the
// profile must be fetched separately.
func (c *Client) Register(ctx context.Context, name, email, password string) (string, error) {
	var result struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/register",
		body:   map[string]string{"name": name, "email": email, "password": password},
		out:    &result,
		noAuth: true,
	})
	if err != nil {
		return "", err
	}
	return result.Token, nil
}

// GoogleSignIn exchanges an external Google identity token for the same
// {token, user} shape as Login.
func (c *Client) GoogleSignIn(ctx context.Context, idToken string) (*LoginResult, error) {
	var result LoginResult
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/google",
		body:   map[string]string{"idToken": idToken},
		out:    &result,
		noAuth: true,
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RequestPasswordReset asks the backend to email a reset link.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/request-password-reset",
		body:   map[string]string{"email": email},
		noAuth: true,
	})
}

// ResetPassword completes a reset started by RequestPasswordReset.
func (c *Client) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	return c.do(ctx, request{
		method: http.MethodPut,
		path:   "/api/auth/reset-password/" + resetToken,
		body:   map[string]string{"password": newPassword},
		noAuth: true,
	})
}
