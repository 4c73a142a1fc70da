package session

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// tokenExpired reports whether a stored bearer token is locally known
// to be dead. The signature is not verified here; the client has no
// secret and the backend re-validates every request anyway. This only
// exists to skip a doomed profile fetch on bootstrap.
//
// A token that cannot be decoded counts as expired: a credential we
// cannot reason about must not gate the authenticated state.
func tokenExpired(token string, now time.Time) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Time.Before(now)
}
