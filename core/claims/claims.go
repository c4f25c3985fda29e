package claims

import (
	"context"
	"errors"
)

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// Claims identify the signed-in visitor of a request. Token is the
// backend bearer token issued at login.
type Claims struct {
	UserID string
	Name   string
	Email  string
	Role   string
	Token  string
}

// Authorization is the header value that forwards the visitor's
// identity to the backend, or "" when there is no token.
func (c Claims) Authorization() string {
	if c.Token == "" {
		return ""
	}
	return "Bearer " + c.Token
}

type ctxKey int

const claimsKey ctxKey = 1

func Set(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func Get(ctx context.Context) (Claims, error) {
	v, ok := ctx.Value(claimsKey).(Claims)
	if !ok {
		return Claims{}, errors.New("claim value missing from context")
	}
	return v, nil
}
