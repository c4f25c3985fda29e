package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/irsalhamdi/marble-store/api/web"
	"github.com/irsalhamdi/marble-store/api/weberr"
	"github.com/irsalhamdi/marble-store/rate"
)

// RateLimit rejects requests once the remote address has used up its
// token bucket.
func RateLimit(l *rate.Limiter) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			if !l.Check(clientIP(r)) {
				return weberr.TooManyRequests(errors.New("client exceeded its rate limit"))
			}
			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
