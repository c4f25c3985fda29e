package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/irsalhamdi/marble-store/api/web"
)

const (
	RequestIDHeader = "X-Request-Id"

	DefaultRequestIDLengthLimit = 128
)

type reqIDKeyCtx int

const reqIDKey reqIDKeyCtx = 1

// RequestID tags the request with the client's X-Request-Id, or a fresh
// UUID when it is absent or unprintable, and echoes it on the response.
func RequestID() web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			id := r.Header.Get(RequestIDHeader)
			if len(id) > DefaultRequestIDLengthLimit {
				id = id[:DefaultRequestIDLengthLimit]
			}
			if id == "" || strings.IndexFunc(id, unprintable) >= 0 {
				id = uuid.NewString()
			}

			ctx = context.WithValue(ctx, reqIDKey, id)
			w.Header().Set(RequestIDHeader, id)

			return handler(ctx, w, r)
		}
		return h
	}
	return m
}

func unprintable(r rune) bool { return r < 0x21 || r > 0x7e }

func ContextRequestID(ctx context.Context) string {
	id, _ := ctx.Value(reqIDKey).(string)
	return id
}
