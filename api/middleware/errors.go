package middleware

import (
	"context"
	"net/http"

	"github.com/irsalhamdi/marble-store/api/web"
	"github.com/irsalhamdi/marble-store/api/weberr"
	"github.com/sirupsen/logrus"
)

// Errors logs handler errors and writes the response they carry, or a
// generic internal error.
func Errors(log logrus.FieldLogger) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {

			err := handler(ctx, w, r)
			if err == nil {
				return nil
			}

			fields := logrus.Fields{
				"req_id":  ContextRequestID(ctx),
				"message": err,
			}
			if f, ok := weberr.Fields(err); ok {
				for k, v := range f {
					fields[k] = v
				}
			}

			body, code, ok := weberr.Response(err)
			if ok && code < http.StatusInternalServerError {
				log.WithFields(fields).Warn("ERROR")
			} else {
				log.WithFields(fields).Error("ERROR")
			}

			if ok {
				return web.Respond(ctx, w, body, code)
			}

			er := weberr.ErrorResponse{
				Error: http.StatusText(http.StatusInternalServerError),
			}
			return web.Respond(ctx, w, er, http.StatusInternalServerError)
		}
		return h
	}
	return m
}
