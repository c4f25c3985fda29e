package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/irsalhamdi/marble-store/api/weberr"
)

// StatusError is a non-2xx answer of the backend.
type StatusError struct {
	Status  int
	Message string
}

func newStatusError(status int, body []byte) *StatusError {
	var m struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.Unmarshal(body, &m)

	msg := m.Message
	if msg == "" {
		msg = m.Error
	}
	return &StatusError{Status: status, Message: msg}
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend responded %d", e.Status)
	}
	return fmt.Sprintf("backend responded %d: %s", e.Status, e.Message)
}

// Response renders the error for the storefront's clients. Client errors
// are relayed, server errors become a bad gateway.
func (e *StatusError) Response() (interface{}, int) {
	switch {
	case e.Status == http.StatusNotFound:
		return &weberr.ErrorResponse{Error: "the resource could not be found"}, http.StatusNotFound
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		return &weberr.ErrorResponse{Error: "not authorized to access resource"}, e.Status
	case e.Status < http.StatusInternalServerError:
		msg := e.Message
		if msg == "" {
			msg = "bad request"
		}
		return &weberr.ErrorResponse{Error: msg}, e.Status
	default:
		return &weberr.ErrorResponse{Error: "the catalog service failed to process the request"}, http.StatusBadGateway
	}
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == http.StatusNotFound
}

var ErrNoImageURL = errors.New("upload response carries no image url")
