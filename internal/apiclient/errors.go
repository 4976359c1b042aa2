package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type Kind int

const (
	KindTransport Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	default:
		return "server"
	}
}

// Error is every failure the client returns. Body keeps the API's payload
// exactly as received.
type Error struct {
	Kind    Kind
	Status  int
	Method  string
	Path    string
	Message string
	Fields  map[string]string
	Body    []byte
	Err     error
}

func (e *Error) Error() string {
	if e.Kind == KindTransport {
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	}
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

func kindOf(status int) Kind {
	switch status {
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	default:
		return KindServer
	}
}

// errorPayload covers the error bodies the API is known to send:
// {"message": "...", "errors": {"field": "..."}} or {"error": "..."}.
type errorPayload struct {
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Errors  json.RawMessage `json:"errors"`
}

func newStatusError(method, path string, status int, body []byte) *Error {
	e := &Error{
		Kind:   kindOf(status),
		Status: status,
		Method: method,
		Path:   path,
		Body:   body,
	}

	var p errorPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return e
	}
	e.Message = strings.TrimSpace(p.Message)
	if e.Message == "" {
		e.Message = strings.TrimSpace(p.Error)
	}
	e.Fields = parseFields(p.Errors)
	return e
}

func parseFields(raw json.RawMessage) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	var byField map[string]string
	if err := json.Unmarshal(raw, &byField); err == nil && len(byField) > 0 {
		return byField
	}
	var list []struct {
		Field   string `json:"field"`
		Path    string `json:"path"`
		Message string `json:"message"`
		Msg     string `json:"msg"`
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	out := make(map[string]string, len(list))
	for _, f := range list {
		name := f.Field
		if name == "" {
			name = f.Path
		}
		msg := f.Message
		if msg == "" {
			msg = f.Msg
		}
		if name != "" {
			out[name] = msg
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func is(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

func IsUnauthorized(err error) bool { return is(err, KindUnauthorized) }
func IsForbidden(err error) bool    { return is(err, KindForbidden) }
func IsNotFound(err error) bool     { return is(err, KindNotFound) }
func IsValidation(err error) bool   { return is(err, KindValidation) }
func IsTransport(err error) bool    { return is(err, KindTransport) }

// Message returns the API's own message for err when it sent one, otherwise
// fallback.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}

func Fields(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
