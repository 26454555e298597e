// Package errs defines the error shapes returned to API clients.
//
// Every failure that reaches the global error handler is rendered as an
// HTTPError so clients always receive the same JSON structure:
//
//	{"code":"NOT_FOUND","message":"Brainlog Entry not found","status":404,...}
package errs

import "strings"

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// Action is an optional hint telling the client what to do next.
type Action struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Value   string `json:"value"`
}

// HTTPError is the error type understood by the global error handler.
//
// Code is machine readable (e.g. "BRAINLOG_ENTRY_TYPE_ALREADY_EXISTS"),
// Message is meant for humans. Override tells the frontend it may show
// Message to the user verbatim.
type HTTPError struct {
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Status   int          `json:"status"`
	Override bool         `json:"override"`
	Errors   []FieldError `json:"errors"`
	Action   *Action      `json:"action"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

// Is matches any *HTTPError regardless of its fields.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// MakeUpperCaseWithUnderscores turns "Bad Request" into "BAD_REQUEST".
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
