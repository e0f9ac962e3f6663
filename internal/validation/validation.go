// Package validation implements the request validation rule chains used
// by the HTTP handlers. A chain is an ordered list of pure predicates;
// the runner executes them in order and stops at the first rejection, so
// later rules never observe input an earlier rule refused. Rules never
// mutate state.
package validation

import "net/http"

// Rejection is a typed refusal produced by a rule. Code is the HTTP
// status class the boundary should answer with and Message names the
// offending field or rule in user-readable form.
type Rejection struct {
	Code    int
	Message string
}

func (r *Rejection) Error() string { return r.Message }

// BadRequest builds a 400-class rejection.
func BadRequest(message string) *Rejection {
	return &Rejection{Code: http.StatusBadRequest, Message: message}
}

// NotFound builds a 404-class rejection.
func NotFound(message string) *Rejection {
	return &Rejection{Code: http.StatusNotFound, Message: message}
}

// Internal builds a 500-class rejection for persistence failures. The
// message is deliberately opaque; details belong in the server log.
func Internal() *Rejection {
	return &Rejection{Code: http.StatusInternalServerError, Message: "database error"}
}

// Rule is a single step in a validation chain. A nil return accepts and
// hands control to the next rule.
type Rule func() *Rejection

// Run executes rules in order and returns the first rejection, or nil
// when every rule accepts.
func Run(rules ...Rule) *Rejection {
	for _, rule := range rules {
		if rej := rule(); rej != nil {
			return rej
		}
	}
	return nil
}
