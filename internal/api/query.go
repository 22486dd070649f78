// ABOUTME: Typed decoding of request query parameters
// ABOUTME: Collects every missing or malformed parameter into one ValidationError

package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/cs156/campus-api/internal/entities"
)

// Query reads typed parameters from a URL query. Problems are collected and
// reported together by Err, so callers can decode every field and check once.
type Query struct {
	values   url.Values
	problems []string
}

// NewQuery wraps the parsed query values.
func NewQuery(values url.Values) *Query {
	return &Query{values: values}
}

func (q *Query) raw(name string) (string, bool) {
	vs, ok := q.values[name]
	if !ok || len(vs) == 0 {
		q.problems = append(q.problems, fmt.Sprintf("Required parameter '%s' is not present", name))
		return "", false
	}
	return vs[0], true
}

func (q *Query) invalid(name, kind, value string) {
	q.problems = append(q.problems, fmt.Sprintf("Parameter '%s' must be %s, got %q", name, kind, value))
}

// String returns a required text parameter. An empty value is allowed.
func (q *Query) String(name string) string {
	v, _ := q.raw(name)
	return v
}

// Bool returns a required boolean parameter.
func (q *Query) Bool(name string) bool {
	v, ok := q.raw(name)
	if !ok {
		return false
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		q.invalid(name, "a boolean", v)
		return false
	}
	return b
}

// Int returns a required 32-bit integer parameter.
func (q *Query) Int(name string) int {
	v, ok := q.raw(name)
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 32)
	if err != nil {
		q.invalid(name, "an integer", v)
		return 0
	}
	return int(n)
}

// Int64 returns a required 64-bit integer parameter.
func (q *Query) Int64(name string) int64 {
	v, ok := q.raw(name)
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		q.invalid(name, "an integer", v)
		return 0
	}
	return n
}

// DateTime returns a required ISO-8601 date-time parameter.
func (q *Query) DateTime(name string) entities.DateTime {
	v, ok := q.raw(name)
	if !ok {
		return entities.DateTime{}
	}
	d, err := entities.ParseDateTime(v)
	if err != nil {
		q.invalid(name, "an ISO-8601 date-time", v)
		return entities.DateTime{}
	}
	return d
}

// OptionalDateTime returns the date-time parameter, or the zero value when
// absent or empty.
func (q *Query) OptionalDateTime(name string) entities.DateTime {
	if q.values.Get(name) == "" {
		return entities.DateTime{}
	}
	return q.DateTime(name)
}

// Err returns the collected problems as a ValidationError, or nil.
func (q *Query) Err() error {
	if len(q.problems) == 0 {
		return nil
	}
	return &ValidationError{Message: strings.Join(q.problems, "; ")}
}
