// ABOUTME: Tests for typed query parameter decoding
// ABOUTME: Covers required, malformed, and optional parameters

package api

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cs156/campus-api/internal/entities"
)

func TestQuery_Valid(t *testing.T) {
	q := NewQuery(url.Values{
		"s":  {""},
		"b":  {"true"},
		"i":  {"42"},
		"l":  {"9000000000"},
		"dt": {"2022-01-03T00:00"},
	})

	assert.Equal(t, "", q.String("s"))
	assert.True(t, q.Bool("b"))
	assert.Equal(t, 42, q.Int("i"))
	assert.Equal(t, int64(9000000000), q.Int64("l"))
	assert.True(t, entities.NewDateTime(2022, time.January, 3, 0, 0, 0).Equal(q.DateTime("dt")))
	assert.True(t, q.OptionalDateTime("absent").IsZero())
	require.NoError(t, q.Err())
}

func TestQuery_CollectsProblems(t *testing.T) {
	q := NewQuery(url.Values{
		"b":  {"maybe"},
		"i":  {"9000000000"},
		"dt": {"later"},
		"z":  {"0001-01-01T00:00"},
	})

	q.String("missing")
	q.Bool("b")
	q.Int("i")
	q.DateTime("dt")
	q.OptionalDateTime("dt")
	q.DateTime("z")

	err := q.Err()
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Message, "Required parameter 'missing' is not present")
	assert.Contains(t, ve.Message, "'b' must be a boolean")
	assert.Contains(t, ve.Message, "'i' must be an integer")
	assert.Contains(t, ve.Message, "'dt' must be an ISO-8601 date-time")
	assert.Contains(t, ve.Message, "'z' must be an ISO-8601 date-time")
}
