// ABOUTME: Generic CRUD handler set serving one Kind over its Repository
// ABOUTME: List, get, create, update, and delete, each behind a role gate

package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/cs156/campus-api/internal/auth"
	"github.com/cs156/campus-api/internal/idempotency"
	"github.com/cs156/campus-api/internal/store"
)

// IdempotencyHeader names the optional create request header.
const IdempotencyHeader = "Idempotency-Key"

// maxBodyBytes caps update request bodies.
const maxBodyBytes = 1 << 20

// Routes is implemented by every Resource so resources of different record
// types can be registered together.
type Routes interface {
	Register(mux *http.ServeMux, gate *auth.Gate)
}

// Resource serves the five CRUD operations for one entity type.
type Resource[T any] struct {
	kind   Kind[T]
	repo   store.Repository[T]
	idem   *idempotency.Cache
	logger *slog.Logger
}

// NewResource creates a resource. idem may be nil, in which case the
// Idempotency-Key header is ignored.
func NewResource[T any](kind Kind[T], repo store.Repository[T], idem *idempotency.Cache, logger *slog.Logger) *Resource[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resource[T]{
		kind:   kind,
		repo:   repo,
		idem:   idem,
		logger: logger.With("component", "api", "entity", kind.Name()),
	}
}

// Register mounts the resource's routes. The gate runs before any handler
// decodes parameters.
func (res *Resource[T]) Register(mux *http.ServeMux, gate *auth.Gate) {
	user := gate.Require(auth.RoleUser)
	admin := gate.Require(auth.RoleAdmin)
	p := res.kind.Path

	mux.Handle("GET "+p+"/all", user(res.handle(res.list)))
	mux.Handle("GET "+p, user(res.handle(res.get)))
	mux.Handle("POST "+p+"/post", admin(res.handle(res.create)))
	mux.Handle("PUT "+p, admin(res.handle(res.update)))
	mux.Handle("DELETE "+p, admin(res.handle(res.delete)))
}

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

func (res *Resource[T]) handle(h handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			writeError(w, res.logger, err)
		}
	})
}

// list handles GET {prefix}/all.
func (res *Resource[T]) list(w http.ResponseWriter, r *http.Request) error {
	records, err := res.repo.ListAll(r.Context())
	if err != nil {
		return err
	}
	sendJSON(w, http.StatusOK, records)
	return nil
}

// get handles GET {prefix}?id=N.
func (res *Resource[T]) get(w http.ResponseWriter, r *http.Request) error {
	id, err := parseID(r)
	if err != nil {
		return err
	}
	rec, err := res.find(r, id)
	if err != nil {
		return err
	}
	sendJSON(w, http.StatusOK, rec)
	return nil
}

// create handles POST {prefix}/post?<fields>. It never checks for existing
// records with the same field values.
func (res *Resource[T]) create(w http.ResponseWriter, r *http.Request) error {
	q := NewQuery(r.URL.Query())
	rec := res.kind.FromQuery(q)
	if err := q.Err(); err != nil {
		return err
	}

	clientKey := r.Header.Get(IdempotencyHeader)
	if clientKey == "" || res.idem == nil {
		saved, err := res.repo.Save(r.Context(), rec)
		if err != nil {
			return err
		}
		res.logger.Info("created record", "id", res.kind.Schema.ID(saved))
		sendJSON(w, http.StatusOK, saved)
		return nil
	}

	key := idempotency.Key(auth.MustFromContext(r.Context()).PrincipalID, res.kind.Path+"/post", clientKey)
	if id, ok := res.idem.Lookup(key); ok {
		existing, err := res.find(r, id)
		var nf *NotFoundError
		switch {
		case err == nil:
			res.logger.Debug("replayed create", "id", id)
			w.Header().Set("Idempotent-Replayed", "true")
			sendJSON(w, http.StatusOK, existing)
			return nil
		case errors.As(err, &nf):
			// the earlier record was deleted; create a new one under the same key
			res.idem.Forget(key, id)
		default:
			return err
		}
	}

	if !res.idem.Reserve(key) {
		return &ConflictError{Message: "A request with this Idempotency-Key is already in progress"}
	}
	saved, err := res.repo.Save(r.Context(), rec)
	if err != nil {
		res.idem.Release(key)
		return err
	}
	id := res.kind.Schema.ID(saved)
	res.idem.Remember(key, id)
	res.logger.Info("created record", "id", id)
	sendJSON(w, http.StatusOK, saved)
	return nil
}

// update handles PUT {prefix}?id=N with a full replacement record as the body.
// The id always comes from the query, never the body.
func (res *Resource[T]) update(w http.ResponseWriter, r *http.Request) error {
	id, err := parseID(r)
	if err != nil {
		return err
	}

	var incoming T
	if err := decodeBody(w, r, &incoming); err != nil {
		return err
	}

	if _, err := res.find(r, id); err != nil {
		return err
	}

	// check-then-act: a delete landing between find and save is overwritten
	updated, err := res.repo.Save(r.Context(), res.kind.Schema.WithID(incoming, id))
	if err != nil {
		return err
	}
	res.logger.Info("updated record", "id", id)
	sendJSON(w, http.StatusOK, updated)
	return nil
}

// delete handles DELETE {prefix}?id=N.
func (res *Resource[T]) delete(w http.ResponseWriter, r *http.Request) error {
	id, err := parseID(r)
	if err != nil {
		return err
	}
	rec, err := res.find(r, id)
	if err != nil {
		return err
	}
	if err := res.repo.Delete(r.Context(), rec); err != nil {
		return err
	}
	res.logger.Info("deleted record", "id", id)
	sendJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("%s with id %d deleted", res.kind.Name(), id),
	})
	return nil
}

// find looks up id and converts absence into a NotFoundError.
func (res *Resource[T]) find(r *http.Request, id int64) (T, error) {
	rec, err := res.repo.FindByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return rec, &NotFoundError{Entity: res.kind.Name(), ID: id}
	}
	return rec, err
}

func parseID(r *http.Request) (int64, error) {
	q := NewQuery(r.URL.Query())
	id := q.Int64("id")
	return id, q.Err()
}

// decodeBody reads a JSON object into dst. An empty body and a literal null
// are both treated as missing.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	var raw json.RawMessage
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return errMissingBody
		}
		return &ValidationError{Message: "Malformed JSON request body: " + err.Error()}
	}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return errMissingBody
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &ValidationError{Message: "Malformed JSON request body: " + err.Error()}
	}
	return nil
}

var errMissingBody = &ValidationError{Message: "Required request body is missing"}
