// ABOUTME: In-memory Repository implementation keyed by a monotonic id
// ABOUTME: Follows the SQL table semantics, used by handler tests and sqlite-less runs

package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepository is an in-memory Repository. Ids start at 1 and are never
// handed out twice, even after the highest row is deleted.
type MemoryRepository[T any] struct {
	mu      sync.RWMutex
	schema  Schema[T]
	rows    map[int64]T
	nextID  int64
	failErr error
}

var _ Repository[struct{}] = (*MemoryRepository[struct{}])(nil)

// NewMemoryRepository creates an empty repository for the schema.
func NewMemoryRepository[T any](schema Schema[T]) *MemoryRepository[T] {
	return &MemoryRepository[T]{
		schema: schema,
		rows:   make(map[int64]T),
		nextID: 1,
	}
}

// FailWith makes every subsequent call return a PersistenceError wrapping err.
// Passing nil restores normal operation.
func (m *MemoryRepository[T]) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}

func (m *MemoryRepository[T]) failure(op string) error {
	if m.failErr == nil {
		return nil
	}
	return &PersistenceError{Op: op, Entity: m.schema.Entity, Err: m.failErr}
}

// ListAll returns every record ordered by id.
func (m *MemoryRepository[T]) ListAll(ctx context.Context) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.failure("list"); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(m.rows))
	for id := range m.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	records := make([]T, 0, len(ids))
	for _, id := range ids {
		records = append(records, m.rows[id])
	}
	return records, nil
}

// FindByID returns the record with id, or ErrNotFound.
func (m *MemoryRepository[T]) FindByID(ctx context.Context, id int64) (T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var zero T
	if err := m.failure("find"); err != nil {
		return zero, err
	}
	rec, ok := m.rows[id]
	if !ok {
		return zero, ErrNotFound
	}
	return rec, nil
}

// Save inserts (id zero) or overwrites the record.
func (m *MemoryRepository[T]) Save(ctx context.Context, rec T) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.schema.ID(rec)
	if id == 0 {
		if err := m.failure("create"); err != nil {
			return rec, err
		}
		id = m.nextID
		m.nextID++
		rec = m.schema.WithID(rec, id)
	} else {
		if err := m.failure("update"); err != nil {
			return rec, err
		}
		if id >= m.nextID {
			m.nextID = id + 1
		}
	}
	m.rows[id] = rec
	return rec, nil
}

// Delete removes the record. Absent records are ignored.
func (m *MemoryRepository[T]) Delete(ctx context.Context, rec T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failure("delete"); err != nil {
		return err
	}
	delete(m.rows, m.schema.ID(rec))
	return nil
}

// Len returns the number of stored records.
func (m *MemoryRepository[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}
