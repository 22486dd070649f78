// ABOUTME: Mock principal and role store for testing
// ABOUTME: Allows auth and handler tests to run without SQLite

package store

import (
	"context"
	"sort"
	"sync"
)

// MockStore is an in-memory PrincipalStore and RoleStore for testing.
type MockStore struct {
	mu         sync.RWMutex
	principals map[string]*Principal            // keyed by principal ID
	byEmail    map[string]string                // email -> principal ID
	roles      map[string]map[RoleName]struct{} // keyed by principal ID
}

var (
	_ PrincipalStore = (*MockStore)(nil)
	_ RoleStore      = (*MockStore)(nil)
)

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		principals: make(map[string]*Principal),
		byEmail:    make(map[string]string),
		roles:      make(map[string]map[RoleName]struct{}),
	}
}

// CreatePrincipal stores a new principal.
func (m *MockStore) CreatePrincipal(ctx context.Context, p *Principal) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.byEmail[p.Email]; taken {
		return ErrDuplicateEmail
	}

	// Make a copy to avoid external modification
	c := *p
	m.principals[c.ID] = &c
	m.byEmail[c.Email] = c.ID
	return nil
}

// GetPrincipal retrieves a principal by ID.
func (m *MockStore) GetPrincipal(ctx context.Context, id string) (*Principal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.principals[id]
	if !ok {
		return nil, ErrPrincipalNotFound
	}

	// Return a copy
	result := *p
	return &result, nil
}

// GetPrincipalByEmail retrieves a principal by email.
func (m *MockStore) GetPrincipalByEmail(ctx context.Context, email string) (*Principal, error) {
	m.mu.RLock()
	id, ok := m.byEmail[email]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrPrincipalNotFound
	}
	return m.GetPrincipal(ctx, id)
}

// ListPrincipals returns every principal ordered by creation time.
func (m *MockStore) ListPrincipals(ctx context.Context) ([]*Principal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*Principal, 0, len(m.principals))
	for _, p := range m.principals {
		c := *p
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// UpdatePrincipalStatus changes a principal's status.
func (m *MockStore) UpdatePrincipalStatus(ctx context.Context, id string, status PrincipalStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.principals[id]
	if !ok {
		return ErrPrincipalNotFound
	}
	p.Status = status
	return nil
}

// AddRole grants a role. Idempotent.
func (m *MockStore) AddRole(ctx context.Context, principalID string, role RoleName) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.roles[principalID] == nil {
		m.roles[principalID] = make(map[RoleName]struct{})
	}
	m.roles[principalID][role] = struct{}{}
	return nil
}

// RemoveRole revokes a role. Idempotent.
func (m *MockStore) RemoveRole(ctx context.Context, principalID string, role RoleName) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.roles[principalID], role)
	return nil
}

// HasRole reports whether the principal holds the role.
func (m *MockStore) HasRole(ctx context.Context, principalID string, role RoleName) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.roles[principalID][role]
	return ok, nil
}

// ListRoles returns the principal's roles sorted by name.
func (m *MockStore) ListRoles(ctx context.Context, principalID string) ([]RoleName, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	roles := make([]RoleName, 0, len(m.roles[principalID]))
	for r := range m.roles[principalID] {
		roles = append(roles, r)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles, nil
}
