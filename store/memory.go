package store

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	garmr "github.com/shipdventures/neoma-garmr"
)

// Memory is a mutex-guarded in-process PrincipalStore. Returned principals
// are copies, so callers mutating them cannot corrupt the store without
// going through Save.
type Memory struct {
	mu      sync.RWMutex
	byID    map[string]*garmr.Principal
	byEmail map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		byID:    make(map[string]*garmr.Principal),
		byEmail: make(map[string]string),
	}
}

// FindByID returns a copy of the principal stored under id.
func (m *Memory) FindByID(_ context.Context, id string) (*garmr.Principal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.byID[id]
	if !ok {
		return nil, garmr.ErrPrincipalNotFound
	}
	return clonePrincipal(p), nil
}

// FindByEmail returns a copy of the principal indexed under the lowercased
// email.
func (m *Memory) FindByEmail(_ context.Context, email string) (*garmr.Principal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, garmr.ErrPrincipalNotFound
	}
	return clonePrincipal(m.byID[id]), nil
}

// Create stores a new principal, assigning a UUID when p.ID is empty.
// The check and insert happen under one lock, so the email unique
// constraint holds under concurrent registration.
func (m *Memory) Create(_ context.Context, p *garmr.Principal) (*garmr.Principal, error) {
	created := clonePrincipal(p)
	created.Email = strings.ToLower(created.Email)
	if created.Email == "" {
		return nil, garmr.ErrEmailRequired
	}
	if created.ID == "" {
		created.ID = uuid.NewString()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.byEmail[created.Email]; taken {
		return nil, garmr.ErrEmailTaken
	}
	if _, exists := m.byID[created.ID]; exists {
		return nil, garmr.ErrEmailTaken
	}

	m.byID[created.ID] = clonePrincipal(created)
	m.byEmail[created.Email] = created.ID

	return created, nil
}

// Save rewrites an existing principal, moving the email index entry when
// the address changed.
func (m *Memory) Save(_ context.Context, p *garmr.Principal) error {
	if p == nil || p.ID == "" {
		return garmr.ErrPrincipalNotFound
	}

	updated := clonePrincipal(p)
	updated.Email = strings.ToLower(updated.Email)
	if updated.Email == "" {
		return garmr.ErrEmailRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[updated.ID]
	if !ok {
		return garmr.ErrPrincipalNotFound
	}

	if updated.Email != existing.Email {
		if holder, taken := m.byEmail[updated.Email]; taken && holder != updated.ID {
			return garmr.ErrEmailTaken
		}
		delete(m.byEmail, existing.Email)
		m.byEmail[updated.Email] = updated.ID
	}

	m.byID[updated.ID] = clonePrincipal(updated)

	return nil
}
