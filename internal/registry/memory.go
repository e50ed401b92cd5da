package registry

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rotisserie/eris"

	"github.com/venturelink/match-engine/internal/model"
)

// Memory is an in-process Registry. Safe for concurrent use.
type Memory struct {
	mu            sync.RWMutex
	owners        map[string]model.PropertyOwner
	franchises    map[string]model.FranchiseCompany
	entrepreneurs map[string]model.Entrepreneur
}

// NewMemory creates an empty in-memory registry.
func NewMemory() *Memory {
	return &Memory{
		owners:        make(map[string]model.PropertyOwner),
		franchises:    make(map[string]model.FranchiseCompany),
		entrepreneurs: make(map[string]model.Entrepreneur),
	}
}

func (m *Memory) PutPropertyOwner(_ context.Context, o *model.PropertyOwner) error {
	if o.ID == "" {
		return eris.New("registry: property owner ID is empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.owners[o.ID] = *o
	return nil
}

func (m *Memory) GetPropertyOwner(_ context.Context, id string) (*model.PropertyOwner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.owners[id]
	if !ok {
		return nil, eris.Wrapf(ErrNotFound, "property owner %q", id)
	}
	return &o, nil
}

func (m *Memory) ListPropertyOwners(_ context.Context) ([]model.PropertyOwner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.PropertyOwner, 0, len(m.owners))
	for _, o := range m.owners {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return registeredBefore(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID) })
	return out, nil
}

func (m *Memory) UpdatePropertyOwnerContact(_ context.Context, id, email, phone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.owners[id]
	if !ok {
		return eris.Wrapf(ErrNotFound, "property owner %q", id)
	}
	applyContact(&o.Email, &o.Phone, email, phone)
	m.owners[id] = o
	return nil
}

func (m *Memory) PutFranchise(_ context.Context, f *model.FranchiseCompany) error {
	if f.ID == "" {
		return eris.New("registry: franchise ID is empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.franchises[f.ID] = *f
	return nil
}

func (m *Memory) GetFranchise(_ context.Context, id string) (*model.FranchiseCompany, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.franchises[id]
	if !ok {
		return nil, eris.Wrapf(ErrNotFound, "franchise %q", id)
	}
	return &f, nil
}

func (m *Memory) ListFranchises(_ context.Context) ([]model.FranchiseCompany, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.FranchiseCompany, 0, len(m.franchises))
	for _, f := range m.franchises {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return registeredBefore(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID) })
	return out, nil
}

func (m *Memory) UpdateFranchiseContact(_ context.Context, id, email, phone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.franchises[id]
	if !ok {
		return eris.Wrapf(ErrNotFound, "franchise %q", id)
	}
	applyContact(&f.Email, &f.Phone, email, phone)
	m.franchises[id] = f
	return nil
}

func (m *Memory) PutEntrepreneur(_ context.Context, e *model.Entrepreneur) error {
	if e.ID == "" {
		return eris.New("registry: entrepreneur ID is empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entrepreneurs[e.ID] = *e
	return nil
}

func (m *Memory) GetEntrepreneur(_ context.Context, id string) (*model.Entrepreneur, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entrepreneurs[id]
	if !ok {
		return nil, eris.Wrapf(ErrNotFound, "entrepreneur %q", id)
	}
	return &e, nil
}

func (m *Memory) ListEntrepreneurs(_ context.Context) ([]model.Entrepreneur, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.Entrepreneur, 0, len(m.entrepreneurs))
	for _, e := range m.entrepreneurs {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return registeredBefore(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID) })
	return out, nil
}

func (m *Memory) UpdateEntrepreneurContact(_ context.Context, id, email, phone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entrepreneurs[id]
	if !ok {
		return eris.Wrapf(ErrNotFound, "entrepreneur %q", id)
	}
	applyContact(&e.Email, &e.Phone, email, phone)
	m.entrepreneurs[id] = e
	return nil
}

func (m *Memory) Counts(_ context.Context) (Counts, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Counts{
		PropertyOwners: len(m.owners),
		Franchises:     len(m.franchises),
		Entrepreneurs:  len(m.entrepreneurs),
	}, nil
}

func (m *Memory) ClearAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.owners = make(map[string]model.PropertyOwner)
	m.franchises = make(map[string]model.FranchiseCompany)
	m.entrepreneurs = make(map[string]model.Entrepreneur)
	return nil
}

func (m *Memory) Migrate(_ context.Context) error { return nil }

func (m *Memory) Close() error { return nil }

func registeredBefore(at time.Time, aID string, bt time.Time, bID string) bool {
	if !at.Equal(bt) {
		return at.Before(bt)
	}
	return aID < bID
}

// applyContact overwrites only the fields that were provided.
func applyContact(email, phone *string, newEmail, newPhone string) {
	if newEmail != "" {
		*email = newEmail
	}
	if newPhone != "" {
		*phone = newPhone
	}
}
