// Package registry persists registered market participants. Three backends
// share one contract: in-memory for tests and ephemeral runs, SQLite for
// single-node deployments, Postgres for everything else.
package registry

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/venturelink/match-engine/internal/model"
)

// ErrNotFound marks a lookup for an ID that was never registered or has
// been cleared.
var ErrNotFound = eris.New("registry: entity not found")

// Kind names an entity table partition.
type Kind string

const (
	KindPropertyOwner Kind = "property_owner"
	KindFranchise     Kind = "franchise"
	KindEntrepreneur  Kind = "entrepreneur"
)

// Counts reports how many entities of each kind are registered.
type Counts struct {
	PropertyOwners int `json:"property_owners"`
	Franchises     int `json:"franchise_companies"`
	Entrepreneurs  int `json:"entrepreneurs"`
}

// Total sums all kinds.
func (c Counts) Total() int {
	return c.PropertyOwners + c.Franchises + c.Entrepreneurs
}

// Registry is the persistence contract for market participants. Lists are
// returned in registration order. Get and UpdateContact return ErrNotFound
// for unknown IDs.
type Registry interface {
	PutPropertyOwner(ctx context.Context, o *model.PropertyOwner) error
	GetPropertyOwner(ctx context.Context, id string) (*model.PropertyOwner, error)
	ListPropertyOwners(ctx context.Context) ([]model.PropertyOwner, error)
	UpdatePropertyOwnerContact(ctx context.Context, id, email, phone string) error

	PutFranchise(ctx context.Context, f *model.FranchiseCompany) error
	GetFranchise(ctx context.Context, id string) (*model.FranchiseCompany, error)
	ListFranchises(ctx context.Context) ([]model.FranchiseCompany, error)
	UpdateFranchiseContact(ctx context.Context, id, email, phone string) error

	PutEntrepreneur(ctx context.Context, e *model.Entrepreneur) error
	GetEntrepreneur(ctx context.Context, id string) (*model.Entrepreneur, error)
	ListEntrepreneurs(ctx context.Context) ([]model.Entrepreneur, error)
	UpdateEntrepreneurContact(ctx context.Context, id, email, phone string) error

	Counts(ctx context.Context) (Counts, error)
	ClearAll(ctx context.Context) error

	Migrate(ctx context.Context) error
	Close() error
}
