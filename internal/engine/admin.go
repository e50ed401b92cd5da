package engine

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/venturelink/match-engine/internal/model"
	"github.com/venturelink/match-engine/internal/registry"
)

// Stats returns registration counts per kind.
func (e *Engine) Stats(ctx context.Context) (registry.Counts, error) {
	return e.reg.Counts(ctx)
}

// ClearAll removes every registered entity.
func (e *Engine) ClearAll(ctx context.Context) error {
	return e.reg.ClearAll(ctx)
}

// ListPropertyOwners returns all listings in registration order.
func (e *Engine) ListPropertyOwners(ctx context.Context) ([]model.PropertyOwner, error) {
	return e.reg.ListPropertyOwners(ctx)
}

// ListFranchises returns all franchises in registration order.
func (e *Engine) ListFranchises(ctx context.Context) ([]model.FranchiseCompany, error) {
	return e.reg.ListFranchises(ctx)
}

// ListEntrepreneurs returns all entrepreneurs in registration order.
func (e *Engine) ListEntrepreneurs(ctx context.Context) ([]model.Entrepreneur, error) {
	return e.reg.ListEntrepreneurs(ctx)
}

// GetPropertyOwner returns one listing by ID.
func (e *Engine) GetPropertyOwner(ctx context.Context, id string) (*model.PropertyOwner, error) {
	return e.reg.GetPropertyOwner(ctx, id)
}

// GetFranchise returns one franchise by ID.
func (e *Engine) GetFranchise(ctx context.Context, id string) (*model.FranchiseCompany, error) {
	return e.reg.GetFranchise(ctx, id)
}

// GetEntrepreneur returns one entrepreneur by ID.
func (e *Engine) GetEntrepreneur(ctx context.Context, id string) (*model.Entrepreneur, error) {
	return e.reg.GetEntrepreneur(ctx, id)
}

// UpdatePropertyContact updates contact fields on a listing. At least one of
// email or phone must be provided.
func (e *Engine) UpdatePropertyContact(ctx context.Context, id, email, phone string) error {
	if err := validateContactUpdate(email, phone); err != nil {
		return err
	}
	return e.reg.UpdatePropertyOwnerContact(ctx, id, email, phone)
}

// UpdateFranchiseContact updates contact fields on a franchise.
func (e *Engine) UpdateFranchiseContact(ctx context.Context, id, email, phone string) error {
	if err := validateContactUpdate(email, phone); err != nil {
		return err
	}
	return e.reg.UpdateFranchiseContact(ctx, id, email, phone)
}

// UpdateEntrepreneurContact updates contact fields on an entrepreneur.
func (e *Engine) UpdateEntrepreneurContact(ctx context.Context, id, email, phone string) error {
	if err := validateContactUpdate(email, phone); err != nil {
		return err
	}
	return e.reg.UpdateEntrepreneurContact(ctx, id, email, phone)
}

func validateContactUpdate(email, phone string) error {
	if email == "" && phone == "" {
		return eris.Wrap(ErrInvalidInput, "nothing to update")
	}
	return nil
}
