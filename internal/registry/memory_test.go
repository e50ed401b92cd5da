package registry

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturelink/match-engine/internal/model"
)

func TestMemoryPropertyOwnerRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	owner := &model.PropertyOwner{
		ID:    "own-1",
		Name:  "Ravi",
		Email: "ravi@example.com",
		Details: map[string]any{
			"area_sqft":     2000.0,
			"property_type": "retail",
		},
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, m.PutPropertyOwner(ctx, owner))

	got, err := m.GetPropertyOwner(ctx, "own-1")
	require.NoError(t, err)
	assert.Equal(t, "Ravi", got.Name)
	assert.Equal(t, 2000.0, got.Details["area_sqft"])
}

func TestMemoryGetUnknownID(t *testing.T) {
	m := NewMemory()

	_, err := m.GetPropertyOwner(context.Background(), "nope")
	assert.True(t, eris.Is(err, ErrNotFound))

	_, err = m.GetFranchise(context.Background(), "nope")
	assert.True(t, eris.Is(err, ErrNotFound))

	_, err = m.GetEntrepreneur(context.Background(), "nope")
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestMemoryListOrderIsRegistrationOrder(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"c", "a", "b"} {
		require.NoError(t, m.PutEntrepreneur(ctx, &model.Entrepreneur{
			ID:        id,
			Type:      model.TypeInvestor,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	got, err := m.ListEntrepreneurs(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
	assert.Equal(t, "b", got[2].ID)
}

func TestMemoryUpdateContactPartial(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.PutFranchise(ctx, &model.FranchiseCompany{
		ID: "fr-1", CompanyName: "ChaiCo", Email: "old@chai.co", Phone: "111",
	}))

	require.NoError(t, m.UpdateFranchiseContact(ctx, "fr-1", "new@chai.co", ""))

	got, err := m.GetFranchise(ctx, "fr-1")
	require.NoError(t, err)
	assert.Equal(t, "new@chai.co", got.Email)
	assert.Equal(t, "111", got.Phone) // untouched

	err = m.UpdateFranchiseContact(ctx, "missing", "x@y.z", "")
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestMemoryCountsAndClear(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.PutPropertyOwner(ctx, &model.PropertyOwner{ID: "o1"}))
	require.NoError(t, m.PutPropertyOwner(ctx, &model.PropertyOwner{ID: "o2"}))
	require.NoError(t, m.PutFranchise(ctx, &model.FranchiseCompany{ID: "f1"}))
	require.NoError(t, m.PutEntrepreneur(ctx, &model.Entrepreneur{ID: "e1"}))

	c, err := m.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, Counts{PropertyOwners: 2, Franchises: 1, Entrepreneurs: 1}, c)
	assert.Equal(t, 4, c.Total())

	require.NoError(t, m.ClearAll(ctx))
	c, err = m.Counts(ctx)
	require.NoError(t, err)
	assert.Zero(t, c.Total())
}

func TestMemoryConcurrentAccess(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("own-%d", i)
			_ = m.PutPropertyOwner(ctx, &model.PropertyOwner{ID: id})
			_, _ = m.GetPropertyOwner(ctx, id)
			_, _ = m.ListPropertyOwners(ctx)
		}(i)
	}
	wg.Wait()

	c, err := m.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20, c.PropertyOwners)
}

func TestMemoryPutRejectsEmptyID(t *testing.T) {
	m := NewMemory()
	assert.Error(t, m.PutPropertyOwner(context.Background(), &model.PropertyOwner{}))
	assert.Error(t, m.PutFranchise(context.Background(), &model.FranchiseCompany{}))
	assert.Error(t, m.PutEntrepreneur(context.Background(), &model.Entrepreneur{}))
}
