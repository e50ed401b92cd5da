package attrs

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloatCoercion(t *testing.T) {
	m := Map{
		"area_sqft":    2500.0,
		"current_rent": 45000,
		"asking_price": "₹8,000,000",
		"deposit":      "$12,500.50",
		"note":         "no numbers here",
	}

	tests := []struct {
		key  string
		want float64
		ok   bool
	}{
		{"area_sqft", 2500, true},
		{"current_rent", 45000, true},
		{"asking_price", 8000000, true},
		{"deposit", 12500.50, true},
		{"note", 0, false},
		{"absent", 0, false},
	}
	for _, tt := range tests {
		got, ok := m.Float(tt.key)
		assert.Equal(t, tt.ok, ok, tt.key)
		assert.Equal(t, tt.want, got, tt.key)
	}
}

func TestRequireFloatMissing(t *testing.T) {
	m := Map{}
	_, err := m.RequireFloat("area_sqft")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrMissing))
	assert.Contains(t, err.Error(), "area_sqft")
}

func TestStrAndSub(t *testing.T) {
	m := Map{
		"property_type": "retail",
		"location": map[string]any{
			"latitude": 12.97,
		},
	}

	s, ok := m.Str("property_type")
	require.True(t, ok)
	assert.Equal(t, "retail", s)
	assert.Equal(t, "retail", m.StrOr("property_type", "commercial"))
	assert.Equal(t, "commercial", m.StrOr("missing", "commercial"))

	sub, ok := m.Sub("location")
	require.True(t, ok)
	lat, ok := sub.Float("latitude")
	require.True(t, ok)
	assert.InDelta(t, 12.97, lat, 1e-9)
}
