package extract

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecoversFencedObjectWithRepairs(t *testing.T) {
	raw := "Here's the data: ```json {name: 'x', val: 1,} ``` thanks"

	var got map[string]any
	err := Decode(raw, Object, &got)
	require.NoError(t, err)
	assert.Equal(t, "x", got["name"])
	assert.Equal(t, float64(1), got["val"])
}

func TestDecodeFailsDistinguishablyOnGarbage(t *testing.T) {
	var got map[string]any
	err := Decode("not json at all", Object, &got)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNoStructure))
}

func TestDecodeValidEmptyObjectIsNotFailure(t *testing.T) {
	var got map[string]any
	err := Decode("{}", Object, &got)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecodeStrictJSONPassesUntouched(t *testing.T) {
	var got struct {
		Concept     string  `json:"concept"`
		StartupCost float64 `json:"startup_cost"`
	}
	err := Decode(`{"concept":"Cloud kitchen","startup_cost":350000}`, Object, &got)
	require.NoError(t, err)
	assert.Equal(t, "Cloud kitchen", got.Concept)
	assert.Equal(t, float64(350000), got.StartupCost)
}

func TestDecodeArraySurroundedByProse(t *testing.T) {
	raw := "Sure! Here are the ideas:\n[{\"concept\": \"Bakery\"}, {\"concept\": \"Gym\"},]\nLet me know."

	var got []map[string]any
	err := Decode(raw, Array, &got)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Bakery", got[0]["concept"])
}

func TestDecodeSmartQuotes(t *testing.T) {
	raw := "{“status”: “active”}"

	var got map[string]any
	err := Decode(raw, Object, &got)
	require.NoError(t, err)
	assert.Equal(t, "active", got["status"])
}

func TestDecodeSecondPassQuotesBareWordValues(t *testing.T) {
	raw := `{market_potential: High, risk_level: Medium, viable: true}`

	var got map[string]any
	err := Decode(raw, Object, &got)
	require.NoError(t, err)
	assert.Equal(t, "High", got["market_potential"])
	assert.Equal(t, "Medium", got["risk_level"])
	assert.Equal(t, true, got["viable"])
}

func TestDecodeExpectedKindMismatch(t *testing.T) {
	var got []any
	err := Decode(`{"a": 1}`, Array, &got)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNoStructure))
}
