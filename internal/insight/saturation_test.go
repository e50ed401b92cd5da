package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/venturelink/match-engine/internal/model"
)

func TestProfileThresholdsStayDistinctFromMarketTiers(t *testing.T) {
	tests := []struct {
		count          int
		wantLevel      SaturationLevel
		wantSaturation SaturationLevel
	}{
		{0, SaturationVeryLow, SaturationUnknown},
		{4, SaturationVeryLow, SaturationVeryLow},
		{5, SaturationLow, SaturationLow},
		{14, SaturationLow, SaturationLow},
		{15, SaturationModerate, SaturationModerate},
		{29, SaturationModerate, SaturationModerate},
		{30, SaturationHigh, SaturationHigh},
		{49, SaturationHigh, SaturationHigh},
		{50, SaturationHigh, SaturationVeryHigh},
	}
	for _, tt := range tests {
		p := Profile(repeat(biz("office", nil, nil), tt.count))
		assert.Equal(t, tt.wantLevel, p.Level, "count=%d", tt.count)
		assert.Equal(t, tt.wantSaturation, p.Saturation, "count=%d", tt.count)
	}
}

func TestProfileCountsDirectCompetitors(t *testing.T) {
	businesses := []model.NearbyBusiness{
		biz("Indian Restaurant", f(4.0), nil),
		biz("Coffee Shop", f(4.5), nil),
		biz("Software Company", nil, nil),
		biz("Grocery Store", nil, nil),
		biz("Law Office", nil, nil),
	}

	p := Profile(businesses)

	assert.Equal(t, 5, p.TotalBusinesses)
	assert.Equal(t, 3, p.DirectCompetitors) // restaurant, shop, grocery store
	assert.InDelta(t, 4.25, p.AverageRating, 1e-9)
}
