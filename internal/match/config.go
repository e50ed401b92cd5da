// Package match computes bounded compatibility scores between property
// owners, franchise companies, and entrepreneurs. Every variant starts from
// a base score, adds bounded increments per satisfied factor, and clamps the
// total to [0,1]. Weight tables are explicit configuration so tests can
// assert exact outputs.
package match

// PropertyEntrepreneurWeights configures property-to-entrepreneur scoring.
type PropertyEntrepreneurWeights struct {
	Base             float64 `yaml:"base" mapstructure:"base"`
	TypeAffinity     float64 `yaml:"type_affinity" mapstructure:"type_affinity"`
	BudgetBonus      float64 `yaml:"budget_bonus" mapstructure:"budget_bonus"`
	BudgetBonusRatio float64 `yaml:"budget_bonus_ratio" mapstructure:"budget_bonus_ratio"`
	FloorBonus       float64 `yaml:"floor_bonus" mapstructure:"floor_bonus"`
	ProximityBonus   float64 `yaml:"proximity_bonus" mapstructure:"proximity_bonus"`
	ProximityKm      float64 `yaml:"proximity_km" mapstructure:"proximity_km"`

	// AffordabilityFloor is the minimum fraction of the estimated property
	// value the entrepreneur's budget must cover. Below it the candidate is
	// excluded outright, not scored low. The registration flow uses 0.30,
	// the aggregate overview 0.15.
	AffordabilityFloor float64 `yaml:"affordability_floor" mapstructure:"affordability_floor"`

	// MinScore is the minimum total for a candidate to be reported.
	MinScore float64 `yaml:"min_score" mapstructure:"min_score"`
}

// DefaultPropertyEntrepreneurWeights returns the registration-flow table.
func DefaultPropertyEntrepreneurWeights() PropertyEntrepreneurWeights {
	return PropertyEntrepreneurWeights{
		Base:               0.5,
		TypeAffinity:       0.2,
		BudgetBonus:        0.2,
		BudgetBonusRatio:   0.5,
		FloorBonus:         0.1,
		ProximityBonus:     0.1,
		ProximityKm:        50,
		AffordabilityFloor: 0.30,
		MinScore:           0.4,
	}
}

// PropertyFranchiseWeights configures property-to-franchise scoring.
type PropertyFranchiseWeights struct {
	AreaWeight      float64 `yaml:"area_weight" mapstructure:"area_weight"`
	FullAffinity    float64 `yaml:"full_affinity" mapstructure:"full_affinity"`
	PartialAffinity float64 `yaml:"partial_affinity" mapstructure:"partial_affinity"`
	NearBonus       float64 `yaml:"near_bonus" mapstructure:"near_bonus"`
	MidBonus        float64 `yaml:"mid_bonus" mapstructure:"mid_bonus"`
	FarBonus        float64 `yaml:"far_bonus" mapstructure:"far_bonus"`
	NearKm          float64 `yaml:"near_km" mapstructure:"near_km"`
	MidKm           float64 `yaml:"mid_km" mapstructure:"mid_km"`
	FarKm           float64 `yaml:"far_km" mapstructure:"far_km"`
	MinScore        float64 `yaml:"min_score" mapstructure:"min_score"`
}

// DefaultPropertyFranchiseWeights returns the standard table.
func DefaultPropertyFranchiseWeights() PropertyFranchiseWeights {
	return PropertyFranchiseWeights{
		AreaWeight:      0.4,
		FullAffinity:    0.3,
		PartialAffinity: 0.2,
		NearBonus:       0.3,
		MidBonus:        0.2,
		FarBonus:        0.1,
		NearKm:          10,
		MidKm:           25,
		FarKm:           50,
		MinScore:        0.3,
	}
}

// EntrepreneurFranchiseWeights configures entrepreneur-to-franchise scoring.
type EntrepreneurFranchiseWeights struct {
	Base             float64 `yaml:"base" mapstructure:"base"`
	CategoryAffinity float64 `yaml:"category_affinity" mapstructure:"category_affinity"`
	HeadroomBonus    float64 `yaml:"headroom_bonus" mapstructure:"headroom_bonus"`
	HeadroomRatio    float64 `yaml:"headroom_ratio" mapstructure:"headroom_ratio"`
	MinScore         float64 `yaml:"min_score" mapstructure:"min_score"`
}

// DefaultEntrepreneurFranchiseWeights returns the standard table.
func DefaultEntrepreneurFranchiseWeights() EntrepreneurFranchiseWeights {
	return EntrepreneurFranchiseWeights{
		Base:             0.6,
		CategoryAffinity: 0.2,
		HeadroomBonus:    0.2,
		HeadroomRatio:    1.5,
		MinScore:         0.4,
	}
}

// Affinity tables. Keys are the free-text attribute values used at
// registration time.

// investorPropertyTypes: property types investors prefer.
var investorPropertyTypes = map[string]bool{
	"commercial": true,
	"retail":     true,
}

// ideaOwnerPropertyTypes: property types idea owners prefer.
var ideaOwnerPropertyTypes = map[string]bool{
	"office":     true,
	"commercial": true,
}

// investorFranchiseCategories: franchise categories investors gravitate to.
var investorFranchiseCategories = map[string]bool{
	"food_beverage": true,
	"retail":        true,
}

// ideaOwnerFranchiseCategories: franchise categories idea owners gravitate to.
var ideaOwnerFranchiseCategories = map[string]bool{
	"services":   true,
	"healthcare": true,
	"education":  true,
}

// propertyFranchiseAffinity maps property type to compatible franchise
// categories. Industrial space carries a reduced weight.
var propertyFranchiseAffinity = map[string]map[string]bool{
	"commercial": {"food_beverage": true, "retail": true, "services": true},
	"retail":     {"food_beverage": true, "retail": true, "services": true},
	"office":     {"services": true, "education": true, "healthcare": true},
}

var industrialFranchiseAffinity = map[string]bool{
	"services":   true,
	"healthcare": true,
}
