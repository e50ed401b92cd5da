package engine

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/venturelink/match-engine/internal/advisor"
	"github.com/venturelink/match-engine/internal/model"
)

// PropertyOwnerInput is the registration payload for a property listing.
type PropertyOwnerInput struct {
	Name    string         `json:"name"`
	Email   string         `json:"email"`
	Phone   string         `json:"phone"`
	Pincode string         `json:"pincode"`
	Details map[string]any `json:"property_details"`
}

// FranchiseInput is the registration payload for a franchise company.
type FranchiseInput struct {
	CompanyName  string         `json:"company_name"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	Pincode      string         `json:"pincode"`
	Requirements map[string]any `json:"franchise_requirements"`
}

// EntrepreneurInput is the registration payload for an entrepreneur.
type EntrepreneurInput struct {
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	Type         string         `json:"entrepreneur_type"`
	Budget       float64        `json:"budget"`
	Pincode      string         `json:"pincode"`
	BusinessIdea string         `json:"business_idea"`
	Preferences  map[string]any `json:"investment_preferences"`
}

// PropertyRegistration is the outcome of registering a property owner.
type PropertyRegistration struct {
	Owner         model.PropertyOwner  `json:"owner"`
	LocationValid bool                 `json:"location_valid"`
	Insight       *model.MarketInsight `json:"insight,omitempty"`
	Advice        *advisor.Analysis    `json:"advice,omitempty"`
}

// FranchiseRegistration is the outcome of registering a franchise.
type FranchiseRegistration struct {
	Franchise     model.FranchiseCompany `json:"franchise"`
	LocationValid bool                   `json:"location_valid"`
	Insight       *model.MarketInsight   `json:"insight,omitempty"`
}

// EntrepreneurRegistration is the outcome of registering an entrepreneur.
type EntrepreneurRegistration struct {
	Entrepreneur  model.Entrepreneur   `json:"entrepreneur"`
	LocationValid bool                 `json:"location_valid"`
	Insight       *model.MarketInsight `json:"insight,omitempty"`
}

// RegisterPropertyOwner validates and persists a listing, then runs market
// and advisory analysis when the pincode resolves.
func (e *Engine) RegisterPropertyOwner(ctx context.Context, in PropertyOwnerInput) (PropertyRegistration, error) {
	if err := validateContact(in.Name, in.Email); err != nil {
		return PropertyRegistration{}, err
	}
	if in.Pincode == "" {
		return PropertyRegistration{}, eris.Wrap(ErrInvalidInput, "pincode is required")
	}

	loc, valid := e.geocode(ctx, in.Pincode)

	owner := model.PropertyOwner{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Details:   in.Details,
		Location:  loc,
		CreatedAt: time.Now().UTC(),
	}
	if owner.Details == nil {
		owner.Details = map[string]any{}
	}

	if err := e.reg.PutPropertyOwner(ctx, &owner); err != nil {
		return PropertyRegistration{}, err
	}

	out := PropertyRegistration{Owner: owner, LocationValid: valid}
	if valid {
		ins, _ := e.analyzeAt(ctx, *loc, "", e.cfg.RegistrationBaseRent)
		out.Insight = &ins
		if e.advisor != nil {
			advice := e.advisor.Analyze(ctx, owner, ins)
			out.Advice = &advice
		}
	}

	zap.L().Info("registered property owner",
		zap.String("id", owner.ID),
		zap.Bool("location_valid", valid),
	)
	return out, nil
}

// RegisterFranchise validates and persists a franchise company.
func (e *Engine) RegisterFranchise(ctx context.Context, in FranchiseInput) (FranchiseRegistration, error) {
	if err := validateContact(in.CompanyName, in.Email); err != nil {
		return FranchiseRegistration{}, err
	}
	if in.Pincode == "" {
		return FranchiseRegistration{}, eris.Wrap(ErrInvalidInput, "pincode is required")
	}

	loc, valid := e.geocode(ctx, in.Pincode)

	fr := model.FranchiseCompany{
		ID:           uuid.NewString(),
		CompanyName:  in.CompanyName,
		Email:        in.Email,
		Phone:        in.Phone,
		Requirements: in.Requirements,
		Location:     loc,
		CreatedAt:    time.Now().UTC(),
	}
	if fr.Requirements == nil {
		fr.Requirements = map[string]any{}
	}

	if err := e.reg.PutFranchise(ctx, &fr); err != nil {
		return FranchiseRegistration{}, err
	}

	out := FranchiseRegistration{Franchise: fr, LocationValid: valid}
	if valid {
		ins, _ := e.analyzeAt(ctx, *loc, "", e.cfg.RegistrationBaseRent)
		out.Insight = &ins
	}

	zap.L().Info("registered franchise",
		zap.String("id", fr.ID),
		zap.Bool("location_valid", valid),
	)
	return out, nil
}

// RegisterEntrepreneur validates and persists an entrepreneur.
func (e *Engine) RegisterEntrepreneur(ctx context.Context, in EntrepreneurInput) (EntrepreneurRegistration, error) {
	if err := validateContact(in.Name, in.Email); err != nil {
		return EntrepreneurRegistration{}, err
	}
	entType := model.EntrepreneurType(in.Type)
	if !entType.Valid() {
		return EntrepreneurRegistration{}, eris.Wrapf(ErrInvalidInput, "entrepreneur_type %q", in.Type)
	}
	if in.Budget <= 0 {
		return EntrepreneurRegistration{}, eris.Wrap(ErrInvalidInput, "budget must be positive")
	}
	if in.Pincode == "" {
		return EntrepreneurRegistration{}, eris.Wrap(ErrInvalidInput, "pincode is required")
	}

	loc, valid := e.geocode(ctx, in.Pincode)

	ent := model.Entrepreneur{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		Type:         entType,
		Budget:       in.Budget,
		Pincode:      in.Pincode,
		BusinessIdea: in.BusinessIdea,
		Preferences:  in.Preferences,
		Location:     loc,
		CreatedAt:    time.Now().UTC(),
	}

	if err := e.reg.PutEntrepreneur(ctx, &ent); err != nil {
		return EntrepreneurRegistration{}, err
	}

	out := EntrepreneurRegistration{Entrepreneur: ent, LocationValid: valid}
	if valid {
		ins, _ := e.analyzeAt(ctx, *loc, "", e.cfg.RegistrationBaseRent)
		out.Insight = &ins
	}

	zap.L().Info("registered entrepreneur",
		zap.String("id", ent.ID),
		zap.String("type", string(ent.Type)),
		zap.Bool("location_valid", valid),
	)
	return out, nil
}

// geocode resolves a pincode. A provider failure or miss yields no location;
// downstream analysis is skipped rather than guessed at.
func (e *Engine) geocode(ctx context.Context, pincode string) (*model.Location, bool) {
	if e.provider == nil {
		return nil, false
	}
	res, err := e.provider.Geocode(ctx, pincode)
	if err != nil {
		zap.L().Warn("geocoding failed", zap.String("pincode", pincode), zap.Error(err))
		return nil, false
	}
	if !res.Matched || !res.Location.HasCoordinates() {
		zap.L().Warn("pincode did not resolve", zap.String("pincode", pincode))
		return nil, false
	}
	loc := res.Location
	return &loc, true
}

func validateContact(name, email string) error {
	if strings.TrimSpace(name) == "" {
		return eris.Wrap(ErrInvalidInput, "name is required")
	}
	if !strings.Contains(email, "@") {
		return eris.Wrapf(ErrInvalidInput, "email %q", email)
	}
	return nil
}
