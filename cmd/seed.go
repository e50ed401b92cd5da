package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/venturelink/match-engine/internal/engine"
)

// seedFile is the YAML shape for bulk registration.
type seedFile struct {
	PropertyOwners []seedOwner        `yaml:"property_owners"`
	Franchises     []seedFranchise    `yaml:"franchises"`
	Entrepreneurs  []seedEntrepreneur `yaml:"entrepreneurs"`
}

type seedOwner struct {
	Name    string         `yaml:"name"`
	Email   string         `yaml:"email"`
	Phone   string         `yaml:"phone"`
	Pincode string         `yaml:"pincode"`
	Details map[string]any `yaml:"property_details"`
}

type seedFranchise struct {
	CompanyName  string         `yaml:"company_name"`
	Email        string         `yaml:"email"`
	Phone        string         `yaml:"phone"`
	Pincode      string         `yaml:"pincode"`
	Requirements map[string]any `yaml:"franchise_requirements"`
}

type seedEntrepreneur struct {
	Name         string         `yaml:"name"`
	Email        string         `yaml:"email"`
	Phone        string         `yaml:"phone"`
	Type         string         `yaml:"entrepreneur_type"`
	Budget       float64        `yaml:"budget"`
	Pincode      string         `yaml:"pincode"`
	BusinessIdea string         `yaml:"business_idea"`
	Preferences  map[string]any `yaml:"investment_preferences"`
}

var seedCmd = &cobra.Command{
	Use:   "seed <file.yaml>",
	Short: "Register entities in bulk from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrap(err, "read seed file")
		}
		var sf seedFile
		if err := yaml.Unmarshal(data, &sf); err != nil {
			return eris.Wrap(err, "parse seed file")
		}

		env, err := initEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		ctx := cmd.Context()
		for _, o := range sf.PropertyOwners {
			_, err := env.Engine.RegisterPropertyOwner(ctx, engine.PropertyOwnerInput{
				Name:    o.Name,
				Email:   o.Email,
				Phone:   o.Phone,
				Pincode: o.Pincode,
				Details: o.Details,
			})
			if err != nil {
				return eris.Wrapf(err, "seed property owner %q", o.Name)
			}
		}
		for _, f := range sf.Franchises {
			_, err := env.Engine.RegisterFranchise(ctx, engine.FranchiseInput{
				CompanyName:  f.CompanyName,
				Email:        f.Email,
				Phone:        f.Phone,
				Pincode:      f.Pincode,
				Requirements: f.Requirements,
			})
			if err != nil {
				return eris.Wrapf(err, "seed franchise %q", f.CompanyName)
			}
		}
		for _, e := range sf.Entrepreneurs {
			_, err := env.Engine.RegisterEntrepreneur(ctx, engine.EntrepreneurInput{
				Name:         e.Name,
				Email:        e.Email,
				Phone:        e.Phone,
				Type:         e.Type,
				Budget:       e.Budget,
				Pincode:      e.Pincode,
				BusinessIdea: e.BusinessIdea,
				Preferences:  e.Preferences,
			})
			if err != nil {
				return eris.Wrapf(err, "seed entrepreneur %q", e.Name)
			}
		}

		zap.L().Info("seed complete",
			zap.Int("property_owners", len(sf.PropertyOwners)),
			zap.Int("franchises", len(sf.Franchises)),
			zap.Int("entrepreneurs", len(sf.Entrepreneurs)),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
