// Command seed-pricing loads pricing reference data from a YAML fixture
// into the database: engagement-model configurations, membership fee
// schedules, and the tier catalog.
//
// Usage:
//
//	seed-pricing -file seed/pricing.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"activation_backend/internal/pricing/repository"
	"activation_backend/migrations"
	"activation_backend/platform/config"
	"activation_backend/platform/db"
	"activation_backend/platform/logger"
)

type seedFile struct {
	Configurations []seedConfiguration `yaml:"configurations"`
	MembershipFees []seedFeeSchedule   `yaml:"membershipFees"`
	Tiers          []seedTier          `yaml:"tiers"`
}

type seedConfiguration struct {
	EngagementModel       string   `yaml:"engagementModel"`
	Country               string   `yaml:"country"`
	OrganizationType      string   `yaml:"organizationType"`
	EntityType            string   `yaml:"entityType"`
	MembershipStatus      string   `yaml:"membershipStatus"`
	BillingFrequency      *string  `yaml:"billingFrequency"`
	Value                 float64  `yaml:"value"`
	IsPercentage          bool     `yaml:"isPercentage"`
	CurrencyCode          *string  `yaml:"currencyCode"`
	MembershipDiscountPct *float64 `yaml:"membershipDiscountPct"`
}

type seedFeeSchedule struct {
	Country          string  `yaml:"country"`
	OrganizationType string  `yaml:"organizationType"`
	EntityType       string  `yaml:"entityType"`
	MonthlyAmount    float64 `yaml:"monthlyAmount"`
	QuarterlyAmount  float64 `yaml:"quarterlyAmount"`
	AnnualAmount     float64 `yaml:"annualAmount"`
	Currency         string  `yaml:"currency"`
}

type seedTier struct {
	Name     string `yaml:"name"`
	IsActive *bool  `yaml:"isActive"`
}

func main() {
	file := flag.String("file", "seed/pricing.yaml", "path to the pricing seed YAML")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fail("load config", err)
	}
	log := logger.New(cfg.Env)

	raw, err := os.ReadFile(*file)
	if err != nil {
		fail("read seed file", err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		fail("parse seed file", err)
	}
	if err := validateSeed(seed); err != nil {
		fail("validate seed file", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := db.RunMigrations(ctx, cfg, migrations.FS); err != nil {
		fail("run migrations", err)
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		fail("connect to database", err)
	}
	defer pool.Close()

	repo := repository.New(pool)

	for _, sc := range seed.Configurations {
		err := repo.InsertPricingConfiguration(ctx, repository.PricingConfiguration{
			ID:                    uuid.New(),
			EngagementModel:       sc.EngagementModel,
			Country:               sc.Country,
			OrganizationType:      sc.OrganizationType,
			EntityType:            sc.EntityType,
			MembershipStatus:      sc.MembershipStatus,
			BillingFrequency:      sc.BillingFrequency,
			CalculatedValue:       sc.Value,
			IsPercentage:          sc.IsPercentage,
			CurrencyCode:          sc.CurrencyCode,
			MembershipDiscountPct: sc.MembershipDiscountPct,
		})
		if err != nil {
			fail("insert configuration", err)
		}
	}
	log.Info("seeded pricing configurations", "count", len(seed.Configurations))

	for _, fs := range seed.MembershipFees {
		err := repo.InsertMembershipFeeSchedule(ctx, repository.MembershipFeeSchedule{
			ID:               uuid.New(),
			Country:          fs.Country,
			OrganizationType: fs.OrganizationType,
			EntityType:       fs.EntityType,
			MonthlyAmount:    fs.MonthlyAmount,
			QuarterlyAmount:  fs.QuarterlyAmount,
			AnnualAmount:     fs.AnnualAmount,
			Currency:         fs.Currency,
		})
		if err != nil {
			fail("insert membership fee schedule", err)
		}
	}
	log.Info("seeded membership fee schedules", "count", len(seed.MembershipFees))

	for _, tier := range seed.Tiers {
		active := true
		if tier.IsActive != nil {
			active = *tier.IsActive
		}
		err := repo.UpsertPricingTier(ctx, repository.PricingTier{
			ID:       uuid.New(),
			Name:     tier.Name,
			IsActive: active,
		})
		if err != nil {
			fail("upsert pricing tier", err)
		}
	}
	log.Info("seeded pricing tiers", "count", len(seed.Tiers))
}

func validateSeed(seed seedFile) error {
	for i, sc := range seed.Configurations {
		if sc.EngagementModel == "" || sc.Country == "" || sc.OrganizationType == "" || sc.EntityType == "" {
			return fmt.Errorf("configuration %d: engagementModel, country, organizationType, and entityType are required", i)
		}
		if sc.MembershipStatus != repository.MembershipActive && sc.MembershipStatus != repository.MembershipNotActive {
			return fmt.Errorf("configuration %d: membershipStatus must be %q or %q", i, repository.MembershipActive, repository.MembershipNotActive)
		}
		if !sc.IsPercentage && sc.CurrencyCode == nil {
			return fmt.Errorf("configuration %d: fixed-amount rows require currencyCode", i)
		}
	}
	for i, tier := range seed.Tiers {
		if tier.Name == "" {
			return fmt.Errorf("tier %d: name is required", i)
		}
	}
	return nil
}

func fail(op string, err error) {
	fmt.Fprintf(os.Stderr, "seed-pricing: %s: %v\n", op, err)
	os.Exit(1)
}
