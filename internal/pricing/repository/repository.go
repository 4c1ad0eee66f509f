package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ── Domain Models ─────────────────────────────────────────────────────────────

// Membership status values used across pricing lookups.
const (
	MembershipActive    = "Active"
	MembershipNotActive = "Not Active"
)

// PricingConfiguration is one row of engagement-model pricing reference data.
// Percentage rows express a platform fee as a percent of a downstream
// transaction; fixed rows carry a currency amount per billing frequency.
type PricingConfiguration struct {
	ID                    uuid.UUID `db:"id"`
	EngagementModel       string    `db:"engagement_model"`
	Country               string    `db:"country"`
	OrganizationType      string    `db:"organization_type"`
	EntityType            string    `db:"entity_type"`
	MembershipStatus      string    `db:"membership_status"`
	BillingFrequency      *string   `db:"billing_frequency"`
	CalculatedValue       float64   `db:"calculated_value"`
	IsPercentage          bool      `db:"is_percentage"`
	CurrencyCode          *string   `db:"currency_code"`
	MembershipDiscountPct *float64  `db:"membership_discount_pct"`
	Position              int       `db:"position"`
}

// MembershipFeeSchedule carries the membership fee amounts for a normalized
// profile context.
type MembershipFeeSchedule struct {
	ID               uuid.UUID `db:"id"`
	Country          string    `db:"country"`
	OrganizationType string    `db:"organization_type"`
	EntityType       string    `db:"entity_type"`
	MonthlyAmount    float64   `db:"monthly_amount"`
	QuarterlyAmount  float64   `db:"quarterly_amount"`
	AnnualAmount     float64   `db:"annual_amount"`
	Currency         string    `db:"currency"`
}

// PricingTier is a named service level, independent of engagement model.
type PricingTier struct {
	ID       uuid.UUID `db:"id"`
	Name     string    `db:"name"`
	IsActive bool      `db:"is_active"`
}

// PricingQuery scopes a configuration lookup. All fields are required; the
// resolver never issues partial-context queries.
type PricingQuery struct {
	Country          string
	OrganizationType string
	EntityType       string
	EngagementModel  string
	MembershipStatus string
}

// FeeQuery scopes a membership fee schedule lookup.
type FeeQuery struct {
	Country          string
	OrganizationType string
	EntityType       string
}

// ── Source interface ──────────────────────────────────────────────────────────

// Source provides read access to pricing reference data. The Postgres
// repository implements it directly; CachedSource wraps it with Redis.
type Source interface {
	QueryPricing(ctx context.Context, q PricingQuery) ([]PricingConfiguration, error)
	QueryMembershipFees(ctx context.Context, q FeeQuery) ([]MembershipFeeSchedule, error)
	TierExists(ctx context.Context, name string) (bool, error)
}

// ── Repository ────────────────────────────────────────────────────────────────

// Repository provides database operations for pricing reference data.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new pricing repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Compile-time check that Repository implements Source.
var _ Source = (*Repository)(nil)

// QueryPricing returns every configuration matching the full query tuple,
// ordered by insertion position so the resolver's first-match tie break is
// stable.
func (r *Repository) QueryPricing(ctx context.Context, q PricingQuery) ([]PricingConfiguration, error) {
	query := `
		SELECT id, engagement_model, country, organization_type, entity_type,
		       membership_status, billing_frequency, calculated_value,
		       is_percentage, currency_code, membership_discount_pct, position
		FROM pricing_configurations
		WHERE country = $1 AND organization_type = $2 AND entity_type = $3
		  AND engagement_model = $4 AND membership_status = $5
		ORDER BY position ASC`

	rows, err := r.pool.Query(ctx, query,
		q.Country, q.OrganizationType, q.EntityType, q.EngagementModel, q.MembershipStatus)
	if err != nil {
		return nil, fmt.Errorf("query pricing configurations: %w", err)
	}
	defer rows.Close()

	var configs []PricingConfiguration
	for rows.Next() {
		var pc PricingConfiguration
		if err := rows.Scan(
			&pc.ID, &pc.EngagementModel, &pc.Country, &pc.OrganizationType, &pc.EntityType,
			&pc.MembershipStatus, &pc.BillingFrequency, &pc.CalculatedValue,
			&pc.IsPercentage, &pc.CurrencyCode, &pc.MembershipDiscountPct, &pc.Position,
		); err != nil {
			return nil, fmt.Errorf("scan pricing configuration: %w", err)
		}
		configs = append(configs, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pricing configurations: %w", err)
	}

	return configs, nil
}

// QueryMembershipFees returns the fee schedules matching the context.
func (r *Repository) QueryMembershipFees(ctx context.Context, q FeeQuery) ([]MembershipFeeSchedule, error) {
	query := `
		SELECT id, country, organization_type, entity_type,
		       monthly_amount, quarterly_amount, annual_amount, currency
		FROM membership_fee_schedules
		WHERE country = $1 AND organization_type = $2 AND entity_type = $3
		ORDER BY id ASC`

	rows, err := r.pool.Query(ctx, query, q.Country, q.OrganizationType, q.EntityType)
	if err != nil {
		return nil, fmt.Errorf("query membership fees: %w", err)
	}
	defer rows.Close()

	var schedules []MembershipFeeSchedule
	for rows.Next() {
		var fs MembershipFeeSchedule
		if err := rows.Scan(
			&fs.ID, &fs.Country, &fs.OrganizationType, &fs.EntityType,
			&fs.MonthlyAmount, &fs.QuarterlyAmount, &fs.AnnualAmount, &fs.Currency,
		); err != nil {
			return nil, fmt.Errorf("scan membership fee schedule: %w", err)
		}
		schedules = append(schedules, fs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate membership fee schedules: %w", err)
	}

	return schedules, nil
}

// TierExists reports whether an active pricing tier with the given name exists.
func (r *Repository) TierExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM pricing_tiers WHERE name = $1 AND is_active = true)`
	if err := r.pool.QueryRow(ctx, query, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("check pricing tier: %w", err)
	}
	return exists, nil
}

// InsertPricingConfiguration inserts one configuration row. Position is
// assigned by the sequence, preserving insertion order for tie breaks.
// Used by the seed command.
func (r *Repository) InsertPricingConfiguration(ctx context.Context, pc PricingConfiguration) error {
	query := `
		INSERT INTO pricing_configurations (
			id, engagement_model, country, organization_type, entity_type,
			membership_status, billing_frequency, calculated_value,
			is_percentage, currency_code, membership_discount_pct
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	if _, err := r.pool.Exec(ctx, query,
		pc.ID, pc.EngagementModel, pc.Country, pc.OrganizationType, pc.EntityType,
		pc.MembershipStatus, pc.BillingFrequency, pc.CalculatedValue,
		pc.IsPercentage, pc.CurrencyCode, pc.MembershipDiscountPct,
	); err != nil {
		return fmt.Errorf("insert pricing configuration: %w", err)
	}
	return nil
}

// InsertMembershipFeeSchedule inserts one fee schedule row. Used by the seed command.
func (r *Repository) InsertMembershipFeeSchedule(ctx context.Context, fs MembershipFeeSchedule) error {
	query := `
		INSERT INTO membership_fee_schedules (
			id, country, organization_type, entity_type,
			monthly_amount, quarterly_amount, annual_amount, currency
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if _, err := r.pool.Exec(ctx, query,
		fs.ID, fs.Country, fs.OrganizationType, fs.EntityType,
		fs.MonthlyAmount, fs.QuarterlyAmount, fs.AnnualAmount, fs.Currency,
	); err != nil {
		return fmt.Errorf("insert membership fee schedule: %w", err)
	}
	return nil
}

// UpsertPricingTier inserts or reactivates a named tier. Used by the seed command.
func (r *Repository) UpsertPricingTier(ctx context.Context, tier PricingTier) error {
	query := `
		INSERT INTO pricing_tiers (id, name, is_active)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET is_active = EXCLUDED.is_active`

	if _, err := r.pool.Exec(ctx, query, tier.ID, tier.Name, tier.IsActive); err != nil {
		return fmt.Errorf("upsert pricing tier: %w", err)
	}
	return nil
}
