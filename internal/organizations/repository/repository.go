package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"activation_backend/platform/apperr"
)

// Organization is the stored organization profile. Country, organization
// type, and entity type feed pricing context normalization downstream.
type Organization struct {
	ID               uuid.UUID `db:"id"`
	Name             string    `db:"name"`
	ContactEmail     string    `db:"contact_email"`
	Country          string    `db:"country"`
	OrganizationType string    `db:"organization_type"`
	EntityType       string    `db:"entity_type"`
	IndustrySegment  string    `db:"industry_segment"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// ProfilePatch is a partial profile update; nil fields are left untouched.
type ProfilePatch struct {
	Name             *string
	ContactEmail     *string
	Country          *string
	OrganizationType *string
	EntityType       *string
	IndustrySegment  *string
}

// Repository provides data access for organizations.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new organizations repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const orgColumns = `id, name, contact_email, country, organization_type, entity_type, industry_segment, created_at, updated_at`

// GetByID fetches an organization by id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Organization, error) {
	query := `SELECT ` + orgColumns + ` FROM organizations WHERE id = $1`

	var org Organization
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&org.ID, &org.Name, &org.ContactEmail, &org.Country,
		&org.OrganizationType, &org.EntityType, &org.IndustrySegment,
		&org.CreatedAt, &org.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("organization not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to fetch organization", err)
	}
	return &org, nil
}

// Create inserts a new organization.
func (r *Repository) Create(ctx context.Context, org *Organization) (*Organization, error) {
	query := `
		INSERT INTO organizations (id, name, contact_email, country, organization_type, entity_type, industry_segment)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + orgColumns

	var out Organization
	err := r.pool.QueryRow(ctx, query,
		org.ID, org.Name, org.ContactEmail, org.Country,
		org.OrganizationType, org.EntityType, org.IndustrySegment,
	).Scan(
		&out.ID, &out.Name, &out.ContactEmail, &out.Country,
		&out.OrganizationType, &out.EntityType, &out.IndustrySegment,
		&out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to create organization", err)
	}
	return &out, nil
}

// UpdateProfile applies a partial update, leaving omitted fields intact.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, patch ProfilePatch) (*Organization, error) {
	query := `
		UPDATE organizations SET
			name              = COALESCE($2, name),
			contact_email     = COALESCE($3, contact_email),
			country           = COALESCE($4, country),
			organization_type = COALESCE($5, organization_type),
			entity_type       = COALESCE($6, entity_type),
			industry_segment  = COALESCE($7, industry_segment),
			updated_at        = now()
		WHERE id = $1
		RETURNING ` + orgColumns

	var org Organization
	err := r.pool.QueryRow(ctx, query, id,
		patch.Name, patch.ContactEmail, patch.Country,
		patch.OrganizationType, patch.EntityType, patch.IndustrySegment,
	).Scan(
		&org.ID, &org.Name, &org.ContactEmail, &org.Country,
		&org.OrganizationType, &org.EntityType, &org.IndustrySegment,
		&org.CreatedAt, &org.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("organization not found")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "failed to update organization", err)
	}
	return &org, nil
}
