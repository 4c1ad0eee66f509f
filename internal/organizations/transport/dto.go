package transport

import "time"

// CreateOrganizationRequest registers a new organization.
type CreateOrganizationRequest struct {
	Name             string `json:"name" validate:"required,min=2,max=200"`
	ContactEmail     string `json:"contactEmail" validate:"required,email"`
	Country          string `json:"country" validate:"required,min=2,max=100"`
	OrganizationType string `json:"organizationType" validate:"omitempty,max=100"`
	EntityType       string `json:"entityType" validate:"omitempty,max=100"`
	IndustrySegment  string `json:"industrySegment" validate:"omitempty,max=100"`
}

// UpdateProfileRequest partially updates the caller's profile. Omitted
// fields are left unchanged.
type UpdateProfileRequest struct {
	Name             *string `json:"name,omitempty" validate:"omitempty,min=2,max=200"`
	ContactEmail     *string `json:"contactEmail,omitempty" validate:"omitempty,email"`
	Country          *string `json:"country,omitempty" validate:"omitempty,min=2,max=100"`
	OrganizationType *string `json:"organizationType,omitempty" validate:"omitempty,max=100"`
	EntityType       *string `json:"entityType,omitempty" validate:"omitempty,max=100"`
	IndustrySegment  *string `json:"industrySegment,omitempty" validate:"omitempty,max=100"`
}

// OrganizationResponse represents an organization profile.
type OrganizationResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	ContactEmail     string    `json:"contactEmail"`
	Country          string    `json:"country"`
	OrganizationType string    `json:"organizationType"`
	EntityType       string    `json:"entityType"`
	IndustrySegment  string    `json:"industrySegment"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
