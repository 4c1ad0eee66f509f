// Package service implements organization profile management. Profile edits
// publish an event so dependent modules re-derive pricing context instead of
// trusting stale snapshots.
package service

import (
	"context"

	"github.com/google/uuid"

	"activation_backend/internal/events"
	"activation_backend/internal/organizations/repository"
	"activation_backend/platform/logger"
)

// Store is the subset of the repository the service needs.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*repository.Organization, error)
	Create(ctx context.Context, org *repository.Organization) (*repository.Organization, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, patch repository.ProfilePatch) (*repository.Organization, error)
}

// Service handles organization profile operations.
type Service struct {
	store Store
	bus   events.Bus
	log   *logger.Logger
}

// New creates a new organizations service.
func New(store Store, log *logger.Logger) *Service {
	return &Service{store: store, log: log}
}

// SetEventBus wires the domain event bus.
func (s *Service) SetEventBus(bus events.Bus) {
	s.bus = bus
}

// Get fetches an organization by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*repository.Organization, error) {
	return s.store.GetByID(ctx, id)
}

// Create registers a new organization.
func (s *Service) Create(ctx context.Context, org *repository.Organization) (*repository.Organization, error) {
	if org.ID == uuid.Nil {
		org.ID = uuid.New()
	}
	return s.store.Create(ctx, org)
}

// UpdateProfile applies a partial profile update and publishes a profile
// updated event so consumers re-run reconciliation.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, patch repository.ProfilePatch) (*repository.Organization, error) {
	org, err := s.store.UpdateProfile(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	if s.bus != nil {
		s.bus.Publish(ctx, events.OrganizationProfileUpdated{
			BaseEvent:      events.NewBaseEvent(),
			OrganizationID: org.ID,
			Country:        org.Country,
			OrgType:        org.OrganizationType,
			EntityType:     org.EntityType,
		})
	}

	return org, nil
}
