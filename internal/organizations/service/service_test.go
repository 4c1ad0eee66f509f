package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"activation_backend/internal/events"
	"activation_backend/internal/organizations/repository"
	"activation_backend/platform/apperr"
	"activation_backend/platform/logger"
)

type fakeStore struct {
	orgs map[uuid.UUID]repository.Organization
}

func (f *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*repository.Organization, error) {
	org, ok := f.orgs[id]
	if !ok {
		return nil, apperr.NotFound("organization not found")
	}
	return &org, nil
}

func (f *fakeStore) Create(_ context.Context, org *repository.Organization) (*repository.Organization, error) {
	f.orgs[org.ID] = *org
	return org, nil
}

func (f *fakeStore) UpdateProfile(_ context.Context, id uuid.UUID, patch repository.ProfilePatch) (*repository.Organization, error) {
	org, ok := f.orgs[id]
	if !ok {
		return nil, apperr.NotFound("organization not found")
	}
	if patch.Name != nil {
		org.Name = *patch.Name
	}
	if patch.ContactEmail != nil {
		org.ContactEmail = *patch.ContactEmail
	}
	if patch.Country != nil {
		org.Country = *patch.Country
	}
	if patch.OrganizationType != nil {
		org.OrganizationType = *patch.OrganizationType
	}
	if patch.EntityType != nil {
		org.EntityType = *patch.EntityType
	}
	if patch.IndustrySegment != nil {
		org.IndustrySegment = *patch.IndustrySegment
	}
	f.orgs[id] = org
	return &org, nil
}

type capturingBus struct {
	published []events.Event
}

func (b *capturingBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *capturingBus) PublishSync(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *capturingBus) Subscribe(string, events.Handler) {}

func TestUpdateProfilePublishesEvent(t *testing.T) {
	orgID := uuid.New()
	store := &fakeStore{orgs: map[uuid.UUID]repository.Organization{
		orgID: {ID: orgID, Name: "Helping Hands Trust", Country: "India"},
	}}
	bus := &capturingBus{}

	svc := New(store, logger.New("development"))
	svc.SetEventBus(bus)

	country := "Singapore"
	org, err := svc.UpdateProfile(context.Background(), orgID, repository.ProfilePatch{Country: &country})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if org.Country != "Singapore" {
		t.Fatalf("expected updated country, got %q", org.Country)
	}
	if org.Name != "Helping Hands Trust" {
		t.Fatalf("partial update clobbered name: %q", org.Name)
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected one event, got %d", len(bus.published))
	}
	e, ok := bus.published[0].(events.OrganizationProfileUpdated)
	if !ok {
		t.Fatalf("unexpected event type %T", bus.published[0])
	}
	if e.OrganizationID != orgID || e.Country != "Singapore" {
		t.Fatalf("event carries wrong data: %+v", e)
	}
}

func TestUpdateProfileMissingOrgNoEvent(t *testing.T) {
	store := &fakeStore{orgs: map[uuid.UUID]repository.Organization{}}
	bus := &capturingBus{}

	svc := New(store, logger.New("development"))
	svc.SetEventBus(bus)

	name := "Anyone"
	_, err := svc.UpdateProfile(context.Background(), uuid.New(), repository.ProfilePatch{Name: &name})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(bus.published) != 0 {
		t.Fatalf("expected no events, got %d", len(bus.published))
	}
}

func TestCreateAssignsID(t *testing.T) {
	store := &fakeStore{orgs: map[uuid.UUID]repository.Organization{}}
	svc := New(store, logger.New("development"))

	org, err := svc.Create(context.Background(), &repository.Organization{Name: "New Org", Country: "India"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if org.ID == uuid.Nil {
		t.Fatal("expected an assigned id")
	}
}
