// Package service implements the activation workflow controller: the ordered
// onboarding steps, their transition guards, and the durable write-back of
// every transition into the activation record store.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"activation_backend/internal/activation/ports"
	"activation_backend/internal/activation/repository"
	"activation_backend/internal/activation/transport"
	"activation_backend/internal/events"
	"activation_backend/platform/apperr"
	"activation_backend/platform/logger"
)

const (
	membershipActive    = "Active"
	membershipNotActive = "Not Active"
	paymentSuccess      = "success"

	// Persistence calls are bounded; a timed-out write is an update failure
	// and the workflow must not advance past it.
	upsertTimeout = 5 * time.Second

	msgUpdateFailed = "activation update failed"
)

// Service is the activation workflow controller.
type Service struct {
	store    repository.Store
	profiles ports.ProfileReader
	pricing  ports.PricingChecker
	bus      events.Bus
	log      *logger.Logger
}

// New creates a new activation service.
func New(store repository.Store, profiles ports.ProfileReader, pricing ports.PricingChecker, log *logger.Logger) *Service {
	return &Service{store: store, profiles: profiles, pricing: pricing, log: log}
}

// SetEventBus wires the domain event bus. Optional; without it transitions
// are still durable, only notifications are skipped.
func (s *Service) SetEventBus(bus events.Bus) {
	s.bus = bus
}

// Transition advances the workflow to the requested step, persisting the
// step and any payload fields in a single upsert. The in-memory view is
// always rederived from the store, so a failed write leaves the prior step
// current and returns an update-failure error the caller may retry.
func (s *Service) Transition(ctx context.Context, orgID uuid.UUID, req transport.TransitionRequest) (*repository.ActivationRecord, error) {
	target, ok := repository.ParseStep(req.Step)
	if !ok {
		return nil, apperr.Validation(fmt.Sprintf("unknown workflow step %q", req.Step))
	}

	profile, err := s.profiles.GetProfile(ctx, orgID)
	if err != nil {
		return nil, err
	}
	nctx, err := NormalizeProfile(profile)
	if err != nil {
		return nil, err
	}

	existing, err := s.currentRecord(ctx, orgID)
	if err != nil {
		return nil, err
	}

	current := repository.StepMembershipDecision
	if existing != nil {
		current = existing.WorkflowStep
	}

	if err := checkTransition(current, target, req, existing); err != nil {
		return nil, err
	}
	if err := s.checkSelections(ctx, req, existing, nctx); err != nil {
		return nil, err
	}

	patch := buildPatch(target, req, profile, nctx, existing)

	rec, err := s.upsert(ctx, orgID, patch)
	if err != nil {
		return nil, err
	}

	s.log.WorkflowTransition(orgID.String(), string(current), string(target))
	s.publishTransition(ctx, rec, current, target)

	return rec, nil
}

// Edit re-enters a previously visited step directly. This is the only
// permitted backward movement and it never clears recorded tier or engagement
// selections: the patch carries the step alone. Targets ahead of the current
// step are rejected; moving forward stays behind the transition guards.
func (s *Service) Edit(ctx context.Context, orgID uuid.UUID, req transport.EditRequest) (*repository.ActivationRecord, error) {
	target, ok := repository.ParseStep(req.Step)
	if !ok {
		return nil, apperr.Validation(fmt.Sprintf("unknown workflow step %q", req.Step))
	}

	existing, err := s.store.Get(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if repository.StepIndex(target) > repository.StepIndex(existing.WorkflowStep) {
		return nil, apperr.Conflict(fmt.Sprintf("cannot edit forward from %s to %s", existing.WorkflowStep, target))
	}

	rec, err := s.upsert(ctx, orgID, repository.RecordPatch{WorkflowStep: &target})
	if err != nil {
		return nil, err
	}

	s.log.WorkflowTransition(orgID.String(), string(existing.WorkflowStep), string(target))
	return rec, nil
}

// ChangeFrequency switches the billing frequency, appending the change to
// the record's history. Idempotent per the store's upsert semantics, so a
// double submission caused by the caller is harmless to record integrity.
func (s *Service) ChangeFrequency(ctx context.Context, orgID uuid.UUID, req transport.FrequencyChangeRequest) (*repository.ActivationRecord, error) {
	if _, err := s.store.Get(ctx, orgID); err != nil {
		return nil, err
	}

	change := repository.FrequencyChange{
		ToFrequency: req.Frequency,
		Amount:      req.Amount,
		ChangedAt:   time.Now().UTC(),
	}

	return s.upsert(ctx, orgID, repository.RecordPatch{
		SelectedFrequency:     &req.Frequency,
		AppendFrequencyChange: &change,
	})
}

// Load fetches the organization's saved selections together with the
// reconciliation verdict for the current profile. Callers must not resume a
// stale step when the verdict is invalid; they surface the issues and offer
// re-entry at membership_decision instead.
func (s *Service) Load(ctx context.Context, orgID uuid.UUID) (ReconcileOutcome, error) {
	profile, err := s.profiles.GetProfile(ctx, orgID)
	if err != nil {
		return ReconcileOutcome{}, err
	}
	return s.Reconcile(ctx, profile)
}

// NormalizedContext derives the caller's canonical pricing context from the
// current profile. Other modules reach this through an adapter.
func (s *Service) NormalizedContext(ctx context.Context, orgID uuid.UUID) (NormalizedContext, error) {
	profile, err := s.profiles.GetProfile(ctx, orgID)
	if err != nil {
		return NormalizedContext{}, err
	}
	return NormalizeProfile(profile)
}

// checkSelections validates the commercial selections carried by a
// transition against current pricing, so a stale client cannot persist a
// tier or model that is no longer offered.
func (s *Service) checkSelections(ctx context.Context, req transport.TransitionRequest, existing *repository.ActivationRecord, nctx NormalizedContext) error {
	if hasValue(req.PricingTier) {
		err := s.pricing.CheckTier(ctx, *req.PricingTier)
		switch {
		case err == nil:
		case apperr.Is(err, apperr.KindNotFound):
			return apperr.Validation(fmt.Sprintf("pricing tier %q is not offered", *req.PricingTier))
		default:
			return err
		}
	}

	if hasValue(req.EngagementModel) {
		status := membershipNotActive
		if req.MembershipStatus != nil {
			status = *req.MembershipStatus
		} else if existing != nil && existing.MembershipStatus != "" {
			status = existing.MembershipStatus
		}
		frequency := req.SelectedFrequency
		if frequency == nil && existing != nil {
			frequency = existing.SelectedFrequency
		}

		err := s.pricing.CheckEngagementModel(ctx, nctx.Country, nctx.OrganizationType, nctx.EntityType,
			*req.EngagementModel, status, frequency)
		switch {
		case err == nil:
		case apperr.Is(err, apperr.KindNotFound):
			return apperr.Validation(fmt.Sprintf("engagement model %q is not priced for this organization", *req.EngagementModel))
		case apperr.Is(err, apperr.KindValidation):
			// Incomplete profile context; let the selection through and
			// surface it at the next reconciliation instead.
			return nil
		default:
			return err
		}
	}

	return nil
}

func (s *Service) currentRecord(ctx context.Context, orgID uuid.UUID) (*repository.ActivationRecord, error) {
	rec, err := s.store.Get(ctx, orgID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

func (s *Service) upsert(ctx context.Context, orgID uuid.UUID, patch repository.RecordPatch) (*repository.ActivationRecord, error) {
	upsertCtx, cancel := context.WithTimeout(ctx, upsertTimeout)
	defer cancel()

	rec, err := s.store.Upsert(upsertCtx, orgID, patch)
	if err != nil {
		s.log.DatabaseError("activation_record_upsert", err)
		return nil, apperr.Wrap(apperr.KindInternal, msgUpdateFailed, err)
	}
	return rec, nil
}

func (s *Service) publishTransition(ctx context.Context, rec *repository.ActivationRecord, from, to repository.WorkflowStep) {
	if s.bus == nil {
		return
	}

	s.bus.Publish(ctx, events.WorkflowStepAdvanced{
		BaseEvent:      events.NewBaseEvent(),
		OrganizationID: rec.OrganizationID,
		FromStep:       string(from),
		ToStep:         string(to),
	})

	if to == repository.StepActivationComplete {
		completed := events.ActivationCompleted{
			BaseEvent:        events.NewBaseEvent(),
			OrganizationID:   rec.OrganizationID,
			OrganizationName: rec.OrganizationName,
			ContactEmail:     rec.ContactEmail,
			MembershipStatus: rec.MembershipStatus,
		}
		if rec.PricingTier != nil {
			completed.PricingTier = *rec.PricingTier
		}
		if rec.EngagementModel != nil {
			completed.EngagementModel = *rec.EngagementModel
		}
		s.bus.Publish(ctx, completed)
	}
}

// checkTransition enforces the forward guards. Re-submitting the current
// step is allowed (idempotent update); everything else follows the ordered
// step table.
func checkTransition(current, target repository.WorkflowStep, req transport.TransitionRequest, existing *repository.ActivationRecord) error {
	if target == current {
		return nil
	}

	switch target {
	case repository.StepMembershipDecision:
		if existing != nil {
			return apperr.Conflict("use an edit action to revisit the membership decision")
		}
		return nil

	case repository.StepPayment:
		if current != repository.StepMembershipDecision {
			return transitionRejected(current, target)
		}
		if req.MembershipStatus == nil || *req.MembershipStatus != membershipActive {
			return apperr.Conflict("membership payment requires an activate decision")
		}
		return nil

	case repository.StepTierSelection:
		switch current {
		case repository.StepMembershipDecision:
			if req.MembershipStatus == nil || *req.MembershipStatus != membershipNotActive {
				return apperr.Conflict("skipping membership requires an explicit skip decision")
			}
			return nil
		case repository.StepPayment:
			if !paymentSucceeded(req, existing) {
				return apperr.Conflict("tier selection requires a successful membership payment")
			}
			return nil
		default:
			return transitionRejected(current, target)
		}

	case repository.StepEngagementModel:
		if current != repository.StepTierSelection {
			return transitionRejected(current, target)
		}
		if !hasValue(req.PricingTier) && (existing == nil || !hasValue(existing.PricingTier)) {
			return apperr.Conflict("a pricing tier must be selected before choosing an engagement model")
		}
		return nil

	case repository.StepPreviewConfirmation:
		if current != repository.StepEngagementModel {
			return transitionRejected(current, target)
		}
		if !hasValue(req.EngagementModel) && (existing == nil || !hasValue(existing.EngagementModel)) {
			return apperr.Conflict("an engagement model must be selected before preview")
		}
		return nil

	case repository.StepActivationComplete:
		if current != repository.StepPreviewConfirmation {
			return transitionRejected(current, target)
		}
		return nil
	}

	return transitionRejected(current, target)
}

func transitionRejected(current, target repository.WorkflowStep) error {
	return apperr.Conflict(fmt.Sprintf("cannot move from %s to %s", current, target))
}

func paymentSucceeded(req transport.TransitionRequest, existing *repository.ActivationRecord) bool {
	if req.PaymentStatus != nil && *req.PaymentStatus == paymentSuccess {
		return true
	}
	return existing != nil && existing.PaymentStatus == paymentSuccess
}

func hasValue(s *string) bool {
	return s != nil && *s != ""
}

// buildPatch assembles the single upsert a transition performs: the new step,
// every payload field supplied with it, and a snapshot of the normalized
// context for later drift detection.
func buildPatch(target repository.WorkflowStep, req transport.TransitionRequest, profile ports.Profile, nctx NormalizedContext, existing *repository.ActivationRecord) repository.RecordPatch {
	patch := repository.RecordPatch{
		WorkflowStep:      &target,
		MembershipStatus:  req.MembershipStatus,
		PricingTier:       req.PricingTier,
		EngagementModel:   req.EngagementModel,
		SelectedFrequency: req.SelectedFrequency,
		PaymentStatus:     req.PaymentStatus,
		PaymentAmount:     req.PaymentAmount,
		PaymentCurrency:   req.PaymentCurrency,
		OrganizationName:  &profile.DisplayName,
		ContactEmail:      &profile.ContactEmail,
		Country:           &nctx.Country,
	}
	if nctx.OrganizationType != "" {
		patch.OrganizationType = &nctx.OrganizationType
	}
	if nctx.EntityType != "" {
		patch.EntityType = &nctx.EntityType
	}

	// The membership payment is recorded once. A double submission of the
	// same successful transition updates the scalar fields idempotently but
	// must not append a second entry.
	alreadyPaid := existing != nil && existing.PaymentStatus == paymentSuccess
	if !alreadyPaid && req.PaymentStatus != nil && *req.PaymentStatus == paymentSuccess && req.PaymentAmount != nil {
		currency := ""
		if req.PaymentCurrency != nil {
			currency = *req.PaymentCurrency
		}
		patch.AppendPayment = &repository.PaymentEntry{
			OrganizationID: profile.OrganizationID,
			Amount:         *req.PaymentAmount,
			Currency:       currency,
			Status:         paymentSuccess,
			RecordedAt:     time.Now().UTC(),
		}
	}

	return patch
}
