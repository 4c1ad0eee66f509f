package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"activation_backend/internal/activation/repository"
	"activation_backend/internal/activation/service"
	"activation_backend/internal/activation/transport"
	"activation_backend/platform/httpkit"
	"activation_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgMissingOrg       = "caller has no organization"
)

// Handler handles HTTP requests for the activation workflow.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new activation handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Load returns the caller's saved workflow state together with the
// reconciliation verdict. When the verdict is invalid the client must show
// the issues and offer re-entry at membership_decision rather than resuming.
// GET /api/v1/activation
func (h *Handler) Load(c *gin.Context) {
	orgID, ok := h.callerOrg(c)
	if !ok {
		return
	}

	out, err := h.svc.Load(c.Request.Context(), orgID)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.LoadResponse{
		Validation: transport.ValidationResultResponse{
			IsValid: out.Validation.IsValid,
			Issues:  out.Validation.Issues,
		},
	}
	if out.SavedSelections != nil {
		rec := toRecordResponse(out.SavedSelections)
		resp.SavedSelections = &rec
	}

	httpkit.OK(c, resp)
}

// Transition advances the workflow to the requested step.
// POST /api/v1/activation/transition
func (h *Handler) Transition(c *gin.Context) {
	var req transport.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	orgID, ok := h.callerOrg(c)
	if !ok {
		return
	}

	rec, err := h.svc.Transition(c.Request.Context(), orgID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toRecordResponse(rec))
}

// Edit re-enters a previously visited step without clearing selections.
// POST /api/v1/activation/edit
func (h *Handler) Edit(c *gin.Context) {
	var req transport.EditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	orgID, ok := h.callerOrg(c)
	if !ok {
		return
	}

	rec, err := h.svc.Edit(c.Request.Context(), orgID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toRecordResponse(rec))
}

// ChangeFrequency switches the billing frequency and appends the change to
// the record's history.
// POST /api/v1/activation/frequency
func (h *Handler) ChangeFrequency(c *gin.Context) {
	var req transport.FrequencyChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	orgID, ok := h.callerOrg(c)
	if !ok {
		return
	}

	rec, err := h.svc.ChangeFrequency(c.Request.Context(), orgID, req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toRecordResponse(rec))
}

func (h *Handler) callerOrg(c *gin.Context) (uuid.UUID, bool) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return uuid.Nil, false
	}
	orgID := identity.OrganizationID()
	if orgID == nil {
		httpkit.Error(c, http.StatusForbidden, msgMissingOrg, nil)
		return uuid.Nil, false
	}
	return *orgID, true
}

func toRecordResponse(rec *repository.ActivationRecord) transport.ActivationRecordResponse {
	resp := transport.ActivationRecordResponse{
		OrganizationID:    rec.OrganizationID.String(),
		WorkflowStep:      string(rec.WorkflowStep),
		MembershipStatus:  rec.MembershipStatus,
		PricingTier:       rec.PricingTier,
		EngagementModel:   rec.EngagementModel,
		SelectedFrequency: rec.SelectedFrequency,
		PaymentStatus:     rec.PaymentStatus,
		PaymentAmount:     rec.PaymentAmount,
		PaymentCurrency:   rec.PaymentCurrency,
		TotalPaymentsMade: rec.TotalPaymentsMade,
		UpdatedAt:         rec.UpdatedAt,
	}
	for _, p := range rec.Payments {
		resp.Payments = append(resp.Payments, transport.PaymentEntryResponse{
			Amount:     p.Amount,
			Currency:   p.Currency,
			Status:     p.Status,
			RecordedAt: p.RecordedAt,
		})
	}
	for _, fc := range rec.FrequencyChanges {
		resp.FrequencyChanges = append(resp.FrequencyChanges, transport.FrequencyChangeResponse{
			ToFrequency: fc.ToFrequency,
			Amount:      fc.Amount,
			ChangedAt:   fc.ChangedAt,
		})
	}
	return resp
}
