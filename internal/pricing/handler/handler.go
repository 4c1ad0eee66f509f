package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"activation_backend/internal/pricing/repository"
	"activation_backend/internal/pricing/service"
	"activation_backend/internal/pricing/transport"
	"activation_backend/platform/httpkit"
	"activation_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgMissingOrg       = "caller has no organization"
)

// ContextProvider resolves the caller's normalized profile context. The
// activation module implements it (profile read + normalization); the pricing
// handler never accepts context fields from the request.
type ContextProvider interface {
	ProfileContext(ctx context.Context, orgID uuid.UUID) (service.ProfileContext, error)
}

// Handler handles HTTP requests for pricing lookups.
type Handler struct {
	svc      *service.Service
	contexts ContextProvider
	val      *validator.Validator
}

// New creates a new pricing handler.
func New(svc *service.Service, contexts ContextProvider, val *validator.Validator) *Handler {
	return &Handler{svc: svc, contexts: contexts, val: val}
}

// Resolve resolves pricing for the caller's context and the requested
// engagement model, membership status, and frequency.
// GET /api/v1/pricing/resolve
func (h *Handler) Resolve(c *gin.Context) {
	var req transport.ResolvePricingRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	pc, ok := h.callerContext(c)
	if !ok {
		return
	}

	cfg, err := h.svc.Resolve(c.Request.Context(), pc, req.EngagementModel, req.MembershipStatus, req.Frequency)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.ResolvePricingResponse{Configuration: toConfigResponse(cfg)}
	if req.TransactionAmount != nil || !cfg.IsPercentage {
		var amount float64
		if req.TransactionAmount != nil {
			amount = *req.TransactionAmount
		}
		quote := h.svc.Fee(cfg, amount)
		resp.Fee = &transport.FeeQuoteResponse{
			IsPercentage: quote.IsPercentage,
			RatePct:      quote.RatePct,
			Amount:       quote.Amount,
			CurrencyCode: quote.CurrencyCode,
		}
	}

	httpkit.OK(c, resp)
}

// Compare resolves member and non-member pricing side by side.
// GET /api/v1/pricing/compare
func (h *Handler) Compare(c *gin.Context) {
	var req transport.ComparePricingRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	pc, ok := h.callerContext(c)
	if !ok {
		return
	}

	cmp, err := h.svc.ResolveBoth(c.Request.Context(), pc, req.EngagementModel, req.Frequency)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := transport.ComparePricingResponse{DerivedDiscountPct: cmp.DerivedDiscountPct}
	if cmp.Member != nil {
		member := toConfigResponse(cmp.Member)
		resp.Member = &member
	}
	if cmp.NonMember != nil {
		nonMember := toConfigResponse(cmp.NonMember)
		resp.NonMember = &nonMember
	}

	httpkit.OK(c, resp)
}

// MembershipFees returns the membership fee schedule for the caller's context.
// GET /api/v1/pricing/membership-fees
func (h *Handler) MembershipFees(c *gin.Context) {
	pc, ok := h.callerContext(c)
	if !ok {
		return
	}

	fees, err := h.svc.MembershipFees(c.Request.Context(), pc)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.MembershipFeesResponse{
		Country:          fees.Country,
		OrganizationType: fees.OrganizationType,
		EntityType:       fees.EntityType,
		MonthlyAmount:    fees.MonthlyAmount,
		QuarterlyAmount:  fees.QuarterlyAmount,
		AnnualAmount:     fees.AnnualAmount,
		Currency:         fees.Currency,
	})
}

func (h *Handler) callerContext(c *gin.Context) (service.ProfileContext, bool) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return service.ProfileContext{}, false
	}
	orgID := identity.OrganizationID()
	if orgID == nil {
		httpkit.Error(c, http.StatusForbidden, msgMissingOrg, nil)
		return service.ProfileContext{}, false
	}

	pc, err := h.contexts.ProfileContext(c.Request.Context(), *orgID)
	if err != nil {
		_ = httpkit.HandleError(c, err)
		return service.ProfileContext{}, false
	}
	return pc, true
}

func toConfigResponse(cfg *repository.PricingConfiguration) transport.PricingConfigurationResponse {
	return transport.PricingConfigurationResponse{
		EngagementModel:       cfg.EngagementModel,
		Country:               cfg.Country,
		OrganizationType:      cfg.OrganizationType,
		EntityType:            cfg.EntityType,
		MembershipStatus:      cfg.MembershipStatus,
		BillingFrequency:      cfg.BillingFrequency,
		CalculatedValue:       cfg.CalculatedValue,
		IsPercentage:          cfg.IsPercentage,
		CurrencyCode:          cfg.CurrencyCode,
		MembershipDiscountPct: cfg.MembershipDiscountPct,
	}
}
