package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"activation_backend/internal/organizations/repository"
	"activation_backend/internal/organizations/service"
	"activation_backend/internal/organizations/transport"
	"activation_backend/platform/httpkit"
	"activation_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgMissingOrg       = "caller has no organization"
)

// Handler handles HTTP requests for organization profiles.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new organizations handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// GetProfile returns the caller's organization profile.
// GET /api/v1/organizations/me
func (h *Handler) GetProfile(c *gin.Context) {
	orgID, ok := h.callerOrg(c)
	if !ok {
		return
	}

	org, err := h.svc.Get(c.Request.Context(), orgID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toResponse(org))
}

// UpdateProfile partially updates the caller's organization profile.
// PUT /api/v1/organizations/me
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req transport.UpdateProfileRequest
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

	org, err := h.svc.UpdateProfile(c.Request.Context(), orgID, repository.ProfilePatch{
		Name:             req.Name,
		ContactEmail:     req.ContactEmail,
		Country:          req.Country,
		OrganizationType: req.OrganizationType,
		EntityType:       req.EntityType,
		IndustrySegment:  req.IndustrySegment,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, toResponse(org))
}

// Create registers a new organization. Admin only.
// POST /api/v1/admin/organizations
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	org, err := h.svc.Create(c.Request.Context(), &repository.Organization{
		Name:             req.Name,
		ContactEmail:     req.ContactEmail,
		Country:          req.Country,
		OrganizationType: req.OrganizationType,
		EntityType:       req.EntityType,
		IndustrySegment:  req.IndustrySegment,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, toResponse(org))
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

func toResponse(org *repository.Organization) transport.OrganizationResponse {
	return transport.OrganizationResponse{
		ID:               org.ID.String(),
		Name:             org.Name,
		ContactEmail:     org.ContactEmail,
		Country:          org.Country,
		OrganizationType: org.OrganizationType,
		EntityType:       org.EntityType,
		IndustrySegment:  org.IndustrySegment,
		CreatedAt:        org.CreatedAt,
		UpdatedAt:        org.UpdatedAt,
	}
}
