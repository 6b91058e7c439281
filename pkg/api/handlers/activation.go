package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/api/scope"
	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/api/types"
	"github.com/bharatlytics/visitorManagementSystem-sub002/pkg/fleet"
)

// ActivationHandler handles admin onboarding endpoints
type ActivationHandler struct {
	registry *fleet.Registry
}

// NewActivationHandler creates a new activation handler
func NewActivationHandler(registry *fleet.Registry) *ActivationHandler {
	return &ActivationHandler{registry: registry}
}

// GenerateCodes handles POST /activation-codes
// @Summary      Generate activation codes
// @Description  Bulk-creates single-use codes; count is clamped server-side
// @Tags         activation
// @Accept       json
// @Produce      json
// @Param        request  body      types.GenerateCodesRequest  true  "Count and TTL"
// @Success      201      {object}  types.GenerateCodesResponse
// @Router       /activation-codes [post]
func (h *ActivationHandler) GenerateCodes(c *gin.Context) {
	ctx := c.Request.Context()

	var req types.GenerateCodesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "Invalid request body")
		return
	}

	codes, err := h.registry.GenerateCodes(ctx, scope.CompanyID(c), req.Count, req.ExpiresInHours)
	if err != nil {
		writeError(c, err)
		return
	}

	summaries := make([]types.CodeSummary, 0, len(codes))
	for _, code := range codes {
		summaries = append(summaries, types.CodeSummary{
			Code:      code.Code,
			ExpiresAt: code.ExpiresAt,
		})
	}

	c.JSON(http.StatusCreated, types.GenerateCodesResponse{
		Codes: summaries,
		Count: len(summaries),
	})
}

// GenerateQRPayload handles POST /qr-payload
// @Summary      Generate a QR registration payload
// @Description  Returns the literal object that gets encoded into the QR image and posted back by the device
// @Tags         activation
// @Accept       json
// @Produce      json
// @Param        request  body      types.QRPayloadRequest  true  "Optional prefilled device fields and TTL"
// @Success      201      {object}  fleet.QRPayload
// @Router       /qr-payload [post]
func (h *ActivationHandler) GenerateQRPayload(c *gin.Context) {
	ctx := c.Request.Context()

	var req types.QRPayloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "Invalid request body")
		return
	}

	payload, err := h.registry.GenerateQRPayload(ctx, scope.CompanyID(c), req.DeviceName, req.DeviceType, req.ExpiresInHours)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payload)
}
