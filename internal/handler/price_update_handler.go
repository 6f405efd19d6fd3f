package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prohmpiriya/price-settings/internal/domain"
	"github.com/prohmpiriya/price-settings/internal/dto"
	"github.com/prohmpiriya/price-settings/internal/service"
	"github.com/prohmpiriya/price-settings/pkg/response"
	"github.com/prohmpiriya/price-settings/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// PriceUpdateHandler handles guardrail checks for proposed price changes
type PriceUpdateHandler struct {
	priceChangeService service.PriceChangeService
}

// NewPriceUpdateHandler creates a new PriceUpdateHandler
func NewPriceUpdateHandler(priceChangeService service.PriceChangeService) *PriceUpdateHandler {
	return &PriceUpdateHandler{priceChangeService: priceChangeService}
}

// Validate handles POST /price-updates/validate
func (h *PriceUpdateHandler) Validate(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.price_update.Validate")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var req dto.ValidatePriceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid request body")
		response.ValidationError(c, "Invalid request body", err.Error())
		return
	}
	span.SetAttributes(
		attribute.Int64("plan_id", req.PlanID),
		attribute.Int64("session_id", req.SessionID),
	)

	update, err := h.priceChangeService.Validate(req.ToParams())
	if err != nil {
		span.RecordError(err)
		var gErr *domain.GuardrailError
		if errors.As(err, &gErr) {
			span.SetStatus(codes.Error, gErr.RuleName())
			response.ErrorWithData(c, http.StatusUnprocessableEntity, "GUARDRAIL_VIOLATION", gErr.Rule.Error(),
				dto.ValidatePriceUpdateResponse{
					Valid:   false,
					Rule:    gErr.RuleName(),
					Message: err.Error(),
				})
			return
		}
		span.SetStatus(codes.Error, "Failed to validate price update")
		response.InternalError(c, err)
		return
	}

	span.SetStatus(codes.Ok, "")
	response.Success(c, dto.ValidatePriceUpdateResponse{Valid: true, Ratio: update.Ratio()})
}
