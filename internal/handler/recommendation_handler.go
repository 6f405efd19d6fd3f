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

// RecommendationHandler serves recommendation previews
type RecommendationHandler struct {
	priceSettingsService service.PriceSettingsService
	version              string
}

// NewRecommendationHandler creates a new RecommendationHandler
func NewRecommendationHandler(priceSettingsService service.PriceSettingsService, version string) *RecommendationHandler {
	return &RecommendationHandler{
		priceSettingsService: priceSettingsService,
		version:              version,
	}
}

// Preview handles POST /recommendations/preview. The body is a JSON array of
// venue zone rows keyed by their warehouse column names.
func (h *RecommendationHandler) Preview(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.recommendation.Preview")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	var zones []domain.VenueZone
	if err := c.ShouldBindJSON(&zones); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid request body")
		response.ValidationError(c, "Invalid request body", err.Error())
		return
	}
	if len(zones) == 0 {
		span.SetStatus(codes.Error, "No venue zones")
		response.BadRequest(c, "At least one venue zone is required")
		return
	}
	span.SetAttributes(attribute.Int("zones", len(zones)))

	result, err := h.priceSettingsService.Preview(ctx, zones)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to preview recommendations")
		switch {
		case errors.Is(err, domain.ErrInvalidVenueZone), errors.Is(err, domain.ErrInvalidOptionalPrice):
			response.Error(c, http.StatusUnprocessableEntity, "INVALID_VENUE_ZONE", "Invalid venue zone", err.Error())
		default:
			response.InternalError(c, err)
		}
		return
	}

	venues := make(map[int64]struct{})
	for _, r := range result.Recommendations.Recommendations {
		venues[r.IDVenue] = struct{}{}
	}

	span.SetStatus(codes.Ok, "")
	response.SuccessWithMeta(c,
		dto.PreviewResponse{
			Recommendations: result.Recommendations.Recommendations,
			InsertStatement: result.InsertStatement,
		},
		dto.PreviewMeta{
			Version:   h.version,
			Venues:    len(venues),
			Zones:     len(result.Recommendations.Recommendations),
			Treatment: result.Recommendations.TreatmentCount(),
		},
	)
}
