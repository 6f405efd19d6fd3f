package dto

import "github.com/prohmpiriya/price-settings/internal/domain"

// PreviewResponse represents a dry run of the recommendation pipeline
type PreviewResponse struct {
	Recommendations []domain.VenueZonePriceRecommendation `json:"recommendations"`
	InsertStatement string                                `json:"insert_statement"`
}

// PreviewMeta summarises a preview
type PreviewMeta struct {
	Version   string `json:"version"`
	Venues    int    `json:"venues"`
	Zones     int    `json:"zones"`
	Treatment int    `json:"treatment"`
}
