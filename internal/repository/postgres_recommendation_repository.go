package repository

import (
	"context"
	"fmt"

	"github.com/prohmpiriya/price-settings/internal/domain"
	"github.com/prohmpiriya/price-settings/pkg/database"
)

// PostgresRecommendationRepository implements RecommendationRepository
type PostgresRecommendationRepository struct {
	db database.Querier
}

// NewPostgresRecommendationRepository creates a new PostgresRecommendationRepository
func NewPostgresRecommendationRepository(db database.Querier) *PostgresRecommendationRepository {
	return &PostgresRecommendationRepository{db: db}
}

// BulkInsert executes the multi-row INSERT built from recs
func (r *PostgresRecommendationRepository) BulkInsert(ctx context.Context, recs domain.VenuePriceRecommendations) (int64, error) {
	query, err := recs.InsertQuery()
	if err != nil {
		return 0, err
	}

	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("insert recommendations: %w", err)
	}
	return tag.RowsAffected(), nil
}
