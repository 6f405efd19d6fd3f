package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/prohmpiriya/price-settings/internal/domain"
	"github.com/prohmpiriya/price-settings/pkg/database"
)

// PostgresInterventionRepository implements InterventionRepository
type PostgresInterventionRepository struct {
	db database.Querier
}

// NewPostgresInterventionRepository creates a new PostgresInterventionRepository
func NewPostgresInterventionRepository(db database.Querier) *PostgresInterventionRepository {
	return &PostgresInterventionRepository{db: db}
}

// ListPending returns unprocessed interventions, oldest first
func (r *PostgresInterventionRepository) ListPending(ctx context.Context, limit int) ([]domain.SessionPriceIntervention, error) {
	query := `
		SELECT ID_PLAN, ID_SESSION, CURRENT_PRICE, NEW_PRICE, MUST_USE_TAX_BASE,
			NM_SMALL_UNIT_CONV, CURRENCY, CHANNEL_IDS, INTERVENTION_LABEL, PRICE_CHANGE_INFO
		FROM PUBLIC.SESSION_PRICE_INTERVENTIONS
		WHERE PROCESSED_AT IS NULL
		ORDER BY CREATED_AT, ID_PLAN, ID_SESSION
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query pending interventions: %w", err)
	}
	defer rows.Close()

	var interventions []domain.SessionPriceIntervention
	for rows.Next() {
		i, err := scanIntervention(rows)
		if err != nil {
			return nil, fmt.Errorf("scan intervention: %w", err)
		}
		interventions = append(interventions, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interventions: %w", err)
	}
	return interventions, nil
}

func scanIntervention(row pgx.Row) (domain.SessionPriceIntervention, error) {
	var i domain.SessionPriceIntervention
	err := row.Scan(
		&i.PlanID,
		&i.SessionID,
		&i.CurrentPrice,
		&i.NewPrice,
		&i.MustUseTaxBase,
		&i.CurrencySmallestUnit,
		&i.Currency,
		&i.ChannelIDs,
		&i.InterventionLabel,
		&i.PriceChangeInfo,
	)
	return i, err
}

// MarkProcessed stamps status and processing time on the given rows
func (r *PostgresInterventionRepository) MarkProcessed(ctx context.Context, status InterventionStatus, keys []PlanSession) error {
	if len(keys) == 0 {
		return nil
	}

	plans := make([]int64, len(keys))
	sessions := make([]int64, len(keys))
	for i, k := range keys {
		plans[i] = k.PlanID
		sessions[i] = k.SessionID
	}

	query := `
		UPDATE PUBLIC.SESSION_PRICE_INTERVENTIONS AS t
		SET STATUS = $1, PROCESSED_AT = NOW()
		FROM UNNEST($2::BIGINT[], $3::BIGINT[]) AS k(id_plan, id_session)
		WHERE t.ID_PLAN = k.id_plan AND t.ID_SESSION = k.id_session
	`
	if _, err := r.db.Exec(ctx, query, string(status), plans, sessions); err != nil {
		return fmt.Errorf("mark interventions %s: %w", status, err)
	}
	return nil
}
