package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/prohmpiriya/price-settings/internal/domain"
	"github.com/prohmpiriya/price-settings/pkg/database"
)

// PostgresReversedZoneRepository implements ReversedZoneRepository
type PostgresReversedZoneRepository struct {
	db database.Querier
}

// NewPostgresReversedZoneRepository creates a new PostgresReversedZoneRepository
func NewPostgresReversedZoneRepository(db database.Querier) *PostgresReversedZoneRepository {
	return &PostgresReversedZoneRepository{db: db}
}

// EnsureSchema creates the alerting table
func (r *PostgresReversedZoneRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS PUBLIC.PRC_ALERTING_REVERSED_ZONES (
			ID_PLAN             BIGINT      NOT NULL,
			DT_START_TIME_LOCAL TIMESTAMP   NOT NULL,
			CD_CITY             TEXT        NOT NULL,
			DS_COUNTRY          TEXT        NOT NULL,
			ZONE_PRICES         JSONB       NOT NULL,
			DT_LAST_TIME_WARNED TIMESTAMPTZ,
			DT_UPDATED          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (ID_PLAN, DT_START_TIME_LOCAL)
		)
	`
	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("create reversed zones table: %w", err)
	}
	return nil
}

// Refresh upserts the zone prices of upcoming sessions. Zone prices are kept
// in tier order, premium first.
func (r *PostgresReversedZoneRepository) Refresh(ctx context.Context) error {
	query := `
		INSERT INTO PUBLIC.PRC_ALERTING_REVERSED_ZONES
			(ID_PLAN, DT_START_TIME_LOCAL, CD_CITY, DS_COUNTRY, ZONE_PRICES, DT_UPDATED)
		SELECT
			ID_PLAN,
			DT_START_TIME_LOCAL,
			CD_CITY,
			DS_COUNTRY,
			JSONB_AGG(JSONB_BUILD_OBJECT('zone', DS_ZONE, 'price', NM_PRICE) ORDER BY NM_ZONE_RANK),
			NOW()
		FROM PUBLIC.PLAN_SESSION_ZONE_PRICES
		WHERE DT_START_TIME_LOCAL >= NOW()
		GROUP BY ID_PLAN, DT_START_TIME_LOCAL, CD_CITY, DS_COUNTRY
		ON CONFLICT (ID_PLAN, DT_START_TIME_LOCAL) DO UPDATE
		SET ZONE_PRICES = EXCLUDED.ZONE_PRICES,
			CD_CITY = EXCLUDED.CD_CITY,
			DS_COUNTRY = EXCLUDED.DS_COUNTRY,
			DT_UPDATED = EXCLUDED.DT_UPDATED
	`
	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("refresh reversed zones: %w", err)
	}
	return nil
}

// ListCandidates returns upcoming plans with more than one zone
func (r *PostgresReversedZoneRepository) ListCandidates(ctx context.Context) ([]domain.ReversedZone, error) {
	query := `
		SELECT ID_PLAN, CD_CITY, DS_COUNTRY, DT_START_TIME_LOCAL, ZONE_PRICES, DT_LAST_TIME_WARNED
		FROM PUBLIC.PRC_ALERTING_REVERSED_ZONES
		WHERE DT_START_TIME_LOCAL >= NOW()
			AND JSONB_ARRAY_LENGTH(ZONE_PRICES) > 1
		ORDER BY DT_START_TIME_LOCAL, ID_PLAN
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query reversed zones: %w", err)
	}
	defer rows.Close()

	var zones []domain.ReversedZone
	for rows.Next() {
		z, err := scanReversedZone(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reversed zone: %w", err)
		}
		zones = append(zones, z)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reversed zones: %w", err)
	}
	return zones, nil
}

func scanReversedZone(row pgx.Row) (domain.ReversedZone, error) {
	var (
		z      domain.ReversedZone
		prices []byte
	)
	if err := row.Scan(&z.PlanID, &z.CityCode, &z.Country, &z.StartTimeLocal, &prices, &z.LastWarnedAt); err != nil {
		return domain.ReversedZone{}, err
	}
	if err := json.Unmarshal(prices, &z.ZonePrices); err != nil {
		return domain.ReversedZone{}, fmt.Errorf("decode zone prices of plan %d: %w", z.PlanID, err)
	}
	return z, nil
}

// MarkWarned stamps every given plan session in one transaction
func (r *PostgresReversedZoneRepository) MarkWarned(ctx context.Context, zones []domain.ReversedZone, at time.Time) error {
	if len(zones) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, z := range zones {
		batch.Queue(`
			UPDATE PUBLIC.PRC_ALERTING_REVERSED_ZONES
			SET DT_LAST_TIME_WARNED = $1
			WHERE ID_PLAN = $2 AND DT_START_TIME_LOCAL = $3
		`, at, z.PlanID, z.StartTimeLocal)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("stamp last warning: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
