package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/prohmpiriya/price-settings/internal/domain"
	"github.com/prohmpiriya/price-settings/pkg/database"
)

const venueZoneColumns = `
	DS_CITY_COUNTRY, DS_VENUE, ID_VENUE, SEAT_CATEGORY, VENUE_LAST_DATE,
	DS_LABEL, N_LABELS, ALL_LABELS, N_CONCERTS,
	PREVIOUS_OCCUPANCIES_VENUE_ZONE, PREVIOUS_OCCUPANCIES_VENUE,
	PREVIOUS_SALES_VENUE_ZONE, PREVIOUS_CAPACITIES_VENUE_ZONE,
	PREVIOUS_FIRST_PRICE_VENUE_ZONE, PREVIOUS_ATP_VENUE_ZONE,
	PREVIOUS_ATP_INCREASE_VENUE_ZONE, PREVIOUS_ATP_INCREASE_VENUE,
	PREVIOUS_AVG_SOLD_OUT_DAYS_VENUE_ZONE, PREVIOUS_AVG_SOLD_OUT_DAYS_VENUE,
	PREVIOUS_CONCERTS_VENUE_ZONE, RECURRENT_VENUE, AVG_ATP_INCREASE_VENUE,
	PREVIOUS_ATP_INCREASE_ZONE_DIFFERENCE, AVG_SOLD_OUT_DAYS_VENUE,
	PREVIOUS_AVG_SOLD_OUT_DAYS_ZONE_DIFFERENCE, PREVIOUS_SOLD_OUTS_ZONE,
	ORDER_PRICE, PREVIOUS_FIRST_PRICE_SUPERIOR_VENUE_ZONE::TEXT,
	ID_CITY, CD_CITY, DS_COUNTRY, DS_CITY, ID_COUNTRY, CURRENCY`

// PostgresVenueZoneRepository implements VenueZoneRepository on the warehouse
type PostgresVenueZoneRepository struct {
	db       database.Querier
	sentinel string
}

// NewPostgresVenueZoneRepository creates a repository; sentinel is the upstream
// marker for a missing superior price
func NewPostgresVenueZoneRepository(db database.Querier, sentinel string) *PostgresVenueZoneRepository {
	if sentinel == "" {
		sentinel = domain.DefaultNaNSentinel
	}
	return &PostgresVenueZoneRepository{db: db, sentinel: sentinel}
}

// ListVenueZones returns the snapshot grouped by venue
func (r *PostgresVenueZoneRepository) ListVenueZones(ctx context.Context) ([]domain.VenueZone, error) {
	query := `SELECT ` + venueZoneColumns + `
		FROM PUBLIC.PRICE_SETTINGS_VENUE_ZONES
		ORDER BY ID_VENUE, ORDER_PRICE`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query venue zones: %w", err)
	}
	defer rows.Close()

	var zones []domain.VenueZone
	for rows.Next() {
		zone, err := scanVenueZone(rows, r.sentinel)
		if err != nil {
			return nil, fmt.Errorf("scan venue zone %d: %w", len(zones), err)
		}
		zones = append(zones, zone)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate venue zones: %w", err)
	}
	return zones, nil
}

func scanVenueZone(row pgx.Row, sentinel string) (domain.VenueZone, error) {
	var (
		z        domain.VenueZone
		superior *string
	)
	err := row.Scan(
		&z.DSCityCountry,
		&z.DSVenue,
		&z.IDVenue,
		&z.SeatCategory,
		&z.VenueLastDate,
		&z.DSLabel,
		&z.NLabels,
		&z.AllLabels,
		&z.NConcerts,
		&z.PreviousOccupanciesVenueZone,
		&z.PreviousOccupanciesVenue,
		&z.PreviousSalesVenueZone,
		&z.PreviousCapacitiesVenueZone,
		&z.PreviousFirstPriceVenueZone,
		&z.PreviousATPVenueZone,
		&z.PreviousATPIncreaseVenueZone,
		&z.PreviousATPIncreaseVenue,
		&z.PreviousAvgSoldOutDaysVenueZone,
		&z.PreviousAvgSoldOutDaysVenue,
		&z.PreviousConcertsVenueZone,
		&z.RecurrentVenue,
		&z.AvgATPIncreaseVenue,
		&z.PreviousATPIncreaseZoneDifference,
		&z.AvgSoldOutDaysVenue,
		&z.PreviousAvgSoldOutDaysZoneDifference,
		&z.PreviousSoldOutsZone,
		&z.OrderPrice,
		&superior,
		&z.IDCity,
		&z.CDCity,
		&z.DSCountry,
		&z.DSCity,
		&z.IDCountry,
		&z.Currency,
	)
	if err != nil {
		return domain.VenueZone{}, err
	}

	z.PreviousFirstPriceSuperiorVenueZone, err = domain.ParseOptionalPrice(superior, sentinel)
	if err != nil {
		return domain.VenueZone{}, err
	}
	return z, nil
}
