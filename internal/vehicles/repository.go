package vehicles

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/notkisk/policeplus-api/internal/shared"
)

// Repository defines registry and citation persistence.
type Repository interface {
	FindVehicle(ctx context.Context, plate string) (*Vehicle, error)
	ListCitations(ctx context.Context, driverLicense string) ([]Citation, error)
	InsertCitation(ctx context.Context, citation *Citation) error
	SetStolen(ctx context.Context, plate string, stolen bool) (bool, error)
}

// PGRepository implements Repository using PostgreSQL. Every method acquires
// and releases its own pool connection.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindVehicle loads the registry row for plate.
func (r *PGRepository) FindVehicle(ctx context.Context, plate string) (*Vehicle, error) {
	var v Vehicle
	err := r.pool.QueryRow(ctx,
		`SELECT license_plate, driver_license, owner_name, make, model, color, year, stolen_car
		 FROM cars WHERE license_plate = $1`, plate,
	).Scan(&v.LicensePlate, &v.DriverLicense, &v.OwnerName, &v.Make, &v.Model, &v.Color, &v.Year, &v.Stolen)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("vehicles: find vehicle: %w", err)
	}
	return &v, nil
}

// ListCitations returns citations for driverLicense, newest first.
func (r *PGRepository) ListCitations(ctx context.Context, driverLicense string) ([]Citation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, driver_license, ticket_type, details, officer_name, officer_badge, created_at
		 FROM tickets WHERE driver_license = $1 ORDER BY created_at DESC, id DESC`, driverLicense)
	if err != nil {
		return nil, fmt.Errorf("vehicles: list citations: %w", err)
	}
	defer rows.Close()

	citations := make([]Citation, 0)
	for rows.Next() {
		var c Citation
		if err := rows.Scan(&c.ID, &c.DriverLicense, &c.TicketType, &c.Details, &c.OfficerName, &c.OfficerBadge, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("vehicles: scan citation: %w", err)
		}
		citations = append(citations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vehicles: list citations: %w", err)
	}
	return citations, nil
}

// InsertCitation appends a citation and fills ID and CreatedAt.
func (r *PGRepository) InsertCitation(ctx context.Context, c *Citation) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO tickets (driver_license, ticket_type, details, officer_name, officer_badge)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		c.DriverLicense, c.TicketType, c.Details, c.OfficerName, c.OfficerBadge,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("vehicles: insert citation: %w", err)
	}
	return nil
}

// SetStolen updates the stolen flag and reports whether a row matched.
func (r *PGRepository) SetStolen(ctx context.Context, plate string, stolen bool) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cars SET stolen_car = $2, updated_at = NOW() WHERE license_plate = $1`, plate, stolen)
	if err != nil {
		return false, fmt.Errorf("vehicles: set stolen: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

var _ Repository = (*PGRepository)(nil)
