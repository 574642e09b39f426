package insurance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/notkisk/policeplus-api/internal/shared"
)

// Repository reads coverage records from the insurance database.
type Repository interface {
	FindByPlate(ctx context.Context, plate string) (Record, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// FindByPlate returns the coverage window for plate or shared.ErrNotFound.
func (r *PGRepository) FindByPlate(ctx context.Context, plate string) (Record, error) {
	var start, end time.Time
	err := r.pool.QueryRow(ctx,
		`SELECT insurance_start, insurance_end FROM insurance WHERE license_plate = $1`, plate,
	).Scan(&start, &end)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, shared.ErrNotFound
		}
		return Record{}, fmt.Errorf("insurance: find by plate: %w", err)
	}
	return Record{
		LicensePlate: plate,
		Start:        start.Format(DateLayout),
		End:          end.Format(DateLayout),
	}, nil
}

var _ Repository = (*PGRepository)(nil)
