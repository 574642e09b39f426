package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/notkisk/policeplus-api/internal/platform/db"
	"github.com/notkisk/policeplus-api/internal/shared"
)

// Repository defines persistence operations for accounts.
type Repository interface {
	RosterHas(ctx context.Context, entry RosterEntry) (bool, error)
	OfficerExists(ctx context.Context, email, badgeNumber string) (bool, error)
	CreateOfficer(ctx context.Context, officer *Officer) error
	FindOfficerByEmail(ctx context.Context, email string) (*Officer, error)
	CivilianExists(ctx context.Context, email, licenseNumber string) (bool, error)
	CreateCivilian(ctx context.Context, civilian *Civilian) error
	FindCivilianByEmail(ctx context.Context, email string) (*Civilian, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// RosterHas reports whether the roster lists exactly this badge/name pair.
func (r *PGRepository) RosterHas(ctx context.Context, entry RosterEntry) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM officer_roster WHERE badge_number = $1 AND name = $2)`,
		entry.BadgeNumber, entry.Name).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("accounts: roster lookup: %w", err)
	}
	return ok, nil
}

// OfficerExists reports whether email or badge number is already registered.
func (r *PGRepository) OfficerExists(ctx context.Context, email, badgeNumber string) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM officers WHERE email = $1 OR badge_number = $2)`,
		email, badgeNumber).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("accounts: officer exists: %w", err)
	}
	return ok, nil
}

// CreateOfficer inserts the officer and fills ID and CreatedAt.
func (r *PGRepository) CreateOfficer(ctx context.Context, officer *Officer) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO officers (email, password_hash, name, rank, department, badge_number)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		officer.Email, officer.PasswordHash, officer.Name, officer.Rank, officer.Department, officer.BadgeNumber,
	).Scan(&officer.ID, &officer.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return shared.ErrConflict
		}
		return fmt.Errorf("accounts: insert officer: %w", err)
	}
	return nil
}

// FindOfficerByEmail fetches an officer by email.
func (r *PGRepository) FindOfficerByEmail(ctx context.Context, email string) (*Officer, error) {
	var o Officer
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, name, rank, department, badge_number, created_at
		 FROM officers WHERE email = $1`, email,
	).Scan(&o.ID, &o.Email, &o.PasswordHash, &o.Name, &o.Rank, &o.Department, &o.BadgeNumber, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("accounts: find officer: %w", err)
	}
	return &o, nil
}

// CivilianExists reports whether email or license number is already registered.
func (r *PGRepository) CivilianExists(ctx context.Context, email, licenseNumber string) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM civilians WHERE email = $1 OR license_number = $2)`,
		email, licenseNumber).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("accounts: civilian exists: %w", err)
	}
	return ok, nil
}

// CreateCivilian inserts the civilian and fills ID and CreatedAt.
func (r *PGRepository) CreateCivilian(ctx context.Context, civilian *Civilian) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO civilians (email, password_hash, name, license_number)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		civilian.Email, civilian.PasswordHash, civilian.Name, civilian.LicenseNumber,
	).Scan(&civilian.ID, &civilian.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return shared.ErrConflict
		}
		return fmt.Errorf("accounts: insert civilian: %w", err)
	}
	return nil
}

// FindCivilianByEmail fetches a civilian by email.
func (r *PGRepository) FindCivilianByEmail(ctx context.Context, email string) (*Civilian, error) {
	var c Civilian
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, name, license_number, created_at
		 FROM civilians WHERE email = $1`, email,
	).Scan(&c.ID, &c.Email, &c.PasswordHash, &c.Name, &c.LicenseNumber, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("accounts: find civilian: %w", err)
	}
	return &c, nil
}

var _ Repository = (*PGRepository)(nil)
