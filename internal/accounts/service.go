package accounts

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/notkisk/policeplus-api/internal/shared"
	"github.com/notkisk/policeplus-api/internal/token"
)

// HashCost is the bcrypt work factor for stored passwords.
const HashCost = 10

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(claims token.Claims) (string, time.Time, error)
}

// Service wraps registration and authentication business rules.
type Service struct {
	repo   Repository
	tokens TokenIssuer

	dummyOnce sync.Once
	dummyHash []byte
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens TokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// RegisterOfficer creates an officer account for a roster-listed badge holder.
func (s *Service) RegisterOfficer(ctx context.Context, input OfficerRegistration) (*Officer, error) {
	input.normalize()
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	listed, err := s.repo.RosterHas(ctx, RosterEntry{BadgeNumber: input.BadgeNumber, Name: input.Name})
	if err != nil {
		return nil, err
	}
	if !listed {
		return nil, shared.ErrNotAuthorizedOfficer
	}

	exists, err := s.repo.OfficerExists(ctx, input.Email, input.BadgeNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: email or badge number", shared.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), HashCost)
	if err != nil {
		return nil, fmt.Errorf("accounts: hash password: %w", err)
	}

	officer := &Officer{
		Email:        input.Email,
		PasswordHash: string(hash),
		Name:         input.Name,
		Rank:         input.Rank,
		Department:   input.Department,
		BadgeNumber:  input.BadgeNumber,
	}
	if err := s.repo.CreateOfficer(ctx, officer); err != nil {
		return nil, err
	}
	return officer, nil
}

// RegisterCivilian creates a civilian account.
func (s *Service) RegisterCivilian(ctx context.Context, input CivilianRegistration) (*Civilian, error) {
	input.normalize()
	if err := validateStruct(input); err != nil {
		return nil, err
	}

	exists, err := s.repo.CivilianExists(ctx, input.Email, input.LicenseNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: email or license number", shared.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), HashCost)
	if err != nil {
		return nil, fmt.Errorf("accounts: hash password: %w", err)
	}

	civilian := &Civilian{
		Email:         input.Email,
		PasswordHash:  string(hash),
		Name:          input.Name,
		LicenseNumber: input.LicenseNumber,
	}
	if err := s.repo.CreateCivilian(ctx, civilian); err != nil {
		return nil, err
	}
	return civilian, nil
}

// LoginOfficer validates officer credentials and issues a session token.
func (s *Service) LoginOfficer(ctx context.Context, creds Credentials) (*OfficerSession, error) {
	creds.Email = normalizeEmail(creds.Email)
	if err := validateStruct(creds); err != nil {
		return nil, err
	}

	officer, err := s.repo.FindOfficerByEmail(ctx, creds.Email)
	if err != nil {
		return nil, s.rejectLookup(err, creds.Password)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(officer.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}

	raw, expiresAt, err := s.tokens.Issue(token.Claims{
		UserID:      officer.ID,
		Email:       officer.Email,
		Name:        officer.Name,
		Role:        token.RoleOfficer,
		Rank:        officer.Rank,
		BadgeNumber: officer.BadgeNumber,
	})
	if err != nil {
		return nil, err
	}
	return &OfficerSession{Token: raw, ExpiresAt: expiresAt, User: officer.Public()}, nil
}

// LoginCivilian validates civilian credentials and issues a session token.
func (s *Service) LoginCivilian(ctx context.Context, creds Credentials) (*CivilianSession, error) {
	creds.Email = normalizeEmail(creds.Email)
	if err := validateStruct(creds); err != nil {
		return nil, err
	}

	civilian, err := s.repo.FindCivilianByEmail(ctx, creds.Email)
	if err != nil {
		return nil, s.rejectLookup(err, creds.Password)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(civilian.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}

	raw, expiresAt, err := s.tokens.Issue(token.Claims{
		UserID:        civilian.ID,
		Email:         civilian.Email,
		Name:          civilian.Name,
		Role:          token.RoleCivilian,
		LicenseNumber: civilian.LicenseNumber,
	})
	if err != nil {
		return nil, err
	}
	return &CivilianSession{Token: raw, ExpiresAt: expiresAt, User: civilian.Public()}, nil
}

// rejectLookup turns a failed email lookup into ErrInvalidCredentials,
// spending a bcrypt comparison so unknown emails cost the same as wrong passwords.
func (s *Service) rejectLookup(err error, password string) error {
	if !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("policeplus-dummy-password"), HashCost)
	})
	_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
	return shared.ErrInvalidCredentials
}
