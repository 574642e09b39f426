package accounts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/notkisk/policeplus-api/internal/shared"
	"github.com/notkisk/policeplus-api/internal/token"
)

var rosterKim = RosterEntry{BadgeNumber: "B-100", Name: "Kim Park"}

func newTestService(repo Repository) (*Service, *token.Service) {
	tokens := token.NewService([]byte("test-secret"), token.DefaultTTL)
	return NewService(repo, tokens), tokens
}

func validOfficer() OfficerRegistration {
	return OfficerRegistration{
		Email:       "kim@pd.local",
		Password:    "s3cret-pass",
		Name:        "Kim Park",
		Rank:        "Sergeant",
		Department:  "Traffic",
		BadgeNumber: "B-100",
	}
}

func TestRegisterOfficer(t *testing.T) {
	repo := newMockRepository(rosterKim)
	svc, _ := newTestService(repo)

	officer, err := svc.RegisterOfficer(context.Background(), validOfficer())
	require.NoError(t, err)
	assert.Equal(t, int64(1), officer.ID)
	assert.NotEqual(t, "s3cret-pass", officer.PasswordHash)

	cost, err := bcrypt.Cost([]byte(officer.PasswordHash))
	require.NoError(t, err)
	assert.Equal(t, HashCost, cost)
}

func TestRegisterOfficerValidation(t *testing.T) {
	repo := newMockRepository(rosterKim)
	repo.rosterErr = errors.New("roster must not be consulted")
	svc, _ := newTestService(repo)

	for _, mutate := range []func(*OfficerRegistration){
		func(r *OfficerRegistration) { r.Email = "" },
		func(r *OfficerRegistration) { r.Password = "" },
		func(r *OfficerRegistration) { r.Name = "   " },
		func(r *OfficerRegistration) { r.BadgeNumber = "" },
		func(r *OfficerRegistration) { r.Email = "not-an-email" },
	} {
		input := validOfficer()
		mutate(&input)
		_, err := svc.RegisterOfficer(context.Background(), input)
		assert.ErrorIs(t, err, shared.ErrValidation)
	}
}

func TestRegisterOfficerNotOnRoster(t *testing.T) {
	repo := newMockRepository(rosterKim)
	svc, _ := newTestService(repo)

	input := validOfficer()
	input.Email = "fresh@pd.local"
	input.Name = "Someone Else"
	_, err := svc.RegisterOfficer(context.Background(), input)
	assert.ErrorIs(t, err, shared.ErrNotAuthorizedOfficer)
	assert.NotErrorIs(t, err, shared.ErrConflict)
	assert.Zero(t, repo.createOfficerCalls)
}

func TestRegisterOfficerDuplicateBadge(t *testing.T) {
	repo := newMockRepository(rosterKim)
	svc, _ := newTestService(repo)

	_, err := svc.RegisterOfficer(context.Background(), validOfficer())
	require.NoError(t, err)

	second := validOfficer()
	second.Email = "other@pd.local"
	_, err = svc.RegisterOfficer(context.Background(), second)
	assert.ErrorIs(t, err, shared.ErrConflict)
	assert.Equal(t, 1, repo.createOfficerCalls)
}

func TestRegisterOfficerNormalisesName(t *testing.T) {
	repo := newMockRepository(RosterEntry{BadgeNumber: "B-7", Name: "José Ruiz"})
	svc, _ := newTestService(repo)

	input := validOfficer()
	input.BadgeNumber = "B-7"
	input.Name = "  José Ruiz " // decomposed accent, padded
	_, err := svc.RegisterOfficer(context.Background(), input)
	assert.NoError(t, err)
}

func TestRegisterCivilian(t *testing.T) {
	repo := newMockRepository()
	svc, _ := newTestService(repo)

	input := CivilianRegistration{Email: "Dana@Mail.local", Password: "pw-123456", Name: "Dana", LicenseNumber: "D1"}
	civilian, err := svc.RegisterCivilian(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "dana@mail.local", civilian.Email)

	input.Email = "dana2@mail.local"
	_, err = svc.RegisterCivilian(context.Background(), input)
	assert.ErrorIs(t, err, shared.ErrConflict)

	_, err = svc.RegisterCivilian(context.Background(), CivilianRegistration{Email: "x@mail.local", Password: "pw", Name: "X"})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestLoginOfficer(t *testing.T) {
	repo := newMockRepository(rosterKim)
	svc, tokens := newTestService(repo)
	_, err := svc.RegisterOfficer(context.Background(), validOfficer())
	require.NoError(t, err)

	session, err := svc.LoginOfficer(context.Background(), Credentials{Email: "KIM@pd.local", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, "B-100", session.User.BadgeNumber)
	assert.WithinDuration(t, time.Now().Add(token.DefaultTTL), session.ExpiresAt, time.Minute)

	claims, err := tokens.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, token.RoleOfficer, claims.Role)
	assert.Equal(t, "Sergeant", claims.Rank)
	assert.Equal(t, "B-100", claims.BadgeNumber)
	assert.Empty(t, claims.LicenseNumber)
}

func TestLoginDoesNotRevealAccountExistence(t *testing.T) {
	repo := newMockRepository(rosterKim)
	svc, _ := newTestService(repo)
	_, err := svc.RegisterOfficer(context.Background(), validOfficer())
	require.NoError(t, err)

	_, wrongPassword := svc.LoginOfficer(context.Background(), Credentials{Email: "kim@pd.local", Password: "nope"})
	_, unknownEmail := svc.LoginOfficer(context.Background(), Credentials{Email: "ghost@pd.local", Password: "nope"})

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, shared.ErrInvalidCredentials, wrongPassword)
	assert.Equal(t, wrongPassword, unknownEmail)
}

func TestLoginCivilian(t *testing.T) {
	repo := newMockRepository()
	svc, tokens := newTestService(repo)
	_, err := svc.RegisterCivilian(context.Background(), CivilianRegistration{Email: "d@mail.local", Password: "pw-123456", Name: "Dana", LicenseNumber: "D1"})
	require.NoError(t, err)

	session, err := svc.LoginCivilian(context.Background(), Credentials{Email: "d@mail.local", Password: "pw-123456"})
	require.NoError(t, err)
	claims, err := tokens.Verify(session.Token)
	require.NoError(t, err)
	assert.Equal(t, token.RoleCivilian, claims.Role)
	assert.Equal(t, "D1", claims.LicenseNumber)

	_, err = svc.LoginCivilian(context.Background(), Credentials{Email: "d@mail.local"})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestLoginRepositoryFailureIsNotInvalidCredentials(t *testing.T) {
	repo := newMockRepository()
	repo.findErr = errors.New("connection reset")
	svc, _ := newTestService(repo)

	_, err := svc.LoginCivilian(context.Background(), Credentials{Email: "d@mail.local", Password: "pw"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, shared.ErrInvalidCredentials)
}
