package accounts

import (
	"context"
	"sync"
	"time"

	"github.com/notkisk/policeplus-api/internal/shared"
)

// ============================================================================
// MOCK REPOSITORY
// ============================================================================

type mockRepository struct {
	mu        sync.Mutex
	roster    map[RosterEntry]bool
	officers  []*Officer
	civilians []*Civilian
	nextID    int64

	// Error injection
	rosterErr error
	findErr   error

	createOfficerCalls int
}

func newMockRepository(roster ...RosterEntry) *mockRepository {
	m := &mockRepository{roster: make(map[RosterEntry]bool), nextID: 1}
	for _, e := range roster {
		m.roster[e] = true
	}
	return m
}

func (m *mockRepository) RosterHas(ctx context.Context, entry RosterEntry) (bool, error) {
	if m.rosterErr != nil {
		return false, m.rosterErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roster[entry], nil
}

func (m *mockRepository) OfficerExists(ctx context.Context, email, badgeNumber string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.officers {
		if o.Email == email || o.BadgeNumber == badgeNumber {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepository) CreateOfficer(ctx context.Context, officer *Officer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createOfficerCalls++
	officer.ID = m.nextID
	officer.CreatedAt = time.Now()
	m.nextID++
	copied := *officer
	m.officers = append(m.officers, &copied)
	return nil
}

func (m *mockRepository) FindOfficerByEmail(ctx context.Context, email string) (*Officer, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.officers {
		if o.Email == email {
			copied := *o
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *mockRepository) CivilianExists(ctx context.Context, email, licenseNumber string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.civilians {
		if c.Email == email || c.LicenseNumber == licenseNumber {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepository) CreateCivilian(ctx context.Context, civilian *Civilian) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	civilian.ID = m.nextID
	civilian.CreatedAt = time.Now()
	m.nextID++
	copied := *civilian
	m.civilians = append(m.civilians, &copied)
	return nil
}

func (m *mockRepository) FindCivilianByEmail(ctx context.Context, email string) (*Civilian, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.civilians {
		if c.Email == email {
			copied := *c
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

var _ Repository = (*mockRepository)(nil)
