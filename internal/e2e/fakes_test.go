package e2e

import (
	"context"
	"sync"
	"time"

	"github.com/notkisk/policeplus-api/internal/accounts"
	"github.com/notkisk/policeplus-api/internal/insurance"
	"github.com/notkisk/policeplus-api/internal/shared"
	"github.com/notkisk/policeplus-api/internal/vehicles"
)

type memoryAccounts struct {
	mu        sync.Mutex
	roster    map[accounts.RosterEntry]struct{}
	officers  []*accounts.Officer
	civilians []*accounts.Civilian
}

func newMemoryAccounts(roster ...accounts.RosterEntry) *memoryAccounts {
	m := &memoryAccounts{roster: make(map[accounts.RosterEntry]struct{})}
	for _, entry := range roster {
		m.roster[entry] = struct{}{}
	}
	return m
}

func (m *memoryAccounts) RosterHas(ctx context.Context, entry accounts.RosterEntry) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.roster[entry]
	return ok, nil
}

func (m *memoryAccounts) OfficerExists(ctx context.Context, email, badge string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.officers {
		if o.Email == email || o.BadgeNumber == badge {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryAccounts) CreateOfficer(ctx context.Context, officer *accounts.Officer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	officer.ID = int64(len(m.officers) + 1)
	officer.CreatedAt = time.Now().UTC()
	copied := *officer
	m.officers = append(m.officers, &copied)
	return nil
}

func (m *memoryAccounts) FindOfficerByEmail(ctx context.Context, email string) (*accounts.Officer, error) {
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

func (m *memoryAccounts) CivilianExists(ctx context.Context, email, license string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.civilians {
		if c.Email == email || c.LicenseNumber == license {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryAccounts) CreateCivilian(ctx context.Context, civilian *accounts.Civilian) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	civilian.ID = int64(len(m.civilians) + 1)
	civilian.CreatedAt = time.Now().UTC()
	copied := *civilian
	m.civilians = append(m.civilians, &copied)
	return nil
}

func (m *memoryAccounts) FindCivilianByEmail(ctx context.Context, email string) (*accounts.Civilian, error) {
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

type memoryRegistry struct {
	mu        sync.Mutex
	cars      map[string]vehicles.Vehicle
	citations []vehicles.Citation
	writes    int
}

func (m *memoryRegistry) FindVehicle(ctx context.Context, plate string) (*vehicles.Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.cars[plate]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &v, nil
}

func (m *memoryRegistry) ListCitations(ctx context.Context, driverLicense string) ([]vehicles.Citation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]vehicles.Citation, 0)
	for _, c := range m.citations {
		if c.DriverLicense == driverLicense {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memoryRegistry) InsertCitation(ctx context.Context, c *vehicles.Citation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = int64(len(m.citations) + 1)
	c.CreatedAt = time.Now().UTC()
	m.citations = append(m.citations, *c)
	return nil
}

func (m *memoryRegistry) SetStolen(ctx context.Context, plate string, stolen bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.cars[plate]
	if !ok {
		return false, nil
	}
	v.Stolen = stolen
	m.cars[plate] = v
	m.writes++
	return true, nil
}

func (m *memoryRegistry) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

type memoryInsurance map[string]insurance.Record

func (m memoryInsurance) FindByPlate(ctx context.Context, plate string) (insurance.Record, error) {
	rec, ok := m[plate]
	if !ok {
		return insurance.Record{}, shared.ErrNotFound
	}
	return rec, nil
}
