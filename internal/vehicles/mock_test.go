package vehicles

import (
	"context"
	"sync"
	"time"

	"github.com/hibiken/asynq"

	"github.com/notkisk/policeplus-api/internal/insurance"
	"github.com/notkisk/policeplus-api/internal/shared"
	"github.com/notkisk/policeplus-api/jobs"
)

type mockRepository struct {
	mu        sync.Mutex
	vehicles  map[string]*Vehicle
	citations []Citation
	nextID    int64

	findErr   error
	listErr   error
	insertErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{vehicles: make(map[string]*Vehicle), nextID: 1}
}

func (m *mockRepository) FindVehicle(ctx context.Context, plate string) (*Vehicle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	v, ok := m.vehicles[plate]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *v
	return &copied, nil
}

func (m *mockRepository) ListCitations(ctx context.Context, driverLicense string) ([]Citation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []Citation
	for _, c := range m.citations {
		if c.DriverLicense == driverLicense {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockRepository) InsertCitation(ctx context.Context, c *Citation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	c.ID = m.nextID
	c.CreatedAt = time.Now().UTC()
	m.nextID++
	m.citations = append(m.citations, *c)
	return nil
}

func (m *mockRepository) SetStolen(ctx context.Context, plate string, stolen bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vehicles[plate]
	if !ok {
		return false, nil
	}
	v.Stolen = stolen
	return true, nil
}

type mockInsurance struct {
	mu      sync.Mutex
	calls   int
	records map[string]insurance.Record
	err     error
	// block waits for ctx cancellation before answering.
	block bool
}

func (m *mockInsurance) Lookup(ctx context.Context, plate string) (insurance.Record, error) {
	m.mu.Lock()
	m.calls++
	block, err := m.block, m.err
	rec, ok := m.records[plate]
	m.mu.Unlock()

	if block {
		<-ctx.Done()
		return insurance.Record{}, ctx.Err()
	}
	if err != nil {
		return insurance.Record{}, err
	}
	if !ok {
		return insurance.Record{}, shared.ErrNoInsuranceOnFile
	}
	return rec, nil
}

func (m *mockInsurance) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockIdempotency struct {
	mu   sync.Mutex
	keys map[string]struct{}
	err  error
}

func newMockIdempotency() *mockIdempotency {
	return &mockIdempotency{keys: make(map[string]struct{})}
}

func (m *mockIdempotency) CheckAndInsert(ctx context.Context, key, module string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	k := module + ":" + key
	if _, ok := m.keys[k]; ok {
		return shared.ErrDuplicateRequest
	}
	m.keys[k] = struct{}{}
	return nil
}

func (m *mockIdempotency) Delete(ctx context.Context, key, module string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keys, module+":"+key)
	return nil
}

type mockAuditQueue struct {
	mu       sync.Mutex
	payloads []jobs.StolenFlagAuditPayload
	err      error
}

func (m *mockAuditQueue) EnqueueStolenFlagAudit(ctx context.Context, payload jobs.StolenFlagAuditPayload) (*asynq.TaskInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.payloads = append(m.payloads, payload)
	return &asynq.TaskInfo{Queue: jobs.QueueDefault, Type: jobs.TaskStolenFlagAudit}, nil
}

func seededRepository() *mockRepository {
	repo := newMockRepository()
	repo.vehicles["ABC123"] = &Vehicle{
		LicensePlate:  "ABC123",
		DriverLicense: "D1",
		OwnerName:     "Dana Reyes",
		Make:          "Toyota",
		Model:         "Corolla",
		Color:         "Blue",
		Year:          2019,
	}
	repo.vehicles["NOTIX1"] = &Vehicle{LicensePlate: "NOTIX1", DriverLicense: "D2"}
	repo.citations = []Citation{
		{ID: 1, DriverLicense: "D1", TicketType: "Speeding", OfficerName: "Sgt. Lee", OfficerBadge: "B-1"},
		{ID: 2, DriverLicense: "D1", TicketType: "Parking", OfficerName: "Sgt. Lee", OfficerBadge: "B-1"},
	}
	repo.nextID = 3
	return repo
}

func coveredInsurance() *mockInsurance {
	return &mockInsurance{records: map[string]insurance.Record{
		"ABC123": {LicensePlate: "ABC123", Start: "2024-01-01", End: "2025-01-01"},
		"NOTIX1": {LicensePlate: "NOTIX1", Start: "2023-06-01", End: "2024-06-01"},
	}}
}
