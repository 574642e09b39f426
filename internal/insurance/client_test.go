package insurance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notkisk/policeplus-api/internal/shared"
)

type countingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *countingObserver) ObserveInsuranceLookup(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func TestLookupSuccess(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"insurance_start":"2024-01-01","insurance_end":"2025-01-01"}`))
	}))
	defer srv.Close()

	obs := &countingObserver{}
	client := NewClient(ClientConfig{BaseURL: srv.URL + "/", Observer: obs})
	rec, err := client.Lookup(context.Background(), "ABC 123")
	require.NoError(t, err)
	assert.Equal(t, "/api/insurance/ABC%20123", gotPath)
	assert.Equal(t, Record{LicensePlate: "ABC 123", Start: "2024-01-01", End: "2025-01-01"}, rec)
	assert.Equal(t, []string{OutcomeOK}, obs.outcomes)
}

func TestLookupNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"No insurance found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient(ClientConfig{BaseURL: srv.URL}).Lookup(context.Background(), "ZZZ")
	assert.ErrorIs(t, err, shared.ErrNoInsuranceOnFile)
	assert.NotErrorIs(t, err, shared.ErrUpstreamUnavailable)
}

func TestLookupServerErrorIsUnavailable(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(ClientConfig{BaseURL: srv.URL, Retries: 3, Backoff: time.Millisecond}).Lookup(context.Background(), "ABC123")
	assert.ErrorIs(t, err, shared.ErrUpstreamUnavailable)
	assert.Equal(t, int32(1), calls.Load(), "500 is not retried")
}

func TestLookupMalformedBodyIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"insurance_start":"2024-01-01"}`))
	}))
	defer srv.Close()

	_, err := NewClient(ClientConfig{BaseURL: srv.URL}).Lookup(context.Background(), "ABC123")
	assert.ErrorIs(t, err, shared.ErrUpstreamUnavailable)
}

func TestLookupTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	_, err := NewClient(ClientConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond}).Lookup(context.Background(), "ABC123")
	assert.ErrorIs(t, err, shared.ErrUpstreamUnavailable)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestLookupRetriesStayWithinTimeout(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		<-r.Context().Done()
	}))
	defer srv.Close()

	timeout := 200 * time.Millisecond
	client := NewClient(ClientConfig{BaseURL: srv.URL, Timeout: timeout, Retries: 3, Backoff: 10 * time.Millisecond})

	start := time.Now()
	_, err := client.Lookup(context.Background(), "ABC123")
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, shared.ErrUpstreamUnavailable)
	assert.Less(t, elapsed, timeout+100*time.Millisecond)
	assert.LessOrEqual(t, calls.Load(), int32(2))
}

func TestNewClientClampsRetries(t *testing.T) {
	client := NewClient(ClientConfig{BaseURL: "http://insurance.test", Retries: 50})
	assert.Equal(t, uint64(MaxRetries), client.retries)
	assert.Equal(t, DefaultTimeout, client.timeout)
}

func TestLookupConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	obs := &countingObserver{}
	_, err := NewClient(ClientConfig{BaseURL: url, Observer: obs}).Lookup(context.Background(), "ABC123")
	assert.ErrorIs(t, err, shared.ErrUpstreamUnavailable)
	assert.Equal(t, []string{OutcomeUnavailable}, obs.outcomes)
}

func TestLookupRetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"insurance_start":"2024-01-01","insurance_end":"2025-01-01"}`))
	}))
	defer srv.Close()

	rec, err := NewClient(ClientConfig{BaseURL: srv.URL, Retries: 2, Backoff: time.Millisecond}).Lookup(context.Background(), "ABC123")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", rec.End)
	assert.Equal(t, int32(3), calls.Load())
}

func TestLookupNoRetryByDefault(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(ClientConfig{BaseURL: srv.URL}).Lookup(context.Background(), "ABC123")
	assert.ErrorIs(t, err, shared.ErrUpstreamUnavailable)
	assert.Equal(t, int32(1), calls.Load())
}
