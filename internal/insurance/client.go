package insurance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/notkisk/policeplus-api/internal/shared"
)

// DefaultTimeout bounds a whole lookup, retries included.
const DefaultTimeout = 4 * time.Second

// MaxRetries caps the extra attempts a client will make.
const MaxRetries = 3

// Lookup outcomes reported to the Observer.
const (
	OutcomeOK          = "ok"
	OutcomeNotFound    = "not_found"
	OutcomeUnavailable = "unavailable"
)

// Observer receives one outcome per Lookup call.
type Observer interface {
	ObserveInsuranceLookup(outcome string)
}

// ClientConfig configures the insurance lookup client.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
	// Retries is the number of extra attempts after a transient failure. Zero means one attempt.
	// Values above MaxRetries are clamped.
	Retries uint64
	Backoff time.Duration

	HTTPClient *http.Client
	Observer   Observer
}

// Client wraps calls to the insurance service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	retries    uint64
	backoff    time.Duration
	observer   Observer
}

// NewClient constructs a new client.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	retries := cfg.Retries
	if retries > MaxRetries {
		retries = MaxRetries
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		timeout:    timeout,
		retries:    retries,
		backoff:    backoff,
		observer:   cfg.Observer,
	}
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("insurance service returned status %d", e.code)
}

// Lookup fetches the coverage window for plate.
// A 404 yields shared.ErrNoInsuranceOnFile; every other failure wraps shared.ErrUpstreamUnavailable.
func (c *Client) Lookup(ctx context.Context, plate string) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var record Record
	b := retry.WithMaxRetries(c.retries, retry.NewExponential(c.backoff))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		rec, err := c.fetch(ctx, plate)
		if err != nil {
			if isTransient(ctx, err) {
				return retry.RetryableError(err)
			}
			return err
		}
		record = rec
		return nil
	})
	if err == nil {
		c.observe(OutcomeOK)
		return record, nil
	}

	var se *statusError
	if errors.As(err, &se) && se.code == http.StatusNotFound {
		c.observe(OutcomeNotFound)
		return Record{}, fmt.Errorf("insurance: plate %s: %w", plate, shared.ErrNoInsuranceOnFile)
	}
	c.observe(OutcomeUnavailable)
	return Record{}, fmt.Errorf("insurance: plate %s: %w: %w", plate, shared.ErrUpstreamUnavailable, err)
}

func (c *Client) fetch(ctx context.Context, plate string) (Record, error) {
	endpoint := fmt.Sprintf("%s/api/insurance/%s", c.baseURL, url.PathEscape(plate))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Record{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Record{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return Record{}, &statusError{code: resp.StatusCode}
	}

	var record Record
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&record); err != nil {
		return Record{}, fmt.Errorf("decode insurance response: %w", err)
	}
	if record.Start == "" || record.End == "" {
		return Record{}, errors.New("insurance response missing coverage dates")
	}
	if record.LicensePlate == "" {
		record.LicensePlate = plate
	}
	return record, nil
}

// isTransient reports whether a failed attempt may succeed when retried.
// Caller cancellation is never retried.
func isTransient(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var se *statusError
	if errors.As(err, &se) {
		switch se.code {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

func (c *Client) observe(outcome string) {
	if c.observer != nil {
		c.observer.ObserveInsuranceLookup(outcome)
	}
}
