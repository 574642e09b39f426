package shared

import "errors"

var (
	// ErrValidation indicates missing or malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrConflict indicates a uniqueness violation.
	ErrConflict = errors.New("already exists")
	// ErrNotAuthorizedOfficer indicates the officer roster has no matching entry.
	ErrNotAuthorizedOfficer = errors.New("not an authorized officer")
	// ErrUnauthorized indicates the request carried no credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates the credentials were rejected.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUpstreamUnavailable indicates the insurance service is unreachable or erroring.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrNoInsuranceOnFile indicates the insurance service has no record for the plate.
	ErrNoInsuranceOnFile = errors.New("no insurance on file")
	// ErrDuplicateRequest occurs when an idempotency key was already used.
	ErrDuplicateRequest = errors.New("request already processed")
)
