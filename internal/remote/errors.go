package remote

import (
	"encoding/json"
	"fmt"
	"time"
)

// ErrServiceUnavailable indicates the remote service is down, unreachable,
// or answered with a server error.
type ErrServiceUnavailable struct {
	Service string
	Err     error
}

func (e *ErrServiceUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service unavailable: %v", e.Service, e.Err)
	}
	return fmt.Sprintf("%s service unavailable", e.Service)
}

func (e *ErrServiceUnavailable) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the service answered with a payload that
// does not conform to its contract.
type ErrInvalidResponse struct {
	Service string
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid %s response: %v", e.Service, e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrRateLimit indicates the service returned 429.
type ErrRateLimit struct {
	Service    string
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Service, e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }
