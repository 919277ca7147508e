package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates a requested entity does not exist locally.
	ErrNotFound = errors.New("domain: not found")

	// ErrEmptyAggregate indicates there were zero seed tracks to aggregate,
	// e.g. the user has no qualifying history in the requested window.
	ErrEmptyAggregate = errors.New("domain: cannot aggregate zero tracks")

	// ErrTrackNotFound indicates a named song or artist is absent from the
	// candidate pool.
	ErrTrackNotFound = errors.New("domain: track not found in the base playlist")

	// ErrInvalidParameter indicates a parameter failed validation before any
	// network call was made. Never retried.
	ErrInvalidParameter = errors.New("domain: invalid parameter")

	// ErrAuthExpired indicates the remote credentials expired mid-operation.
	// The caller reauthenticates and retries the same logical operation once.
	ErrAuthExpired = errors.New("domain: access token expired")

	// ErrTooManyRequests indicates the remote rate limit was still exhausted
	// after bounded exponential backoff.
	ErrTooManyRequests = errors.New("domain: too many requests")
)

// TrackNotFoundError reports which song/artist pair was missing from the pool.
type TrackNotFoundError struct {
	Song   string
	Artist string
}

func (e *TrackNotFoundError) Error() string {
	if e.Artist == "" {
		return fmt.Sprintf("playlist has no song named %q", e.Song)
	}
	return fmt.Sprintf("playlist has no song named %q by %q", e.Song, e.Artist)
}

func (e *TrackNotFoundError) Is(target error) bool {
	return target == ErrTrackNotFound
}

// InvalidParameterError carries the offending parameter and the constraint it
// violated.
type InvalidParameterError struct {
	Param   string
	Message string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid value for %s: %s", e.Param, e.Message)
}

func (e *InvalidParameterError) Is(target error) bool {
	return target == ErrInvalidParameter
}

// TooManyRequestsError reports a request that kept hitting the rate limit
// until its retry budget ran out.
type TooManyRequestsError struct {
	Attempts int
	Status   int
}

func (e *TooManyRequestsError) Error() string {
	return fmt.Sprintf("request failed after %d attempts with status %d", e.Attempts, e.Status)
}

func (e *TooManyRequestsError) Is(target error) bool {
	return target == ErrTooManyRequests
}
