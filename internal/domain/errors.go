package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyResponse   = errors.New("text service returned no content")
	ErrMissingAssetURL = errors.New("image service returned no asset url")
	ErrListingNotFound = errors.New("listing not found")
	ErrImageNotFound   = errors.New("image not found")
)

// ParseError means the text service content was not a JSON object.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse generated listing: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError names the first required field that was missing, falsy or mistyped.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "missing"
	}
	return fmt.Sprintf("generated listing field %q: %s", e.Field, reason)
}

// UpstreamError wraps a transport or API failure of a generative service.
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s service: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// PersistenceError means a listing insert did not affect exactly one row.
type PersistenceError struct {
	RowsAffected int64
	Err          error
}

func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("insert listing: %v", e.Err)
	}
	return fmt.Sprintf("insert listing: %d rows affected, want 1", e.RowsAffected)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// NetworkError wraps an image fetch or write failure.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("image %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsGenerationError reports whether err aborted a request before persistence.
func IsGenerationError(err error) bool {
	var (
		pe *ParseError
		ve *ValidationError
		ue *UpstreamError
	)
	return errors.Is(err, ErrEmptyResponse) || errors.As(err, &pe) || errors.As(err, &ve) || errors.As(err, &ue)
}
