package apperrors

import "errors"

// Standardized Market Data Errors
//
// The live-data collaborator maps every failure onto one of these
// sentinels so callers can fall back to sample data with a distinct,
// human-readable notice. None of them ever propagate into the numeric
// core's call sites.
var (
	ErrTimeout      = errors.New("live data request timed out")
	ErrNetwork      = errors.New("unable to connect to live data API")
	ErrBadStatus    = errors.New("live data API returned an error status")
	ErrEmptyPayload = errors.New("live data API returned an empty payload")
	ErrUnparseable  = errors.New("live data API returned an unparseable payload")
)

// Standardized Storage Errors
var (
	ErrNotFound = errors.New("record not found")
)
