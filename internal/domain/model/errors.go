package model

import "errors"

// ErrVenueUnavailable covers transport failures, non-success HTTP codes and
// API-reported error envelopes.
var ErrVenueUnavailable = errors.New("venue unavailable")

// ErrMalformedResponse means the venue answered but expected fields were
// missing or unparseable.
var ErrMalformedResponse = errors.New("malformed venue response")

// ErrNoData means the venue reported success with an empty result set.
var ErrNoData = errors.New("venue returned no data")

// ErrInsufficientObservations means fewer than two usable prices were
// available for ranking. It is a per-cycle condition, not a crash.
var ErrInsufficientObservations = errors.New("insufficient price observations")

// ErrUnknownVenue indicates a listing referencing a venue that was never
// configured. This is a programming or configuration error.
var ErrUnknownVenue = errors.New("unknown venue")
