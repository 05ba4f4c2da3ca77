package service

import "errors"

var (
	ErrMissingAPIKey = errors.New("server api key missing")
	ErrNoCSS         = errors.New("no css provided")
)

// UpstreamKind tells apart the failures that all surface as "Conversion failed".
type UpstreamKind string

const (
	KindTransport       UpstreamKind = "transport"
	KindProvider        UpstreamKind = "provider"
	KindMalformedOutput UpstreamKind = "malformed_output"
)

// UpstreamError wraps any failure of the provider round trip.
type UpstreamError struct {
	Kind UpstreamKind
	Err  error
}

func (e *UpstreamError) Error() string {
	return e.Err.Error()
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
