package llm

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can decide whether it is fatal
// (configuration, missing credential) or turn-local (network, throttling).
type Kind int

const (
	KindUnknown Kind = iota
	KindAuthentication
	KindNetwork
	KindRateLimited
	KindMalformed
	KindConfiguration
)

func (k Kind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindNetwork:
		return "network"
	case KindRateLimited:
		return "rate limited"
	case KindMalformed:
		return "malformed response"
	case KindConfiguration:
		return "configuration"
	default:
		return "unknown"
	}
}

// Error attaches a Kind to an underlying failure.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind carried by err, unwrapping as needed, or
// KindUnknown for errors that did not originate here.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
