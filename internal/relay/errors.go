package relay

import (
	"errors"

	"github.com/HMasataka/rally/payload/match"
)

var (
	// ErrMatchNotFound no live match exists for the requested code
	ErrMatchNotFound = errors.New("match not found")
	// ErrMatchFull the match already has a joiner
	ErrMatchFull = errors.New("match is full")
	// ErrSelfJoin a connection tried to join its own match
	ErrSelfJoin = errors.New("cannot join own match")
	// ErrTargetUnavailable the relay target is not connected
	ErrTargetUnavailable = errors.New("target is not connected")
	// ErrCodeSpaceExhausted code generation kept colliding with live matches
	ErrCodeSpaceExhausted = errors.New("could not generate a unique match code")
	// ErrMalformedRequest required fields are missing or unparseable
	ErrMalformedRequest = errors.New("malformed request")
)

// WireErrorCode maps a registry error onto the code reported to the
// requesting connection.
func WireErrorCode(err error) match.ErrorCode {
	switch {
	case errors.Is(err, ErrMatchNotFound):
		return match.ErrorCodeMatchNotFound
	case errors.Is(err, ErrMatchFull):
		return match.ErrorCodeMatchFull
	case errors.Is(err, ErrSelfJoin):
		return match.ErrorCodeSelfJoin
	case errors.Is(err, ErrTargetUnavailable):
		return match.ErrorCodeTargetUnavailable
	case errors.Is(err, ErrUnknownMessageType), errors.Is(err, ErrMalformedRequest):
		return match.ErrorCodeMalformedRequest
	default:
		return match.ErrorCodeInternal
	}
}
