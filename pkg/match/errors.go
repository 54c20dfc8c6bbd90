package match

import (
	"errors"
	"fmt"

	payload "github.com/HMasataka/rally/payload/match"
)

var (
	// ErrAttemptInProgress a create or join is already running on this client
	ErrAttemptInProgress = errors.New("a match attempt is already in progress")
	// ErrConnectTimeout the control-plane connection could not be established in time
	ErrConnectTimeout = errors.New("timed out connecting to the relay server")
	// ErrServerTimeout the server did not reply within the bounded wait
	ErrServerTimeout = errors.New("timed out waiting for the relay server")
	// ErrCancelled Disconnect was invoked while a wait was pending
	ErrCancelled = errors.New("match attempt cancelled")
	// ErrPeerDisconnected the other participant's connection closed
	ErrPeerDisconnected = errors.New("peer disconnected")
	// ErrControlPlaneClosed the relay connection dropped mid-attempt
	ErrControlPlaneClosed = errors.New("relay connection closed")
	// ErrConnectionFailed the peer connection reached the failed state
	ErrConnectionFailed = errors.New("peer connection failed")

	// Server-reported errors, surfaced verbatim to the caller.
	ErrMatchNotFound     = errors.New("match not found")
	ErrMatchFull         = errors.New("match is full")
	ErrSelfJoin          = errors.New("cannot join own match")
	ErrTargetUnavailable = errors.New("target is not connected")
)

// wireError converts a server error frame into the matching sentinel.
func wireError(resp payload.ErrorResponse) error {
	switch resp.Code {
	case payload.ErrorCodeMatchNotFound:
		return ErrMatchNotFound
	case payload.ErrorCodeMatchFull:
		return ErrMatchFull
	case payload.ErrorCodeSelfJoin:
		return ErrSelfJoin
	case payload.ErrorCodeTargetUnavailable:
		return ErrTargetUnavailable
	default:
		return fmt.Errorf("relay error: %s: %s", resp.Code, resp.Message)
	}
}
