package app

import (
	"errors"
	"fmt"

	"github.com/dkeye/rtcroom/internal/protocol"
)

var (
	ErrAlreadyConnected = errors.New("already connected")
	ErrNotConnected     = errors.New("not connected")
	ErrNotAuthenticated = errors.New("account is not signed in")
	ErrNoToken          = errors.New("no join token")
	ErrNoEndpoint       = errors.New("no endpoint")
	ErrAborted          = errors.New("connect aborted by disconnect")
)

// ClosedError reports that the service closed the session.
type ClosedError struct {
	Code   int
	Reason protocol.CloseReason
}

func (e *ClosedError) Error() string {
	return fmt.Sprintf("closed by service: %s (code %d)", e.Reason, e.Code)
}
