package mogdev

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout indicates that no data was received within the configured
	// timeout window.
	ErrTimeout = errors.New("mogdev: timed out")

	// ErrNotConnected indicates an operation on a Device whose transport has
	// been closed or never opened.
	ErrNotConnected = errors.New("mogdev: not connected")

	// ErrNoResponse indicates that the device did not answer the liveness
	// query issued at connect time. The Device is unusable and should be
	// reconnected.
	ErrNoResponse = errors.New("mogdev: device did not respond")

	// ErrIncompatibleFirmware indicates that the device firmware does not
	// implement the version query.
	ErrIncompatibleFirmware = errors.New("mogdev: incompatible firmware")

	// ErrBinaryLength indicates that a binary response block carried fewer
	// payload bytes than its length header declared.
	ErrBinaryLength = errors.New("mogdev: binary response block has incorrect length")
)

// DeviceError is an error reported by the device itself: a response beginning
// with the "ERR:" prefix. Message carries the device-supplied text with the
// prefix and surrounding whitespace stripped.
type DeviceError struct {
	Message string
}

func (e *DeviceError) Error() string {
	return "mogdev: device error: " + e.Message
}

// ProtocolError indicates a response that was received intact but does not
// have the shape the operation requires: a missing OK acknowledgement, a
// dictionary without colon-separated entries, or a malformed entry.
// Response carries the offending bytes.
type ProtocolError struct {
	Reason   string
	Response []byte
}

func (e *ProtocolError) Error() string {
	if len(e.Response) == 0 {
		return "mogdev: " + e.Reason
	}

	return fmt.Sprintf("mogdev: %s: %q", e.Reason, e.Response)
}
