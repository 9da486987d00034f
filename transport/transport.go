// Package transport provides the byte-channel abstraction beneath the MOG
// device protocol: a single Transport interface with TCP and serial
// implementations.
//
// All higher-level logic (framing, command/response semantics) depends only
// on the Transport interface; the two variants differ solely in how bounded
// reads and connection teardown map onto the underlying channel.
package transport

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"
)

// ErrConnectionFailed indicates that opening the underlying channel failed.
// The wrapped error carries the transport-specific cause.
var ErrConnectionFailed = errors.New("transport: connection failed")

// Kind identifies a Transport variant.
type Kind int

const (
	// Network is a TCP stream socket transport.
	Network Kind = iota
	// Serial is a USB serial port transport.
	Serial
)

func (k Kind) String() string {
	switch k {
	case Network:
		return "network"
	case Serial:
		return "serial"
	default:
		return "unknown"
	}
}

// Target identifies the endpoint a Transport connects to. It is immutable
// after construction; the kind determines which Transport variant Connect
// instantiates.
type Target struct {
	kind   Kind
	device string // serial device path; empty selects the first enumerated port
	host   string
	port   int
}

// SerialTarget returns a Target for the serial port at the given device path.
// An empty device path selects the first serial port enumerated on the system.
func SerialTarget(device string) Target {
	return Target{kind: Serial, device: device}
}

// NetworkTarget returns a Target for a TCP endpoint.
func NetworkTarget(host string, port int) Target {
	return Target{kind: Network, host: host, port: port}
}

// Kind returns the transport variant this target selects.
func (t Target) Kind() Kind { return t.kind }

// Device returns the serial device path. Empty for network targets.
func (t Target) Device() string { return t.device }

// Host returns the network host. Empty for serial targets.
func (t Target) Host() string { return t.host }

// Port returns the TCP port. Zero for serial targets.
func (t Target) Port() int { return t.port }

// Addr returns the target in display form: the device path for serial
// targets, "host:port" for network targets.
func (t Target) Addr() string {
	if t.kind == Serial {
		if t.device == "" {
			return "USB"
		}
		return t.device
	}
	return net.JoinHostPort(t.host, strconv.Itoa(t.port))
}

func (t Target) String() string {
	return fmt.Sprintf("%s(%s)", t.kind, t.Addr())
}

// Transport abstracts a byte-oriented duplex channel to a device.
//
// A Transport is exclusively owned by one device session and is NOT
// goroutine-safe; concurrent callers must serialize access externally.
type Transport interface {
	// Recv performs one bounded read into buf, waiting at most timeout for
	// data to arrive. It returns:
	//
	//   - (n > 0, nil) when data was read;
	//   - (0, nil) when the timeout elapsed with no data;
	//   - (0, io.EOF) when the channel is closed, reset or unplugged.
	//
	// A non-positive timeout polls: it returns whatever is immediately
	// available without waiting. Any other error is channel-specific and
	// should be treated as fatal to the session.
	Recv(buf []byte, timeout time.Duration) (int, error)

	// Send writes p to the channel and returns the number of bytes written.
	Send(p []byte) (int, error)

	// Timeout returns the configured default read timeout.
	Timeout() time.Duration

	// SetTimeout sets the default read timeout used for subsequent reads.
	SetTimeout(d time.Duration)

	// Kind reports which transport variant this is. Framing differentiates
	// first-read semantics between serial and network channels.
	Kind() Kind

	// Close tears down the channel. The Transport is unusable afterwards;
	// aborting a hung exchange requires Close followed by a reconnect.
	Close() error
}

// Connect opens a Transport for the given target.
//
// timeout is both the connect timeout and the initial default read timeout.
// Open failures of either variant are normalized to ErrConnectionFailed with
// the underlying cause wrapped in the message.
func Connect(target Target, timeout time.Duration) (Transport, error) {
	switch target.Kind() {
	case Serial:
		return dialSerial(target.Device(), timeout)
	default:
		return dialTCP(target.Host(), target.Port(), timeout)
	}
}
