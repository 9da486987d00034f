package transport

import (
	"errors"
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// Serial line parameters fixed by the MOG device family: 115200 baud, 8 data
// bits, no parity, 1 stop bit. Writes are blocking (no write timeout); only
// the read timeout is configurable.
const (
	BaudRate = 115200
	dataBits = 8
)

// serialTransport is the Serial Transport variant backed by go.bug.st/serial.
type serialTransport struct {
	port    serial.Port
	device  string
	timeout time.Duration
}

var _ Transport = (*serialTransport)(nil)

func dialSerial(device string, timeout time.Duration) (*serialTransport, error) {
	if device == "" {
		first, err := firstSerialDevice()
		if err != nil {
			return nil, err
		}
		device = first
	}

	mode := &serial.Mode{
		BaudRate: BaudRate,
		DataBits: dataBits,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	return &serialTransport{port: port, device: device, timeout: timeout}, nil
}

// firstSerialDevice returns the first serial port enumerated on the system,
// implementing the "any USB device" sentinel.
func firstSerialDevice() (string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	if len(ports) == 0 {
		return "", fmt.Errorf("%w: no serial ports found", ErrConnectionFailed)
	}

	return ports[0], nil
}

func (s *serialTransport) Recv(buf []byte, timeout time.Duration) (int, error) {
	if timeout < 0 {
		timeout = 0
	}

	// go.bug.st semantics: a zero read timeout is a non-blocking read,
	// returning whatever is already buffered.
	if err := s.port.SetReadTimeout(timeout); err != nil {
		return 0, err
	}

	n, err := s.port.Read(buf)
	if err != nil {
		// An unplugged or closed port reads as end of stream. A liveness
		// poll on a disconnected device therefore sees "no data", not an
		// error; callers relying on this will not get an explicit signal.
		portErr := &serial.PortError{}
		if errors.As(err, &portErr) || errors.Is(err, io.EOF) {
			return n, io.EOF
		}

		return n, err
	}

	return n, nil
}

func (s *serialTransport) Send(p []byte) (int, error) {
	return s.port.Write(p)
}

func (s *serialTransport) Timeout() time.Duration { return s.timeout }

func (s *serialTransport) SetTimeout(d time.Duration) { s.timeout = d }

func (s *serialTransport) Kind() Kind { return Serial }

func (s *serialTransport) Close() error {
	return s.port.Close()
}
