package transport

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"time"
)

// pollDeadline is the minimum effective deadline for a zero-timeout Recv on
// TCP. Go fails reads whose deadline has already passed without attempting
// delivery, so a true zero deadline would never drain buffered data.
const pollDeadline = time.Millisecond

// tcpTransport is the Network Transport variant: a TCP stream socket with
// SO_REUSEADDR set and per-read deadlines.
type tcpTransport struct {
	conn    net.Conn
	timeout time.Duration
}

var _ Transport = (*tcpTransport)(nil)

func dialTCP(host string, port int, timeout time.Duration) (*tcpTransport, error) {
	dialer := net.Dialer{
		Timeout: timeout,
		Control: setReuseAddr,
	}

	conn, err := dialer.Dial("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnectionFailed, err)
	}

	return &tcpTransport{conn: conn, timeout: timeout}, nil
}

func (t *tcpTransport) Recv(buf []byte, timeout time.Duration) (int, error) {
	if timeout <= 0 {
		timeout = pollDeadline
	}

	if err := t.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return 0, err
	}

	n, err := t.conn.Read(buf)
	if err != nil {
		switch {
		case errors.Is(err, os.ErrDeadlineExceeded):
			// No data within the window; not an error at this layer.
			return n, nil
		case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
			return n, io.EOF
		default:
			return n, err
		}
	}

	return n, nil
}

func (t *tcpTransport) Send(p []byte) (int, error) {
	return t.conn.Write(p)
}

func (t *tcpTransport) Timeout() time.Duration { return t.timeout }

func (t *tcpTransport) SetTimeout(d time.Duration) { t.timeout = d }

func (t *tcpTransport) Kind() Kind { return Network }

func (t *tcpTransport) Close() error {
	err := t.conn.Close()
	if err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}

	return nil
}
