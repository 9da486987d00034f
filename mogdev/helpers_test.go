package mogdev

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/arloliu/go-mogdev/logger"
	"github.com/arloliu/go-mogdev/transport"
	"github.com/stretchr/testify/require"
)

const testSettleWindow = 10 * time.Millisecond

// fakeTransport is a scripted in-memory Transport.
//
// Responses are queued with respond and become readable only after the next
// Send, mirroring a device that answers commands. Bytes made readable
// immediately (stale unread responses) are injected with stale. Each queued
// chunk is delivered by one Recv call; a nil chunk simulates one idle
// timeout in the middle of a response.
//
// When the readable queue is exhausted, Recv reports an idle timeout, or end
// of stream if eof is set.
type fakeTransport struct {
	kind    transport.Kind
	timeout time.Duration
	queued  [][]byte
	live    [][]byte
	eof     bool
	sent    bytes.Buffer
	closed  bool
}

func newFakeTransport(kind transport.Kind) *fakeTransport {
	return &fakeTransport{kind: kind, timeout: 50 * time.Millisecond}
}

// respond queues chunks to become readable after the next Send.
func (f *fakeTransport) respond(chunks ...[]byte) {
	f.queued = append(f.queued, chunks...)
}

// stale makes chunks readable immediately, before any Send.
func (f *fakeTransport) stale(chunks ...[]byte) {
	f.live = append(f.live, chunks...)
}

func (f *fakeTransport) Recv(buf []byte, timeout time.Duration) (int, error) {
	if len(f.live) == 0 {
		if f.eof {
			return 0, io.EOF
		}

		return 0, nil
	}

	chunk := f.live[0]
	f.live = f.live[1:]

	if chunk == nil {
		return 0, nil
	}

	n := copy(buf, chunk)
	if n < len(chunk) {
		f.live = append([][]byte{chunk[n:]}, f.live...)
	}

	return n, nil
}

func (f *fakeTransport) Send(p []byte) (int, error) {
	f.sent.Write(p)
	f.live = append(f.live, f.queued...)
	f.queued = nil

	return len(p), nil
}

func (f *fakeTransport) Timeout() time.Duration     { return f.timeout }
func (f *fakeTransport) SetTimeout(d time.Duration) { f.timeout = d }
func (f *fakeTransport) Kind() transport.Kind       { return f.kind }

func (f *fakeTransport) Close() error {
	f.closed = true

	return nil
}

// newTestDevice wires a Device directly onto a fake transport, bypassing
// Connect and the liveness check.
func newTestDevice(t *testing.T, ft *fakeTransport) *Device {
	t.Helper()

	cfg, err := newConfig(WithTimeout(50 * time.Millisecond))
	require.NoError(t, err)

	d := &Device{
		cfg:    cfg,
		tr:     ft,
		logger: cfg.logger,
	}
	d.fr = newFramer(ft, cfg.logger, testSettleWindow, cfg.bufferSize)

	return d
}

func newTestFramer(ft *fakeTransport) *framer {
	return newFramer(ft, logger.GetLogger(), testSettleWindow, DefaultBufferSize)
}
