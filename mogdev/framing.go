package mogdev

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/arloliu/go-mogdev/logger"
	"github.com/arloliu/go-mogdev/transport"
)

// crlf terminates commands and, conventionally, text responses. Completion
// of a text response is inferred by idle timeout, not by the terminator.
var crlf = []byte("\r\n")

// framer turns arbitrary sequences of transport reads into complete logical
// responses. It owns the flush-before-send semantics, the settle-window
// heuristic for text responses, and exact-size reads for binary blocks.
//
// framer is NOT goroutine-safe, consistent with the one-request-in-flight
// model of the protocol.
type framer struct {
	tr           transport.Transport
	logger       logger.Logger
	settleWindow time.Duration
	bufSize      int
}

func newFramer(tr transport.Transport, l logger.Logger, settleWindow time.Duration, bufSize int) *framer {
	return &framer{
		tr:           tr,
		logger:       l,
		settleWindow: settleWindow,
		bufSize:      bufSize,
	}
}

// flush drains and discards any bytes currently available on the transport,
// waiting at most timeout per read. It is used defensively before sending a
// new command to clear stale unread responses. The discarded bytes are
// returned; flushing an idle channel returns an empty buffer and has no
// side effects.
func (f *framer) flush(timeout time.Duration) []byte {
	var dat []byte

	buf := make([]byte, f.bufSize)

	for {
		n, err := f.tr.Recv(buf, timeout)
		if n > 0 {
			dat = append(dat, buf[:n]...)
		}

		if n == 0 || err != nil {
			break
		}
	}

	if len(dat) > 0 {
		f.logger.Debug("mogdev: flushed stale input", "len", len(dat), "data", fmt.Sprintf("%q", dat))
	}

	return dat
}

// receiveText reads one complete text response.
//
// The first read waits for the transport's configured timeout. If the chunk
// does not end with CRLF, more packets are presumed to be coming: reads
// continue with the settle window as idle timeout until nothing arrives
// within it. A CRLF-terminated first chunk is presumed complete, but any
// immediately available trailing data is still drained (zero settle).
//
// A first read yielding no data is a hard ErrTimeout, with one exception: a
// closed network socket passes through as an empty response, mirroring how
// an orderly TCP shutdown reads as zero bytes rather than an error.
func (f *framer) receiveText() ([]byte, error) {
	buf := make([]byte, f.bufSize)

	n, err := f.tr.Recv(buf, f.tr.Timeout())
	if n == 0 {
		if err != nil {
			if errors.Is(err, io.EOF) {
				if f.tr.Kind() == transport.Network {
					return nil, nil
				}

				return nil, ErrTimeout
			}

			return nil, err
		}

		return nil, ErrTimeout
	}

	data := append([]byte(nil), buf[:n]...)

	settle := time.Duration(0)
	if !bytes.HasSuffix(data, crlf) {
		settle = f.settleWindow
	}

	for {
		m, rerr := f.tr.Recv(buf, settle)
		if m > 0 {
			data = append(data, buf[:m]...)
		}

		if m == 0 || rerr != nil {
			break
		}
	}

	f.logger.Debug("mogdev: received", "len", len(data), "data", fmt.Sprintf("%q", data))

	return data, nil
}

// receiveExact reads until size bytes are accumulated or the channel stops
// yielding data (idle timeout or closure), in which case the buffer comes
// back short. Callers must check the returned length against the request.
func (f *framer) receiveExact(size int) ([]byte, error) {
	data := make([]byte, size)
	got := 0

	for got < size {
		n, err := f.tr.Recv(data[got:], f.tr.Timeout())
		got += n

		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return data[:got], err
		}

		if n == 0 {
			break
		}
	}

	f.logger.Debug("mogdev: received raw", "len", got, "want", size)

	return data[:got], nil
}
