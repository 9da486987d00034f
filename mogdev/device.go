package mogdev

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/arloliu/go-mogdev/logger"
	"github.com/arloliu/go-mogdev/transport"
)

// Response markers of the text protocol.
const (
	okPrefix  = "OK"
	errPrefix = "ERR:"
)

// Device is a synchronous protocol client for one MOG laboratory device.
//
// A Device owns its Transport exclusively and supports exactly one request
// in flight; it is NOT goroutine-safe. There is no cancellation primitive:
// to abort a hung exchange, Close the Device and Reconnect.
type Device struct {
	cfg    *config
	target transport.Target
	tr     transport.Transport
	fr     *framer
	logger logger.Logger
	info   string
}

// Connect resolves addr, opens the transport and, unless disabled with
// WithLivenessCheck(false), verifies the device responds to an "info" query.
//
// addr selects the transport: "COM<n>", "/dev/..." or "USB" for serial,
// "host" or "host:port" for TCP (default port 7802).
func Connect(addr string, opts ...Option) (*Device, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	target, err := resolveTarget(addr, cfg.port)
	if err != nil {
		return nil, err
	}

	d := &Device{
		cfg:    cfg,
		target: target,
		logger: cfg.logger,
	}

	if err := d.dial(); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Device) dial() error {
	tr, err := transport.Connect(d.target, d.cfg.timeout)
	if err != nil {
		return err
	}

	d.tr = tr
	d.fr = newFramer(tr, d.logger, d.cfg.settleWindow, d.cfg.bufferSize)

	if d.cfg.checkAlive {
		info, err := d.Ask("info")
		if err != nil {
			d.logger.Error("mogdev: liveness check failed", "target", d.target.String(), "error", err)
			_ = tr.Close()
			d.tr = nil
			d.fr = nil

			return fmt.Errorf("%w: %v", ErrNoResponse, err)
		}

		d.info = string(info)
	}

	d.logger.Debug("mogdev: connected", "target", d.target.String())

	return nil
}

// Reconnect tears down the existing transport, if any, and reestablishes the
// connection, repeating the liveness check per the connect options. For
// "USB" targets the port enumeration reruns, so the device may come back on
// a different port.
func (d *Device) Reconnect() error {
	if d.tr != nil {
		_ = d.tr.Close()
		d.tr = nil
		d.fr = nil
	}

	return d.dial()
}

// Close tears down the transport. The Device is unusable until Reconnect.
func (d *Device) Close() error {
	if d.tr == nil {
		return nil
	}

	err := d.tr.Close()
	d.tr = nil
	d.fr = nil

	return err
}

// Info returns the device identification string cached by the liveness check
// at connect time. Empty when the check was disabled.
func (d *Device) Info() string { return d.info }

// Target returns the resolved connection target.
func (d *Device) Target() transport.Target { return d.target }

// Timeout returns the current response timeout.
func (d *Device) Timeout() time.Duration {
	if d.tr != nil {
		return d.tr.Timeout()
	}

	return d.cfg.timeout
}

// SetTimeout sets the response timeout, effective for subsequent operations
// including receiveExact-style binary reads.
func (d *Device) SetTimeout(timeout time.Duration) {
	d.cfg.timeout = timeout
	if d.tr != nil {
		d.tr.SetTimeout(timeout)
	}
}

// Flush drains and discards any unread response bytes pending on the
// transport, returning what was discarded. Ask does this automatically;
// Flush is exposed for tooling that interleaves raw sends.
func (d *Device) Flush() []byte {
	if d.fr == nil {
		return nil
	}

	return d.fr.flush(0)
}

// Send writes cmd to the device, appending CRLF if not already present.
func (d *Device) Send(cmd []byte) error {
	if d.tr == nil {
		return ErrNotConnected
	}

	if !bytes.HasSuffix(cmd, crlf) {
		out := make([]byte, 0, len(cmd)+len(crlf))
		out = append(out, cmd...)
		out = append(out, crlf...)
		cmd = out
	}

	if len(cmd) < DefaultBufferSize {
		d.logger.Debug("mogdev: sent", "len", len(cmd), "data", fmt.Sprintf("%q", cmd))
	}

	_, err := d.tr.Send(cmd)

	return err
}

// Ask sends cmd and returns the text response, trimmed of surrounding
// whitespace. Stale unread input is flushed first. A response beginning with
// "ERR:" is returned as a *DeviceError carrying the device-supplied message.
func (d *Device) Ask(cmd string) ([]byte, error) {
	if d.tr == nil {
		return nil, ErrNotConnected
	}

	d.fr.flush(0)

	if err := d.Send([]byte(cmd)); err != nil {
		return nil, err
	}

	resp, err := d.fr.receiveText()
	if err != nil {
		return nil, err
	}

	resp = bytes.TrimSpace(resp)

	if msg, ok := bytes.CutPrefix(resp, []byte(errPrefix)); ok {
		return nil, &DeviceError{Message: string(bytes.TrimSpace(msg))}
	}

	return resp, nil
}

// Cmd sends cmd and checks that the device acknowledged it: the response
// must begin with "OK". The raw response is returned on success and carried
// in the *ProtocolError otherwise.
func (d *Device) Cmd(cmd string) ([]byte, error) {
	resp, err := d.Ask(cmd)
	if err != nil {
		return nil, err
	}

	if !bytes.HasPrefix(resp, []byte(okPrefix)) {
		return nil, &ProtocolError{Reason: "command not acknowledged", Response: resp}
	}

	return resp, nil
}

// AskDict sends cmd and parses the response as an ordered dictionary. See
// parseDict for the accepted encodings.
func (d *Device) AskDict(cmd string) (*Dict, error) {
	resp, err := d.Ask(cmd)
	if err != nil {
		return nil, err
	}

	return parseDict(resp)
}

// AskBinary sends cmd and reads a binary block response: a 4-byte
// little-endian length header followed by exactly that many payload bytes.
// A header equal to "ERR:" switches to reading a text error response.
//
// The command is sent without a preceding flush; the header must be the
// first thing read after the send.
func (d *Device) AskBinary(cmd string) ([]byte, error) {
	if d.tr == nil {
		return nil, ErrNotConnected
	}

	if err := d.Send([]byte(cmd)); err != nil {
		return nil, err
	}

	head, err := d.fr.receiveExact(4)
	if err != nil {
		return nil, err
	}

	if len(head) < 4 {
		return nil, &ProtocolError{Reason: "short binary header", Response: head}
	}

	if bytes.Equal(head, []byte(errPrefix)) {
		resp, rerr := d.fr.receiveText()
		if rerr != nil {
			return nil, rerr
		}

		return nil, &DeviceError{Message: string(bytes.TrimSpace(resp))}
	}

	size := int(binary.LittleEndian.Uint32(head))

	data, err := d.fr.receiveExact(size)
	if err != nil {
		return nil, err
	}

	if len(data) != size {
		return nil, fmt.Errorf("%w: got %d of %d bytes", ErrBinaryLength, len(data), size)
	}

	return data, nil
}

// Versions queries the device firmware versions and returns the
// component→version mapping. Firmware predating the version query yields
// ErrIncompatibleFirmware.
func (d *Device) Versions() (*Dict, error) {
	resp, err := d.Ask("version")
	if err != nil {
		return nil, err
	}

	return parseVersions(resp)
}
