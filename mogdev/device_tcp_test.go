package mogdev

import (
	"bufio"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/arloliu/go-mogdev/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startFakeDevice runs a loopback TCP device that answers each CRLF-
// terminated command via handler. A nil reply means "stay silent".
// Returns the listen address.
func startFakeDevice(t *testing.T, handler func(cmd string) []byte) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}

			go func(c net.Conn) {
				defer func() { _ = c.Close() }()

				r := bufio.NewReader(c)
				for {
					line, err := r.ReadString('\n')
					if err != nil {
						return
					}

					reply := handler(strings.TrimRight(line, "\r\n"))
					if reply == nil {
						continue
					}

					if _, err := c.Write(reply); err != nil {
						return
					}
				}
			}(conn)
		}
	}()

	return ln.Addr().String()
}

func fakeDeviceHandler(cmd string) []byte {
	switch cmd {
	case "info":
		return []byte("OK MOG DDS rev5\r\n")
	case "version":
		return []byte("OK,UC:1.2,DRV:3.4\r\n")
	case "on,1":
		return []byte("OK\r\n")
	case "report":
		return []byte("OK a:1,b:2\r\n")
	case "trace":
		return append([]byte{0x05, 0x00, 0x00, 0x00}, []byte("hello")...)
	case "boom":
		return []byte("ERR: channel fault\r\n")
	default:
		return []byte("Command not defined\r\n")
	}
}

func TestConnect_TCP(t *testing.T) {
	addr := startFakeDevice(t, fakeDeviceHandler)

	dev, err := Connect(addr)
	require.NoError(t, err)
	defer dev.Close()

	assert.Equal(t, "OK MOG DDS rev5", dev.Info())
	assert.Equal(t, transport.Network, dev.Target().Kind())
}

func TestConnect_TCP_DeviceNotResponding(t *testing.T) {
	addr := startFakeDevice(t, func(string) []byte { return nil })

	_, err := Connect(addr, WithTimeout(50*time.Millisecond))
	assert.ErrorIs(t, err, ErrNoResponse)
}

func TestConnect_TCP_ConnectionRefused(t *testing.T) {
	// Grab a free port and close it again so the dial is refused.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = Connect(addr, WithTimeout(250*time.Millisecond))
	assert.ErrorIs(t, err, transport.ErrConnectionFailed)
}

func TestDevice_OverTCP(t *testing.T) {
	addr := startFakeDevice(t, fakeDeviceHandler)

	dev, err := Connect(addr, WithSettleWindow(20*time.Millisecond))
	require.NoError(t, err)
	defer dev.Close()

	t.Run("Cmd", func(t *testing.T) {
		resp, err := dev.Cmd("on,1")
		require.NoError(t, err)
		assert.Equal(t, []byte("OK"), resp)
	})

	t.Run("AskDict", func(t *testing.T) {
		dict, err := dev.AskDict("report")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, dict.Keys())
	})

	t.Run("AskBinary", func(t *testing.T) {
		data, err := dev.AskBinary("trace")
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), data)
	})

	t.Run("DeviceError", func(t *testing.T) {
		_, err := dev.Ask("boom")

		devErr := &DeviceError{}
		require.ErrorAs(t, err, &devErr)
		assert.Equal(t, "channel fault", devErr.Message)
	})

	t.Run("Versions", func(t *testing.T) {
		vers, err := dev.Versions()
		require.NoError(t, err)

		uc, ok := vers.Get("UC")
		assert.True(t, ok)
		assert.Equal(t, "1.2", uc)
	})
}

func TestDevice_Reconnect(t *testing.T) {
	addr := startFakeDevice(t, fakeDeviceHandler)

	dev, err := Connect(addr)
	require.NoError(t, err)

	require.NoError(t, dev.Close())

	_, err = dev.Ask("info")
	assert.ErrorIs(t, err, ErrNotConnected)

	require.NoError(t, dev.Reconnect())
	defer dev.Close()

	resp, err := dev.Cmd("on,1")
	require.NoError(t, err)
	assert.Equal(t, []byte("OK"), resp)
}
