package mogdev

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arloliu/go-mogdev/transport"
)

// Serial-port address conventions. An address beginning with one of the
// serial prefixes, or equal to the USB sentinel, selects the serial
// transport; anything else is a network host.
const (
	serialPrefixWindows = "COM"
	serialPrefixUnix    = "/dev/"
	usbSentinel         = "USB"
)

// resolveTarget turns an address string and optional explicit port (-1 when
// unset) into a connection target.
//
// Serial: "COM3", "/dev/ttyUSB0", or "USB" (first enumerated port). An
// explicit port composes a "COM<n>" path; anything after the first space in
// the address is discarded (port listings often append a description).
//
// Network: "host" or "host:port"; the explicit port, then DefaultPort, apply
// when the address carries none.
func resolveTarget(addr string, port int) (transport.Target, error) {
	if addr == "" {
		return transport.Target{}, fmt.Errorf("mogdev: empty address")
	}

	if isSerialAddr(addr) {
		if port >= 0 {
			addr = serialPrefixWindows + strconv.Itoa(port)
		}

		addr, _, _ = strings.Cut(addr, " ")

		if addr == usbSentinel {
			return transport.SerialTarget(""), nil
		}

		return transport.SerialTarget(addr), nil
	}

	if host, portStr, ok := strings.Cut(addr, ":"); ok {
		p, err := strconv.Atoi(portStr)
		if err != nil || p < 0 || p > 65535 {
			return transport.Target{}, fmt.Errorf("mogdev: invalid port in address %q", addr)
		}

		return transport.NetworkTarget(host, p), nil
	}

	if port < 0 {
		port = DefaultPort
	}

	return transport.NetworkTarget(addr, port), nil
}

func isSerialAddr(addr string) bool {
	return strings.HasPrefix(addr, serialPrefixWindows) ||
		strings.HasPrefix(addr, serialPrefixUnix) ||
		addr == usbSentinel
}
