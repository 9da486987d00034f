//go:build !windows

package transport

import "syscall"

// setReuseAddr sets SO_REUSEADDR on the socket before connecting, matching
// the behavior expected by MOG devices that recycle connections quickly.
func setReuseAddr(network, address string, rc syscall.RawConn) error {
	var sockErr error

	err := rc.Control(func(fd uintptr) {
		sockErr = syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_REUSEADDR, 1)
	})
	if err != nil {
		return err
	}

	return sockErr
}
