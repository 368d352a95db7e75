//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package clid

import "golang.org/x/sys/unix"

// BSD-derived platforms lack MSG_NOSIGNAL but support SO_NOSIGPIPE.
func setNoSigpipe(fd int) error {
	return unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_NOSIGPIPE, 1)
}
