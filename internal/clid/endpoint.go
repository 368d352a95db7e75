package clid

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Only one pending connection is ever meaningful given the single-session
// invariant.
const sessionBacklog = 1

// createListenEndpoint builds the bound, listening Unix-domain socket. The
// descriptor is close-on-exec and non-blocking. Any failure closes the
// descriptor before returning.
func createListenEndpoint(socketPath string) (int, error) {
	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return -1, fmt.Errorf("create listen socket: %w", err)
	}
	unix.CloseOnExec(fd)
	if err := unix.SetNonblock(fd, true); err != nil {
		_ = unix.Close(fd)
		return -1, fmt.Errorf("set listen socket non-blocking: %w", err)
	}

	// A stale socket file left by a crashed instance must not block
	// rebinding; the exclusivity lock already rules out a live owner.
	_ = unix.Unlink(socketPath)

	if err := unix.Bind(fd, &unix.SockaddrUnix{Name: socketPath}); err != nil {
		_ = unix.Close(fd)
		return -1, fmt.Errorf("bind %s: %w", socketPath, err)
	}
	if err := unix.Listen(fd, sessionBacklog); err != nil {
		_ = unix.Close(fd)
		return -1, fmt.Errorf("listen %s: %w", socketPath, err)
	}
	return fd, nil
}
