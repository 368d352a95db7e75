package clid

import "errors"

var (
	// ErrAlreadyInitialized is returned by Init while the listen endpoint
	// is live. Deinit first to re-enter the init cycle.
	ErrAlreadyInitialized = errors.New("command channel already initialized")

	// ErrPathTooLong reports a derived socket or lock path exceeding the
	// platform sockaddr_un limit. There is no recovery: no valid socket
	// address can be formed for the requested interface name.
	ErrPathTooLong = errors.New("socket path exceeds platform limit")

	// ErrFatal marks conditions the daemon cannot recover from. Callers
	// must tear the process down when a returned error wraps it.
	ErrFatal = errors.New("unrecoverable command channel failure")
)
