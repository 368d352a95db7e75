//go:build linux

package clid

// Linux has MSG_NOSIGNAL at send time, so nothing needs to be configured on
// the descriptor itself.
func setNoSigpipe(int) error { return nil }
