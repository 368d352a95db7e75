package clid

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	"cmdchan/internal/logging"
)

// session is the single currently-accepted peer connection. A nil *session
// on the daemon means no session exists.
type session struct {
	fd int
	id string
}

func (s *session) close() {
	_ = unix.Close(s.fd)
}

// acceptSession performs the NoSession -> SessionActive transition. Any
// failure after accept closes the just-accepted descriptor and leaves the
// daemon with no session at all, discarding a prior one as well.
func (d *Daemon) acceptSession() {
	fd, _, err := unix.Accept(d.listenFd)
	if err != nil {
		d.failAcceptance(-1, fmt.Errorf("accept: %w", err))
		return
	}
	if err := configureSession(fd); err != nil {
		d.failAcceptance(fd, err)
		return
	}

	// The prior session, if any, is discarded without an orderly shutdown
	// handshake. Its peer learns about the takeover through EOF.
	d.clearSession()

	d.session = &session{fd: fd, id: uuid.NewString()}
	d.logger.Info("session socket ready",
		logging.String(logging.FieldSessionID, d.session.id))
}

func (d *Daemon) failAcceptance(fd int, err error) {
	if fd >= 0 {
		_ = unix.Close(fd)
	}
	logging.WarnWithContext(d.logger, "failed to initialize session socket", "session_accept_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "the client may retry connecting"),
		logging.String(logging.FieldImpact, "no command session is active"))
	d.clearSession()
}

func configureSession(fd int) error {
	flags, err := unix.FcntlInt(uintptr(fd), unix.F_GETFD, 0)
	if err != nil {
		return fmt.Errorf("get session descriptor flags: %w", err)
	}
	if _, err := unix.FcntlInt(uintptr(fd), unix.F_SETFD, flags|unix.FD_CLOEXEC); err != nil {
		return fmt.Errorf("set session close-on-exec: %w", err)
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		return fmt.Errorf("set session non-blocking: %w", err)
	}
	if err := setNoSigpipe(fd); err != nil {
		return fmt.Errorf("suppress sigpipe on session: %w", err)
	}
	return nil
}

// clearSession performs the SessionActive -> NoSession transition, closing
// the open descriptor. Safe to call with no session.
func (d *Daemon) clearSession() {
	if d.session == nil {
		return
	}
	d.session.close()
	d.session = nil
}
