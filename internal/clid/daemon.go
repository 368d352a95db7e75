package clid

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"cmdchan/internal/logging"
	"cmdchan/internal/mainloop"
)

// MaxLineLength bounds a single read handed to the processor. The channel
// does not delimit lines itself; that is the processor's concern.
const MaxLineLength = 1024

// Processor consumes command line bytes forwarded from the active session.
// Implementations receive a fresh copy per read and must not retain it
// beyond the call. A returned error is logged and does not terminate the
// session.
type Processor interface {
	Submit(line []byte) error
}

// Daemon owns the command channel endpoint: the exclusivity lock, the
// listening socket, and at most one peer session. It is not safe for
// concurrent use; all methods are expected to run on the readiness-loop
// goroutine.
type Daemon struct {
	logger     *slog.Logger
	processor  Processor
	runtimeDir string

	paths    Paths
	ifname   string
	lock     *flock.Flock
	listenFd int
	session  *session
}

// New constructs a daemon forwarding command lines to processor. The
// runtime directory may be empty to use the platform default; no OS
// resources are created until Init.
func New(processor Processor, logger *slog.Logger, runtimeDir string) (*Daemon, error) {
	if processor == nil {
		return nil, errors.New("command channel requires a processor")
	}
	return &Daemon{
		logger:     logging.NewComponentLogger(logger, "clid"),
		processor:  processor,
		runtimeDir: runtimeDir,
		listenFd:   -1,
	}, nil
}

// Init resolves the socket and lock paths for the given logical interface
// name, takes the exclusivity lock, and brings up the listen endpoint. It
// fails with ErrAlreadyInitialized while the endpoint is live, with
// ErrPathTooLong before creating any resource when the name yields an
// unusable path, and with the underlying OS error otherwise.
func (d *Daemon) Init(ifname string) error {
	if d.listenFd != -1 {
		return ErrAlreadyInitialized
	}

	paths, err := ResolvePaths(d.runtimeDir, ifname)
	if err != nil {
		return err
	}

	if err := d.acquireLock(paths.Lock); err != nil {
		return err
	}

	fd, err := createListenEndpoint(paths.Socket)
	if err != nil {
		return err
	}

	d.listenFd = fd
	d.paths = paths
	d.ifname = ifname
	d.logger.Info("command channel listening",
		logging.String(logging.FieldInterface, ifname),
		logging.String("socket", paths.Socket),
		logging.String("lock", paths.Lock))
	return nil
}

// Deinit releases the session and the listen endpoint so a subsequent Init
// can rebuild the channel. The exclusivity lock is deliberately retained
// for the process lifetime; Close releases it.
func (d *Daemon) Deinit() {
	d.clearSession()
	if d.listenFd != -1 {
		_ = unix.Close(d.listenFd)
		d.listenFd = -1
	}
}

// Close tears down every resource the daemon owns, including the
// exclusivity lock. Intended for process teardown and tests.
func (d *Daemon) Close() {
	d.Deinit()
	if d.lock != nil {
		_ = d.lock.Unlock()
		d.lock = nil
	}
}

// Reset drops the active session, if any, without touching the endpoint.
func (d *Daemon) Reset() {
	d.clearSession()
}

// SessionActive reports whether a peer session currently exists.
func (d *Daemon) SessionActive() bool {
	return d.session != nil
}

// ActiveSessionID returns the identifier of the current session, or the
// empty string when none exists.
func (d *Daemon) ActiveSessionID() string {
	if d.session == nil {
		return ""
	}
	return d.session.id
}

// SocketPath returns the bound socket path. Empty before Init.
func (d *Daemon) SocketPath() string {
	return d.paths.Socket
}

// LockPath returns the lock file path. Empty before Init.
func (d *Daemon) LockPath() string {
	return d.paths.Lock
}

// Update registers the live descriptors with read and error interest.
// Part of the mainloop.Source contract.
func (d *Daemon) Update(ctx *mainloop.Context) {
	if d.listenFd != -1 {
		ctx.AddFd(d.listenFd, mainloop.Read|mainloop.Error)
	}
	if d.session != nil {
		ctx.AddFd(d.session.fd, mainloop.Read|mainloop.Error)
	}
}

// Process dispatches one readiness cycle: acceptance first, then session
// error handling, then at most one read forwarded to the processor. A
// non-nil return wraps ErrFatal and means the endpoint is unusable.
func (d *Daemon) Process(ctx *mainloop.Context) error {
	if d.listenFd == -1 {
		return nil
	}

	// The listen endpoint is expected to stay healthy for the daemon's
	// whole lifetime; an error condition on it is unrecoverable.
	if ctx.ErrorIsSet(d.listenFd) {
		return fmt.Errorf("%w: error condition on listen socket %s", ErrFatal, d.paths.Socket)
	}

	if ctx.ReadIsSet(d.listenFd) {
		d.acceptSession()
	}

	if d.session == nil {
		return nil
	}

	if ctx.ErrorIsSet(d.session.fd) {
		d.logger.Info("session socket error condition",
			logging.String(logging.FieldSessionID, d.session.id))
		d.clearSession()
		return nil
	}

	if ctx.ReadIsSet(d.session.fd) {
		return d.readSession()
	}
	return nil
}

func (d *Daemon) readSession() error {
	buf := make([]byte, MaxLineLength)
	n, err := unix.Read(d.session.fd, buf)
	if err != nil {
		return fmt.Errorf("%w: read session socket: %v", ErrFatal, err)
	}

	if n == 0 {
		d.logger.Info("session socket closed by peer",
			logging.String(logging.FieldSessionID, d.session.id))
		d.clearSession()
		return nil
	}

	if err := d.processor.Submit(buf[:n]); err != nil {
		logging.WarnWithContext(d.logger, "failed to input command line", "command_rejected",
			logging.Error(err),
			logging.String(logging.FieldSessionID, d.session.id),
			logging.Int("length", n),
			logging.String(logging.FieldImpact, "command dropped, session stays active"))
	}
	return nil
}
