package mainloop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sys/unix"

	"cmdchan/internal/logging"
)

// Source is a participant in the readiness loop. Update registers the
// descriptors of interest for the next cycle; Process is invoked with the
// populated readiness result. A non-nil error from Process stops the loop
// and is returned from Run.
type Source interface {
	Update(*Context)
	Process(*Context) error
}

// Loop multiplexes any number of sources over a single select(2) call.
type Loop struct {
	logger  *slog.Logger
	sources []Source

	wakeRead  int
	wakeWrite int

	closeOnce sync.Once
}

// New creates a loop over the given sources. The loop owns a self-pipe used
// to interrupt select when the run context is canceled; Close releases it.
func New(logger *slog.Logger, sources ...Source) (*Loop, error) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_CLOEXEC|unix.O_NONBLOCK); err != nil {
		return nil, fmt.Errorf("create wake pipe: %w", err)
	}
	return &Loop{
		logger:    logging.NewComponentLogger(logger, "mainloop"),
		sources:   sources,
		wakeRead:  fds[0],
		wakeWrite: fds[1],
	}, nil
}

// Run blocks dispatching readiness cycles until the context is canceled or
// a source reports a fatal error.
func (l *Loop) Run(ctx context.Context) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			var one [1]byte
			_, _ = unix.Write(l.wakeWrite, one[:])
		case <-stop:
		}
	}()

	l.logger.Debug("mainloop running", logging.Int("sources", len(l.sources)))

	var snapshot Context
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		snapshot.Reset()
		snapshot.AddFd(l.wakeRead, Read)
		for _, source := range l.sources {
			source.Update(&snapshot)
		}

		_, err := unix.Select(snapshot.MaxFd+1, &snapshot.ReadFds, &snapshot.WriteFds, &snapshot.ErrorFds, nil)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return fmt.Errorf("select: %w", err)
		}

		if snapshot.ReadIsSet(l.wakeRead) {
			l.drainWakePipe()
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		for _, source := range l.sources {
			if err := source.Process(&snapshot); err != nil {
				return err
			}
		}
	}
}

func (l *Loop) drainWakePipe() {
	var buf [16]byte
	for {
		n, err := unix.Read(l.wakeRead, buf[:])
		if n <= 0 || err != nil {
			return
		}
	}
}

// Close releases the wake pipe. The loop must not be running.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		_ = unix.Close(l.wakeRead)
		_ = unix.Close(l.wakeWrite)
	})
}
