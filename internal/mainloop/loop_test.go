package mainloop_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"cmdchan/internal/logging"
	"cmdchan/internal/mainloop"
)

func TestContextAddFd(t *testing.T) {
	var ctx mainloop.Context
	ctx.Reset()

	if ctx.MaxFd != -1 {
		t.Fatalf("expected MaxFd -1 after reset, got %d", ctx.MaxFd)
	}

	ctx.AddFd(4, mainloop.Read|mainloop.Error)
	ctx.AddFd(9, mainloop.Write)
	ctx.AddFd(-1, mainloop.Read)

	if !ctx.ReadIsSet(4) || !ctx.ErrorIsSet(4) {
		t.Fatal("fd 4 missing from read/error sets")
	}
	if ctx.WriteIsSet(4) {
		t.Fatal("fd 4 unexpectedly in write set")
	}
	if !ctx.WriteIsSet(9) {
		t.Fatal("fd 9 missing from write set")
	}
	if ctx.MaxFd != 9 {
		t.Fatalf("expected MaxFd 9, got %d", ctx.MaxFd)
	}
	if ctx.ReadIsSet(-1) {
		t.Fatal("negative fd must never report ready")
	}
}

var errStop = errors.New("stop")

type pipeSource struct {
	fd  int
	got []byte
}

func (s *pipeSource) Update(c *mainloop.Context) {
	c.AddFd(s.fd, mainloop.Read|mainloop.Error)
}

func (s *pipeSource) Process(c *mainloop.Context) error {
	if !c.ReadIsSet(s.fd) {
		return nil
	}
	buf := make([]byte, 16)
	n, err := unix.Read(s.fd, buf)
	if err != nil {
		return err
	}
	s.got = append(s.got, buf[:n]...)
	return errStop
}

func TestLoopDispatchesReadiness(t *testing.T) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_CLOEXEC); err != nil {
		t.Fatalf("pipe2: %v", err)
	}
	t.Cleanup(func() {
		unix.Close(fds[0])
		unix.Close(fds[1])
	})

	source := &pipeSource{fd: fds[0]}
	loop, err := mainloop.New(logging.NewNop(), source)
	if err != nil {
		t.Fatalf("mainloop.New: %v", err)
	}
	t.Cleanup(loop.Close)

	if _, err := unix.Write(fds[1], []byte("ping")); err != nil {
		t.Fatalf("write pipe: %v", err)
	}

	err = loop.Run(context.Background())
	if !errors.Is(err, errStop) {
		t.Fatalf("expected errStop from Run, got %v", err)
	}
	if string(source.got) != "ping" {
		t.Fatalf("expected source to read %q, got %q", "ping", source.got)
	}
}

func TestLoopStopsOnCancellation(t *testing.T) {
	loop, err := mainloop.New(logging.NewNop())
	if err != nil {
		t.Fatalf("mainloop.New: %v", err)
	}
	t.Cleanup(loop.Close)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- loop.Run(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop after cancellation")
	}
}
