package daemonrun_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cmdchan/internal/client"
	"cmdchan/internal/clid"
	"cmdchan/internal/daemonrun"
	"cmdchan/internal/history"
	"cmdchan/internal/testsupport"
)

func waitFor(t *testing.T, duration time.Duration, fn func() bool) {
	t.Helper()
	deadline := time.Now().Add(duration)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", duration)
}

func TestRunServesAndShutsDownCleanly(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- daemonrun.Run(ctx, cfg, daemonrun.Options{LogLevel: "error"})
	}()

	paths, err := clid.ResolvePaths(cfg.Paths.RuntimeDir, cfg.Daemon.Interface)
	if err != nil {
		t.Fatalf("ResolvePaths: %v", err)
	}

	waitFor(t, 5*time.Second, func() bool {
		_, statErr := os.Stat(paths.Socket)
		return statErr == nil
	})

	cl, err := client.Dial(paths.Socket)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	if err := cl.SendString("dataset active"); err != nil {
		t.Fatalf("SendString: %v", err)
	}

	// The line travels through the readiness loop into the history store.
	waitFor(t, 5*time.Second, func() bool {
		store, openErr := history.Open(cfg.HistoryPath())
		if openErr != nil {
			return false
		}
		defer store.Close()
		entries, recentErr := store.Recent(context.Background(), 1)
		return recentErr == nil && len(entries) == 1
	})

	if err := cl.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	pidPath := filepath.Join(cfg.Paths.LogDir, "cmdchand.pid")
	if _, err := os.Stat(pidPath); err != nil {
		t.Fatalf("expected pid file at %s: %v", pidPath, err)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not shut down")
	}

	if _, err := os.Stat(pidPath); !os.IsNotExist(err) {
		t.Fatalf("expected pid file removed, got %v", err)
	}
}

func TestRunRequiresConfig(t *testing.T) {
	if err := daemonrun.Run(context.Background(), nil, daemonrun.Options{}); err == nil {
		t.Fatal("expected error for nil config")
	}
}
