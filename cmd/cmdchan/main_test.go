package main

import (
	"bufio"
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cmdchan/internal/history"
)

func TestConfigInitAndShow(t *testing.T) {
	env := setupCLITestEnv(t)

	target := filepath.Join(env.baseDir, "generated", "config.toml")
	out, _, err := runCLI(t, []string{"config", "init", target}, "", "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "wrote sample config")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	// A second init must not clobber the existing file.
	if _, _, err := runCLI(t, []string{"config", "init", target}, "", ""); err == nil {
		t.Fatal("expected error when config file already exists")
	}

	out, _, err = runCLI(t, []string{"config", "show"}, "", env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, env.cfg.Paths.RuntimeDir)
	requireContains(t, out, "interface = 'net0'")
}

func TestSendCommandForwardsLine(t *testing.T) {
	env := setupCLITestEnv(t)

	socketPath := filepath.Join(env.baseDir, "session.sock")
	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		t.Fatalf("net.Listen: %v", err)
	}
	t.Cleanup(func() { listener.Close() })

	received := make(chan string, 1)
	go func() {
		conn, acceptErr := listener.Accept()
		if acceptErr != nil {
			received <- ""
			return
		}
		defer conn.Close()
		scanner := bufio.NewScanner(conn)
		if scanner.Scan() {
			received <- scanner.Text()
			return
		}
		received <- ""
	}()

	if _, _, err := runCLI(t, []string{"send", "dataset", "active"}, socketPath, env.configPath); err != nil {
		t.Fatalf("send: %v", err)
	}

	select {
	case line := <-received:
		if line != "dataset active" {
			t.Fatalf("unexpected line %q", line)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for forwarded line")
	}
}

func TestSendFailsWithoutDaemon(t *testing.T) {
	env := setupCLITestEnv(t)

	missing := filepath.Join(env.baseDir, "missing.sock")
	_, _, err := runCLI(t, []string{"send", "state"}, missing, env.configPath)
	if err == nil {
		t.Fatal("expected dial failure")
	}
	requireContains(t, err.Error(), "connect to daemon")
}

func TestStatusReportsStoppedDaemon(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"status"}, "", env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Daemon running")
	requireContains(t, out, "no")
}

func TestHistoryListsRecordedEntries(t *testing.T) {
	env := setupCLITestEnv(t)

	store, err := history.Open(env.cfg.History.Path)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	if err := store.Record(context.Background(), "session-1", []byte("ifconfig up\n")); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	out, _, err := runCLI(t, []string{"history"}, "", env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "ifconfig up")

	out, _, err = runCLI(t, []string{"history", "clear"}, "", env.configPath)
	if err != nil {
		t.Fatalf("history clear: %v", err)
	}
	requireContains(t, out, "removed 1 entries")

	out, _, err = runCLI(t, []string{"history"}, "", env.configPath)
	if err != nil {
		t.Fatalf("history after clear: %v", err)
	}
	requireContains(t, out, "history is empty")
}
