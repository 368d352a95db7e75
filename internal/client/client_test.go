package client_test

import (
	"bufio"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cmdchan/internal/client"
)

func startEchoListener(t *testing.T) (string, <-chan []string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.sock")
	listener, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("net.Listen: %v", err)
	}
	t.Cleanup(func() { listener.Close() })

	lines := make(chan []string, 1)
	go func() {
		conn, acceptErr := listener.Accept()
		if acceptErr != nil {
			lines <- nil
			return
		}
		defer conn.Close()
		scanner := bufio.NewScanner(conn)
		var got []string
		for scanner.Scan() {
			got = append(got, scanner.Text())
		}
		lines <- got
	}()
	return path, lines
}

func TestDialFailsWithoutDaemon(t *testing.T) {
	if _, err := client.Dial(filepath.Join(t.TempDir(), "missing.sock")); err == nil {
		t.Fatal("expected dial failure for missing socket")
	}
}

func TestSendAppendsNewline(t *testing.T) {
	path, lines := startEchoListener(t)

	c, err := client.Dial(path)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}

	if err := c.SendString("state"); err != nil {
		t.Fatalf("SendString: %v", err)
	}
	if err := c.Send([]byte("ifconfig up\n")); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	select {
	case got := <-lines:
		if len(got) != 2 || got[0] != "state" || got[1] != "ifconfig up" {
			t.Fatalf("unexpected lines %v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for listener")
	}
}

func TestStreamForwardsEveryLine(t *testing.T) {
	path, lines := startEchoListener(t)

	c, err := client.Dial(path)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}

	sent, err := c.Stream(strings.NewReader("state\ndataset active\n"))
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if sent != 2 {
		t.Fatalf("expected 2 lines sent, got %d", sent)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	select {
	case got := <-lines:
		if len(got) != 2 || got[1] != "dataset active" {
			t.Fatalf("unexpected lines %v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for listener")
	}
}
