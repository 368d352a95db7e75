// Package client connects to a command channel daemon's session socket.
//
// The wire format is raw bytes: whatever the client writes is handed to the
// daemon's command processor verbatim. The helpers here only normalize line
// termination so interactive and scripted callers behave the same way.
package client

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"time"
)

const dialTimeout = 2 * time.Second

// Client holds one session connection to the daemon.
type Client struct {
	conn net.Conn
}

// Dial connects to the session socket at the given path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", path, err)
	}
	return &Client{conn: conn}, nil
}

// Close closes the session connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// Send writes one command line, appending a trailing newline when absent.
func (c *Client) Send(line []byte) error {
	if len(line) == 0 || line[len(line)-1] != '\n' {
		line = append(append([]byte(nil), line...), '\n')
	}
	if _, err := c.conn.Write(line); err != nil {
		return fmt.Errorf("send command: %w", err)
	}
	return nil
}

// SendString writes one command line given as a string.
func (c *Client) SendString(line string) error {
	return c.Send([]byte(line))
}

// Stream forwards lines from r until EOF, one write per line. It reports
// how many lines were sent.
func (c *Client) Stream(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	sent := 0
	for scanner.Scan() {
		if err := c.Send(scanner.Bytes()); err != nil {
			return sent, err
		}
		sent++
	}
	if err := scanner.Err(); err != nil {
		return sent, fmt.Errorf("read input: %w", err)
	}
	return sent, nil
}
