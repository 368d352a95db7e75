package processor_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"cmdchan/internal/history"
	"cmdchan/internal/logging"
	"cmdchan/internal/processor"
)

func TestFuncAdaptsFunction(t *testing.T) {
	var got []byte
	proc := processor.Func(func(line []byte) error {
		got = append([]byte(nil), line...)
		return nil
	})

	if err := proc.Submit([]byte("state\n")); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if string(got) != "state\n" {
		t.Fatalf("unexpected line %q", got)
	}
}

func TestMultiFansOutAndJoinsErrors(t *testing.T) {
	var first, second int
	failure := errors.New("interpreter rejected line")

	proc := processor.Multi(
		processor.Func(func([]byte) error { first++; return nil }),
		nil,
		processor.Func(func([]byte) error { second++; return failure }),
	)

	err := proc.Submit([]byte("ifconfig up\n"))
	if !errors.Is(err, failure) {
		t.Fatalf("expected joined failure, got %v", err)
	}
	if first != 1 || second != 1 {
		t.Fatalf("expected both processors invoked once, got %d and %d", first, second)
	}
}

func TestWithHistoryRecordsBeforeForwarding(t *testing.T) {
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	var forwarded int
	proc := processor.WithHistory(
		processor.Func(func([]byte) error { forwarded++; return nil }),
		store,
		func() string { return "session-7" },
		logging.NewNop(),
	)

	if err := proc.Submit([]byte("dataset active\n")); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if forwarded != 1 {
		t.Fatalf("expected line forwarded once, got %d", forwarded)
	}

	entries, err := store.Recent(context.Background(), 1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 1 || string(entries[0].Line) != "dataset active\n" {
		t.Fatalf("unexpected history entries %v", entries)
	}
	if entries[0].SessionID != "session-7" {
		t.Fatalf("unexpected session id %q", entries[0].SessionID)
	}
}

func TestWithHistoryWithoutStoreReturnsNext(t *testing.T) {
	var forwarded int
	next := processor.Func(func([]byte) error { forwarded++; return nil })

	proc := processor.WithHistory(next, nil, nil, logging.NewNop())
	if err := proc.Submit([]byte("state\n")); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if forwarded != 1 {
		t.Fatalf("expected passthrough to next, got %d calls", forwarded)
	}
}
