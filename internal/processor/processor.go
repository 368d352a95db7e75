package processor

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"cmdchan/internal/clid"
	"cmdchan/internal/history"
	"cmdchan/internal/logging"
)

// Func adapts a plain function to the clid.Processor interface.
type Func func(line []byte) error

// Submit implements clid.Processor.
func (f Func) Submit(line []byte) error { return f(line) }

// Multi fans each command line out to every processor in order. All
// processors see every line; their errors are joined.
func Multi(procs ...clid.Processor) clid.Processor {
	return Func(func(line []byte) error {
		var errs []error
		for _, proc := range procs {
			if proc == nil {
				continue
			}
			if err := proc.Submit(line); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// NewLogging returns a processor that logs every received command line.
func NewLogging(logger *slog.Logger) clid.Processor {
	log := logging.NewComponentLogger(logger, "processor")
	return Func(func(line []byte) error {
		log.Info("command line received",
			logging.String("line", strings.TrimRight(string(line), "\r\n")),
			logging.Int("length", len(line)))
		return nil
	})
}

// WithHistory decorates next so every line is recorded to the history store
// before forwarding. Recording is best-effort: a storage failure is logged
// and the line still reaches next. sessionID supplies the identity of the
// active session at forward time and may return the empty string.
func WithHistory(next clid.Processor, store *history.Store, sessionID func() string, logger *slog.Logger) clid.Processor {
	if store == nil {
		return next
	}
	log := logging.NewComponentLogger(logger, "history")
	return Func(func(line []byte) error {
		id := ""
		if sessionID != nil {
			id = sessionID()
		}
		if err := store.Record(context.Background(), id, line); err != nil {
			logging.WarnWithContext(log, "failed to record command line", "history_record_failed",
				logging.Error(err),
				logging.String(logging.FieldSessionID, id),
				logging.String(logging.FieldImpact, "command executes but is missing from history"))
		}
		if next == nil {
			return nil
		}
		return next.Submit(line)
	})
}
