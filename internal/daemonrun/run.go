// Package daemonrun assembles and runs the cmdchand process: logger, pid
// file, history store, command processor chain, channel endpoint, interface
// watcher, and the readiness loop that drives them.
package daemonrun

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"cmdchan/internal/clid"
	"cmdchan/internal/config"
	"cmdchan/internal/history"
	"cmdchan/internal/logging"
	"cmdchan/internal/mainloop"
	"cmdchan/internal/netwatch"
	"cmdchan/internal/processor"
)

// Options configures daemon process runtime behavior.
type Options struct {
	// LogLevel overrides the configured log level when non-empty.
	LogLevel string
	// Processor, when non-nil, receives every command line in addition to
	// the built-in logging processor. Embedding applications hook their
	// command interpreter in here.
	Processor clid.Processor
}

// Run starts the cmdchand runtime loop and blocks until the context is
// cancelled, a termination signal arrives, or the channel fails fatally.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	level := cfg.Logging.Level
	if strings.TrimSpace(opts.LogLevel) != "" {
		level = opts.LogLevel
	}
	logPath := filepath.Join(cfg.Paths.LogDir, "cmdchand.log")
	logger, err := logging.New(logging.Options{
		Level:            level,
		Format:           cfg.Logging.Format,
		OutputPaths:      []string{"stdout", logPath},
		ErrorOutputPaths: []string{"stderr", logPath},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	pidPath := filepath.Join(cfg.Paths.LogDir, "cmdchand.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	var store *history.Store
	if cfg.History.Enabled {
		store, err = history.Open(cfg.HistoryPath())
		if err != nil {
			logger.Warn("failed to open history store",
				logging.Error(err),
				logging.String(logging.FieldEventType, "history_open_failed"),
				logging.String(logging.FieldErrorHint, "check history path permissions"),
				logging.String(logging.FieldImpact, "command history unavailable"),
			)
			store = nil
		} else {
			defer store.Close()
			if removed, pruneErr := store.Prune(signalCtx, cfg.History.RetentionDays); pruneErr != nil {
				logger.Warn("history pruning failed", logging.Error(pruneErr))
			} else if removed > 0 {
				logger.Info("pruned old history entries", logging.Int64("removed", removed))
			}
		}
	}

	// The session id source closes over the channel variable, which is
	// assigned after the processor chain that consults it.
	var channel *clid.Daemon
	sessionID := func() string {
		if channel == nil {
			return ""
		}
		return channel.ActiveSessionID()
	}

	proc := processor.Multi(processor.NewLogging(logger), opts.Processor)
	proc = processor.WithHistory(proc, store, sessionID, logger)

	channel, err = clid.New(proc, logger, cfg.Paths.RuntimeDir)
	if err != nil {
		return err
	}
	defer channel.Close()

	ifname := cfg.Daemon.Interface
	if strings.TrimSpace(ifname) == "" {
		ifname = clid.DefaultInterfaceName
	}
	if err := channel.Init(ifname); err != nil {
		logger.Error("failed to initialize command channel",
			logging.Error(err),
			logging.String(logging.FieldInterface, ifname),
			logging.String(logging.FieldErrorHint, "check for another running instance and runtime directory permissions"),
		)
		return err
	}

	watcher := netwatch.New(logger, ifname, nil)
	if err := watcher.Start(signalCtx); err != nil {
		return err
	}
	defer watcher.Stop()

	loop, err := mainloop.New(logger, channel)
	if err != nil {
		return err
	}
	defer loop.Close()

	logger.Info("cmdchand running",
		logging.String(logging.FieldEventType, "daemon_started"),
		logging.String(logging.FieldInterface, ifname),
		logging.String("socket", channel.SocketPath()),
		logging.String("pid_file", pidPath),
	)

	runErr := loop.Run(signalCtx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logger.Error("command channel failed",
			logging.Error(runErr),
			logging.String(logging.FieldEventType, "daemon_failed"),
		)
		return runErr
	}

	logger.Info("cmdchand shutting down")
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
