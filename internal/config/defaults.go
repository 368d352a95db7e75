package config

import (
	"os"
	"strings"
)

const (
	defaultLogDir               = "~/.local/share/cmdchan/logs"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultHistoryEnabled       = true
	defaultHistoryRetentionDays = 30
)

// defaultRuntimeDir prefers /run, which is only writable by root; an
// unprivileged process falls back to its XDG runtime directory when the
// session provides one.
func defaultRuntimeDir() string {
	if os.Geteuid() == 0 {
		return "/run"
	}
	if dir := strings.TrimSpace(os.Getenv("XDG_RUNTIME_DIR")); dir != "" {
		return dir
	}
	return "/run"
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			RuntimeDir: defaultRuntimeDir(),
			LogDir:     defaultLogDir,
		},
		History: History{
			Enabled:       defaultHistoryEnabled,
			RetentionDays: defaultHistoryRetentionDays,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
