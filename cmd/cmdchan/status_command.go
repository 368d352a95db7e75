package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show command channel status",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := ctx.channelPaths()
			if err != nil {
				return err
			}

			running, probeErr := probeLock(paths.Lock)
			socketPresent := false
			if _, statErr := os.Stat(paths.Socket); statErr == nil {
				socketPresent = true
			}

			pid := readPID(ctx)

			rows := [][]string{
				{"Interface", ctx.interfaceName()},
				{"Socket", paths.Socket},
				{"Socket present", yesNo(socketPresent)},
				{"Lock", paths.Lock},
				{"Daemon running", yesNo(running)},
			}
			if pid != "" {
				rows = append(rows, []string{"PID", pid})
			}
			if probeErr != nil {
				rows = append(rows, []string{"Lock probe error", probeErr.Error()})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
			return nil
		},
	}
}

// probeLock reports whether another process holds the channel's exclusivity
// lock. A successful trial acquisition is released immediately.
func probeLock(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	probe := flock.New(path)
	acquired, err := probe.TryLock()
	if err != nil {
		return false, err
	}
	if acquired {
		_ = probe.Unlock()
		return false, nil
	}
	return true, nil
}

func readPID(ctx *commandContext) string {
	cfg, err := ctx.ensureConfig()
	if err != nil || cfg == nil {
		return ""
	}
	data, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "cmdchand.pid"))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
