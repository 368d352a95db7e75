package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"cmdchan/internal/client"
)

func newSendCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "send [command...]",
		Short: "Send a command line to the daemon",
		Long: "Send forwards one command line to the daemon's active session. " +
			"With no arguments it streams lines from standard input until EOF.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(cl *client.Client) error {
				if len(args) > 0 {
					return cl.SendString(strings.Join(args, " "))
				}
				if isatty.IsTerminal(os.Stdin.Fd()) {
					fmt.Fprintln(cmd.ErrOrStderr(), "reading commands from stdin; ctrl-d to finish")
				}
				sent, err := cl.Stream(cmd.InOrStdin())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "sent %d line(s)\n", sent)
				return nil
			})
		},
	}
}
