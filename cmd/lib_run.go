package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/fornellas/slogxt/log"
)

var exitFn = os.Exit

// Exit terminates the program with given code.
func Exit(code int) {
	exitFn(code)
}

// ExitError logs err and terminates the program with code 1.
func ExitError(ctx context.Context, err error) {
	logger := log.MustLogger(ctx)
	logger.Error("Failed", "err", err)
	Exit(1)
}

// GetRunFn adapts fn to cobra.Command.Run, exiting with an error when fn fails.
func GetRunFn(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		if err := fn(cmd, args); err != nil {
			ExitError(cmd.Context(), err)
		}
	}
}
