package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fornellas/slogxt/log"

	"github.com/fornellas/gxform/gcode"
)

var CompactCmd = &cobra.Command{
	Use:   "compact [path]",
	Short: "Read g-code from given path and compact it by stripping spaces and comments.",
	Args:  cobra.ExactArgs(1),
	Run: GetRunFn(func(cmd *cobra.Command, args []string) (err error) {
		path := args[0]

		ctx, logger := log.MustWithAttrs(
			cmd.Context(),
			"path", path,
			"output", outputValue,
		)
		cmd.SetContext(ctx)
		logger.Info("Running")

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { err = errors.Join(err, f.Close()) }()

		w, err := outputValue.WriterCloser(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer func() { err = errors.Join(err, w.Close()) }()

		parser := gcode.NewParser(f)
		for {
			eof, line, _, err := parser.Next()
			if err != nil {
				return err
			}
			if line != nil && line.Block != nil {
				str := line.Block.String()
				n, err := fmt.Fprintln(w, str)
				if err != nil {
					return err
				}
				if n != len(str)+1 {
					return fmt.Errorf("short write")
				}
			}
			if eof {
				return nil
			}
		}
	}),
}

func init() {
	AddOutputFlags(CompactCmd, "Path to output to, default is to stdout")
	RootCmd.AddCommand(CompactCmd)
}
