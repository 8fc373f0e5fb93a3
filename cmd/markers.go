package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fornellas/slogxt/log"

	"github.com/fornellas/gxform/gcode"
	"github.com/fornellas/gxform/transform"
)

var MarkersCmd = &cobra.Command{
	Use:   "markers [path]",
	Short: "Show which lines the start and stop markers delimit, without transforming.",
	Args:  cobra.ExactArgs(1),
	Run: GetRunFn(func(cmd *cobra.Command, args []string) (err error) {
		path := args[0]

		ctx, logger := log.MustWithAttrs(
			cmd.Context(),
			"path", path,
			"start-marker", startMarker,
			"stop-marker", stopMarker,
		)
		cmd.SetContext(ctx)
		logger.Info("Running")

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { err = errors.Join(err, f.Close()) }()

		program, err := gcode.ReadProgram(f)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", transform.ErrMalformedInput, path, err)
		}

		region, err := transform.FindRegion(program, startMarker, stopMarker)
		if err != nil {
			return err
		}

		var motions, transformable int
		for i, line := range program {
			if !region.Contains(i) || !line.IsMotion() {
				continue
			}
			motions++
			if line.HasArgument('X', 'Y', 'Z') {
				transformable++
			}
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s: line %d\n", region.StartMarker, program[region.Start].Number)
		fmt.Fprintf(w, "%s: line %d\n", region.StopMarker, program[region.Stop].Number)
		if region.Empty() {
			fmt.Fprintln(w, "Start marker comes after stop marker: no lines to transform")
			return nil
		}
		fmt.Fprintf(w, "Motion lines: %d\n", motions)
		fmt.Fprintf(w, "Lines to transform: %d\n", transformable)
		return nil
	}),
}

func init() {
	AddMarkerFlags(MarkersCmd)
	RootCmd.AddCommand(MarkersCmd)
}
