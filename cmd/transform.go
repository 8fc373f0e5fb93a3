package main

import (
	"github.com/spf13/cobra"

	"github.com/fornellas/slogxt/log"

	"github.com/fornellas/gxform/transform"
)

var startMarker string
var defaultStartMarker = transform.DefaultStartMarker

var stopMarker string
var defaultStopMarker = transform.DefaultStopMarker

var transformDegrees float64
var defaultTransformDegrees float64 = 0

var transformXShift float64
var defaultTransformXShift float64 = 0

var transformYShift float64
var defaultTransformYShift float64 = 0

var transformXCenter float64
var defaultTransformXCenter float64 = 0

var transformYCenter float64
var defaultTransformYCenter float64 = 0

func AddMarkerFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&startMarker, "start-marker", "", defaultStartMarker, "Comment marking the first line to transform")
	cmd.PersistentFlags().StringVarP(&stopMarker, "stop-marker", "", defaultStopMarker, "Comment marking the last line to transform")
}

var TransformCmd = &cobra.Command{
	Use:   "transform [path]",
	Short: "Rotate and translate X/Y coordinates between start and stop marker comments.",
	Long: "Rotate and translate X/Y coordinates of motion commands between the lines with start " +
		"and stop marker comments, inclusive. Rotation happens first, counterclockwise about the " +
		"center, then the translation. Use \"-\" as path to read from stdin.",
	Args: cobra.ExactArgs(1),
	Run: GetRunFn(func(cmd *cobra.Command, args []string) error {
		config := transform.Config{
			InputPath:   args[0],
			OutputPath:  outputValue.Path(),
			StartMarker: startMarker,
			StopMarker:  stopMarker,
			Shift: transform.Shift{
				Degrees: transformDegrees,
				X:       transformXShift,
				Y:       transformYShift,
				XCenter: transformXCenter,
				YCenter: transformYCenter,
			},
		}

		ctx, logger := log.MustWithAttrs(
			cmd.Context(),
			"start-marker", config.StartMarker,
			"stop-marker", config.StopMarker,
			"degrees", config.Shift.Degrees,
			"x-shift", config.Shift.X,
			"y-shift", config.Shift.Y,
			"x-center", config.Shift.XCenter,
			"y-center", config.Shift.YCenter,
		)
		cmd.SetContext(ctx)
		logger.Info("Running")

		job := transform.NewJob(config)
		job.Stdin = cmd.InOrStdin()
		job.Stdout = cmd.OutOrStdout()
		report, err := job.Run(ctx)
		if err != nil {
			return err
		}

		reportWriter := cmd.OutOrStdout()
		if config.Output() == transform.StdioPath {
			reportWriter = cmd.ErrOrStderr()
		}
		_, err = report.WriteTo(reportWriter)
		return err
	}),
}

func init() {
	AddMarkerFlags(TransformCmd)
	TransformCmd.PersistentFlags().Float64VarP(&transformDegrees, "degrees", "d", defaultTransformDegrees, "Degrees to rotate counterclockwise")
	TransformCmd.PersistentFlags().Float64VarP(&transformXShift, "x-shift", "x", defaultTransformXShift, "Distance to translate X")
	TransformCmd.PersistentFlags().Float64VarP(&transformYShift, "y-shift", "y", defaultTransformYShift, "Distance to translate Y")
	TransformCmd.PersistentFlags().Float64VarP(&transformXCenter, "x-center", "", defaultTransformXCenter, "X coordinate for center of rotation")
	TransformCmd.PersistentFlags().Float64VarP(&transformYCenter, "y-center", "", defaultTransformYCenter, "Y coordinate for center of rotation")

	AddOutputFlags(TransformCmd, "Path to output to, default is the input file name prefixed with "+
		transform.DefaultOutputPrefix+", \"-\" for stdout")
	RootCmd.AddCommand(TransformCmd)

	resetFlagsFns = append(resetFlagsFns, func() {
		startMarker = defaultStartMarker
		stopMarker = defaultStopMarker
		transformDegrees = defaultTransformDegrees
		transformXShift = defaultTransformXShift
		transformYShift = defaultTransformYShift
		transformXCenter = defaultTransformXCenter
		transformYCenter = defaultTransformYCenter
	})
}
