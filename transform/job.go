package transform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fornellas/slogxt/log"

	"github.com/fornellas/gxform/gcode"
)

const (
	DefaultStartMarker  = "START_TRANSFORM"
	DefaultStopMarker   = "STOP_TRANSFORM"
	DefaultOutputPrefix = "Transformed_"
	// StdioPath makes the job write to Job.Stdout instead of a file.
	StdioPath = "-"
)

// Config holds everything needed to run a Job.
type Config struct {
	InputPath string
	// OutputPath defaults to the input file name prefixed by DefaultOutputPrefix, at the same
	// directory.
	OutputPath  string
	StartMarker string
	StopMarker  string
	Shift       Shift
}

// DefaultConfig returns a Config with default markers and no shift.
func DefaultConfig() Config {
	return Config{
		StartMarker: DefaultStartMarker,
		StopMarker:  DefaultStopMarker,
	}
}

// Validate checks that all required fields are set.
func (c Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("%w: input path is required", ErrConfiguration)
	}
	if c.StartMarker == "" {
		return fmt.Errorf("%w: start marker is required", ErrConfiguration)
	}
	if c.StopMarker == "" {
		return fmt.Errorf("%w: stop marker is required", ErrConfiguration)
	}
	if c.InputPath != StdioPath && c.Output() != StdioPath {
		inputAbs, err := filepath.Abs(c.InputPath)
		if err != nil {
			return err
		}
		outputAbs, err := filepath.Abs(c.Output())
		if err != nil {
			return err
		}
		if inputAbs == outputAbs {
			return fmt.Errorf("%w: output path must differ from input path: %s", ErrConfiguration, c.InputPath)
		}
	}
	return c.Shift.Matrix().Validate()
}

// Output returns the output path.
func (c Config) Output() string {
	if c.OutputPath != "" {
		return c.OutputPath
	}
	if c.InputPath == StdioPath {
		return StdioPath
	}
	dir, file := filepath.Split(c.InputPath)
	return filepath.Join(dir, DefaultOutputPrefix+file)
}

// Job reads a program, transforms the region between markers and writes the result.
type Job struct {
	Config Config
	// Stdin and Stdout are used when input or output are StdioPath.
	Stdin  io.Reader
	Stdout io.Writer
}

func NewJob(config Config) *Job {
	return &Job{
		Config: config,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
	}
}

func (j *Job) read(ctx context.Context) (program gcode.Program, err error) {
	logger := log.MustLogger(ctx)
	logger.Debug("Reading")

	var r io.Reader
	if j.Config.InputPath == StdioPath {
		r = j.Stdin
	} else {
		var f *os.File
		f, err = os.Open(j.Config.InputPath)
		if err != nil {
			return nil, err
		}
		defer func() { err = errors.Join(err, f.Close()) }()
		r = f
	}

	program, err = gcode.ReadProgram(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedInput, j.Config.InputPath, err)
	}
	logger.Debug("Parsed", "lines", len(program))
	return program, nil
}

func (j *Job) write(ctx context.Context, program gcode.Program) (err error) {
	logger := log.MustLogger(ctx)
	logger.Debug("Writing")

	var w io.Writer
	output := j.Config.Output()
	if output == StdioPath {
		w = j.Stdout
	} else {
		var f *os.File
		f, err = os.OpenFile(output, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(0644))
		if err != nil {
			return err
		}
		defer func() { err = errors.Join(err, f.Close()) }()
		w = f
	}

	_, err = program.WriteTo(w)
	return err
}

// Run executes the job. Nothing is written unless both markers are found and the whole program
// is transformed successfully.
func (j *Job) Run(ctx context.Context) (*Report, error) {
	if err := j.Config.Validate(); err != nil {
		return nil, err
	}

	ctx, logger := log.MustWithAttrs(
		ctx,
		"input", j.Config.InputPath,
		"output", j.Config.Output(),
	)

	program, err := j.read(ctx)
	if err != nil {
		return nil, err
	}

	region, err := FindRegion(program, j.Config.StartMarker, j.Config.StopMarker)
	if err != nil {
		return nil, err
	}
	logger.Info("Found region",
		"start-line", program[region.Start].Number,
		"stop-line", program[region.Stop].Number,
	)
	if region.Empty() {
		logger.Warn("Start marker comes after stop marker, no lines will be transformed",
			"start-marker", region.StartMarker,
			"stop-marker", region.StopMarker,
		)
	}

	matrix := j.Config.Shift.Matrix()
	transformed, err := Apply(program, matrix, region.Start, region.Stop)
	if err != nil {
		return nil, err
	}
	Annotate(transformed, region, j.Config.Shift)

	if err := j.write(ctx, transformed); err != nil {
		return nil, err
	}

	report := &Report{
		InputPath:  j.Config.InputPath,
		OutputPath: j.Config.Output(),
		Shift:      j.Config.Shift,
		Matrix:     matrix,
		Region:     region,
		Changed:    countChanged(program, transformed),
	}
	logger.Info("Done", "changed-lines", report.Changed)
	return report, nil
}

func countChanged(program, transformed gcode.Program) int {
	var changed int
	for i, line := range program {
		if line.String() != transformed[i].String() {
			changed++
		}
	}
	return changed
}
