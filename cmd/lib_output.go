package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}

type OutputValue struct {
	path string
}

func NewOutputValue() *OutputValue {
	return &OutputValue{}
}

func (o *OutputValue) String() string {
	return o.path
}

func (o *OutputValue) Set(value string) error {
	o.path = value
	return nil
}

func (o *OutputValue) Reset() {
	o.path = ""
}

func (o *OutputValue) Type() string {
	return "[path]"
}

func (o *OutputValue) Path() string {
	return o.path
}

// WriterCloser opens the output path for writing, or returns w when no path is set or it is "-".
func (o *OutputValue) WriterCloser(w io.Writer) (io.WriteCloser, error) {
	if len(o.path) > 0 && o.path != "-" {
		return os.OpenFile(o.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(0644))
	}
	return nopWriteCloser{Writer: w}, nil
}

var outputValue = NewOutputValue()

func AddOutputFlags(cmd *cobra.Command, usage string) {
	cmd.PersistentFlags().VarP(outputValue, "output", "o", usage)
}

func init() {
	resetFlagsFns = append(resetFlagsFns, func() {
		outputValue.Reset()
	})
}
