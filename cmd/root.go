package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	slogxtCobra "github.com/fornellas/slogxt/cobra"
	"github.com/fornellas/slogxt/log"
)

var logDebugPath string
var logDebugFile io.WriteCloser
var defaultLogDebugPath = ""

var configPath string
var defaultConfigPath = ""

func getCmdChainStr(cmd *cobra.Command) string {
	cmdChain := []string{cmd.Name()}
	for {
		parentCmd := cmd.Parent()
		if parentCmd == nil {
			break
		}
		cmdChain = append([]string{parentCmd.Name()}, cmdChain...)
		cmd = parentCmd
	}
	return "⚙️ " + strings.Join(cmdChain, " ")
}

// loadFlags sets all flags not given at the command line from GXFORM_* environment variables or
// from the config file, in this order of precedence.
func loadFlags(cmd *cobra.Command) error {
	// Inspired by https://github.com/spf13/viper/issues/671#issuecomment-671067523
	v := viper.New()
	v.SetEnvPrefix("GXFORM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if configPath == "" {
		configPath = v.GetString("config")
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		if !f.Changed && v.IsSet(f.Name) {
			if setErr := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name))); setErr != nil {
				err = fmt.Errorf("flag --%s: %w", f.Name, setErr)
			}
		}
	})
	return err
}

var RootCmd = &cobra.Command{
	Use:   "gxform",
	Short: "Transform a region of a G-code program delimited by comment markers.",
	Args:  cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Flags from environment and config file
		if err := loadFlags(cmd); err != nil {
			return err
		}

		// Logging
		logger := slogxtCobra.GetLogger(cmd.ErrOrStderr()).
			WithGroup(getCmdChainStr(cmd))
		ctx := log.WithLogger(cmd.Context(), logger)
		cmd.SetContext(ctx)

		if logDebugPath != "" {
			var err error
			logDebugFile, err = os.OpenFile(logDebugPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
			if err != nil {
				return err
			}
			debugFileHandler := log.NewTerminalLineHandler(logDebugFile, &log.TerminalHandlerOptions{
				HandlerOptions: slog.HandlerOptions{
					Level: slog.LevelDebug,
				},
				ForceColor: true,
			}).WithGroup(getCmdChainStr(cmd))

			logger := slog.New(log.NewMultiHandler(debugFileHandler, logger.Handler()))
			ctx = log.WithLogger(cmd.Context(), logger)
			cmd.SetContext(ctx)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logDebugFile != nil {
			err := logDebugFile.Close()
			logDebugFile = nil
			return err
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		if err := cmd.Help(); err != nil {
			logger := log.MustLogger(cmd.Context())
			logger.Error("Failed to display help", "err", err)
		}
		Exit(1)
	},
}

var resetFlagsFns = []func(){
	func() { slogxtCobra.Reset() },
}

func ResetFlags() {
	for _, resetFlagFn := range resetFlagsFns {
		resetFlagFn()
	}
}

func init() {
	slogxtCobra.AddLoggerFlags(RootCmd)

	RootCmd.PersistentFlags().StringVarP(
		&logDebugPath, "log-debug-path", "", defaultLogDebugPath,
		"Truncate file and write debugging logging to it.",
	)

	RootCmd.PersistentFlags().StringVarP(
		&configPath, "config", "", defaultConfigPath,
		"Read flag values from this file (YAML, TOML or JSON, keyed by flag name).",
	)

	resetFlagsFns = append(resetFlagsFns, func() {
		logDebugPath = defaultLogDebugPath
		configPath = defaultConfigPath
	})
}
