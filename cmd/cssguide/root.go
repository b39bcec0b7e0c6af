package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yacobolo/cssguide/internal/report"
)

var rootCmd = &cobra.Command{
	Use:   "cssguide",
	Short: "Style guide linter for CSS, SCSS and HTML styles",
	Long: `Check stylesheets against a style guide: selector formatting, BEM naming,
property ordering, comment conventions, z-index bands, and quote and case
normalization.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress all output (exit code only)")
	rootCmd.PersistentFlags().Bool("color", false, "Force color output")
	rootCmd.PersistentFlags().String("config", defaultConfigPath, "Config file path")

	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

// newLogger builds the console logger. Logs go to stderr so that they never
// mix with report output.
func newLogger(verbose, quiet bool) *zap.Logger {
	if quiet {
		return zap.NewNop()
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.TimeKey = zapcore.OmitKey
	if report.ShouldUseColors(false) {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(os.Stderr), level)
	return zap.New(core).Named("cssguide")
}
