package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gnolang/parseit/check"
)

const defaultTimeout = 5 * time.Minute

// rootOptions holds the persistent flags and the logger built from them.
type rootOptions struct {
	cfgFile string
	timeout time.Duration
	verbose bool
	noColor bool

	logger *zap.Logger
}

// exitError carries a process exit code without printing an error.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 2
}

// NewRootCmd builds the parseit command tree.
func NewRootCmd() *cobra.Command {
	o := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "parseit",
		Short:         "parseit - cursor-based text scanning and template rules",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if o.noColor {
				color.NoColor = true
			}
			o.logger = newLogger(o.verbose, cmd.ErrOrStderr())
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if o.logger != nil {
				_ = o.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&o.cfgFile, "config", check.DefaultConfigPath, "Path to the configuration file")
	flags.DurationVar(&o.timeout, "timeout", defaultTimeout, "Set a timeout for checking")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVar(&o.noColor, "no-color", false, "Disable colorized output")

	rootCmd.AddCommand(
		newInitCmd(o),
		newEscapeCmd(o),
		newUntilCmd(),
		newBetweenCmd(),
		newQuotesCmd(),
		newValidateCmd(),
		newCallCmd(),
		newFuncCmd(),
		newCheckCmd(o),
		newFixCmd(o),
	)
	return rootCmd
}

// Execute runs the CLI with the process arguments.
func Execute() error {
	err := NewRootCmd().Execute()
	var ee *exitError
	if err != nil && !errors.As(err, &ee) {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	return err
}

// newLogger builds a console logger on w: debug level when verbose,
// warnings and above otherwise.
func newLogger(verbose bool, w io.Writer) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	level := zapcore.WarnLevel
	var opts []zap.Option
	if verbose {
		encCfg = zap.NewDevelopmentEncoderConfig()
		level = zapcore.DebugLevel
		opts = append(opts, zap.AddCaller(), zap.Development())
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(zapcore.AddSync(w)), level)
	return zap.New(core, opts...)
}
