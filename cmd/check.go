package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/parseit/check"
	"github.com/gnolang/parseit/formatter"
	"github.com/gnolang/parseit/internal"
	tt "github.com/gnolang/parseit/internal/types"
)

type checkOptions struct {
	ignoreRules string
	jsonOutput  bool
	outPath     string
	watch       bool
	progress    bool
}

func newCheckCmd(o *rootOptions) *cobra.Command {
	co := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Run the configured template rules over files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}

			config, err := check.LoadConfig(o.cfgFile)
			if err != nil {
				return fmt.Errorf("error loading configuration: %w", err)
			}
			engine, err := newEngine(o, config, co.ignoreRules)
			if err != nil {
				return err
			}

			if co.watch {
				return runWatch(cmd, o.logger, engine, args)
			}

			filter := config.Filter()
			if co.progress {
				filter.Progress = cmd.ErrOrStderr()
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), o.timeout)
			defer cancel()

			matches, err := check.ProcessFiles(ctx, o.logger, engine, args, filter, check.ProcessFile)
			if err != nil {
				return fmt.Errorf("error processing files: %w", err)
			}

			if err := printMatches(cmd.OutOrStdout(), o.logger, matches, co.jsonOutput, co.outPath); err != nil {
				return err
			}
			if len(matches) > 0 {
				return &exitError{code: 1}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&co.ignoreRules, "ignore", "", "Comma-separated list of rules to ignore")
	cmd.Flags().BoolVar(&co.jsonOutput, "json", false, "Output matches in JSON format")
	cmd.Flags().StringVarP(&co.outPath, "output", "o", "", "Output path (when using JSON)")
	cmd.Flags().BoolVar(&co.watch, "watch", false, "Re-check files as they change")
	cmd.Flags().BoolVar(&co.progress, "progress", false, "Show a progress bar for directories")
	return cmd
}

func newEngine(o *rootOptions, config check.Config, ignoreRules string) (*internal.Engine, error) {
	engine, err := check.NewFromConfig(config, internal.WithLogger(o.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize engine: %w", err)
	}
	if ignoreRules != "" {
		for _, rule := range strings.Split(ignoreRules, ",") {
			engine.IgnoreRule(strings.TrimSpace(rule))
		}
	}
	return engine, nil
}

func runWatch(cmd *cobra.Command, logger *zap.Logger, engine *internal.Engine, dirs []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	err := engine.Watch(ctx, dirs, func(filename string, matches []tt.Match) {
		if len(matches) == 0 {
			fmt.Fprintf(out, "no matches in %s\n", filename)
			return
		}
		if err := printMatches(out, logger, matches, false, ""); err != nil {
			logger.Error("Error printing matches", zap.Error(err))
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func printMatches(out io.Writer, logger *zap.Logger, matches []tt.Match, isJSON bool, jsonOutput string) error {
	matchesByFile := make(map[string][]tt.Match)
	for _, m := range matches {
		matchesByFile[m.Filename] = append(matchesByFile[m.Filename], m)
	}

	if isJSON {
		d, err := json.Marshal(matchesByFile)
		if err != nil {
			return fmt.Errorf("error marshalling matches to JSON: %w", err)
		}
		if jsonOutput == "" {
			fmt.Fprintln(out, string(d))
			return nil
		}
		if err := os.WriteFile(jsonOutput, d, 0o644); err != nil {
			return fmt.Errorf("error writing JSON output file: %w", err)
		}
		return nil
	}

	sortedFiles := make([]string, 0, len(matchesByFile))
	for filename := range matchesByFile {
		sortedFiles = append(sortedFiles, filename)
	}
	sort.Strings(sortedFiles)

	for _, filename := range sortedFiles {
		lines, err := formatter.ReadSourceLines(filename)
		if err != nil {
			logger.Error("Error reading source file", zap.String("file", filename), zap.Error(err))
			continue
		}
		fmt.Fprint(out, formatter.GenerateFormattedMatches(matchesByFile[filename], lines))
	}
	return nil
}
