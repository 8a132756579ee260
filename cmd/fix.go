package cmd

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/parseit/check"
	tt "github.com/gnolang/parseit/internal/types"
	"github.com/gnolang/parseit/template"
)

func newFixCmd(o *rootOptions) *cobra.Command {
	var (
		dryRun      bool
		ignoreRules string
	)
	cmd := &cobra.Command{
		Use:   "fix [paths...|-]",
		Short: "Apply the rewrites of the configured rules",
		Long: `Rewrites every match of a rule that has a rewrite template.
With "-" the rules are applied to standard input and the result is printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := check.LoadConfig(o.cfgFile)
			if err != nil {
				return fmt.Errorf("error loading configuration: %w", err)
			}

			if len(args) == 1 && args[0] == "-" {
				input, err := readInput(cmd, args)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), template.Apply(o.logger, input, config.EngineRules()))
				return nil
			}
			if len(args) == 0 {
				args = []string{"."}
			}

			engine, err := newEngine(o, config, ignoreRules)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), o.timeout)
			defer cancel()

			var mu sync.Mutex
			out := cmd.OutOrStdout()
			processor := func(e check.Engine, path string) ([]tt.Match, error) {
				applied, err := check.FixFile(e, path, dryRun)
				if err != nil {
					return nil, err
				}
				mu.Lock()
				defer mu.Unlock()
				for _, m := range applied {
					fmt.Fprintf(out, "%s:%s: %s -> %s\n", path, m.Start, m.Text, m.Suggestion)
				}
				return applied, nil
			}

			applied, err := check.ProcessFiles(ctx, o.logger, engine, args, config.Filter(), processor)
			if err != nil {
				return fmt.Errorf("error fixing files: %w", err)
			}
			o.logger.Info("fix finished", zap.Int("rewrites", len(applied)), zap.Bool("dry-run", dryRun))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the rewrites without applying them")
	cmd.Flags().StringVar(&ignoreRules, "ignore", "", "Comma-separated list of rules to ignore")
	return cmd
}
