package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/parseit/check"
	"github.com/gnolang/parseit/formatter"
	"github.com/gnolang/parseit/scanner"
)

func newEscapeCmd(o *rootOptions) *cobra.Command {
	var (
		quoted   string
		literals []string
		operator string
	)
	cmd := &cobra.Command{
		Use:   "escape [--quoted Q | --literal L ...] [--operator OP] [file|-]",
		Short: "Replace quoted regions or literals with $$(id)$$ placeholders",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (quoted == "") == (len(literals) == 0) {
				return fmt.Errorf("exactly one of --quoted or --literal is required")
			}
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			s := scanner.New(input)
			var esc *scanner.Escaped
			if quoted != "" {
				if cmd.Flags().Changed("operator") {
					s.SetEscapeOperator(operator)
				} else if cfg, err := check.LoadConfig(o.cfgFile); err != nil {
					o.logger.Warn("ignoring configuration", zap.String("path", o.cfgFile), zap.Error(err))
				} else {
					s.SetEscapeOperator(cfg.EscapeOperator)
				}
				esc = s.EscapeQuoted(quoted)
			} else {
				esc = s.Escape(literals...)
			}
			o.logger.Debug("escaped", zap.Int("placeholders", esc.Len()))

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEscaped(esc))
			return nil
		},
	}
	cmd.Flags().StringVar(&quoted, "quoted", "", "Quote delimiter whose regions are escaped")
	cmd.Flags().StringArrayVar(&literals, "literal", nil, "Literal to escape (repeatable)")
	cmd.Flags().StringVar(&operator, "operator", scanner.DefaultEscapeOperator, "Escape operator for quotes; empty disables it")
	return cmd
}
