package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnolang/parseit/scanner"
	"github.com/gnolang/parseit/template"
)

func newValidateCmd() *cobra.Command {
	var (
		tmpl     string
		wildcard string
		captures bool
	)
	cmd := &cobra.Command{
		Use:   "validate --template T [--wildcard W] [file|-]",
		Short: "Check that the input matches a wildcard template",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if !captures {
				if !scanner.New(input).Validate(tmpl, wildcard) {
					fmt.Fprintln(out, "no match")
					return &exitError{code: 1}
				}
				fmt.Fprintln(out, "match")
				return nil
			}

			t, err := template.Compile(tmpl, wildcard)
			if err != nil {
				return err
			}
			m, ok := t.MatchString(input)
			if !ok {
				fmt.Fprintln(out, "no match")
				return &exitError{code: 1}
			}
			fmt.Fprintf(out, "match [%d, %d)\n", m.Start, m.End)
			for i, c := range m.Captures {
				fmt.Fprintf(out, "%d: %q\n", i, c)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&tmpl, "template", "t", "", "Template to validate against")
	cmd.Flags().StringVarP(&wildcard, "wildcard", "w", template.DefaultWildcard, "Wildcard token")
	cmd.Flags().BoolVar(&captures, "captures", false, "Print the span and the text of each wildcard")
	_ = cmd.MarkFlagRequired("template")
	return cmd
}
