package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnolang/parseit/internal/grammar"
)

func newCallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   `call CODE`,
		Short: `Parse a call statement such as 'register("a", b);'`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			call, err := grammar.ParseCall(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, call)
		},
	}
}

func newFuncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   `func CODE`,
		Short: `Parse a declaration such as 'func add(int a, int b) { ... }'`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fn, err := grammar.ParseFunc(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, fn)
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	d, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshalling to JSON: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(d))
	return nil
}
