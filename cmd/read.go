package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gnolang/parseit/formatter"
	"github.com/gnolang/parseit/scanner"
)

// readCommand wires a one-shot scanner read: the input is loaded, the read
// is performed and its result printed. A failed read exits with status 1.
func readCommand(read func(s *scanner.Scanner) scanner.Result) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		input, err := readInput(cmd, args)
		if err != nil {
			return err
		}
		r := read(scanner.New(input))
		fmt.Fprint(cmd.OutOrStdout(), formatter.FormatResult(r))
		if r.Failed() {
			return &exitError{code: 1}
		}
		return nil
	}
}

func newUntilCmd() *cobra.Command {
	var (
		delims     []string
		noSkipping bool
	)
	cmd := &cobra.Command{
		Use:   "until --delim D [--delim D ...] [file|-]",
		Short: "Read up to the earliest of the given delimiters",
		Args:  cobra.MaximumNArgs(1),
		RunE: readCommand(func(s *scanner.Scanner) scanner.Result {
			if noSkipping {
				return s.ReadUntilWithoutSkipping(delims...)
			}
			return s.ReadUntil(delims...)
		}),
	}
	cmd.Flags().StringArrayVarP(&delims, "delim", "d", nil, "Delimiter to stop at (repeatable)")
	cmd.Flags().BoolVar(&noSkipping, "no-skip", false, "Leave the delimiter unread")
	_ = cmd.MarkFlagRequired("delim")
	return cmd
}

func newBetweenCmd() *cobra.Command {
	var opening, closing string
	cmd := &cobra.Command{
		Use:   "between --open O --close C [file|-]",
		Short: "Read the text enclosed by a balanced pair of delimiters",
		Args:  cobra.MaximumNArgs(1),
		RunE: readCommand(func(s *scanner.Scanner) scanner.Result {
			return s.ReadBetween(opening, closing)
		}),
	}
	cmd.Flags().StringVar(&opening, "open", "(", "Opening delimiter")
	cmd.Flags().StringVar(&closing, "close", ")", "Closing delimiter")
	return cmd
}

func newQuotesCmd() *cobra.Command {
	var quote string
	cmd := &cobra.Command{
		Use:   "quotes [--quote Q] [file|-]",
		Short: "Read the text between the next two quotes",
		Args:  cobra.MaximumNArgs(1),
		RunE: readCommand(func(s *scanner.Scanner) scanner.Result {
			return s.ReadBetweenQuotes(quote)
		}),
	}
	cmd.Flags().StringVarP(&quote, "quote", "q", `"`, "Quote delimiter")
	return cmd
}
