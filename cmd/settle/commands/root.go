package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/fkhayef/settleup/internal/settlement/ledger"
)

type options struct {
	jsonOutput bool
	file       string
}

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "settle",
		Short:        "Split expenses and settle balances offline",
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "print JSON instead of a table")

	root.AddCommand(splitCmd(opts), balancesCmd(opts), transactionsCmd(opts))
	return root
}

// ledgerFlag registers --file on a command that reads a ledger
func ledgerFlag(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVarP(&opts.file, "file", "f", "-", "ledger JSON file, - for stdin")
}

// readLedger decodes the ledger named by opts.file, or stdin
func readLedger(cmd *cobra.Command, opts *options) ([]ledger.Expense, error) {
	var r io.Reader = cmd.InOrStdin()
	if opts.file != "" && opts.file != "-" {
		f, err := os.Open(opts.file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var expenses []ledger.Expense
	if err := json.NewDecoder(r).Decode(&expenses); err != nil {
		return nil, fmt.Errorf("decode ledger: %w", err)
	}
	return expenses, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
