package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fkhayef/settleup/internal/settlement/ledger"
	"github.com/fkhayef/settleup/pkg/money"
)

// transactions: the payments that settle a ledger.
func transactionsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "Print the payments that settle a ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			expenses, err := readLedger(cmd, opts)
			if err != nil {
				return err
			}

			summary := ledger.Settle(expenses)
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), summary.Transactions)
			}

			if len(summary.Transactions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "all settled")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FROM\tTO\tAMOUNT")
			for _, tx := range summary.Transactions {
				fmt.Fprintf(tw, "%d\t%d\t%s\n", tx.FromUserID, tx.ToUserID, money.Format(tx.Amount))
			}
			return tw.Flush()
		},
	}
	ledgerFlag(cmd, opts)
	return cmd
}
