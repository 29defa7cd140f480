package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fkhayef/settleup/internal/settlement/ledger"
	"github.com/fkhayef/settleup/pkg/money"
)

// balances: net amount per user for a ledger.
func balancesCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Print the net balance of every user in a ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			expenses, err := readLedger(cmd, opts)
			if err != nil {
				return err
			}

			balances := ledger.ComputeBalances(expenses)
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), balances)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "USER\tBALANCE")
			for _, id := range balances.UserIDs() {
				fmt.Fprintf(tw, "%d\t%s\n", id, money.Format(balances[id]))
			}
			return tw.Flush()
		},
	}
	ledgerFlag(cmd, opts)
	return cmd
}
