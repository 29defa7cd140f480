package commands

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fkhayef/settleup/internal/expense/split"
	"github.com/fkhayef/settleup/pkg/money"
)

// split: compute each participant's portion of one amount.
func splitCmd(opts *options) *cobra.Command {
	var (
		amount    int64
		price     string
		splitType string
		rawShares []string
	)

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split an amount among participants",
		Example: `  settle split --amount 1000 --share 1 --share 2 --share 3
  settle split --price 12.50 --type percentage --share 1:60 --share 2:40`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if price != "" {
				minor, err := money.FromMajor(price)
				if err != nil {
					return fmt.Errorf("invalid --price %q: %w", price, err)
				}
				amount = minor
			}

			shares, err := parseShares(rawShares)
			if err != nil {
				return err
			}

			portions, err := split.Compute(amount, split.SplitType(strings.ToLower(splitType)), shares)
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), portions)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "USER\tSHARE\tAMOUNT")
			for i, p := range portions {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", p.UserID, strconv.FormatFloat(shares[i].Share, 'f', -1, 64), money.Format(p.Amount))
			}
			if dropped := amount - split.Sum(portions); dropped > 0 {
				fmt.Fprintf(tw, "dropped\t\t%s\n", money.Format(dropped))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().Int64Var(&amount, "amount", 0, "amount in minor units")
	cmd.Flags().StringVar(&price, "price", "", "amount in major units, e.g. 12.50")
	cmd.Flags().StringVarP(&splitType, "type", "t", string(split.SplitTypeEqual), "split type: equal or percentage")
	cmd.Flags().StringArrayVarP(&rawShares, "share", "s", nil, "participant as user_id[:weight], repeatable")
	cmd.MarkFlagsMutuallyExclusive("amount", "price")
	cmd.MarkFlagsOneRequired("amount", "price")
	_ = cmd.MarkFlagRequired("share")
	return cmd
}

// parseShares reads user_id[:weight] pairs; a missing weight is 1
func parseShares(raw []string) ([]split.Share, error) {
	shares := make([]split.Share, 0, len(raw))
	for _, s := range raw {
		id, weight, hasWeight := strings.Cut(s, ":")

		userID, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --share %q: bad user id", s)
		}

		share := 1.0
		if hasWeight {
			share, err = strconv.ParseFloat(strings.TrimSpace(weight), 64)
			if err != nil {
				return nil, fmt.Errorf("invalid --share %q: bad weight", s)
			}
		}
		shares = append(shares, split.Share{UserID: userID, Share: share})
	}
	return shares, nil
}
