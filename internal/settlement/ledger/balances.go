package ledger

// ComputeBalances folds expenses into net balances.
//
// The payer is credited the full expense amount, not the sum of the splits,
// and every split user is debited their split amount. Every user that appears
// as payer or participant gets an entry, even when it nets to zero. The fold
// is commutative, so expense order does not matter.
//
// The cross-group balances are this same fold applied to every expense in
// the system.
func ComputeBalances(expenses []Expense) Balances {
	balances := make(Balances)

	for _, e := range expenses {
		balances[e.PaidByID] += e.Amount

		for _, s := range e.Splits {
			balances[s.UserID] -= s.Amount
		}
	}

	return balances
}
