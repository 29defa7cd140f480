package ledger

// Simplify reduces balances to a list of payments using a greedy match:
// repeatedly the largest debtor pays the largest creditor the smaller of the
// two magnitudes, until no balance reaches SettleThreshold.
//
// Ties on the minimum or maximum balance go to the lowest user id. The input
// map is not modified.
//
// Every recorded payment drives the debtor or the creditor to exactly zero,
// so the loop runs at most len(balances) times. Every other exit is a break:
// both picks already settled, no debtor/creditor pair of opposite sign (only
// possible for input that does not sum to zero), or a payment below the
// threshold.
func Simplify(balances Balances) []Transaction {
	working := balances.Clone()
	ids := working.UserIDs()

	transactions := []Transaction{}

	for !working.Settled() {
		debtor, creditor := extremes(working, ids)
		debt, credit := working[debtor], working[creditor]

		if abs(debt) < SettleThreshold && abs(credit) < SettleThreshold {
			break
		}
		if debt >= 0 || credit <= 0 {
			break
		}

		amount := min(-debt, credit)
		if amount < SettleThreshold {
			break
		}

		transactions = append(transactions, Transaction{
			FromUserID: debtor,
			ToUserID:   creditor,
			Amount:     amount,
		})

		working[debtor] += amount
		working[creditor] -= amount
	}

	return transactions
}

// extremes returns the ids holding the minimum and maximum balance.
// ids must be sorted ascending; strict comparisons keep the lowest id on ties.
func extremes(b Balances, ids []int64) (minID, maxID int64) {
	minID, maxID = ids[0], ids[0]
	for _, id := range ids[1:] {
		if b[id] < b[minID] {
			minID = id
		}
		if b[id] > b[maxID] {
			maxID = id
		}
	}
	return minID, maxID
}
