// Package ledger turns a list of already-split expenses into per-user net
// balances and reduces those balances to a short list of settling payments.
//
// Everything here is a pure function over its arguments. Amounts are minor units.
package ledger

import "sort"

// SettleThreshold is the smallest absolute balance that still needs a payment.
// Balances of 99 minor units or less count as settled.
const SettleThreshold int64 = 100

// Portion is one participant's owed amount on an expense
type Portion struct {
	UserID int64 `json:"user_id"`
	Amount int64 `json:"amount"`
}

// Expense is the minimal view of an expense the aggregator needs
type Expense struct {
	Amount   int64     `json:"amount"`
	PaidByID int64     `json:"paid_by_id"`
	Splits   []Portion `json:"splits"`
}

// Balances maps user id to signed net amount.
// Positive = the user is owed money, negative = the user owes money.
type Balances map[int64]int64

// Transaction is a proposed payment: FromUserID pays ToUserID Amount
type Transaction struct {
	FromUserID int64 `json:"from_user_id"`
	ToUserID   int64 `json:"to_user_id"`
	Amount     int64 `json:"amount"`
}

// Summary bundles the balances of a scope with the payments that settle them
type Summary struct {
	Balances     Balances      `json:"balances"`
	Transactions []Transaction `json:"transactions"`
}

// Sum returns the total of all balances
func (b Balances) Sum() int64 {
	var total int64
	for _, v := range b {
		total += v
	}
	return total
}

// UserIDs returns the ids present in b in ascending order
func (b Balances) UserIDs() []int64 {
	ids := make([]int64, 0, len(b))
	for id := range b {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Clone returns an independent copy of b
func (b Balances) Clone() Balances {
	out := make(Balances, len(b))
	for id, v := range b {
		out[id] = v
	}
	return out
}

// Settled reports whether no balance in b needs a payment
func (b Balances) Settled() bool {
	for _, v := range b {
		if abs(v) >= SettleThreshold {
			return false
		}
	}
	return true
}

// Settle computes the balances of expenses and the payments that settle them
func Settle(expenses []Expense) Summary {
	balances := ComputeBalances(expenses)
	return Summary{
		Balances:     balances,
		Transactions: Simplify(balances),
	}
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
