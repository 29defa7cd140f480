package settlement

import "github.com/fkhayef/settleup/internal/settlement/ledger"

// GroupBalance is the settlement state of one group. SmartTransactions settle
// the system-wide ledger rather than the group's own.
type GroupBalance struct {
	GroupID           int64                `json:"group_id"`
	Balances          ledger.Balances      `json:"balances"`
	Transactions      []ledger.Transaction `json:"transactions"`
	SmartTransactions []ledger.Transaction `json:"smart_transactions"`
}

// UserBalances holds the groups in which a user has a balance entry
type UserBalances struct {
	UserID        int64                   `json:"user_id"`
	GroupBalances map[int64]*GroupBalance `json:"group_balances"`
}

// SystemBalance is the ledger folded over every expense in the system
type SystemBalance struct {
	Balances          ledger.Balances      `json:"balances"`
	SmartTransactions []ledger.Transaction `json:"smart_transactions"`
}
