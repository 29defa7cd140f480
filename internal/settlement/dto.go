package settlement

import (
	"github.com/fkhayef/settleup/internal/settlement/ledger"
	"github.com/fkhayef/settleup/pkg/money"
)

// BalanceResponse is one user's net amount. Positive means the user is owed.
type BalanceResponse struct {
	UserID        int64  `json:"user_id"`
	Amount        int64  `json:"amount"`
	AmountDisplay string `json:"amount_display"`
}

// TransactionResponse is a proposed payment
type TransactionResponse struct {
	FromUserID    int64  `json:"from_user_id"`
	ToUserID      int64  `json:"to_user_id"`
	Amount        int64  `json:"amount"`
	AmountDisplay string `json:"amount_display"`
}

// GroupBalanceResponse represents the response for a group's balances
type GroupBalanceResponse struct {
	GroupID           int64                  `json:"group_id"`
	Balances          []*BalanceResponse     `json:"balances"`
	Transactions      []*TransactionResponse `json:"transactions"`
	SmartTransactions []*TransactionResponse `json:"smart_transactions"`
}

// UserBalancesResponse represents the response for a user's balances, keyed by group id
type UserBalancesResponse struct {
	UserID        int64                           `json:"user_id"`
	GroupBalances map[int64]*GroupBalanceResponse `json:"group_balances"`
}

// SystemBalanceResponse represents the response for the system-wide ledger
type SystemBalanceResponse struct {
	Balances          []*BalanceResponse     `json:"balances"`
	SmartTransactions []*TransactionResponse `json:"smart_transactions"`
}

// ToResponse converts a GroupBalance to a GroupBalanceResponse DTO
func (g *GroupBalance) ToResponse() *GroupBalanceResponse {
	return &GroupBalanceResponse{
		GroupID:           g.GroupID,
		Balances:          balancesToResponse(g.Balances),
		Transactions:      transactionsToResponse(g.Transactions),
		SmartTransactions: transactionsToResponse(g.SmartTransactions),
	}
}

// ToResponse converts a UserBalances to a UserBalancesResponse DTO
func (u *UserBalances) ToResponse() *UserBalancesResponse {
	resp := &UserBalancesResponse{
		UserID:        u.UserID,
		GroupBalances: make(map[int64]*GroupBalanceResponse, len(u.GroupBalances)),
	}
	for id, gb := range u.GroupBalances {
		resp.GroupBalances[id] = gb.ToResponse()
	}
	return resp
}

// ToResponse converts a SystemBalance to a SystemBalanceResponse DTO
func (s *SystemBalance) ToResponse() *SystemBalanceResponse {
	return &SystemBalanceResponse{
		Balances:          balancesToResponse(s.Balances),
		SmartTransactions: transactionsToResponse(s.SmartTransactions),
	}
}

// balancesToResponse lists balances by ascending user id
func balancesToResponse(b ledger.Balances) []*BalanceResponse {
	out := make([]*BalanceResponse, 0, len(b))
	for _, id := range b.UserIDs() {
		out = append(out, &BalanceResponse{
			UserID:        id,
			Amount:        b[id],
			AmountDisplay: money.Format(b[id]),
		})
	}
	return out
}

func transactionsToResponse(txs []ledger.Transaction) []*TransactionResponse {
	out := make([]*TransactionResponse, len(txs))
	for i, tx := range txs {
		out[i] = &TransactionResponse{
			FromUserID:    tx.FromUserID,
			ToUserID:      tx.ToUserID,
			Amount:        tx.Amount,
			AmountDisplay: money.Format(tx.Amount),
		}
	}
	return out
}
