// Package commands defines the settle CLI, which runs the split calculator and
// the settlement engine on local input without a server or database.
//
// Commands
//
//   - split          Split one amount among participants
//   - balances       Net balance per user for a ledger file
//   - transactions   Payments that settle a ledger file
//
// A ledger file is a JSON array of expenses, each
// {"amount": 300, "paid_by_id": 1, "splits": [{"user_id": 2, "amount": 150}]}.
// Amounts are minor units. "-" or no --file reads the ledger from stdin.
package commands
