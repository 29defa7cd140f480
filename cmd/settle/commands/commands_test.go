package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fkhayef/settleup/internal/expense/split"
	"github.com/fkhayef/settleup/internal/settlement/ledger"
)

const threeWayLedger = `[
	{"amount": 300, "paid_by_id": 1, "splits": [
		{"user_id": 1, "amount": 100},
		{"user_id": 2, "amount": 100},
		{"user_id": 3, "amount": 100}
	]}
]`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

// rows returns the whitespace-separated fields of every output line
func rows(out string) [][]string {
	var rs [][]string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		rs = append(rs, strings.Fields(line))
	}
	return rs
}

func TestSplitJSON(t *testing.T) {
	out, err := run(t, "", "split", "--amount", "100", "--share", "1", "--share", "2", "--share", "3", "--json")
	if err != nil {
		t.Fatalf("split error = %v", err)
	}

	var portions []split.Portion
	if err := json.Unmarshal([]byte(out), &portions); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if len(portions) != 3 {
		t.Fatalf("portions = %+v", portions)
	}
	for i, p := range portions {
		if p.UserID != int64(i+1) || p.Amount != 33 {
			t.Errorf("portion %d = %+v, want 33", i, p)
		}
	}
}

func TestSplitTable(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want [][]string
	}{
		{
			name: "percentage in major units",
			args: []string{"split", "--price", "10.00", "--type", "percentage", "--share", "1:75", "--share", "2:25"},
			want: [][]string{
				{"USER", "SHARE", "AMOUNT"},
				{"1", "75", "7.50"},
				{"2", "25", "2.50"},
			},
		},
		{
			name: "dropped remainder is reported",
			args: []string{"split", "--amount", "100", "-s", "1", "-s", "2", "-s", "3"},
			want: [][]string{
				{"USER", "SHARE", "AMOUNT"},
				{"1", "1", "0.33"},
				{"2", "1", "0.33"},
				{"3", "1", "0.33"},
				{"dropped", "0.01"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, "", tt.args...)
			if err != nil {
				t.Fatalf("split error = %v", err)
			}
			got := rows(out)
			if len(got) != len(tt.want) {
				t.Fatalf("output:\n%s", out)
			}
			for i := range got {
				if strings.Join(got[i], " ") != strings.Join(tt.want[i], " ") {
					t.Errorf("row %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSplitErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"zero amount", []string{"split", "--amount", "0", "--share", "1"}, split.ErrInvalidAmount},
		{"unknown type", []string{"split", "--amount", "10", "--type", "exact", "--share", "1"}, split.ErrInvalidSplit},
		{"zero weights", []string{"split", "--amount", "10", "--type", "percentage", "--share", "1:0"}, split.ErrInvalidSplit},
		{"duplicate user", []string{"split", "--amount", "10", "--share", "1", "--share", "1"}, split.ErrInvalidSplit},
		{"bad user id", []string{"split", "--amount", "10", "--share", "x:1"}, nil},
		{"bad weight", []string{"split", "--amount", "10", "--share", "1:lots"}, nil},
		{"bad price", []string{"split", "--price", "ten", "--share", "1"}, nil},
		{"no shares", []string{"split", "--amount", "10"}, nil},
		{"no amount", []string{"split", "--share", "1"}, nil},
		{"amount and price", []string{"split", "--amount", "10", "--price", "0.10", "--share", "1"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "", tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBalancesFromStdin(t *testing.T) {
	out, err := run(t, threeWayLedger, "balances", "--json")
	if err != nil {
		t.Fatalf("balances error = %v", err)
	}

	var got ledger.Balances
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	want := ledger.Balances{1: 200, 2: -100, 3: -100}
	if len(got) != len(want) {
		t.Fatalf("balances = %v, want %v", got, want)
	}
	for id, v := range want {
		if got[id] != v {
			t.Errorf("balance of %d = %d, want %d", id, got[id], v)
		}
	}

	table, err := run(t, threeWayLedger, "balances")
	if err != nil {
		t.Fatalf("balances error = %v", err)
	}
	if r := rows(table); len(r) != 4 || strings.Join(r[3], " ") != "3 -1.00" {
		t.Errorf("table:\n%s", table)
	}
}

func TestTransactionsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	if err := os.WriteFile(path, []byte(threeWayLedger), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "", "transactions", "-f", path)
	if err != nil {
		t.Fatalf("transactions error = %v", err)
	}

	want := [][]string{
		{"FROM", "TO", "AMOUNT"},
		{"2", "1", "1.00"},
		{"3", "1", "1.00"},
	}
	got := rows(out)
	if len(got) != len(want) {
		t.Fatalf("output:\n%s", out)
	}
	for i := range want {
		if strings.Join(got[i], " ") != strings.Join(want[i], " ") {
			t.Errorf("row %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTransactionsSettledLedger(t *testing.T) {
	settled := `[{"amount": 100, "paid_by_id": 1, "splits": [{"user_id": 1, "amount": 50}, {"user_id": 2, "amount": 50}]}]`

	out, err := run(t, settled, "transactions")
	if err != nil {
		t.Fatalf("transactions error = %v", err)
	}
	if strings.TrimSpace(out) != "all settled" {
		t.Errorf("output = %q", out)
	}

	out, err = run(t, settled, "transactions", "--json")
	if err != nil {
		t.Fatalf("transactions error = %v", err)
	}
	if strings.TrimSpace(out) != "[]" {
		t.Errorf("json output = %q, want []", out)
	}
}

func TestLedgerErrors(t *testing.T) {
	if _, err := run(t, "{not json", "balances"); err == nil {
		t.Error("expected decode error")
	}
	if _, err := run(t, "", "transactions", "-f", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected missing file error")
	}
}
