package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorsRecord(t *testing.T) {
	before := testutil.ToFloat64(CacheLookups.WithLabelValues(CacheHit))
	CacheLookups.WithLabelValues(CacheHit).Inc()
	if got := testutil.ToFloat64(CacheLookups.WithLabelValues(CacheHit)); got != before+1 {
		t.Errorf("cache hits = %v, want %v", got, before+1)
	}

	ExpensesCreated.WithLabelValues("equal").Add(2)
	if got := testutil.ToFloat64(ExpensesCreated.WithLabelValues("equal")); got < 2 {
		t.Errorf("expenses created = %v, want at least 2", got)
	}

	SettlementTransactions.Observe(3)
	if n := testutil.CollectAndCount(SettlementTransactions); n != 1 {
		t.Errorf("histogram exported %d series, want 1", n)
	}
}
