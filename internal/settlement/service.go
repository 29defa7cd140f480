package settlement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fkhayef/settleup/internal/cache"
	"github.com/fkhayef/settleup/internal/metrics"
	"github.com/fkhayef/settleup/internal/settlement/ledger"
)

// Common errors
var (
	ErrGroupNotFound = errors.New("group not found")
	ErrUserNotFound  = errors.New("user not found")
)

// noVersion marks a ledger version that could not be read; results are then
// computed without touching the cache.
const noVersion int64 = -1

// Service computes balances and settling transactions from stored expenses.
// Results are cached under the current ledger version.
type Service struct {
	repo    *Repository
	store   cache.Store
	ttl     time.Duration
	workers int
}

// NewService creates a new settlement service. workers bounds the number of
// group ledgers loaded concurrently for one user.
func NewService(repo *Repository, store cache.Store, ttl time.Duration, workers int) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{
		repo:    repo,
		store:   store,
		ttl:     ttl,
		workers: workers,
	}
}

// Invalidate bumps the ledger version so cached results are no longer read
func (s *Service) Invalidate(ctx context.Context) {
	if _, err := s.store.Bump(ctx, cache.LedgerScope); err != nil {
		slog.WarnContext(ctx, "failed to bump ledger version", "error", err)
	}
}

// GroupBalances computes a group's balances, the transactions that settle
// them, and the system-wide smart transactions
func (s *Service) GroupBalances(ctx context.Context, groupID int64) (*GroupBalance, error) {
	exists, err := s.repo.GroupExists(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrGroupNotFound
	}

	version := s.version(ctx)
	system, err := s.systemBalance(ctx, version)
	if err != nil {
		return nil, err
	}

	return s.groupBalance(ctx, groupID, version, system.SmartTransactions)
}

// UserBalances computes the balances of every group the user belongs to and
// keeps the groups in which the user has a balance entry
func (s *Service) UserBalances(ctx context.Context, userID int64) (*UserBalances, error) {
	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	groupIDs, err := s.repo.UserGroupIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	version := s.version(ctx)
	system, err := s.systemBalance(ctx, version)
	if err != nil {
		return nil, err
	}

	results := make([]*GroupBalance, len(groupIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, groupID := range groupIDs {
		i, groupID := i, groupID
		g.Go(func() error {
			gb, err := s.groupBalance(gctx, groupID, version, system.SmartTransactions)
			if err != nil {
				return fmt.Errorf("group %d: %w", groupID, err)
			}
			results[i] = gb
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &UserBalances{
		UserID:        userID,
		GroupBalances: make(map[int64]*GroupBalance),
	}
	for _, gb := range results {
		if _, ok := gb.Balances[userID]; ok {
			out.GroupBalances[gb.GroupID] = gb
		}
	}
	return out, nil
}

// AllBalances computes the ledger over every expense in the system
func (s *Service) AllBalances(ctx context.Context) (*SystemBalance, error) {
	return s.systemBalance(ctx, s.version(ctx))
}

func (s *Service) groupBalance(ctx context.Context, groupID, version int64, smart []ledger.Transaction) (*GroupBalance, error) {
	key := fmt.Sprintf("settlement:group:%d:v%d", groupID, version)

	var gb GroupBalance
	if s.lookup(ctx, key, version, &gb) {
		gb.SmartTransactions = smart
		return &gb, nil
	}

	expenses, err := s.repo.GroupLedger(ctx, groupID)
	if err != nil {
		return nil, err
	}

	summary := ledger.Settle(expenses)
	metrics.SettlementComputations.WithLabelValues("group").Inc()
	metrics.SettlementTransactions.Observe(float64(len(summary.Transactions)))

	gb = GroupBalance{
		GroupID:      groupID,
		Balances:     summary.Balances,
		Transactions: summary.Transactions,
	}
	s.save(ctx, key, version, &gb)

	gb.SmartTransactions = smart
	return &gb, nil
}

func (s *Service) systemBalance(ctx context.Context, version int64) (*SystemBalance, error) {
	key := fmt.Sprintf("settlement:all:v%d", version)

	var sb SystemBalance
	if s.lookup(ctx, key, version, &sb) {
		return &sb, nil
	}

	expenses, err := s.repo.SystemLedger(ctx)
	if err != nil {
		return nil, err
	}

	summary := ledger.Settle(expenses)
	metrics.SettlementComputations.WithLabelValues("all").Inc()
	metrics.SettlementTransactions.Observe(float64(len(summary.Transactions)))

	sb = SystemBalance{
		Balances:          summary.Balances,
		SmartTransactions: summary.Transactions,
	}
	s.save(ctx, key, version, &sb)

	return &sb, nil
}

func (s *Service) version(ctx context.Context) int64 {
	v, err := s.store.Version(ctx, cache.LedgerScope)
	if err != nil {
		metrics.CacheLookups.WithLabelValues(metrics.CacheError).Inc()
		slog.WarnContext(ctx, "failed to read ledger version, bypassing cache", "error", err)
		return noVersion
	}
	return v
}

// lookup decodes the cached value under key into dst and reports whether it was found
func (s *Service) lookup(ctx context.Context, key string, version int64, dst any) bool {
	if version == noVersion {
		return false
	}

	data, err := s.store.Get(ctx, key)
	switch {
	case errors.Is(err, cache.ErrMiss):
		metrics.CacheLookups.WithLabelValues(metrics.CacheMiss).Inc()
		return false
	case err != nil:
		metrics.CacheLookups.WithLabelValues(metrics.CacheError).Inc()
		slog.WarnContext(ctx, "cache read failed", "key", key, "error", err)
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		metrics.CacheLookups.WithLabelValues(metrics.CacheError).Inc()
		slog.WarnContext(ctx, "discarding undecodable cache entry", "key", key, "error", err)
		return false
	}

	metrics.CacheLookups.WithLabelValues(metrics.CacheHit).Inc()
	return true
}

func (s *Service) save(ctx context.Context, key string, version int64, v any) {
	if version == noVersion {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		slog.WarnContext(ctx, "failed to encode cache entry", "key", key, "error", err)
		return
	}
	if err := s.store.Set(ctx, key, data, s.ttl); err != nil {
		metrics.CacheLookups.WithLabelValues(metrics.CacheError).Inc()
		slog.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
}
