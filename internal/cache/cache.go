// Package cache stores computed settlement results.
//
// Entries are immutable once written. Writers invalidate by bumping a
// scope's version; readers fold the current version into their keys, so an
// entry computed before a write is simply never looked up again and ages out
// through its TTL.
package cache

import (
	"context"
	"errors"
	"time"
)

// LedgerScope is the version scope bumped by every write that changes balances
const LedgerScope = "ledger"

// ErrMiss is returned by Get when the key is absent or expired
var ErrMiss = errors.New("cache miss")

// Store is a versioned byte cache
type Store interface {
	// Get returns the value stored under key, or ErrMiss
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key for ttl
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Version returns the current version of scope, 0 if never bumped
	Version(ctx context.Context, scope string) (int64, error)

	// Bump increments the version of scope and returns the new value
	Bump(ctx context.Context, scope string) (int64, error)

	Close() error
}
