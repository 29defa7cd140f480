package split

import (
	"errors"
	"fmt"
	"math"
)

// SplitType defines the type of split strategy
type SplitType string

const (
	SplitTypeEqual      SplitType = "equal"
	SplitTypePercentage SplitType = "percentage"
)

// Valid reports whether t names a known split strategy
func (t SplitType) Valid() bool {
	return t == SplitTypeEqual || t == SplitTypePercentage
}

// Share is one participant's weight in a split.
// For EQUAL splits the weight is stored but ignored.
type Share struct {
	UserID int64   `json:"user_id"`
	Share  float64 `json:"share"`
}

// Portion is the amount, in minor units, a participant owes for an expense
type Portion struct {
	UserID int64 `json:"user_id"`
	Amount int64 `json:"amount"`
}

// Strategy is the interface that all split strategies must implement
type Strategy interface {
	// Calculate computes the owed amount of every participant, in input order
	Calculate(amount int64, shares []Share) ([]Portion, error)

	// Type returns the type identifier for this strategy
	Type() SplitType

	// Validate checks if the inputs are valid for this strategy
	Validate(amount int64, shares []Share) error
}

// Factory creates split strategies based on the requested type
type Factory struct{}

// NewSplitStrategyFactory creates a new factory instance
func NewSplitStrategyFactory() *Factory {
	return &Factory{}
}

// Create returns the appropriate strategy implementation based on the type
func (f *Factory) Create(splitType SplitType) (Strategy, error) {
	switch splitType {
	case SplitTypeEqual:
		return &EqualStrategy{}, nil
	case SplitTypePercentage:
		return &PercentageStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSplitType, splitType)
	}
}

// CreateFromString creates a strategy from a string type (useful for API requests)
func (f *Factory) CreateFromString(splitType string) (Strategy, error) {
	return f.Create(SplitType(splitType))
}

// Compute splits amount among shares using the strategy for splitType.
// Parts may sum to less than amount: truncated remainders are not reassigned.
func Compute(amount int64, splitType SplitType, shares []Share) ([]Portion, error) {
	strategy, err := NewSplitStrategyFactory().Create(splitType)
	if err != nil {
		return nil, err
	}
	return strategy.Calculate(amount, shares)
}

var (
	// ErrInvalidAmount is returned when the expense amount is not positive
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrInvalidSplit is the root of every share-list precondition failure
	ErrInvalidSplit = errors.New("invalid split")

	ErrNoParticipants   = fmt.Errorf("%w: at least one participant is required", ErrInvalidSplit)
	ErrDuplicateUser    = fmt.Errorf("%w: participant listed more than once", ErrInvalidSplit)
	ErrNegativeShare    = fmt.Errorf("%w: shares must be finite and non-negative", ErrInvalidSplit)
	ErrZeroTotalShare   = fmt.Errorf("%w: shares must not sum to zero", ErrInvalidSplit)
	ErrUnknownSplitType = fmt.Errorf("%w: unknown split type", ErrInvalidSplit)
)

// validateCommon holds the checks shared by every strategy
func validateCommon(amount int64, shares []Share) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if len(shares) == 0 {
		return ErrNoParticipants
	}

	seen := make(map[int64]struct{}, len(shares))
	for _, s := range shares {
		if _, dup := seen[s.UserID]; dup {
			return ErrDuplicateUser
		}
		seen[s.UserID] = struct{}{}
	}
	return nil
}

// totalShare sums the weights, rejecting negative and non-finite values
func totalShare(shares []Share) (float64, error) {
	var total float64
	for _, s := range shares {
		if s.Share < 0 || math.IsNaN(s.Share) || math.IsInf(s.Share, 0) {
			return 0, ErrNegativeShare
		}
		total += s.Share
	}
	if total == 0 {
		return 0, ErrZeroTotalShare
	}
	return total, nil
}

// Sum adds up the amounts of portions
func Sum(portions []Portion) int64 {
	var total int64
	for _, p := range portions {
		total += p.Amount
	}
	return total
}
