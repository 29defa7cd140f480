package split

import (
	"errors"
	"math"
	"testing"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name      string
		amount    int64
		splitType SplitType
		shares    []Share
		want      []Portion
		wantErr   error
	}{
		{
			name:      "equal split divides evenly",
			amount:    300,
			splitType: SplitTypeEqual,
			shares:    []Share{{UserID: 1, Share: 1}, {UserID: 2, Share: 1}, {UserID: 3, Share: 1}},
			want:      []Portion{{UserID: 1, Amount: 100}, {UserID: 2, Amount: 100}, {UserID: 3, Amount: 100}},
		},
		{
			name:      "equal split drops the remainder",
			amount:    100,
			splitType: SplitTypeEqual,
			shares:    []Share{{UserID: 1, Share: 1}, {UserID: 2, Share: 1}, {UserID: 3, Share: 1}},
			want:      []Portion{{UserID: 1, Amount: 33}, {UserID: 2, Amount: 33}, {UserID: 3, Amount: 33}},
		},
		{
			name:      "equal split ignores share weights",
			amount:    90,
			splitType: SplitTypeEqual,
			shares:    []Share{{UserID: 7, Share: 10}, {UserID: 8, Share: 0}},
			want:      []Portion{{UserID: 7, Amount: 45}, {UserID: 8, Amount: 45}},
		},
		{
			name:      "single participant owes everything",
			amount:    1234,
			splitType: SplitTypeEqual,
			shares:    []Share{{UserID: 5}},
			want:      []Portion{{UserID: 5, Amount: 1234}},
		},
		{
			name:      "percentage split on exact weights",
			amount:    1000,
			splitType: SplitTypePercentage,
			shares:    []Share{{UserID: 1, Share: 25}, {UserID: 2, Share: 75}},
			want:      []Portion{{UserID: 1, Amount: 250}, {UserID: 2, Amount: 750}},
		},
		{
			name:      "percentage shares are normalized",
			amount:    1000,
			splitType: SplitTypePercentage,
			shares:    []Share{{UserID: 1, Share: 1}, {UserID: 2, Share: 3}},
			want:      []Portion{{UserID: 1, Amount: 250}, {UserID: 2, Amount: 750}},
		},
		{
			name:      "percentage split floors fractional cents",
			amount:    999,
			splitType: SplitTypePercentage,
			shares:    []Share{{UserID: 1, Share: 30}, {UserID: 2, Share: 30}, {UserID: 3, Share: 40}},
			want:      []Portion{{UserID: 1, Amount: 299}, {UserID: 2, Amount: 299}, {UserID: 3, Amount: 399}},
		},
		{
			name:      "percentage zero weight owes nothing",
			amount:    500,
			splitType: SplitTypePercentage,
			shares:    []Share{{UserID: 1, Share: 100}, {UserID: 2, Share: 0}},
			want:      []Portion{{UserID: 1, Amount: 500}, {UserID: 2, Amount: 0}},
		},
		{
			name:      "zero amount",
			amount:    0,
			splitType: SplitTypeEqual,
			shares:    []Share{{UserID: 1, Share: 1}},
			wantErr:   ErrInvalidAmount,
		},
		{
			name:      "negative amount",
			amount:    -50,
			splitType: SplitTypePercentage,
			shares:    []Share{{UserID: 1, Share: 1}},
			wantErr:   ErrInvalidAmount,
		},
		{
			name:      "no participants",
			amount:    100,
			splitType: SplitTypeEqual,
			wantErr:   ErrNoParticipants,
		},
		{
			name:      "percentage with zero total share",
			amount:    100,
			splitType: SplitTypePercentage,
			shares:    []Share{{UserID: 1, Share: 0}, {UserID: 2, Share: 0}},
			wantErr:   ErrZeroTotalShare,
		},
		{
			name:      "percentage with negative share",
			amount:    100,
			splitType: SplitTypePercentage,
			shares:    []Share{{UserID: 1, Share: -10}, {UserID: 2, Share: 110}},
			wantErr:   ErrNegativeShare,
		},
		{
			name:      "percentage with NaN share",
			amount:    100,
			splitType: SplitTypePercentage,
			shares:    []Share{{UserID: 1, Share: math.NaN()}},
			wantErr:   ErrNegativeShare,
		},
		{
			name:      "duplicate participant",
			amount:    100,
			splitType: SplitTypeEqual,
			shares:    []Share{{UserID: 1, Share: 1}, {UserID: 1, Share: 1}},
			wantErr:   ErrDuplicateUser,
		},
		{
			name:      "unknown split type",
			amount:    100,
			splitType: SplitType("exact"),
			shares:    []Share{{UserID: 1, Share: 1}},
			wantErr:   ErrUnknownSplitType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compute(tt.amount, tt.splitType, tt.shares)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Compute() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Compute() unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Compute() returned %d portions, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("portion %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSplitErrorsWrapInvalidSplit(t *testing.T) {
	for _, err := range []error{ErrNoParticipants, ErrDuplicateUser, ErrNegativeShare, ErrZeroTotalShare, ErrUnknownSplitType} {
		if !errors.Is(err, ErrInvalidSplit) {
			t.Errorf("%v does not wrap ErrInvalidSplit", err)
		}
	}
	if errors.Is(ErrInvalidAmount, ErrInvalidSplit) {
		t.Error("ErrInvalidAmount must stay distinct from ErrInvalidSplit")
	}
}

func TestComputeNeverExceedsAmount(t *testing.T) {
	shares := []Share{{UserID: 1, Share: 13.5}, {UserID: 2, Share: 27}, {UserID: 3, Share: 59.5}, {UserID: 4, Share: 0.25}}

	for _, splitType := range []SplitType{SplitTypeEqual, SplitTypePercentage} {
		for amount := int64(1); amount <= 2000; amount += 37 {
			portions, err := Compute(amount, splitType, shares)
			if err != nil {
				t.Fatalf("Compute(%d, %s) unexpected error: %v", amount, splitType, err)
			}
			if total := Sum(portions); total > amount {
				t.Errorf("Compute(%d, %s) parts sum to %d, more than the amount", amount, splitType, total)
			}
		}
	}
}

func TestEqualSplitSumsExactlyWhenDivisible(t *testing.T) {
	shares := []Share{{UserID: 1}, {UserID: 2}, {UserID: 3}, {UserID: 4}}

	for amount := int64(4); amount <= 400; amount += 4 {
		portions, err := Compute(amount, SplitTypeEqual, shares)
		if err != nil {
			t.Fatalf("Compute(%d) unexpected error: %v", amount, err)
		}
		if total := Sum(portions); total != amount {
			t.Errorf("Compute(%d) parts sum to %d", amount, total)
		}
	}
}

func TestFactoryCreate(t *testing.T) {
	f := NewSplitStrategyFactory()

	for _, splitType := range []SplitType{SplitTypeEqual, SplitTypePercentage} {
		s, err := f.CreateFromString(string(splitType))
		if err != nil {
			t.Fatalf("CreateFromString(%q) error = %v", splitType, err)
		}
		if s.Type() != splitType {
			t.Errorf("strategy type = %q, want %q", s.Type(), splitType)
		}
	}

	if _, err := f.Create("EVEN"); !errors.Is(err, ErrUnknownSplitType) {
		t.Errorf("Create(EVEN) error = %v, want ErrUnknownSplitType", err)
	}
}
