package split

// =============================================================================
// PERCENTAGE SPLIT STRATEGY
// Divides the expense by each participant's weight over the sum of weights
// =============================================================================

// PercentageStrategy implements the Strategy interface for percentage-based splits
type PercentageStrategy struct{}

// Type returns the split type identifier
func (s *PercentageStrategy) Type() SplitType {
	return SplitTypePercentage
}

// Validate checks if the inputs are valid for a percentage split.
// Shares need not add up to 100; they are normalized by their sum.
func (s *PercentageStrategy) Validate(amount int64, shares []Share) error {
	if err := validateCommon(amount, shares); err != nil {
		return err
	}
	_, err := totalShare(shares)
	return err
}

// Calculate floors (share / total) * amount for each participant.
// Fractional cents are lost, so the parts may sum to less than amount.
func (s *PercentageStrategy) Calculate(amount int64, shares []Share) ([]Portion, error) {
	if err := validateCommon(amount, shares); err != nil {
		return nil, err
	}
	total, err := totalShare(shares)
	if err != nil {
		return nil, err
	}

	outputs := make([]Portion, len(shares))
	for i, sh := range shares {
		// Operands are non-negative, so the conversion truncates toward the floor.
		owed := int64((sh.Share / total) * float64(amount))
		outputs[i] = Portion{
			UserID: sh.UserID,
			Amount: owed,
		}
	}

	return outputs, nil
}
