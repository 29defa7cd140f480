package split

// =============================================================================
// EQUAL SPLIT STRATEGY
// Every participant, the payer included, owes amount / n
// =============================================================================

// EqualStrategy implements the Strategy interface for equal splits
type EqualStrategy struct{}

// Type returns the split type identifier
func (s *EqualStrategy) Type() SplitType {
	return SplitTypeEqual
}

// Validate checks if the inputs are valid for an equal split
func (s *EqualStrategy) Validate(amount int64, shares []Share) error {
	return validateCommon(amount, shares)
}

// Calculate assigns the truncated quotient to every participant.
// The remainder (amount mod n) is dropped: an expense of 100 split three ways
// yields 33/33/33 and the payer stays credited for the full 100.
func (s *EqualStrategy) Calculate(amount int64, shares []Share) ([]Portion, error) {
	if err := s.Validate(amount, shares); err != nil {
		return nil, err
	}

	perPerson := amount / int64(len(shares))

	outputs := make([]Portion, len(shares))
	for i, sh := range shares {
		outputs[i] = Portion{
			UserID: sh.UserID,
			Amount: perPerson,
		}
	}

	return outputs, nil
}
