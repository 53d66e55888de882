package quiz

// Tier is one of the three difficulty bands composing a full quiz attempt.
type Tier string

const (
	TierBasic  Tier = "basic"
	TierMedium Tier = "medium"
	TierHard   Tier = "hard"
)

// AllTiers returns the tiers in progression order.
func AllTiers() []Tier {
	return []Tier{TierBasic, TierMedium, TierHard}
}

// Next returns the tier following t, or false when t is the last tier.
func (t Tier) Next() (Tier, bool) {
	switch t {
	case TierBasic:
		return TierMedium, true
	case TierMedium:
		return TierHard, true
	}
	return "", false
}

// DisplayName returns a human-readable label for the tier.
func (t Tier) DisplayName() string {
	switch t {
	case TierBasic:
		return "Basic"
	case TierMedium:
		return "Medium"
	case TierHard:
		return "Hard"
	default:
		return string(t)
	}
}

// Question is the canonical question shape. Heterogeneous source fields are
// normalized into this shape once, at the gateway boundary; no component
// past that point branches on field-name variants.
type Question struct {
	ID           string
	Prompt       string
	Options      []string
	CorrectIndex int
	Explanation  string
}
