package sizes

import "strconv"

// Labels supplies the human readable short name of a tier, e.g. "XS".
type Labels interface {
	ShortSize(tier Tier) string
}

// EnglishLabels is the built-in label set.
type EnglishLabels struct{}

var englishShortSizes = [6]string{"XS", "S", "M", "L", "XL", "XXL"}

// ShortSize implements Labels.
func (EnglishLabels) ShortSize(tier Tier) string {
	if !tier.Valid() {
		return strconv.Itoa(int(tier))
	}
	return englishShortSizes[tier]
}

// MapLabels is a Labels backed by a map, for deployments that translate the
// size names. Missing tiers fall back to the English label.
type MapLabels map[Tier]string

// ShortSize implements Labels.
func (m MapLabels) ShortSize(tier Tier) string {
	if label, ok := m[tier]; ok {
		return label
	}
	return EnglishLabels{}.ShortSize(tier)
}
