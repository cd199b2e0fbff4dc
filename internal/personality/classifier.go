package personality

import (
	"strings"

	"airline_bots/internal/models"
)

const (
	largeCashThreshold  = 1_000_000_000
	mediumCashThreshold = 100_000_000
	premiumServiceFloor = 40
	trustedReputation   = 60
)

// Classify maps an airline snapshot to one profile. The first matching rule
// wins; category tags dominate every financial signal.
func Classify(a models.Airline) Profile {
	return For(ClassifyKind(a))
}

func ClassifyKind(a models.Airline) Kind {
	switch strings.ToLower(strings.TrimSpace(a.Category)) {
	case models.CategoryDiscount:
		return Budget
	case models.CategoryLuxury:
		return Premium
	}
	switch {
	case a.Balance > largeCashThreshold:
		if a.ServiceQuality > premiumServiceFloor {
			return Premium
		}
		return Aggressive
	case a.Balance > mediumCashThreshold:
		return Balanced
	case a.Reputation > trustedReputation:
		return Conservative
	default:
		return Regional
	}
}
