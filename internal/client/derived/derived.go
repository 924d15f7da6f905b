// Package derived computes the values the UI reads off the expense
// collection: total spend and the premium feature gate.
package derived

import (
	"github.com/dmitrijs2005/expensetracker/internal/client/models"
	"github.com/shopspring/decimal"
)

// PremiumThreshold is the spend above which premium can be activated.
var PremiumThreshold = decimal.NewFromInt(10000)

// FeatureSet lists the premium-only features and whether each is unlocked.
type FeatureSet struct {
	Theme  bool
	Export bool
}

// Values is everything derived from one collection state.
type Values struct {
	Count           int
	Total           decimal.Decimal
	PremiumEligible bool
	Features        FeatureSet
}

// Total is the exact sum of all amounts; zero for an empty collection.
func Total(expenses []models.Expense) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range expenses {
		sum = sum.Add(e.Amount)
	}
	return sum
}

// PremiumEligible reports whether premium may be activated: spend strictly
// above the threshold and premium not yet active.
func PremiumEligible(total decimal.Decimal, isPremium bool) bool {
	return !isPremium && total.GreaterThan(PremiumThreshold)
}

func Features(isPremium bool) FeatureSet {
	return FeatureSet{Theme: isPremium, Export: isPremium}
}

func Summary(expenses []models.Expense, isPremium bool) Values {
	total := Total(expenses)
	return Values{
		Count:           len(expenses),
		Total:           total,
		PremiumEligible: PremiumEligible(total, isPremium),
		Features:        Features(isPremium),
	}
}
