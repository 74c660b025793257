package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SecondsPerDay is the accrual denominator.
const SecondsPerDay = 86400

var secondsPerDay = decimal.NewFromInt(SecondsPerDay)

// CurrentValue returns the value of an investment at now.
// Accrual is linear per whole second, not compounding:
//
//	value = invested + invested * dailyReturn * elapsedSeconds / 86400
//
// A missing property or a non-positive daily return leaves the value flat.
func CurrentValue(inv Investment, prop *Property, now time.Time) decimal.Decimal {
	if prop == nil || !prop.DailyReturn.IsPositive() {
		return inv.InvestedAmount
	}

	elapsed := int64(now.Sub(inv.InvestmentDate) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}

	gain := inv.InvestedAmount.
		Mul(prop.DailyReturn).
		Mul(decimal.NewFromInt(elapsed)).
		Div(secondsPerDay)
	return inv.InvestedAmount.Add(gain)
}

// FinalValue is the payout at maturity: exactly the full-term accrual,
// whatever the wall-clock time maturation runs at.
func FinalValue(inv Investment, prop *Property) decimal.Decimal {
	if prop == nil || !prop.DailyReturn.IsPositive() {
		return inv.InvestedAmount
	}
	gains := inv.InvestedAmount.Mul(prop.DailyReturn).Mul(decimal.NewFromInt(int64(inv.Term)))
	return inv.InvestedAmount.Add(gains)
}

// IsMatured reports whether now is at or past the end of the investment term.
func IsMatured(inv Investment, now time.Time) bool {
	return !now.Before(inv.MaturesAt())
}

// Release is a matured investment with its payout.
type Release struct {
	Investment Investment
	FinalValue decimal.Decimal
}

// Matured partitions investments into released ones and those that stay active.
// scope limits which investments are considered (nil means all); out-of-scope
// investments always stay in remaining. Investments pointing to a property that
// is no longer in the catalog are kept active.
func Matured(investments []Investment, properties []Property, now time.Time, scope func(Investment) bool) (released []Release, remaining []Investment) {
	catalog := make(map[string]*Property, len(properties))
	for i := range properties {
		catalog[properties[i].ID] = &properties[i]
	}

	remaining = make([]Investment, 0, len(investments))
	for _, inv := range investments {
		if scope != nil && !scope(inv) {
			remaining = append(remaining, inv)
			continue
		}
		prop, ok := catalog[inv.PropertyID]
		if !ok || !IsMatured(inv, now) {
			remaining = append(remaining, inv)
			continue
		}
		released = append(released, Release{Investment: inv, FinalValue: FinalValue(inv, prop)})
	}
	return released, remaining
}
