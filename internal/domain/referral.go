package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxReferralDepth caps the upline walk. It is also the only guard against
// cycles in referredBy, so it must stay finite.
const MaxReferralDepth = 3

// CommissionRates are positional: index 0 is the direct referrer.
var CommissionRates = []decimal.Decimal{
	decimal.RequireFromString("0.05"),
	decimal.RequireFromString("0.03"),
	decimal.RequireFromString("0.01"),
}

// ResolveChain returns the upline of userID, nearest referrer first, at most
// MaxReferralDepth long. A missing or dangling referredBy pointer ends the chain.
func ResolveChain(users []User, userID uuid.UUID) []User {
	byID := make(map[uuid.UUID]*User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	current, ok := byID[userID]
	if !ok {
		return nil
	}

	chain := make([]User, 0, MaxReferralDepth)
	for len(chain) < MaxReferralDepth {
		if current.ReferredBy == nil {
			break
		}
		referrer, ok := byID[*current.ReferredBy]
		if !ok {
			break
		}
		chain = append(chain, *referrer)
		current = referrer
	}
	return chain
}

// Commissions computes the payouts for an invested amount along a resolved chain.
func Commissions(chain []User, amount decimal.Decimal) []Commission {
	out := make([]Commission, 0, len(chain))
	for i, beneficiary := range chain {
		if i >= len(CommissionRates) {
			break
		}
		out = append(out, Commission{
			BeneficiaryID: beneficiary.ID,
			Amount:        amount.Mul(CommissionRates[i]),
			Level:         i + 1,
		})
	}
	return out
}
