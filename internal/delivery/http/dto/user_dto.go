package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"propshare/internal/domain"
)

// UserOutput represents user details in API responses
type UserOutput struct {
	ID           string    `json:"id"`
	PublicID     string    `json:"publicId"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	ReferralCode string    `json:"referralCode"`
	ReferredBy   *string   `json:"referredBy,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewUserOutput strips the credentials from a user
func NewUserOutput(u *domain.User) *UserOutput {
	out := &UserOutput{
		ID:           u.ID.String(),
		PublicID:     u.PublicID,
		Name:         u.Name,
		Email:        u.Email,
		ReferralCode: u.ReferralCode,
		CreatedAt:    u.CreatedAt,
	}
	if u.ReferredBy != nil {
		ref := u.ReferredBy.String()
		out.ReferredBy = &ref
	}
	return out
}

// Data actions
const (
	ActionDeposit  = "deposit"
	ActionWithdraw = "withdraw"
	ActionInvest   = "invest"
)

// DataActionRequest is the body of POST /api/data
type DataActionRequest struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
	UserID  string          `json:"userId,omitempty"`
}

type DepositPayload struct {
	Amount decimal.Decimal `json:"amount"`
}

type WithdrawPayload struct {
	Amount            decimal.Decimal `json:"amount"`
	Clabe             string          `json:"clabe"`
	AccountHolderName string          `json:"accountHolderName"`
}

type InvestPayload struct {
	PropertyID string          `json:"propertyId"`
	Amount     decimal.Decimal `json:"amount"`
	Term       int             `json:"term"`
}

// AdjustBalanceRequest is the body of the operator balance correction
type AdjustBalanceRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note"`
}
