package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Amounts live in a JSON document shared with other tooling; keep them numeric.
	decimal.MarshalJSONWithoutQuotes = true
}

// Balance is the spendable money of a user, before pending withdrawal holds.
type Balance struct {
	Amount      decimal.Decimal `json:"amount"`
	LastUpdated time.Time       `json:"lastUpdated"`
}

// Property is a catalog entry users can buy fractional shares of.
type Property struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Location      string          `json:"location"`
	Type          string          `json:"type"`
	Price         decimal.Decimal `json:"price"`
	MinInvestment decimal.Decimal `json:"minInvestment"`
	TotalShares   int64           `json:"totalShares"`
	DailyReturn   decimal.Decimal `json:"dailyReturn"` // fraction of the invested amount paid per day
	Image         string          `json:"image,omitempty"`
}

// SharePrice returns the price of a single share.
func (p *Property) SharePrice() decimal.Decimal {
	if p.TotalShares <= 0 {
		return p.Price
	}
	return p.Price.Div(decimal.NewFromInt(p.TotalShares))
}

// Commission is the audit record of a referral payout made for an investment.
type Commission struct {
	BeneficiaryID uuid.UUID       `json:"beneficiaryId"`
	Amount        decimal.Decimal `json:"amount"`
	Level         int             `json:"level"`
}

// Investment is an active position in a property. It is removed from the ledger once it matures.
type Investment struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"userId"`
	PropertyID     string          `json:"propertyId"`
	InvestedAmount decimal.Decimal `json:"investedAmount"`
	OwnedShares    decimal.Decimal `json:"ownedShares"`
	InvestmentDate time.Time       `json:"investmentDate"`
	Term           int             `json:"term"` // days
	Commissions    []Commission    `json:"commissions"`
}

// MaturesAt returns the instant the investment reaches the end of its term.
func (i *Investment) MaturesAt() time.Time {
	return i.InvestmentDate.Add(time.Duration(i.Term) * 24 * time.Hour)
}

// TransactionType constants
const (
	TxDeposit           = "deposit"
	TxWithdrawRequest   = "withdraw-request"
	TxWithdraw          = "withdraw"
	TxInvestment        = "investment"
	TxInvestmentRelease = "investment-release"
	TxCommission        = "commission"
	TxAdjustment        = "adjustment"
)

// Transaction is an append-only audit record.
type Transaction struct {
	ID                  uuid.UUID       `json:"id"`
	UserID              uuid.UUID       `json:"userId"`
	Type                string          `json:"type"`
	Amount              decimal.Decimal `json:"amount"`
	Description         string          `json:"description"`
	Date                time.Time       `json:"date"`
	SourceInvestmentID  *uuid.UUID      `json:"sourceInvestmentId,omitempty"`
	WithdrawalRequestID *uuid.UUID      `json:"withdrawalRequestId,omitempty"`
	Clabe               string          `json:"clabe,omitempty"`
	AccountHolderName   string          `json:"accountHolderName,omitempty"`
}

// WithdrawalStatus constants
const (
	WithdrawalPending  = "pending"
	WithdrawalApproved = "approved"
	WithdrawalRejected = "rejected"
)

// WithdrawalRequest holds funds until an operator approves or rejects it.
type WithdrawalRequest struct {
	ID                uuid.UUID       `json:"id"`
	UserID            uuid.UUID       `json:"userId"`
	Amount            decimal.Decimal `json:"amount"`
	Clabe             string          `json:"clabe"`
	AccountHolderName string          `json:"accountHolderName"`
	Status            string          `json:"status"`
	Date              time.Time       `json:"date"`
	ProcessedAt       *time.Time      `json:"processedAt,omitempty"`
}

// IsPending reports whether the request still holds funds.
func (w *WithdrawalRequest) IsPending() bool {
	return w.Status == WithdrawalPending
}
