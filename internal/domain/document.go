package domain

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Document is the whole ledger. Stores read and write it as one unit.
type Document struct {
	Version            int64                  `json:"version"`
	Users              []User                 `json:"users"`
	Balances           map[uuid.UUID]*Balance `json:"balances"`
	Investments        []Investment           `json:"investments"`
	Transactions       []Transaction          `json:"transactions"`
	WithdrawalRequests []WithdrawalRequest    `json:"withdrawalRequests"`
	Properties         []Property             `json:"properties"`
	UpdatedAt          time.Time              `json:"updatedAt"`
}

// NewDocument returns an empty ledger seeded with the default property catalog.
func NewDocument(now time.Time) *Document {
	return &Document{
		Users:              []User{},
		Balances:           map[uuid.UUID]*Balance{},
		Investments:        []Investment{},
		Transactions:       []Transaction{},
		WithdrawalRequests: []WithdrawalRequest{},
		Properties:         DefaultProperties(),
		UpdatedAt:          now,
	}
}

// Normalize fills nil collections left by older or hand-edited documents.
func (d *Document) Normalize() {
	if d.Users == nil {
		d.Users = []User{}
	}
	if d.Balances == nil {
		d.Balances = map[uuid.UUID]*Balance{}
	}
	if d.Investments == nil {
		d.Investments = []Investment{}
	}
	if d.Transactions == nil {
		d.Transactions = []Transaction{}
	}
	if d.WithdrawalRequests == nil {
		d.WithdrawalRequests = []WithdrawalRequest{}
	}
	if d.Properties == nil {
		d.Properties = []Property{}
	}
}

// FindUser returns the user with the given id, or nil.
func (d *Document) FindUser(id uuid.UUID) *User {
	for i := range d.Users {
		if d.Users[i].ID == id {
			return &d.Users[i]
		}
	}
	return nil
}

// FindUserByEmail matches case-insensitively.
func (d *Document) FindUserByEmail(email string) *User {
	for i := range d.Users {
		if strings.EqualFold(d.Users[i].Email, email) {
			return &d.Users[i]
		}
	}
	return nil
}

func (d *Document) FindUserByReferralCode(code string) *User {
	for i := range d.Users {
		if strings.EqualFold(d.Users[i].ReferralCode, code) {
			return &d.Users[i]
		}
	}
	return nil
}

func (d *Document) FindUserByPublicID(publicID string) *User {
	for i := range d.Users {
		if d.Users[i].PublicID == publicID {
			return &d.Users[i]
		}
	}
	return nil
}

// FindProperty returns the catalog entry with the given id, or nil.
func (d *Document) FindProperty(id string) *Property {
	for i := range d.Properties {
		if d.Properties[i].ID == id {
			return &d.Properties[i]
		}
	}
	return nil
}

func (d *Document) FindWithdrawal(id uuid.UUID) *WithdrawalRequest {
	for i := range d.WithdrawalRequests {
		if d.WithdrawalRequests[i].ID == id {
			return &d.WithdrawalRequests[i]
		}
	}
	return nil
}

// BalanceOf returns the user's balance amount; a missing record counts as zero.
func (d *Document) BalanceOf(userID uuid.UUID) decimal.Decimal {
	if b, ok := d.Balances[userID]; ok && b != nil {
		return b.Amount
	}
	return decimal.Zero
}

// PendingWithdrawals sums the amounts held by the user's pending withdrawal requests.
func (d *Document) PendingWithdrawals(userID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, w := range d.WithdrawalRequests {
		if w.UserID == userID && w.IsPending() {
			total = total.Add(w.Amount)
		}
	}
	return total
}

// AvailableBalance is balance minus pending withdrawal holds. Every spend check uses it.
func (d *Document) AvailableBalance(userID uuid.UUID) decimal.Decimal {
	return d.BalanceOf(userID).Sub(d.PendingWithdrawals(userID))
}

// Credit adds amount (which may be negative) to the user's balance, creating the record lazily.
func (d *Document) Credit(userID uuid.UUID, amount decimal.Decimal, now time.Time) {
	if d.Balances == nil {
		d.Balances = map[uuid.UUID]*Balance{}
	}
	b, ok := d.Balances[userID]
	if !ok || b == nil {
		b = &Balance{Amount: decimal.Zero}
		d.Balances[userID] = b
	}
	b.Amount = b.Amount.Add(amount)
	b.LastUpdated = now
}

// Debit subtracts amount from the user's balance.
func (d *Document) Debit(userID uuid.UUID, amount decimal.Decimal, now time.Time) {
	d.Credit(userID, amount.Neg(), now)
}

// Record appends a transaction, assigning an id when missing.
func (d *Document) Record(tx Transaction) Transaction {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	d.Transactions = append(d.Transactions, tx)
	return tx
}

// InvestmentsOf returns the user's active investments.
func (d *Document) InvestmentsOf(userID uuid.UUID) []Investment {
	out := []Investment{}
	for _, inv := range d.Investments {
		if inv.UserID == userID {
			out = append(out, inv)
		}
	}
	return out
}

// TransactionsOf returns the user's transactions, newest first.
func (d *Document) TransactionsOf(userID uuid.UUID) []Transaction {
	out := []Transaction{}
	for i := len(d.Transactions) - 1; i >= 0; i-- {
		if d.Transactions[i].UserID == userID {
			out = append(out, d.Transactions[i])
		}
	}
	sortTransactionsNewestFirst(out)
	return out
}

func (d *Document) WithdrawalsOf(userID uuid.UUID) []WithdrawalRequest {
	out := []WithdrawalRequest{}
	for _, w := range d.WithdrawalRequests {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	return out
}

// Ties keep append order reversed, so the most recently recorded entry comes first.
func sortTransactionsNewestFirst(txs []Transaction) {
	slices.SortStableFunc(txs, func(a, b Transaction) int {
		return b.Date.Compare(a.Date)
	})
}
