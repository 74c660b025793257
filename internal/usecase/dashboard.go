package usecase

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"propshare/internal/domain"
)

// InvestmentView is an active investment with its accrued value at read time.
type InvestmentView struct {
	domain.Investment
	PropertyName string          `json:"propertyName"`
	CurrentValue decimal.Decimal `json:"currentValue"`
	FinalValue   decimal.Decimal `json:"finalValue"`
	MaturesAt    time.Time       `json:"maturesAt"`
}

// Dashboard is everything the user's overview needs, built from one document read.
type Dashboard struct {
	User               domain.User                `json:"user"`
	Balance            decimal.Decimal            `json:"balance"`
	AvailableBalance   decimal.Decimal            `json:"availableBalance"`
	Investments        []InvestmentView           `json:"investments"`
	Transactions       []domain.Transaction       `json:"transactions"`
	Properties         []domain.Property          `json:"properties"`
	WithdrawalRequests []domain.WithdrawalRequest `json:"withdrawalRequests"`
	AllowedTerms       []int                      `json:"allowedTerms"`
	GeneratedAt        time.Time                  `json:"generatedAt"`
}

// LedgerStats summarizes the whole ledger for operators.
type LedgerStats struct {
	Users              int             `json:"users"`
	TotalBalance       decimal.Decimal `json:"totalBalance"`
	ActiveInvestments  int             `json:"activeInvestments"`
	TotalInvested      decimal.Decimal `json:"totalInvested"`
	PendingWithdrawals int             `json:"pendingWithdrawals"`
	PendingAmount      decimal.Decimal `json:"pendingAmount"`
	CommissionsPaid    decimal.Decimal `json:"commissionsPaid"`
	Transactions       int             `json:"transactions"`
	DocumentVersion    int64           `json:"documentVersion"`
}

// Dashboard matures the user's due investments and returns their overview.
// Maturation and the read share one document write.
func (s *LedgerService) Dashboard(ctx context.Context, userID uuid.UUID) (*Dashboard, error) {
	var dash Dashboard
	err := s.writer.Update(ctx, func(doc *domain.Document, now time.Time) (bool, error) {
		user := doc.FindUser(userID)
		if user == nil {
			return false, domain.NewNotFoundError("User")
		}
		released := matureInvestments(doc, now, ownedBy(userID))
		dash = buildDashboard(doc, *user, s.allowedTerms, now)
		return released > 0, nil
	})
	if err != nil {
		return nil, err
	}
	return &dash, nil
}

func buildDashboard(doc *domain.Document, user domain.User, terms []int, now time.Time) Dashboard {
	user.PasswordHash = ""

	views := []InvestmentView{}
	for _, inv := range doc.InvestmentsOf(user.ID) {
		view := InvestmentView{
			Investment: inv,
			MaturesAt:  inv.MaturesAt(),
		}
		if prop := doc.FindProperty(inv.PropertyID); prop != nil {
			view.PropertyName = prop.Name
			view.CurrentValue = domain.CurrentValue(inv, prop, now)
			view.FinalValue = domain.FinalValue(inv, prop)
		} else {
			view.CurrentValue = inv.InvestedAmount
			view.FinalValue = inv.InvestedAmount
		}
		views = append(views, view)
	}

	withdrawals := doc.WithdrawalsOf(user.ID)
	slices.SortStableFunc(withdrawals, func(a, b domain.WithdrawalRequest) int {
		return b.Date.Compare(a.Date)
	})

	return Dashboard{
		User:               user,
		Balance:            doc.BalanceOf(user.ID),
		AvailableBalance:   doc.AvailableBalance(user.ID),
		Investments:        views,
		Transactions:       doc.TransactionsOf(user.ID),
		Properties:         slices.Clone(doc.Properties),
		WithdrawalRequests: withdrawals,
		AllowedTerms:       slices.Clone(terms),
		GeneratedAt:        now,
	}
}

// ListWithdrawals returns withdrawal requests, oldest first. An empty status returns all.
func (s *LedgerService) ListWithdrawals(ctx context.Context, status string) ([]domain.WithdrawalRequest, error) {
	switch status {
	case "", domain.WithdrawalPending, domain.WithdrawalApproved, domain.WithdrawalRejected:
	default:
		return nil, domain.NewValidationError("Unknown withdrawal status %q", status)
	}

	out := []domain.WithdrawalRequest{}
	err := s.writer.View(ctx, func(doc *domain.Document, _ time.Time) error {
		for _, w := range doc.WithdrawalRequests {
			if status == "" || w.Status == status {
				out = append(out, w)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Statistics returns ledger-wide totals.
func (s *LedgerService) Statistics(ctx context.Context) (*LedgerStats, error) {
	stats := LedgerStats{
		TotalBalance:    decimal.Zero,
		TotalInvested:   decimal.Zero,
		PendingAmount:   decimal.Zero,
		CommissionsPaid: decimal.Zero,
	}
	err := s.writer.View(ctx, func(doc *domain.Document, _ time.Time) error {
		stats.Users = len(doc.Users)
		stats.Transactions = len(doc.Transactions)
		stats.DocumentVersion = doc.Version
		for _, b := range doc.Balances {
			if b != nil {
				stats.TotalBalance = stats.TotalBalance.Add(b.Amount)
			}
		}
		stats.ActiveInvestments = len(doc.Investments)
		for _, inv := range doc.Investments {
			stats.TotalInvested = stats.TotalInvested.Add(inv.InvestedAmount)
		}
		for _, w := range doc.WithdrawalRequests {
			if w.IsPending() {
				stats.PendingWithdrawals++
				stats.PendingAmount = stats.PendingAmount.Add(w.Amount)
			}
		}
		for _, tx := range doc.Transactions {
			if tx.Type == domain.TxCommission {
				stats.CommissionsPaid = stats.CommissionsPaid.Add(tx.Amount)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// ExportDocument returns the full ledger with password hashes removed.
func (s *LedgerService) ExportDocument(ctx context.Context) (*domain.Document, error) {
	var out *domain.Document
	err := s.writer.View(ctx, func(doc *domain.Document, _ time.Time) error {
		for i := range doc.Users {
			doc.Users[i].PasswordHash = ""
		}
		out = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
