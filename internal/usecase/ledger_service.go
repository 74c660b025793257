package usecase

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"propshare/internal/domain"
)

// DefaultAllowedTerms are the investment terms (days) offered when none are configured.
var DefaultAllowedTerms = []int{7, 15, 30, 60, 90, 180, 365}

// ClabeLength is the length of a Mexican interbank account number.
const ClabeLength = 18

// LedgerService implements the balance, investment and withdrawal operations
type LedgerService struct {
	writer       *DocumentWriter
	notifier     domain.Notifier
	allowedTerms []int
}

// NewLedgerService creates a new LedgerService. notifier may be nil.
func NewLedgerService(writer *DocumentWriter, notifier domain.Notifier, allowedTerms []int) *LedgerService {
	if len(allowedTerms) == 0 {
		allowedTerms = DefaultAllowedTerms
	}
	return &LedgerService{
		writer:       writer,
		notifier:     notifier,
		allowedTerms: allowedTerms,
	}
}

// AllowedTerms returns the accepted investment terms in days
func (s *LedgerService) AllowedTerms() []int {
	return slices.Clone(s.allowedTerms)
}

// WithdrawInput is the payload of a withdrawal request
type WithdrawInput struct {
	UserID            uuid.UUID
	Amount            decimal.Decimal
	Clabe             string
	AccountHolderName string
}

// InvestInput is the payload of an investment
type InvestInput struct {
	UserID     uuid.UUID
	PropertyID string
	Amount     decimal.Decimal
	Term       int
}

// Deposit credits simulated funds to the user's balance
func (s *LedgerService) Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*domain.Transaction, error) {
	if !amount.IsPositive() {
		return nil, domain.NewValidationError("Amount must be greater than zero")
	}

	var recorded domain.Transaction
	err := s.writer.Update(ctx, func(doc *domain.Document, now time.Time) (bool, error) {
		if doc.FindUser(userID) == nil {
			return false, domain.NewNotFoundError("User")
		}
		matureInvestments(doc, now, ownedBy(userID))

		doc.Credit(userID, amount, now)
		recorded = doc.Record(domain.Transaction{
			UserID:      userID,
			Type:        domain.TxDeposit,
			Amount:      amount,
			Description: "Deposit",
			Date:        now,
		})
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[OK] Deposit: user=%s amount=%s", userID, amount.StringFixed(2))
	return &recorded, nil
}

// Withdraw creates a pending withdrawal request. The balance is not reduced;
// the request holds the amount by lowering the available balance until an
// operator approves or rejects it.
func (s *LedgerService) Withdraw(ctx context.Context, in WithdrawInput) (*domain.WithdrawalRequest, error) {
	holder := strings.TrimSpace(in.AccountHolderName)
	clabe := strings.TrimSpace(in.Clabe)

	if !in.Amount.IsPositive() {
		return nil, domain.NewValidationError("Amount must be greater than zero")
	}
	if !isValidClabe(clabe) {
		return nil, domain.NewValidationError("CLABE must be exactly %d digits", ClabeLength)
	}
	if holder == "" {
		return nil, domain.NewValidationError("Account holder name is required")
	}

	var request domain.WithdrawalRequest
	var user domain.User
	err := s.writer.Update(ctx, func(doc *domain.Document, now time.Time) (bool, error) {
		u := doc.FindUser(in.UserID)
		if u == nil {
			return false, domain.NewNotFoundError("User")
		}
		user = *u
		matureInvestments(doc, now, ownedBy(in.UserID))

		available := doc.AvailableBalance(in.UserID)
		if available.LessThan(in.Amount) {
			return false, domain.NewInsufficientFundsError(available, in.Amount)
		}

		request = domain.WithdrawalRequest{
			ID:                uuid.New(),
			UserID:            in.UserID,
			Amount:            in.Amount,
			Clabe:             clabe,
			AccountHolderName: holder,
			Status:            domain.WithdrawalPending,
			Date:              now,
		}
		doc.WithdrawalRequests = append(doc.WithdrawalRequests, request)

		requestID := request.ID
		doc.Record(domain.Transaction{
			UserID:              in.UserID,
			Type:                domain.TxWithdrawRequest,
			Amount:              in.Amount,
			Description:         "Withdrawal request",
			Date:                now,
			WithdrawalRequestID: &requestID,
			Clabe:               clabe,
			AccountHolderName:   holder,
		})
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[OK] Withdrawal requested: user=%s amount=%s request=%s", in.UserID, in.Amount.StringFixed(2), request.ID)

	if s.notifier != nil {
		if err := s.notifier.SendWithdrawalRequest(user, request); err != nil {
			log.Printf("[WARN] Failed to send withdrawal notification: %v", err)
		}
	}

	return &request, nil
}

// Invest debits the user's balance, opens an investment and pays referral
// commissions up to three levels, all in one document write.
func (s *LedgerService) Invest(ctx context.Context, in InvestInput) (*domain.Investment, error) {
	if !in.Amount.IsPositive() {
		return nil, domain.NewValidationError("Amount must be greater than zero")
	}
	if !slices.Contains(s.allowedTerms, in.Term) {
		return nil, domain.NewValidationError("Term must be one of %v days", s.allowedTerms)
	}

	var investment domain.Investment
	err := s.writer.Update(ctx, func(doc *domain.Document, now time.Time) (bool, error) {
		investor := doc.FindUser(in.UserID)
		if investor == nil {
			return false, domain.NewNotFoundError("User")
		}
		prop := doc.FindProperty(in.PropertyID)
		if prop == nil {
			return false, domain.NewNotFoundError("Property")
		}
		if in.Amount.LessThan(prop.MinInvestment) {
			return false, domain.NewValidationError("Minimum investment for %s is %s", prop.Name, prop.MinInvestment.StringFixed(2))
		}
		sharePrice := prop.SharePrice()
		if !sharePrice.IsPositive() {
			return false, domain.NewValidationError("Property %s has no valid share price", prop.Name)
		}

		matureInvestments(doc, now, ownedBy(in.UserID))

		available := doc.AvailableBalance(in.UserID)
		if available.LessThan(in.Amount) {
			return false, domain.NewInsufficientFundsError(available, in.Amount)
		}

		investment = domain.Investment{
			ID:             uuid.New(),
			UserID:         in.UserID,
			PropertyID:     prop.ID,
			InvestedAmount: in.Amount,
			OwnedShares:    in.Amount.Div(sharePrice),
			InvestmentDate: now,
			Term:           in.Term,
		}
		investmentID := investment.ID

		doc.Debit(in.UserID, in.Amount, now)

		chain := domain.ResolveChain(doc.Users, in.UserID)
		investment.Commissions = domain.Commissions(chain, in.Amount)
		for _, c := range investment.Commissions {
			doc.Credit(c.BeneficiaryID, c.Amount, now)
			doc.Record(domain.Transaction{
				UserID:             c.BeneficiaryID,
				Type:               domain.TxCommission,
				Amount:             c.Amount,
				Description:        fmt.Sprintf("Level %d referral commission from user %s", c.Level, investor.PublicID),
				Date:               now,
				SourceInvestmentID: &investmentID,
			})
		}

		doc.Investments = append(doc.Investments, investment)
		doc.Record(domain.Transaction{
			UserID:             in.UserID,
			Type:               domain.TxInvestment,
			Amount:             in.Amount,
			Description:        fmt.Sprintf("Investment in %s (%d days)", prop.Name, in.Term),
			Date:               now,
			SourceInvestmentID: &investmentID,
		})
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[OK] Investment: user=%s property=%s amount=%s term=%dd commissions=%d",
		in.UserID, in.PropertyID, in.Amount.StringFixed(2), in.Term, len(investment.Commissions))
	return &investment, nil
}

// ApproveWithdrawal settles a pending request: the held amount leaves the
// balance and a withdraw transaction is recorded.
func (s *LedgerService) ApproveWithdrawal(ctx context.Context, requestID uuid.UUID) (*domain.WithdrawalRequest, error) {
	return s.decideWithdrawal(ctx, requestID, domain.WithdrawalApproved)
}

// RejectWithdrawal releases the hold of a pending request. The balance is
// left exactly as it was before the request.
func (s *LedgerService) RejectWithdrawal(ctx context.Context, requestID uuid.UUID) (*domain.WithdrawalRequest, error) {
	return s.decideWithdrawal(ctx, requestID, domain.WithdrawalRejected)
}

func (s *LedgerService) decideWithdrawal(ctx context.Context, requestID uuid.UUID, status string) (*domain.WithdrawalRequest, error) {
	var decided domain.WithdrawalRequest
	var user domain.User
	err := s.writer.Update(ctx, func(doc *domain.Document, now time.Time) (bool, error) {
		req := doc.FindWithdrawal(requestID)
		if req == nil {
			return false, domain.NewNotFoundError("Withdrawal request")
		}
		if !req.IsPending() {
			return false, domain.NewAlreadyProcessedError(req.Status)
		}
		if u := doc.FindUser(req.UserID); u != nil {
			user = *u
		}

		if status == domain.WithdrawalApproved {
			balance := doc.BalanceOf(req.UserID)
			if balance.LessThan(req.Amount) {
				return false, domain.NewInsufficientFundsError(balance, req.Amount)
			}
			doc.Debit(req.UserID, req.Amount, now)
			requestID := req.ID
			doc.Record(domain.Transaction{
				UserID:              req.UserID,
				Type:                domain.TxWithdraw,
				Amount:              req.Amount,
				Description:         "Withdrawal approved",
				Date:                now,
				WithdrawalRequestID: &requestID,
				Clabe:               req.Clabe,
				AccountHolderName:   req.AccountHolderName,
			})
		}

		processedAt := now
		req.Status = status
		req.ProcessedAt = &processedAt
		decided = *req
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[OK] Withdrawal %s: request=%s user=%s amount=%s", status, decided.ID, decided.UserID, decided.Amount.StringFixed(2))

	if s.notifier != nil {
		if err := s.notifier.SendWithdrawalDecision(user, decided); err != nil {
			log.Printf("[WARN] Failed to send withdrawal decision notification: %v", err)
		}
	}

	return &decided, nil
}

// AdjustBalance is the privileged manual correction. It keeps the audit trail
// and never lets the balance drop below what pending withdrawals hold.
func (s *LedgerService) AdjustBalance(ctx context.Context, userID uuid.UUID, delta decimal.Decimal, note string) (*domain.Transaction, error) {
	if delta.IsZero() {
		return nil, domain.NewValidationError("Adjustment amount must not be zero")
	}
	note = strings.TrimSpace(note)
	if note == "" {
		note = "Balance adjustment by operator"
	}

	var recorded domain.Transaction
	err := s.writer.Update(ctx, func(doc *domain.Document, now time.Time) (bool, error) {
		if doc.FindUser(userID) == nil {
			return false, domain.NewNotFoundError("User")
		}
		available := doc.AvailableBalance(userID)
		if delta.IsNegative() && available.LessThan(delta.Neg()) {
			return false, domain.NewInsufficientFundsError(available, delta.Neg())
		}

		doc.Credit(userID, delta, now)
		recorded = doc.Record(domain.Transaction{
			UserID:      userID,
			Type:        domain.TxAdjustment,
			Amount:      delta,
			Description: note,
			Date:        now,
		})
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[OK] Balance adjusted: user=%s delta=%s", userID, delta.StringFixed(2))
	return &recorded, nil
}

// MatureInvestments releases the user's investments that reached the end of
// their term. Safe to call any number of times.
func (s *LedgerService) MatureInvestments(ctx context.Context, userID uuid.UUID) (int, error) {
	released := 0
	err := s.writer.Update(ctx, func(doc *domain.Document, now time.Time) (bool, error) {
		released = matureInvestments(doc, now, ownedBy(userID))
		return released > 0, nil
	})
	return released, err
}

// SweepMaturations releases matured investments of every user.
func (s *LedgerService) SweepMaturations(ctx context.Context) (int, error) {
	released := 0
	err := s.writer.Update(ctx, func(doc *domain.Document, now time.Time) (bool, error) {
		released = matureInvestments(doc, now, nil)
		return released > 0, nil
	})
	return released, err
}

// matureInvestments credits the final value of every matured investment in
// scope, records the release and removes the investment.
func matureInvestments(doc *domain.Document, now time.Time, scope func(domain.Investment) bool) int {
	released, remaining := domain.Matured(doc.Investments, doc.Properties, now, scope)
	if len(released) == 0 {
		return 0
	}

	for _, r := range released {
		inv := r.Investment
		investmentID := inv.ID
		name := inv.PropertyID
		if prop := doc.FindProperty(inv.PropertyID); prop != nil {
			name = prop.Name
		}

		doc.Credit(inv.UserID, r.FinalValue, now)
		doc.Record(domain.Transaction{
			UserID:             inv.UserID,
			Type:               domain.TxInvestmentRelease,
			Amount:             r.FinalValue,
			Description:        fmt.Sprintf("Investment in %s matured after %d days", name, inv.Term),
			Date:               now,
			SourceInvestmentID: &investmentID,
		})
		log.Printf("[OK] Investment matured: user=%s investment=%s payout=%s", inv.UserID, inv.ID, r.FinalValue.StringFixed(2))
	}
	doc.Investments = remaining
	return len(released)
}

func ownedBy(userID uuid.UUID) func(domain.Investment) bool {
	return func(inv domain.Investment) bool { return inv.UserID == userID }
}

func isValidClabe(clabe string) bool {
	if len(clabe) != ClabeLength {
		return false
	}
	for _, r := range clabe {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
