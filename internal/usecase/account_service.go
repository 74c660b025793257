package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"propshare/internal/domain"
)

// ErrInvalidCredentials is returned by Authenticate for an unknown email or a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// MinPasswordLength is the shortest password Register accepts.
const MinPasswordLength = 6

const referralCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
const referralCodeLength = 8

const maxIDAttempts = 64

// RegisterInput is the payload of a new account
type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	ReferralCode string
}

// AccountService manages users inside the ledger document
type AccountService struct {
	writer   *DocumentWriter
	hashCost int
}

// NewAccountService creates a new AccountService
func NewAccountService(writer *DocumentWriter) *AccountService {
	return &AccountService{writer: writer, hashCost: bcrypt.DefaultCost}
}

// SetHashCost overrides the bcrypt cost
func (s *AccountService) SetHashCost(cost int) {
	s.hashCost = cost
}

// Register creates a user with a zero balance. A referral code, when given,
// must belong to an existing user and becomes the new user's referrer.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	code := strings.ToUpper(strings.TrimSpace(in.ReferralCode))

	if name == "" {
		return nil, domain.NewValidationError("Name is required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, domain.NewValidationError("A valid email is required")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, domain.NewValidationError("Password must be at least %d characters", MinPasswordLength)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var created domain.User
	err = s.writer.Update(ctx, func(doc *domain.Document, now time.Time) (bool, error) {
		if doc.FindUserByEmail(email) != nil {
			return false, domain.NewConflictError("Email is already registered")
		}

		publicID, err := newPublicID(doc)
		if err != nil {
			return false, err
		}
		referralCode, err := newReferralCode(doc)
		if err != nil {
			return false, err
		}

		user := domain.User{
			ID:           uuid.New(),
			PublicID:     publicID,
			Name:         name,
			Email:        email,
			PasswordHash: string(hashed),
			ReferralCode: referralCode,
			CreatedAt:    now,
		}
		if code != "" {
			referrer := doc.FindUserByReferralCode(code)
			if referrer == nil {
				return false, domain.NewValidationError("Referral code %s does not exist", code)
			}
			referrerID := referrer.ID
			user.ReferredBy = &referrerID
		}

		doc.Users = append(doc.Users, user)
		doc.Credit(user.ID, decimal.Zero, now)
		created = user
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("[OK] User registered: id=%s public_id=%s", created.ID, created.PublicID)
	return &created, nil
}

// Authenticate checks the email and password and returns the user
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	var found *domain.User
	err := s.writer.View(ctx, func(doc *domain.Document, _ time.Time) error {
		if u := doc.FindUserByEmail(strings.TrimSpace(email)); u != nil {
			user := *u
			found = &user
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return found, nil
}

// GetUser returns the user with the given id
func (s *AccountService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var found *domain.User
	err := s.writer.View(ctx, func(doc *domain.Document, _ time.Time) error {
		u := doc.FindUser(id)
		if u == nil {
			return domain.NewNotFoundError("User")
		}
		user := *u
		found = &user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// newPublicID picks a random free five-digit id. After a bounded number of
// misses it takes the lowest free id, and fails once the range is exhausted.
func newPublicID(doc *domain.Document) (string, error) {
	taken := make(map[string]struct{}, len(doc.Users))
	for _, u := range doc.Users {
		taken[u.PublicID] = struct{}{}
	}

	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := strconv.Itoa(domain.PublicIDMin + rand.Intn(domain.PublicIDMax-domain.PublicIDMin+1))
		if _, ok := taken[id]; !ok {
			return id, nil
		}
	}
	for n := domain.PublicIDMin; n <= domain.PublicIDMax; n++ {
		if _, ok := taken[strconv.Itoa(n)]; !ok {
			return strconv.Itoa(n), nil
		}
	}
	return "", domain.NewConflictError("No public ids are left")
}

func newReferralCode(doc *domain.Document) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		b := make([]byte, referralCodeLength)
		for i := range b {
			b[i] = referralCodeAlphabet[rand.Intn(len(referralCodeAlphabet))]
		}
		if doc.FindUserByReferralCode(string(b)) == nil {
			return string(b), nil
		}
	}
	return "", domain.NewConflictError("Could not allocate a referral code")
}
