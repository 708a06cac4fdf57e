// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ledgerkeep/accountapi/internal/domain"
	"github.com/ledgerkeep/accountapi/pkg/errorspkg"
)

// maxCreateAttempts bounds how many times an insert-time account number
// collision is retried with a fresh draw.
const maxCreateAttempts = 5

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, ownerID int64, accountNumber string, balance int64) (domain.Account, error)
	GetByNumber(ctx context.Context, accountNumber string) (domain.Account, error)
	CountActiveByOwner(ctx context.Context, ownerID int64) (int32, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Account, error)
	Close(ctx context.Context, accountNumber string, closedAt time.Time) (domain.Account, error)
}

// UserRepo provides the user directory lookup needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type UserRepo interface {
	Get(ctx context.Context, id int64) (domain.User, error)
}

// NumberGenerator provides unique account numbers.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type NumberGenerator interface {
	Next(ctx context.Context) (string, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo      Repo
	userRepo  UserRepo
	generator NumberGenerator
}

// New returns account service struct to manage account bussines logic.
func New(ar Repo, ur UserRepo, gen NumberGenerator) *Service {
	return &Service{
		repo:      ar,
		userRepo:  ur,
		generator: gen,
	}
}

// Open creates an account for the given owner with the given starting
// balance and returns its summary. The owner must exist and hold fewer
// than the maximum number of active accounts.
func (s *Service) Open(ctx context.Context, ownerID, initialBalance int64) (domain.AccountSummary, error) {
	l := zerolog.Ctx(ctx)

	var summary domain.AccountSummary

	owner, err := s.userRepo.Get(ctx, ownerID)
	if err != nil {
		return summary, err
	}

	count, err := s.repo.CountActiveByOwner(ctx, owner.ID)
	if err != nil {
		return summary, err
	}

	if count >= domain.MaxAccountsPerUser {
		l.Info().Int64("owner_id", owner.ID).Msg("account limit reached")
		return summary, domain.ErrMaxAccountsReached
	}

	// The generator checks uniqueness before the insert, but the check is
	// not atomic with it. A concurrent create can win the number, so the
	// store collision is retried with a fresh draw.
	for i := 0; i < maxCreateAttempts; i++ {
		number, err := s.generator.Next(ctx)
		if err != nil {
			return summary, err
		}

		account, err := s.repo.Create(ctx, owner.ID, number, initialBalance)
		if err == domain.ErrAccountNumberTaken {
			l.Info().Str("account_number", number).Msg("account number collision, redrawing")
			continue
		}

		if err != nil {
			return summary, err
		}

		return account.Summary(), nil
	}

	l.Error().Int("attempts", maxCreateAttempts).Msg("account number collisions exhausted retries")

	return summary, domain.ErrAccountNumbersExhausted
}

// Close marks the owner's account closed and returns its summary. The
// account must belong to the owner, still be active and hold no balance.
func (s *Service) Close(ctx context.Context, ownerID int64, accountNumber string) (domain.AccountSummary, error) {
	var summary domain.AccountSummary

	owner, err := s.userRepo.Get(ctx, ownerID)
	if err != nil {
		return summary, err
	}

	account, err := s.repo.GetByNumber(ctx, accountNumber)
	if err != nil {
		return summary, err
	}

	if err := validClose(ctx, owner.ID, account); err != nil {
		return summary, err
	}

	closed, err := s.repo.Close(ctx, account.AccountNumber, time.Now().UTC())
	if err == domain.ErrAccountNotFound {
		// Validation passed but the guarded update matched nothing, so a
		// concurrent writer got there first. Re-read to report why.
		account, err = s.repo.GetByNumber(ctx, accountNumber)
		if err != nil {
			return summary, err
		}

		if err := validClose(ctx, owner.ID, account); err != nil {
			return summary, err
		}

		return summary, errorspkg.ErrInternal
	}

	if err != nil {
		return summary, err
	}

	return closed.Summary(), nil
}

// validClose checks the closure preconditions. The order is fixed:
// ownership before status before balance, so a caller that does not own
// the account learns nothing about its state.
func validClose(ctx context.Context, ownerID int64, account domain.Account) error {
	l := zerolog.Ctx(ctx)

	if account.OwnerID != ownerID {
		l.Info().Int64("owner_id", ownerID).Msg("close rejected: owner mismatch")
		return domain.ErrAccountOwnerMismatch
	}

	if _, err := account.Closed(time.Now()); err != nil {
		l.Info().Str("account_number", account.AccountNumber).Msg("close rejected: already closed")
		return err
	}

	if account.Balance != 0 {
		l.Info().Str("account_number", account.AccountNumber).Msg("close rejected: balance not empty")
		return domain.ErrBalanceNotEmpty
	}

	return nil
}

// ListByOwner returns summaries of all accounts owned by the given user,
// closed ones included.
func (s *Service) ListByOwner(ctx context.Context, ownerID int64) ([]domain.AccountSummary, error) {
	owner, err := s.userRepo.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	accounts, err := s.repo.ListByOwner(ctx, owner.ID)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.AccountSummary, 0, len(accounts))
	for _, a := range accounts {
		summaries = append(summaries, a.Summary())
	}

	return summaries, nil
}
