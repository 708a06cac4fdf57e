// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/ledgerkeep/accountapi/internal/domain"
	"github.com/ledgerkeep/accountapi/pkg/dbpkg"
	"github.com/ledgerkeep/accountapi/pkg/errorspkg"
)

// RepoPGS facilitates account repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns account RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{
		db: db,
	}
}

// The insert and its per-owner limit check run as one statement so two
// concurrent creates cannot both slip under the limit.
const createQuery = `
INSERT INTO
	accounts (owner_id, account_number, balance, status)
SELECT
	$1, $2, $3, 'ACTIVE'
WHERE
	(SELECT COUNT(*) FROM accounts WHERE owner_id = $1 AND status = 'ACTIVE') < $4
RETURNING id, owner_id, account_number, balance, status, opened_at, closed_at
`

// Create inserts the account and then returns it. It fails with
// domain.ErrMaxAccountsReached when the owner already holds the maximum
// number of active accounts and with domain.ErrAccountNumberTaken when the
// account number is already assigned.
func (r *RepoPGS) Create(ctx context.Context, ownerID int64, accountNumber string, balance int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, ownerID, accountNumber, balance, domain.MaxAccountsPerUser)

	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.OwnerID,
		&a.AccountNumber,
		&a.Balance,
		&a.Status,
		&a.OpenedAt,
		&a.ClosedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrMaxAccountsReached
		}

		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "accounts_owner_id_fkey":
				return a, domain.ErrUserNotFound
			case "accounts_account_number_key":
				return a, domain.ErrAccountNumberTaken
			}
		}

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getQuery = `
SELECT
	id, owner_id, account_number, balance, status, opened_at, closed_at
FROM accounts
WHERE id = $1
`

// Get returns the account with the given id.
func (r *RepoPGS) Get(ctx context.Context, id int64) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getQuery, id)

	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.OwnerID,
		&a.AccountNumber,
		&a.Balance,
		&a.Status,
		&a.OpenedAt,
		&a.ClosedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const getByNumberQuery = `
SELECT
	id, owner_id, account_number, balance, status, opened_at, closed_at
FROM accounts
WHERE account_number = $1
`

// GetByNumber returns the account with the given account number.
func (r *RepoPGS) GetByNumber(ctx context.Context, accountNumber string) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, getByNumberQuery, accountNumber)

	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.OwnerID,
		&a.AccountNumber,
		&a.Balance,
		&a.Status,
		&a.OpenedAt,
		&a.ClosedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}

const countActiveByOwnerQuery = `
SELECT COUNT(*)
FROM accounts
WHERE owner_id = $1 AND status = 'ACTIVE'
`

// CountActiveByOwner returns the number of active accounts held by the owner.
func (r *RepoPGS) CountActiveByOwner(ctx context.Context, ownerID int64) (int32, error) {
	l := zerolog.Ctx(ctx)

	var count int32

	err := r.db.QueryRowContext(ctx, countActiveByOwnerQuery, ownerID).Scan(&count)
	if err != nil {
		l.Error().Err(err).Send()
		return 0, errorspkg.ErrInternal
	}

	return count, nil
}

const listByOwnerQuery = `
SELECT
	id, owner_id, account_number, balance, status, opened_at, closed_at
FROM accounts
WHERE owner_id = $1
ORDER BY id
`

// ListByOwner returns all accounts of the owner, closed ones included.
func (r *RepoPGS) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listByOwnerQuery, ownerID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}
	defer rows.Close()

	items := []domain.Account{}

	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.AccountNumber, &a.Balance, &a.Status, &a.OpenedAt, &a.ClosedAt); err != nil {
			l.Error().Err(err).Send()
			return nil, errorspkg.ErrInternal
		}

		items = append(items, a)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, errorspkg.ErrInternal
	}

	return items, nil
}

const numberExistsQuery = `
SELECT EXISTS (
	SELECT 1 FROM accounts WHERE account_number = $1
)
`

// NumberExists reports whether the account number is already assigned.
func (r *RepoPGS) NumberExists(ctx context.Context, accountNumber string) (bool, error) {
	l := zerolog.Ctx(ctx)

	var exists bool

	err := r.db.QueryRowContext(ctx, numberExistsQuery, accountNumber).Scan(&exists)
	if err != nil {
		l.Error().Err(err).Send()
		return false, errorspkg.ErrInternal
	}

	return exists, nil
}

// The update re-checks status and balance in its WHERE clause so a close
// racing with another close or with a deposit touches nothing.
const closeQuery = `
UPDATE accounts
SET status = 'CLOSED', closed_at = $2
WHERE account_number = $1 AND status = 'ACTIVE' AND balance = 0
RETURNING id, owner_id, account_number, balance, status, opened_at, closed_at
`

// Close marks the account closed and stamps the closure time. It fails with
// domain.ErrAccountNotFound when no active zero-balance account matches.
func (r *RepoPGS) Close(ctx context.Context, accountNumber string, closedAt time.Time) (domain.Account, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, closeQuery, accountNumber, closedAt)

	var a domain.Account

	err := row.Scan(
		&a.ID,
		&a.OwnerID,
		&a.AccountNumber,
		&a.Balance,
		&a.Status,
		&a.OpenedAt,
		&a.ClosedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return a, domain.ErrAccountNotFound
		}

		l.Error().Err(err).Send()

		return a, errorspkg.ErrInternal
	}

	return a, nil
}
