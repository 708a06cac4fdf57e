// Package domain provides defenitions of all entities.
package domain

import (
	"database/sql"
	"errors"
	"time"
)

var (
	// ErrAccountNotFound indicates that the account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountOwnerMismatch indicates that the account belongs to another user.
	ErrAccountOwnerMismatch = errors.New("account owner mismatch")
	// ErrAccountClosed indicates that the account has already been closed.
	ErrAccountClosed = errors.New("account already closed")
	// ErrBalanceNotEmpty indicates that the account still holds a balance.
	ErrBalanceNotEmpty = errors.New("account balance not empty")
	// ErrMaxAccountsReached indicates that the owner holds the maximum number of active accounts.
	ErrMaxAccountsReached = errors.New("maximum number of accounts per user reached")
	// ErrAccountNumberTaken indicates that the generated account number is already assigned.
	ErrAccountNumberTaken = errors.New("account number already taken")
	// ErrAccountNumbersExhausted indicates that no unused account number was found.
	ErrAccountNumbersExhausted = errors.New("account numbers exhausted")
)

// MaxAccountsPerUser limits how many active accounts a single user may hold.
const MaxAccountsPerUser = 10

// AccountStatus represents the lifecycle state of an account.
type AccountStatus string

// Account lifecycle states. A closed account never becomes active again.
const (
	StatusActive AccountStatus = "ACTIVE"
	StatusClosed AccountStatus = "CLOSED"
)

// Account holds a single bank account owned by a user.
type Account struct {
	ID            int64         `json:"id"`
	OwnerID       int64         `json:"owner_id"`
	AccountNumber string        `json:"account_number"`
	Balance       int64         `json:"balance"`
	Status        AccountStatus `json:"status"`
	OpenedAt      time.Time     `json:"opened_at"`
	ClosedAt      sql.NullTime  `json:"closed_at"`
}

// AccountSummary is the projection of an account returned to callers.
type AccountSummary struct {
	AccountNumber string `json:"account_number"`
	Balance       int64  `json:"balance"`
}

// Summary projects the account to its caller-facing view.
func (a Account) Summary() AccountSummary {
	return AccountSummary{
		AccountNumber: a.AccountNumber,
		Balance:       a.Balance,
	}
}

// Closed returns a copy of the account moved to the closed state at the
// given time. The only legal transition is active to closed.
func (a Account) Closed(at time.Time) (Account, error) {
	if a.Status != StatusActive {
		return a, ErrAccountClosed
	}

	a.Status = StatusClosed
	a.ClosedAt = sql.NullTime{Time: at, Valid: true}

	return a, nil
}
