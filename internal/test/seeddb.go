// Package test provides shared test helpers.
package test

import (
	"context"
	"testing"
	"time"

	"github.com/ledgerkeep/accountapi/internal/accountrepo"
	"github.com/ledgerkeep/accountapi/internal/domain"
	"github.com/ledgerkeep/accountapi/internal/userrepo"
	"github.com/ledgerkeep/accountapi/pkg/dbpkg"
	"github.com/ledgerkeep/accountapi/pkg/randompkg"
)

// SeedUser creates random User inside a test transaction.
func SeedUser(t *testing.T, tx dbpkg.SQLInterface) domain.User {
	t.Helper()

	name := randompkg.Name()
	email := randompkg.Email()

	userRepo := userrepo.NewRepoPGS(tx)

	user, err := userRepo.Create(context.Background(), name, email)
	if err != nil {
		t.Fatalf("userRepo.Create(context.Background(), %v, %v) returned error: %v", name, email, err)
	}

	return user
}

// SeedAccount creates an active Account with the given balance inside a test transaction.
func SeedAccount(t *testing.T, tx dbpkg.SQLInterface, ownerID, balance int64) domain.Account {
	t.Helper()

	accountRepo := accountrepo.NewRepoPGS(tx)

	number := randompkg.Digits(10)

	account, err := accountRepo.Create(context.Background(), ownerID, number, balance)
	if err != nil {
		stmt := `accountRepo.Create(context.Background(), %v, %v, %v) returned error: %v`
		t.Fatalf(stmt, ownerID, number, balance, err)
	}

	return account
}

// SeedClosedAccount creates an already closed Account inside a test transaction.
func SeedClosedAccount(t *testing.T, tx dbpkg.SQLInterface, ownerID int64) domain.Account {
	t.Helper()

	account := SeedAccount(t, tx, ownerID, 0)

	accountRepo := accountrepo.NewRepoPGS(tx)

	closed, err := accountRepo.Close(context.Background(), account.AccountNumber, time.Now().UTC())
	if err != nil {
		t.Fatalf("accountRepo.Close(context.Background(), %v) returned error: %v", account.AccountNumber, err)
	}

	return closed
}
