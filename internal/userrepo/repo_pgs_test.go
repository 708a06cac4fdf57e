package userrepo

import (
	"context"
	"log"
	"os"
	"testing"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/ledgerkeep/accountapi/internal/domain"
	"github.com/ledgerkeep/accountapi/pkg/configpkg"
	"github.com/ledgerkeep/accountapi/pkg/dbpkg"
	"github.com/ledgerkeep/accountapi/pkg/randompkg"
)

var config configpkg.Config

func TestMain(m *testing.M) {
	var err error

	config, err = configpkg.Load("../../configs")
	if err != nil {
		log.Fatal("cannot load config:", err)
	}

	os.Exit(m.Run())
}

func TestCreate(t *testing.T) {
	tx := dbpkg.SetupTX(t, config.DBDriver, config.DBSource)
	testRepo := NewRepoPGS(tx)

	name := randompkg.Name()
	email := randompkg.Email()

	user, err := testRepo.Create(context.Background(), name, email)
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.Equal(t, name, user.Name)
	require.Equal(t, email, user.Email)
	require.NotZero(t, user.CreatedAt)

	t.Run("DuplicateEmail", func(t *testing.T) {
		_, err := testRepo.Create(context.Background(), randompkg.Name(), email)
		require.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
	})
}

func TestGet(t *testing.T) {
	tx := dbpkg.SetupTX(t, config.DBDriver, config.DBSource)
	testRepo := NewRepoPGS(tx)

	created, err := testRepo.Create(context.Background(), randompkg.Name(), randompkg.Email())
	require.NoError(t, err)

	user, err := testRepo.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, created, user)

	_, err = testRepo.Get(context.Background(), created.ID+7777)
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}
