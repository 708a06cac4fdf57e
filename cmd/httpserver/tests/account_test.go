//go:build integration

package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ledgerkeep/accountapi/internal/domain"
	"github.com/ledgerkeep/accountapi/internal/integrationtest"
	"github.com/ledgerkeep/accountapi/internal/test"
	"github.com/ledgerkeep/accountapi/pkg/web"
)

type accountData struct {
	Account domain.AccountSummary `json:"account"`
}

type accountResponse struct {
	Data accountData `json:"data"`
}

type accountsResponse struct {
	Data struct {
		Accounts []domain.AccountSummary `json:"accounts"`
	} `json:"data"`
}

func openAccount(t *testing.T, userID, initialBalance int64) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(map[string]any{"user_id": userID, "initial_balance": initialBalance})
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
	server.ServeHTTP(recorder, req)

	return recorder
}

func closeAccount(t *testing.T, userID int64, accountNumber string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(map[string]any{"user_id": userID, "account_number": accountNumber})
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/accounts", bytes.NewReader(body))
	server.ServeHTTP(recorder, req)

	return recorder
}

func TestOpenAccountAPI(t *testing.T) {
	defer integrationtest.Flush(t, server.DB)

	user := test.SeedUser(t, server.DB)

	recorder := openAccount(t, user.ID, 100)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var res accountResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
	require.Len(t, res.Data.Account.AccountNumber, 10)
	require.Equal(t, int64(100), res.Data.Account.Balance)

	t.Run("UnknownUser", func(t *testing.T) {
		recorder := openAccount(t, user.ID+7777, 100)
		require.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("LimitReached", func(t *testing.T) {
		for i := 0; i < domain.MaxAccountsPerUser-1; i++ {
			recorder := openAccount(t, user.ID, 1)
			require.Equal(t, http.StatusCreated, recorder.Code)
		}

		recorder := openAccount(t, user.ID, 1)
		require.Equal(t, http.StatusConflict, recorder.Code)

		var res web.JSONError
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
		require.Equal(t, domain.ErrMaxAccountsReached.Error(), res.Error)
	})
}

func TestCloseAccountAPI(t *testing.T) {
	defer integrationtest.Flush(t, server.DB)

	user := test.SeedUser(t, server.DB)
	otherUser := test.SeedUser(t, server.DB)

	emptyAccount := test.SeedAccount(t, server.DB, user.ID, 0)
	fundedAccount := test.SeedAccount(t, server.DB, user.ID, 500)

	t.Run("OwnerMismatch", func(t *testing.T) {
		recorder := closeAccount(t, otherUser.ID, emptyAccount.AccountNumber)
		require.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("BalanceNotEmpty", func(t *testing.T) {
		recorder := closeAccount(t, user.ID, fundedAccount.AccountNumber)
		require.Equal(t, http.StatusConflict, recorder.Code)

		var res web.JSONError
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
		require.Equal(t, domain.ErrBalanceNotEmpty.Error(), res.Error)
	})

	t.Run("OK", func(t *testing.T) {
		recorder := closeAccount(t, user.ID, emptyAccount.AccountNumber)
		require.Equal(t, http.StatusOK, recorder.Code)

		var res accountResponse
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
		require.Equal(t, emptyAccount.AccountNumber, res.Data.Account.AccountNumber)
		require.Zero(t, res.Data.Account.Balance)
	})

	t.Run("AlreadyClosed", func(t *testing.T) {
		recorder := closeAccount(t, user.ID, emptyAccount.AccountNumber)
		require.Equal(t, http.StatusConflict, recorder.Code)

		var res web.JSONError
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
		require.Equal(t, domain.ErrAccountClosed.Error(), res.Error)
	})

	t.Run("UnknownAccount", func(t *testing.T) {
		recorder := closeAccount(t, user.ID, "0000000000")
		require.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestListAccountsAPI(t *testing.T) {
	defer integrationtest.Flush(t, server.DB)

	user := test.SeedUser(t, server.DB)

	active := test.SeedAccount(t, server.DB, user.ID, 100)
	closed := test.SeedClosedAccount(t, server.DB, user.ID)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/accounts/%d", user.ID), nil)
	server.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)

	var res accountsResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
	require.ElementsMatch(t,
		[]domain.AccountSummary{active.Summary(), closed.Summary()},
		res.Data.Accounts,
	)

	t.Run("UnknownUser", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/accounts/%d", user.ID+7777), nil)
		server.ServeHTTP(recorder, req)

		require.Equal(t, http.StatusNotFound, recorder.Code)
	})
}
