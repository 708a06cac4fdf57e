//go:build integration

package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ledgerkeep/accountapi/internal/domain"
	"github.com/ledgerkeep/accountapi/internal/integrationtest"
	"github.com/ledgerkeep/accountapi/pkg/randompkg"
	"github.com/ledgerkeep/accountapi/pkg/web"
)

func TestCreateUserAPI(t *testing.T) {
	defer integrationtest.Flush(t, server.DB)

	name := randompkg.Name()
	email := randompkg.Email()

	body, err := json.Marshal(map[string]any{"name": name, "email": email})
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
	server.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusCreated, recorder.Code)

	var res struct {
		Data struct {
			User domain.User `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
	require.NotZero(t, res.Data.User.ID)
	require.Equal(t, name, res.Data.User.Name)
	require.Equal(t, email, res.Data.User.Email)

	t.Run("DuplicateEmail", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
		server.ServeHTTP(recorder, req)

		require.Equal(t, http.StatusConflict, recorder.Code)

		var res web.JSONError
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
		require.Equal(t, domain.ErrEmailAlreadyExists.Error(), res.Error)
	})
}
