// Package accountdelivery manages delivery layer of accounts.
package accountdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/ledgerkeep/accountapi/internal/domain"
	"github.com/ledgerkeep/accountapi/pkg/errorspkg"
	"github.com/ledgerkeep/accountapi/pkg/web"
)

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	Open(ctx context.Context, ownerID, initialBalance int64) (domain.AccountSummary, error)
	Close(ctx context.Context, ownerID int64, accountNumber string) (domain.AccountSummary, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.AccountSummary, error)
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns account handler.
func NewHandler(as Service) Handler {
	return Handler{service: as}
}

type data struct {
	Account domain.AccountSummary `json:"account"`
}
type response struct {
	Data data `json:"data,omitempty"`
}

type openRequest struct {
	UserID         int64 `json:"user_id" binding:"required,min=1"`
	InitialBalance int64 `json:"initial_balance" binding:"required,min=1,max=100"`
}

// Open handles http request to open an account.
func (h *Handler) Open(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req openRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		var (
			ve     validator.ValidationErrors
			errMsg string
		)

		if errors.As(err, &ve) {
			field := ve[0]
			errMsg = field.Field() + web.GetErrorMsg(field)
		}

		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: errMsg})

		return
	}

	summary, err := h.service.Open(ctx, req.UserID, req.InitialBalance)
	if err != nil {
		switch err {
		case domain.ErrUserNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		case domain.ErrMaxAccountsReached:
			gctx.JSON(http.StatusConflict, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := response{
		Data: data{summary},
	}

	gctx.JSON(http.StatusCreated, res)
}

type closeRequest struct {
	UserID        int64  `json:"user_id" binding:"required,min=1"`
	AccountNumber string `json:"account_number" binding:"required,len=10,numeric"`
}

// Close handles http request to close an account.
func (h *Handler) Close(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req closeRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		var (
			ve     validator.ValidationErrors
			errMsg string
		)

		if errors.As(err, &ve) {
			field := ve[0]
			errMsg = field.Field() + web.GetErrorMsg(field)
		}

		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: errMsg})

		return
	}

	summary, err := h.service.Close(ctx, req.UserID, req.AccountNumber)
	if err != nil {
		switch err {
		case domain.ErrUserNotFound, domain.ErrAccountNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		case domain.ErrAccountOwnerMismatch:
			gctx.JSON(http.StatusForbidden, web.Error(err))
			return
		case domain.ErrAccountClosed, domain.ErrBalanceNotEmpty:
			gctx.JSON(http.StatusConflict, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := response{
		Data: data{summary},
	}

	gctx.JSON(http.StatusOK, res)
}

type listRequest struct {
	UserID int64 `uri:"user_id" binding:"required,min=1"`
}

type dataAccounts struct {
	Accounts []domain.AccountSummary `json:"accounts"`
}
type responseAccounts struct {
	Data dataAccounts `json:"data,omitempty"`
}

// List handles http request to list a user's accounts.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(gctx)

	var req listRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		var (
			ve     validator.ValidationErrors
			errMsg string
		)

		if errors.As(err, &ve) {
			field := ve[0]
			errMsg = field.Field() + web.GetErrorMsg(field)
		}

		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Response{Error: errMsg})

		return
	}

	summaries, err := h.service.ListByOwner(ctx, req.UserID)
	if err != nil {
		if err == domain.ErrUserNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := responseAccounts{
		Data: dataAccounts{summaries},
	}

	gctx.JSON(http.StatusOK, res)
}
