package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	walletDomain "propvest-backend/internal/domain/wallet"
	"propvest-backend/internal/usecase/wallet"
)

type WalletHandler struct{ uc *wallet.Usecase }

func NewWalletHandler(uc *wallet.Usecase) *WalletHandler { return &WalletHandler{uc: uc} }

type createAccountReq struct {
	OwnerID  string `json:"owner_id" validate:"required,hex24"`
	Currency string `json:"currency" validate:"required,currency"`
	Label    string `json:"label"    validate:"omitempty,max=120"`
}

func (h *WalletHandler) CreateAccount(c echo.Context) error {
	var req createAccountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	a, err := h.uc.CreateAccount(c.Request().Context(), req.OwnerID, walletDomain.Currency(req.Currency), req.Label)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, a)
}

type entryReq struct {
	OwnerID   string  `json:"owner_id"  validate:"required_without=AccountID,omitempty,hex24"`
	AccountID string  `json:"account_id" validate:"omitempty,hex24"`
	Currency  string  `json:"currency"  validate:"required_without=AccountID,omitempty,currency"`
	Amount    float64 `json:"amount"    validate:"required,gt=0,dec2"`
	Reference string  `json:"reference" validate:"required,min=1,max=128"`
	Meta      string  `json:"meta"      validate:"omitempty,max=4096"`
}

func (r entryReq) toInput() wallet.EntryInput {
	return wallet.EntryInput{
		Target: walletDomain.Target{
			AccountID: r.AccountID,
			OwnerID:   r.OwnerID,
			Currency:  walletDomain.Currency(r.Currency),
		},
		Amount:    decimal.NewFromFloat(r.Amount),
		Reference: r.Reference,
		Meta:      r.Meta,
	}
}

func (h *WalletHandler) Credit(c echo.Context) error {
	var req entryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	txn, err := h.uc.Credit(c.Request().Context(), req.toInput())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, txn)
}

func (h *WalletHandler) Debit(c echo.Context) error {
	var req entryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	txn, err := h.uc.Debit(c.Request().Context(), req.toInput())
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, txn)
}

type transferReq struct {
	FromOwnerID string  `json:"from_owner_id" validate:"required,hex24"`
	ToOwnerID   string  `json:"to_owner_id"   validate:"required,hex24"`
	Currency    string  `json:"currency"      validate:"required,currency"`
	Amount      float64 `json:"amount"        validate:"required,gt=0,dec2"`
	Reference   string  `json:"reference"     validate:"required,min=1,max=120"`
	Meta        string  `json:"meta"          validate:"omitempty,max=4096"`
}

func (h *WalletHandler) Transfer(c echo.Context) error {
	var req transferReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	currency := walletDomain.Currency(req.Currency)
	res, err := h.uc.Transfer(c.Request().Context(), wallet.TransferInput{
		From:      walletDomain.Target{OwnerID: req.FromOwnerID, Currency: currency},
		To:        walletDomain.Target{OwnerID: req.ToOwnerID, Currency: currency},
		Amount:    decimal.NewFromFloat(req.Amount),
		Reference: req.Reference,
		Meta:      req.Meta,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *WalletHandler) Balance(c echo.Context) error {
	ownerID := c.Param("owner_id")
	if !reHex24.MatchString(ownerID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid owner_id path param"})
	}
	currency := walletDomain.Currency(c.QueryParam("currency"))
	if currency == "" {
		currency = walletDomain.CurrencyINR
	}
	a, err := h.uc.Balance(c.Request().Context(), ownerID, currency)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *WalletHandler) Transactions(c echo.Context) error {
	accountID := c.Param("account_id")
	if !reHex24.MatchString(accountID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid account_id path param"})
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if offset < 0 {
		offset = 0
	}
	txns, err := h.uc.Transactions(c.Request().Context(), accountID, limit, offset)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"transactions": txns})
}
