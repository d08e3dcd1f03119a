package http

import (
	"bytes"
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"propvest-backend/internal/domain/uow"
	walletDomain "propvest-backend/internal/domain/wallet"
	"propvest-backend/internal/testutil/uowmock"
	"propvest-backend/internal/testutil/walletmock"
	uc "propvest-backend/internal/usecase/wallet"
)

// -------- helpers --------

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

var (
	ownerA   = strings.Repeat("a", 24)
	ownerB   = strings.Repeat("b", 24)
	accountA = strings.Repeat("1", 24)
)

// creditFixture wires a wallet usecase whose account tx hands the body a
// fixed, already-locked account.
func creditFixture(repo *walletmock.Repo, account *walletDomain.Account) *uc.Usecase {
	mockUoW := &uowmock.UoW{
		WithinAccountTxFn: func(ctx context.Context, target walletDomain.Target, fn func(r uow.Repos, a *walletDomain.Account) error) error {
			return fn(uow.Repos{Wallets: repo}, account)
		},
	}
	return uc.NewUsecase(repo, mockUoW, nil)
}

// -------- tests --------

func TestWalletCredit_Success(t *testing.T) {
	e := newEchoWithValidator()

	account := &walletDomain.Account{AccountID: accountA, OwnerID: ownerA, Currency: walletDomain.CurrencyINR}
	var created *walletDomain.Transaction
	repo := &walletmock.Repo{
		GetTransactionByReferenceFn: func(context.Context, string, string) (*walletDomain.Transaction, error) {
			return nil, gorm.ErrRecordNotFound
		},
		CreateTransactionFn: func(_ context.Context, txn *walletDomain.Transaction) error {
			created = txn
			return nil
		},
		SaveAccountFn: func(context.Context, *walletDomain.Account) error { return nil },
	}
	h := NewWalletHandler(creditFixture(repo, account))

	req := httptest.NewRequest(stdhttp.MethodPost, "/wallets/credit", mustJSON(map[string]any{
		"owner_id":  ownerA,
		"currency":  "INR",
		"amount":    150.25,
		"reference": "topup-1",
	}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Credit(c); err != nil {
		t.Fatalf("Credit error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", rec.Code, rec.Body.String())
	}
	if created == nil {
		t.Fatalf("no transaction created")
	}
	if created.Reference != "topup-1" || !created.BalanceAfter.Equal(created.Amount) {
		t.Fatalf("unexpected transaction: %+v", created)
	}
}

func TestWalletCredit_ValidationFailure(t *testing.T) {
	e := newEchoWithValidator()
	h := NewWalletHandler(uc.NewUsecase(&walletmock.Repo{}, uowmock.New(), nil))

	req := httptest.NewRequest(stdhttp.MethodPost, "/wallets/credit", mustJSON(map[string]any{
		"owner_id":  "not-hex",
		"currency":  "EUR",
		"amount":    10.123,
		"reference": "r",
	}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Credit(c); err != nil {
		t.Fatalf("Credit error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var er ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if !containsFieldMsg(er.Details, "OwnerID", "hex") {
		t.Fatalf("missing OwnerID detail: %+v", er.Details)
	}
	if !containsFieldMsg(er.Details, "Currency", "INR") {
		t.Fatalf("missing Currency detail: %+v", er.Details)
	}
	if !containsFieldMsg(er.Details, "Amount", "decimal") {
		t.Fatalf("missing Amount detail: %+v", er.Details)
	}
}

func TestWalletCredit_BindError(t *testing.T) {
	e := newEchoWithValidator()
	h := NewWalletHandler(uc.NewUsecase(&walletmock.Repo{}, uowmock.New(), nil))

	req := httptest.NewRequest(stdhttp.MethodPost, "/wallets/credit", strings.NewReader(`{"owner_id":`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Credit(c); err != nil {
		t.Fatalf("Credit error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestWalletDebit_InsufficientFunds(t *testing.T) {
	e := newEchoWithValidator()

	// zero-balance locked account; any debit overdraws
	account := &walletDomain.Account{AccountID: accountA, OwnerID: ownerA, Currency: walletDomain.CurrencyINR}
	repo := &walletmock.Repo{
		GetTransactionByReferenceFn: func(context.Context, string, string) (*walletDomain.Transaction, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	h := NewWalletHandler(creditFixture(repo, account))

	req := httptest.NewRequest(stdhttp.MethodPost, "/wallets/debit", mustJSON(map[string]any{
		"owner_id":  ownerA,
		"currency":  "INR",
		"amount":    5.00,
		"reference": "wd-1",
	}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Debit(c); err != nil {
		t.Fatalf("Debit error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body=%s", rec.Code, rec.Body.String())
	}
	var er ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if !strings.Contains(er.Error, "insufficient") {
		t.Fatalf("error = %q", er.Error)
	}
}

func TestWalletBalance_NotFound(t *testing.T) {
	e := newEchoWithValidator()
	repo := &walletmock.Repo{
		GetAccountByOwnerFn: func(context.Context, string, walletDomain.Currency) (*walletDomain.Account, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	h := NewWalletHandler(uc.NewUsecase(repo, uowmock.New(), nil))

	req := httptest.NewRequest(stdhttp.MethodGet, "/wallets/"+ownerB+"/balance?currency=USD", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("owner_id")
	c.SetParamValues(ownerB)

	if err := h.Balance(c); err != nil {
		t.Fatalf("Balance error: %v", err)
	}
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestWalletBalance_BadOwnerParam(t *testing.T) {
	e := newEchoWithValidator()
	h := NewWalletHandler(uc.NewUsecase(&walletmock.Repo{}, uowmock.New(), nil))

	req := httptest.NewRequest(stdhttp.MethodGet, "/wallets/XYZ/balance", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("owner_id")
	c.SetParamValues("XYZ")

	if err := h.Balance(c); err != nil {
		t.Fatalf("Balance error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestWalletCreateAccount_Success(t *testing.T) {
	e := newEchoWithValidator()
	repo := &walletmock.Repo{
		GetAccountByOwnerFn: func(context.Context, string, walletDomain.Currency) (*walletDomain.Account, error) {
			return nil, gorm.ErrRecordNotFound
		},
		CreateAccountFn: func(context.Context, *walletDomain.Account) error { return nil },
	}
	h := NewWalletHandler(uc.NewUsecase(repo, uowmock.New(), nil))

	req := httptest.NewRequest(stdhttp.MethodPost, "/wallets/accounts", mustJSON(map[string]any{
		"owner_id": ownerA,
		"currency": "USDC",
		"label":    "settlement",
	}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateAccount(c); err != nil {
		t.Fatalf("CreateAccount error: %v", err)
	}
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201, body=%s", rec.Code, rec.Body.String())
	}
	var got walletDomain.Account
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.OwnerID != ownerA || got.Currency != walletDomain.CurrencyUSDC {
		t.Fatalf("unexpected account: %+v", got)
	}
}
