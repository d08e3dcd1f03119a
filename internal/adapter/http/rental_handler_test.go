package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	rentalDomain "propvest-backend/internal/domain/rental"
	"propvest-backend/internal/domain/uow"
	"propvest-backend/internal/testutil/portfoliomock"
	"propvest-backend/internal/testutil/rentalmock"
	"propvest-backend/internal/testutil/uowmock"
	uc "propvest-backend/internal/usecase/rental"
)

var assetA = strings.Repeat("2", 24)

func newRentalHandler(periods *rentalmock.PeriodRepo, dists *rentalmock.DistributionRepo, payments *rentalmock.PaymentRepo, tx *uowmock.UoW) *RentalHandler {
	engine := uc.NewUsecase(periods, dists, payments, &portfoliomock.Repo{}, tx, nil)
	proc := uc.NewProcessor(dists, payments, nil, tx, nil)
	return NewRentalHandler(engine, proc)
}

func TestOpenPeriod_Success(t *testing.T) {
	e := newEchoWithValidator()

	periods := &rentalmock.PeriodRepo{
		GetByAssetMonthFn: func(context.Context, string, int, int) (*rentalDomain.Period, error) {
			return nil, gorm.ErrRecordNotFound
		},
		CreateFn: func(context.Context, *rentalDomain.Period) error { return nil },
	}
	h := newRentalHandler(periods, &rentalmock.DistributionRepo{}, &rentalmock.PaymentRepo{}, uowmock.New())

	req := httptest.NewRequest(stdhttp.MethodPost, "/rental/periods", mustJSON(map[string]any{
		"asset_id":   assetA,
		"month":      3,
		"year":       2026,
		"created_by": ownerA,
	}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.OpenPeriod(c); err != nil {
		t.Fatalf("OpenPeriod error: %v", err)
	}
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201, body=%s", rec.Code, rec.Body.String())
	}
	var got rentalDomain.Period
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.AssetID != assetA || got.Status != rentalDomain.PeriodPending {
		t.Fatalf("unexpected period: %+v", got)
	}
}

func TestOpenPeriod_Duplicate_Conflict(t *testing.T) {
	e := newEchoWithValidator()

	periods := &rentalmock.PeriodRepo{
		GetByAssetMonthFn: func(context.Context, string, int, int) (*rentalDomain.Period, error) {
			return &rentalDomain.Period{AssetID: assetA, Month: 3, Year: 2026}, nil
		},
	}
	h := newRentalHandler(periods, &rentalmock.DistributionRepo{}, &rentalmock.PaymentRepo{}, uowmock.New())

	req := httptest.NewRequest(stdhttp.MethodPost, "/rental/periods", mustJSON(map[string]any{
		"asset_id":   assetA,
		"month":      3,
		"year":       2026,
		"created_by": ownerA,
	}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.OpenPeriod(c); err != nil {
		t.Fatalf("OpenPeriod error: %v", err)
	}
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestOpenPeriod_ValidationFailure(t *testing.T) {
	e := newEchoWithValidator()
	h := newRentalHandler(&rentalmock.PeriodRepo{}, &rentalmock.DistributionRepo{}, &rentalmock.PaymentRepo{}, uowmock.New())

	req := httptest.NewRequest(stdhttp.MethodPost, "/rental/periods", mustJSON(map[string]any{
		"asset_id":   "short",
		"month":      13,
		"year":       2026,
		"created_by": ownerA,
	}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.OpenPeriod(c); err != nil {
		t.Fatalf("OpenPeriod error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var er ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if !containsFieldMsg(er.Details, "AssetID", "hex") {
		t.Fatalf("missing AssetID detail: %+v", er.Details)
	}
	if !containsFieldMsg(er.Details, "Month", "less than or equal") {
		t.Fatalf("missing Month detail: %+v", er.Details)
	}
}

func TestComputeDistribution_NegativeExpense_BadRequest(t *testing.T) {
	e := newEchoWithValidator()
	h := newRentalHandler(&rentalmock.PeriodRepo{}, &rentalmock.DistributionRepo{}, &rentalmock.PaymentRepo{}, uowmock.New())

	req := httptest.NewRequest(stdhttp.MethodPost, "/rental/distributions", mustJSON(map[string]any{
		"asset_id":            assetA,
		"month":               3,
		"year":                2026,
		"gross_rental_income": 1000.00,
		"expenses":            []map[string]any{{"label": "rebate", "amount": -5.00}},
	}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ComputeDistribution(c); err != nil {
		t.Fatalf("ComputeDistribution error: %v", err)
	}
	// the validator's gte=0 on the expense line catches it before the usecase
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body=%s", rec.Code, rec.Body.String())
	}
}

func TestProcess_BadDistributionParam(t *testing.T) {
	e := newEchoWithValidator()
	h := newRentalHandler(&rentalmock.PeriodRepo{}, &rentalmock.DistributionRepo{}, &rentalmock.PaymentRepo{}, uowmock.New())

	req := httptest.NewRequest(stdhttp.MethodPost, "/rental/distributions/nope/process", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("distribution_id")
	c.SetParamValues("nope")

	if err := h.Process(c); err != nil {
		t.Fatalf("Process error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestSummary_NotFound(t *testing.T) {
	e := newEchoWithValidator()

	dists := &rentalmock.DistributionRepo{
		GetByDistributionIDFn: func(context.Context, string) (*rentalDomain.Distribution, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	h := newRentalHandler(&rentalmock.PeriodRepo{}, dists, &rentalmock.PaymentRepo{}, uowmock.New())

	distID := strings.Repeat("9", 24)
	req := httptest.NewRequest(stdhttp.MethodGet, "/rental/distributions/"+distID+"/summary", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("distribution_id")
	c.SetParamValues(distID)

	if err := h.Summary(c); err != nil {
		t.Fatalf("Summary error: %v", err)
	}
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestCancel_DistributedConflict(t *testing.T) {
	e := newEchoWithValidator()

	distID := strings.Repeat("9", 24)
	tx := uowmock.New()
	tx.WithinDistributionTxFn = func(_ context.Context, _ string, fn func(r uow.Repos, d *rentalDomain.Distribution) error) error {
		return fn(uow.Repos{}, &rentalDomain.Distribution{
			DistributionID: distID,
			Status:         rentalDomain.DistributionDistributed,
		})
	}
	h := newRentalHandler(&rentalmock.PeriodRepo{}, &rentalmock.DistributionRepo{}, &rentalmock.PaymentRepo{}, tx)

	req := httptest.NewRequest(stdhttp.MethodPost, "/rental/distributions/"+distID+"/cancel", mustJSON(map[string]any{
		"reason": "tenancy dispute",
	}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("distribution_id")
	c.SetParamValues(distID)

	if err := h.Cancel(c); err != nil {
		t.Fatalf("Cancel error: %v", err)
	}
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("status = %d, want 409, body=%s", rec.Code, rec.Body.String())
	}
}

func TestCancel_BadDistributionParam(t *testing.T) {
	e := newEchoWithValidator()
	h := newRentalHandler(&rentalmock.PeriodRepo{}, &rentalmock.DistributionRepo{}, &rentalmock.PaymentRepo{}, uowmock.New())

	req := httptest.NewRequest(stdhttp.MethodPost, "/rental/distributions/not-hex/cancel", mustJSON(map[string]any{}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("distribution_id")
	c.SetParamValues("not-hex")

	if err := h.Cancel(c); err != nil {
		t.Fatalf("Cancel error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
