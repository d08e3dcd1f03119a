package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	walletDomain "propvest-backend/internal/domain/wallet"
	"propvest-backend/internal/usecase/rental"
)

type RentalHandler struct {
	uc   *rental.Usecase
	proc *rental.Processor
}

func NewRentalHandler(uc *rental.Usecase, proc *rental.Processor) *RentalHandler {
	return &RentalHandler{uc: uc, proc: proc}
}

type openPeriodReq struct {
	AssetID   string `json:"asset_id"   validate:"required,hex24"`
	Month     int    `json:"month"      validate:"required,gte=1,lte=12"`
	Year      int    `json:"year"       validate:"required,gte=2000,lte=2200"`
	CreatedBy string `json:"created_by" validate:"required,hex24"`
}

func (h *RentalHandler) OpenPeriod(c echo.Context) error {
	var req openPeriodReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	p, err := h.uc.OpenPeriod(c.Request().Context(), rental.OpenPeriodInput{
		AssetID:   req.AssetID,
		Month:     req.Month,
		Year:      req.Year,
		CreatedBy: req.CreatedBy,
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

type expenseReq struct {
	Label  string  `json:"label"  validate:"required,max=120"`
	Amount float64 `json:"amount" validate:"gte=0,dec2"`
	Code   string  `json:"code"   validate:"omitempty,max=32"`
}

type computeDistributionReq struct {
	AssetID           string       `json:"asset_id"            validate:"required,hex24"`
	Month             int          `json:"month"               validate:"required,gte=1,lte=12"`
	Year              int          `json:"year"                validate:"required,gte=2000,lte=2200"`
	Currency          string       `json:"currency"            validate:"omitempty,currency"`
	GrossRentalIncome float64      `json:"gross_rental_income" validate:"gte=0,dec2"`
	Expenses          []expenseReq `json:"expenses"            validate:"omitempty,dive"`
}

func (h *RentalHandler) ComputeDistribution(c echo.Context) error {
	var req computeDistributionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	in := rental.ComputeInput{
		AssetID:           req.AssetID,
		Month:             req.Month,
		Year:              req.Year,
		Currency:          walletDomain.Currency(req.Currency),
		GrossRentalIncome: decimal.NewFromFloat(req.GrossRentalIncome),
	}
	for _, e := range req.Expenses {
		in.Expenses = append(in.Expenses, rental.ExpenseInput{
			Label:  e.Label,
			Amount: decimal.NewFromFloat(e.Amount),
			Code:   e.Code,
		})
	}

	dist, pays, err := h.uc.ComputeDistribution(c.Request().Context(), in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"distribution": dist,
		"payments":     pays,
	})
}

type processReq struct {
	ForceProcess  bool  `json:"force_process"`
	CreditWallets *bool `json:"credit_wallets"`
}

func (h *RentalHandler) Process(c echo.Context) error {
	distributionID := c.Param("distribution_id")
	if !reHex24.MatchString(distributionID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid distribution_id path param"})
	}
	var req processReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	opts := rental.ProcessOptions{ForceProcess: req.ForceProcess}
	if req.CreditWallets != nil && !*req.CreditWallets {
		opts.SkipWalletCredit = true
	}

	sum, err := h.proc.Process(c.Request().Context(), distributionID, opts)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, sum)
}

type cancelReq struct {
	Reason string `json:"reason" validate:"omitempty,max=255"`
}

func (h *RentalHandler) Cancel(c echo.Context) error {
	distributionID := c.Param("distribution_id")
	if !reHex24.MatchString(distributionID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid distribution_id path param"})
	}
	var req cancelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	sum, err := h.proc.Cancel(c.Request().Context(), distributionID, req.Reason)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, sum)
}

func (h *RentalHandler) Summary(c echo.Context) error {
	distributionID := c.Param("distribution_id")
	if !reHex24.MatchString(distributionID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid distribution_id path param"})
	}
	sum, err := h.proc.Summarize(c.Request().Context(), distributionID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, sum)
}
