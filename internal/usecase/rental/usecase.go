package rental

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"propvest-backend/internal/domain/portfolio"
	rentalDomain "propvest-backend/internal/domain/rental"
	"propvest-backend/internal/domain/uow"
	"propvest-backend/internal/domain/wallet"
	"propvest-backend/pkg/id"
	"propvest-backend/pkg/money"
)

// Usecase is the rental period and distribution engine: it opens asset-month
// periods, computes gross→net rental income, and allocates per-investor
// shares from the frozen token-ownership snapshot.
type Usecase struct {
	periods  rentalDomain.PeriodRepository
	dists    rentalDomain.DistributionRepository
	payments rentalDomain.PaymentRepository
	holdings portfolio.Repository
	uow      uow.UnitOfWork
	log      *zap.Logger
}

func NewUsecase(
	periods rentalDomain.PeriodRepository,
	dists rentalDomain.DistributionRepository,
	payments rentalDomain.PaymentRepository,
	holdings portfolio.Repository,
	tx uow.UnitOfWork,
	log *zap.Logger,
) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{periods: periods, dists: dists, payments: payments, holdings: holdings, uow: tx, log: log}
}

type OpenPeriodInput struct {
	AssetID   string
	Month     int
	Year      int
	CreatedBy string
}

// OpenPeriod creates the PENDING audit record for one asset-month. The
// (asset, month, year) unique index is the backstop against concurrent opens.
func (u *Usecase) OpenPeriod(ctx context.Context, in OpenPeriodInput) (*rentalDomain.Period, error) {
	if in.Month < 1 || in.Month > 12 {
		return nil, rentalDomain.ErrInvalidMonth
	}

	if _, err := u.periods.GetByAssetMonth(ctx, in.AssetID, in.Month, in.Year); err == nil {
		return nil, rentalDomain.ErrDuplicatePeriod
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	p := &rentalDomain.Period{
		PeriodID:        id.NewID24(),
		AssetID:         in.AssetID,
		Month:           in.Month,
		Year:            in.Year,
		Status:          rentalDomain.PeriodPending,
		CreatedBy:       in.CreatedBy,
		StatusUpdatedAt: time.Now().UTC(),
	}
	if err := u.periods.Create(ctx, p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, rentalDomain.ErrDuplicatePeriod
		}
		return nil, err
	}

	u.log.Info("rental period opened",
		zap.String("period_id", p.PeriodID),
		zap.String("asset_id", p.AssetID),
		zap.Int("month", p.Month),
		zap.Int("year", p.Year))
	return p, nil
}

type ExpenseInput struct {
	Label  string
	Amount decimal.Decimal
	Code   string
}

type ComputeInput struct {
	AssetID           string
	Month             int
	Year              int
	Currency          wallet.Currency
	GrossRentalIncome decimal.Decimal
	Expenses          []ExpenseInput
}

// ComputeDistribution builds the asset-level roll-up for one month and the
// per-investor payment rows, all inside one transaction. Totals are derived
// from the expense lines and the gross figure; the ownership snapshot is
// frozen at computation time. Requires an open (non-terminal) period.
func (u *Usecase) ComputeDistribution(ctx context.Context, in ComputeInput) (*rentalDomain.Distribution, []rentalDomain.Payment, error) {
	if in.Month < 1 || in.Month > 12 {
		return nil, nil, rentalDomain.ErrInvalidMonth
	}
	for _, e := range in.Expenses {
		if e.Amount.IsNegative() {
			return nil, nil, rentalDomain.ErrInvalidExpense
		}
	}
	currency := in.Currency
	if currency == "" {
		currency = wallet.CurrencyINR
	}
	if !currency.Valid() {
		return nil, nil, wallet.ErrInvalidCurrency
	}

	var (
		dist *rentalDomain.Distribution
		pays []rentalDomain.Payment
	)
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		period, err := r.Periods.GetByAssetMonthForUpdate(ctx, in.AssetID, in.Month, in.Year)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return rentalDomain.ErrNotFound
			}
			return err
		}
		if period.Status.Terminal() {
			return rentalDomain.ErrInvalidTransition
		}

		if _, err := r.Distributions.GetByAssetMonth(ctx, in.AssetID, in.Month, in.Year); err == nil {
			return rentalDomain.ErrDuplicateDistribution
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		snapshot, err := r.Holdings.SnapshotByAsset(ctx, in.AssetID)
		if err != nil {
			return err
		}

		gross := money.Round2(in.GrossRentalIncome)
		totalExpenses := decimal.Zero
		expenses := make([]rentalDomain.Expense, 0, len(in.Expenses))
		for i, e := range in.Expenses {
			amount := money.Round2(e.Amount)
			totalExpenses = totalExpenses.Add(amount)
			expenses = append(expenses, rentalDomain.Expense{
				Position: i,
				Label:    e.Label,
				Amount:   amount,
				Code:     e.Code,
			})
		}
		net := gross.Sub(totalExpenses)
		if net.IsNegative() {
			net = decimal.Zero
		}

		perToken := decimal.Zero
		if snapshot.TotalTokens > 0 {
			perToken = net.DivRound(decimal.NewFromInt(snapshot.TotalTokens), 6)
		}

		d := &rentalDomain.Distribution{
			DistributionID:         id.NewID24(),
			AssetID:                in.AssetID,
			Month:                  in.Month,
			Year:                   in.Year,
			Currency:               currency,
			GrossRentalIncome:      gross,
			TotalExpenses:          totalExpenses,
			NetRentalIncome:        net,
			TotalTokensDistributed: snapshot.TotalTokens,
			DistributionPerToken:   perToken,
			Status:                 rentalDomain.DistributionReady,
			StatusUpdatedAt:        time.Now().UTC(),
		}
		if err := r.Distributions.Create(ctx, d); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return rentalDomain.ErrDuplicateDistribution
			}
			return err
		}
		for i := range expenses {
			expenses[i].DistributionID = d.DistributionID
		}
		if err := r.Distributions.CreateExpenses(ctx, expenses); err != nil {
			return err
		}

		allocated, err := Allocate(d, snapshot)
		if err != nil {
			return err
		}
		for i := range allocated {
			if err := r.Payments.Create(ctx, &allocated[i]); err != nil {
				return err
			}
		}

		// mirror the computed yields onto the operator-facing period
		period.GrossYield = gross
		period.NetYield = net
		period.StatusUpdatedAt = time.Now().UTC()
		if err := r.Periods.Save(ctx, period); err != nil {
			return err
		}

		d.Expenses = expenses
		dist, pays = d, allocated
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	u.log.Info("distribution computed",
		zap.String("distribution_id", dist.DistributionID),
		zap.String("asset_id", dist.AssetID),
		zap.String("net_rental_income", dist.NetRentalIncome.StringFixed(2)),
		zap.Int64("total_tokens", dist.TotalTokensDistributed),
		zap.Int("payments", len(pays)))
	return dist, pays, nil
}

// Allocate splits a distribution's net rental income across the snapshot's
// holders. Iteration order is the snapshot's stable (investor, order)
// ordering; each share is round2(net × tokens/total) and the final allocation
// absorbs the rounding remainder so the shares sum to the net exactly. A
// remainder beyond one minor unit per non-final allocation is a logic bug and
// is reported, never absorbed silently.
func Allocate(d *rentalDomain.Distribution, snapshot *portfolio.Snapshot) ([]rentalDomain.Payment, error) {
	if snapshot.TotalTokens <= 0 {
		return nil, nil
	}
	total := decimal.NewFromInt(snapshot.TotalTokens)

	out := make([]rentalDomain.Payment, 0, len(snapshot.Entries))
	allocated := decimal.Zero
	for _, e := range snapshot.Entries {
		if e.Tokens <= 0 {
			continue
		}
		tokens := decimal.NewFromInt(e.Tokens)
		pct := tokens.DivRound(total, 8)
		share := money.Round2(d.NetRentalIncome.Mul(tokens).Div(total))
		allocated = allocated.Add(share)

		out = append(out, rentalDomain.Payment{
			PaymentID:           id.NewID24(),
			DistributionID:      d.DistributionID,
			InvestorID:          e.InvestorID,
			OrderID:             e.OrderID,
			AssetID:             d.AssetID,
			Month:               d.Month,
			Year:                d.Year,
			InvestorTokens:      e.Tokens,
			OwnershipPercentage: pct,
			GrossRentalIncome:   d.GrossRentalIncome,
			TotalExpenses:       d.TotalExpenses,
			NetRentalIncome:     d.NetRentalIncome,
			InvestorShare:       share,
			PaymentStatus:       rentalDomain.PaymentPending,
		})
	}
	if len(out) == 0 {
		return nil, nil
	}

	remainder := d.NetRentalIncome.Sub(allocated)
	tolerance := money.MinorUnit.Mul(decimal.NewFromInt(int64(len(out) - 1)))
	if remainder.Abs().GreaterThan(tolerance) {
		return nil, rentalDomain.ErrRoundingOverflow
	}
	last := &out[len(out)-1]
	absorbed := money.Round2(last.InvestorShare.Add(remainder))
	if !absorbed.IsNegative() {
		last.InvestorShare = absorbed
		return out, nil
	}

	// Penny-level nets can round every share up and leave the smallest holder
	// owing more than its own share. Zero it and pull the rest of the deficit
	// from the preceding shares so no payout row ever goes negative.
	deficit := absorbed.Neg()
	last.InvestorShare = decimal.Zero
	for i := len(out) - 2; i >= 0 && deficit.IsPositive(); i-- {
		cut := decimal.Min(out[i].InvestorShare, deficit)
		out[i].InvestorShare = out[i].InvestorShare.Sub(cut)
		deficit = deficit.Sub(cut)
	}
	if deficit.IsPositive() {
		return nil, rentalDomain.ErrRoundingOverflow
	}

	return out, nil
}
