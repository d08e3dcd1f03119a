package uow

import (
	"context"

	"propvest-backend/internal/domain/portfolio"
	"propvest-backend/internal/domain/rental"
	"propvest-backend/internal/domain/wallet"
)

type Repos struct {
	Wallets       wallet.Repository
	Periods       rental.PeriodRepository
	Distributions rental.DistributionRepository
	Payments      rental.PaymentRepository
	Holdings      portfolio.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the wallet account row first (creating it lazily when
	// absent), then pass it in — serializes all balance mutations per account
	WithinAccountTx(ctx context.Context, target wallet.Target, fn func(r Repos, a *wallet.Account) error) error
	// convenience: lock the distribution row first, then pass it in
	WithinDistributionTx(ctx context.Context, distributionID string, fn func(r Repos, d *rental.Distribution) error) error
}
