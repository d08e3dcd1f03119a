package uowmock

import (
	"context"
	"errors"

	"propvest-backend/internal/domain/rental"
	"propvest-backend/internal/domain/uow"
	"propvest-backend/internal/domain/wallet"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return
// errUnimplemented.
type UoW struct {
	WithinTxFn             func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinAccountTxFn      func(ctx context.Context, target wallet.Target, fn func(r uow.Repos, a *wallet.Account) error) error
	WithinDistributionTxFn func(ctx context.Context, distributionID string, fn func(r uow.Repos, d *rental.Distribution) error) error
}

func New() *UoW { return &UoW{} }

// Passthrough returns a UoW whose transactions just invoke the body with the
// given repos, no transactional behavior. The account and distribution
// variants look up the locked row through those repos the way the real
// implementation would.
func Passthrough(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(r uow.Repos) error) error {
			return fn(repos)
		},
		WithinAccountTxFn: func(ctx context.Context, target wallet.Target, fn func(r uow.Repos, a *wallet.Account) error) error {
			var (
				a   *wallet.Account
				err error
			)
			if target.AccountID != "" {
				a, err = repos.Wallets.GetAccountByAccountIDForUpdate(ctx, target.AccountID)
			} else {
				a, err = repos.Wallets.GetAccountByOwnerForUpdate(ctx, target.OwnerID, target.Currency)
			}
			if err != nil {
				return err
			}
			return fn(repos, a)
		},
		WithinDistributionTxFn: func(ctx context.Context, distributionID string, fn func(r uow.Repos, d *rental.Distribution) error) error {
			d, err := repos.Distributions.GetByDistributionIDForUpdate(ctx, distributionID)
			if err != nil {
				return err
			}
			return fn(repos, d)
		},
	}
}

func (m *UoW) Reset() { *m = UoW{} }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinAccountTx(ctx context.Context, target wallet.Target, fn func(r uow.Repos, a *wallet.Account) error) error {
	if m.WithinAccountTxFn != nil {
		return m.WithinAccountTxFn(ctx, target, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinDistributionTx(ctx context.Context, distributionID string, fn func(r uow.Repos, d *rental.Distribution) error) error {
	if m.WithinDistributionTxFn != nil {
		return m.WithinDistributionTxFn(ctx, distributionID, fn)
	}
	return errUnimplemented
}
