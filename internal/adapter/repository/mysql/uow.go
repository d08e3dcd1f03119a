package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"propvest-backend/internal/domain/rental"
	"propvest-backend/internal/domain/uow"
	"propvest-backend/internal/domain/wallet"
	"propvest-backend/pkg/id"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Wallets:       &WalletRepository{db: tx},
		Periods:       &PeriodRepository{db: tx},
		Distributions: &DistributionRepository{db: tx},
		Payments:      &PaymentRepository{db: tx},
		Holdings:      &PortfolioRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

// WithinAccountTx locks the wallet account row up-front so all balance
// mutations for one account are serialized. When the target addresses an
// account by (owner, currency) that does not exist yet, the account is
// created inside the same transaction (lazy creation on first credit).
func (u *GormUoW) WithinAccountTx(ctx context.Context, target wallet.Target, fn func(r uow.Repos, a *wallet.Account) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)

		var (
			acct *wallet.Account
			err  error
		)
		if target.ByAccountID() {
			acct, err = r.Wallets.GetAccountByAccountIDForUpdate(ctx, target.AccountID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return wallet.ErrNotFound
				}
				return err
			}
		} else {
			acct, err = r.Wallets.GetAccountByOwnerForUpdate(ctx, target.OwnerID, target.Currency)
			switch {
			case err == nil:
			case errors.Is(err, gorm.ErrRecordNotFound):
				acct = &wallet.Account{
					AccountID: id.NewID24(),
					OwnerID:   target.OwnerID,
					Currency:  target.Currency,
				}
				if err := r.Wallets.CreateAccount(ctx, acct); err != nil {
					// lost the creation race: another tx inserted the row,
					// re-read it under lock
					if errors.Is(err, gorm.ErrDuplicatedKey) {
						acct, err = r.Wallets.GetAccountByOwnerForUpdate(ctx, target.OwnerID, target.Currency)
						if err != nil {
							return err
						}
					} else {
						return err
					}
				}
			default:
				return err
			}
		}
		return fn(r, acct)
	})
}

// WithinDistributionTx locks the distribution row up-front to prevent
// concurrent processor sweeps from racing on state transitions.
func (u *GormUoW) WithinDistributionTx(ctx context.Context, distributionID string, fn func(r uow.Repos, d *rental.Distribution) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		d, err := r.Distributions.GetByDistributionIDForUpdate(ctx, distributionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return rental.ErrNotFound
			}
			return err
		}
		return fn(r, d)
	})
}
