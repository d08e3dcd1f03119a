package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	walletDomain "propvest-backend/internal/domain/wallet"
)

type WalletRepository struct{ db *gorm.DB }

func NewWalletRepository(db *gorm.DB) *WalletRepository { return &WalletRepository{db: db} }

func (r *WalletRepository) CreateAccount(ctx context.Context, a *walletDomain.Account) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *WalletRepository) GetAccountByAccountID(ctx context.Context, accountID string) (*walletDomain.Account, error) {
	var out walletDomain.Account
	res := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&out)
	return &out, res.Error
}

func (r *WalletRepository) GetAccountByOwner(ctx context.Context, ownerID string, currency walletDomain.Currency) (*walletDomain.Account, error) {
	var out walletDomain.Account
	res := r.db.WithContext(ctx).
		Where("owner_id = ? AND currency = ?", ownerID, currency).
		First(&out)
	return &out, res.Error
}

func (r *WalletRepository) GetAccountByOwnerForUpdate(ctx context.Context, ownerID string, currency walletDomain.Currency) (*walletDomain.Account, error) {
	var out walletDomain.Account
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("owner_id = ? AND currency = ?", ownerID, currency).
		First(&out)
	return &out, res.Error
}

func (r *WalletRepository) GetAccountByAccountIDForUpdate(ctx context.Context, accountID string) (*walletDomain.Account, error) {
	var out walletDomain.Account
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("account_id = ?", accountID).
		First(&out)
	return &out, res.Error
}

func (r *WalletRepository) SaveAccount(ctx context.Context, a *walletDomain.Account) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *WalletRepository) CreateTransaction(ctx context.Context, t *walletDomain.Transaction) error {
	// The unique (account_id, reference) index makes this insert the commit
	// point: a replay surfaces gorm.ErrDuplicatedKey and must not touch the
	// balance.
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *WalletRepository) GetTransactionByReference(ctx context.Context, accountID, reference string) (*walletDomain.Transaction, error) {
	var out walletDomain.Transaction
	res := r.db.WithContext(ctx).
		Where("account_id = ? AND reference = ?", accountID, reference).
		First(&out)
	return &out, res.Error
}

func (r *WalletRepository) ListTransactions(ctx context.Context, accountID string, limit, offset int) ([]walletDomain.Transaction, error) {
	var out []walletDomain.Transaction
	q := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	res := q.Find(&out)
	return out, res.Error
}
