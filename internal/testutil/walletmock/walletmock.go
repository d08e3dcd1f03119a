package walletmock

import (
	"context"

	domain "propvest-backend/internal/domain/wallet"
)

// Ensure compile-time compliance
var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies wallet.Repository.
// Fill in the function fields you need in a test.
type Repo struct {
	CreateAccountFn                  func(ctx context.Context, a *domain.Account) error
	GetAccountByAccountIDFn          func(ctx context.Context, accountID string) (*domain.Account, error)
	GetAccountByOwnerFn              func(ctx context.Context, ownerID string, currency domain.Currency) (*domain.Account, error)
	GetAccountByOwnerForUpdateFn     func(ctx context.Context, ownerID string, currency domain.Currency) (*domain.Account, error)
	GetAccountByAccountIDForUpdateFn func(ctx context.Context, accountID string) (*domain.Account, error)
	SaveAccountFn                    func(ctx context.Context, a *domain.Account) error
	CreateTransactionFn              func(ctx context.Context, t *domain.Transaction) error
	GetTransactionByReferenceFn      func(ctx context.Context, accountID, reference string) (*domain.Transaction, error)
	ListTransactionsFn               func(ctx context.Context, accountID string, limit, offset int) ([]domain.Transaction, error)
}

func (m *Repo) CreateAccount(ctx context.Context, a *domain.Account) error {
	if m.CreateAccountFn != nil {
		return m.CreateAccountFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetAccountByAccountID(ctx context.Context, accountID string) (*domain.Account, error) {
	if m.GetAccountByAccountIDFn != nil {
		return m.GetAccountByAccountIDFn(ctx, accountID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetAccountByOwner(ctx context.Context, ownerID string, currency domain.Currency) (*domain.Account, error) {
	if m.GetAccountByOwnerFn != nil {
		return m.GetAccountByOwnerFn(ctx, ownerID, currency)
	}
	return nil, context.Canceled
}

func (m *Repo) GetAccountByOwnerForUpdate(ctx context.Context, ownerID string, currency domain.Currency) (*domain.Account, error) {
	if m.GetAccountByOwnerForUpdateFn != nil {
		return m.GetAccountByOwnerForUpdateFn(ctx, ownerID, currency)
	}
	return nil, context.Canceled
}

func (m *Repo) GetAccountByAccountIDForUpdate(ctx context.Context, accountID string) (*domain.Account, error) {
	if m.GetAccountByAccountIDForUpdateFn != nil {
		return m.GetAccountByAccountIDForUpdateFn(ctx, accountID)
	}
	return nil, context.Canceled
}

func (m *Repo) SaveAccount(ctx context.Context, a *domain.Account) error {
	if m.SaveAccountFn != nil {
		return m.SaveAccountFn(ctx, a)
	}
	return nil
}

func (m *Repo) CreateTransaction(ctx context.Context, t *domain.Transaction) error {
	if m.CreateTransactionFn != nil {
		return m.CreateTransactionFn(ctx, t)
	}
	return nil
}

func (m *Repo) GetTransactionByReference(ctx context.Context, accountID, reference string) (*domain.Transaction, error) {
	if m.GetTransactionByReferenceFn != nil {
		return m.GetTransactionByReferenceFn(ctx, accountID, reference)
	}
	return nil, context.Canceled
}

func (m *Repo) ListTransactions(ctx context.Context, accountID string, limit, offset int) ([]domain.Transaction, error) {
	if m.ListTransactionsFn != nil {
		return m.ListTransactionsFn(ctx, accountID, limit, offset)
	}
	return nil, context.Canceled
}
