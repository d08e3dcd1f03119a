package wallet

import "context"

type Repository interface {
	CreateAccount(ctx context.Context, a *Account) error
	GetAccountByAccountID(ctx context.Context, accountID string) (*Account, error)
	GetAccountByOwner(ctx context.Context, ownerID string, currency Currency) (*Account, error)
	// GetAccountByOwnerForUpdate locks the account row for the duration of the
	// enclosing transaction. Only meaningful via the unit of work.
	GetAccountByOwnerForUpdate(ctx context.Context, ownerID string, currency Currency) (*Account, error)
	GetAccountByAccountIDForUpdate(ctx context.Context, accountID string) (*Account, error)
	SaveAccount(ctx context.Context, a *Account) error

	// CreateTransaction inserts the ledger row; a duplicate
	// (account_id, reference) surfaces as gorm.ErrDuplicatedKey.
	CreateTransaction(ctx context.Context, t *Transaction) error
	GetTransactionByReference(ctx context.Context, accountID, reference string) (*Transaction, error)
	ListTransactions(ctx context.Context, accountID string, limit, offset int) ([]Transaction, error)
}
