package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"propvest-backend/internal/domain/uow"
	walletDomain "propvest-backend/internal/domain/wallet"
	"propvest-backend/pkg/id"
	"propvest-backend/pkg/money"
)

// Usecase implements the wallet ledger. All balance mutations run inside a
// unit-of-work transaction that locks the account row, and every mutation is
// keyed by a caller-supplied idempotency reference: replaying a reference
// returns the stored transaction without moving funds again.
type Usecase struct {
	repo walletDomain.Repository
	uow  uow.UnitOfWork
	log  *zap.Logger
}

func NewUsecase(repo walletDomain.Repository, tx uow.UnitOfWork, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{repo: repo, uow: tx, log: log}
}

type EntryInput struct {
	Target    walletDomain.Target
	Amount    decimal.Decimal
	Reference string
	Meta      string
}

type TransferInput struct {
	From      walletDomain.Target
	To        walletDomain.Target
	Amount    decimal.Decimal
	Reference string
	Meta      string
}

type TransferResult struct {
	Debit  *walletDomain.Transaction `json:"debit"`
	Credit *walletDomain.Transaction `json:"credit"`
}

// CreateAccount is idempotent: when an account for (owner, currency) already
// exists it is returned as-is instead of erroring. Callers that need strict
// creation semantics can compare CreatedAt.
func (u *Usecase) CreateAccount(ctx context.Context, ownerID string, currency walletDomain.Currency, label string) (*walletDomain.Account, error) {
	if !currency.Valid() {
		return nil, walletDomain.ErrInvalidCurrency
	}
	if existing, err := u.repo.GetAccountByOwner(ctx, ownerID, currency); err == nil {
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	a := &walletDomain.Account{
		AccountID: id.NewID24(),
		OwnerID:   ownerID,
		Currency:  currency,
		Label:     label,
		Balance:   decimal.Zero,
	}
	if err := u.repo.CreateAccount(ctx, a); err != nil {
		// creation race: someone else inserted the row first
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return u.repo.GetAccountByOwner(ctx, ownerID, currency)
		}
		return nil, err
	}
	u.log.Info("wallet account created",
		zap.String("account_id", a.AccountID),
		zap.String("owner_id", ownerID),
		zap.String("currency", string(currency)))
	return a, nil
}

func (u *Usecase) Credit(ctx context.Context, in EntryInput) (*walletDomain.Transaction, error) {
	return u.post(ctx, walletDomain.TxnTypeCredit, in)
}

func (u *Usecase) Debit(ctx context.Context, in EntryInput) (*walletDomain.Transaction, error) {
	return u.post(ctx, walletDomain.TxnTypeDebit, in)
}

func (u *Usecase) post(ctx context.Context, kind walletDomain.TxnType, in EntryInput) (*walletDomain.Transaction, error) {
	if err := validateEntry(in); err != nil {
		return nil, err
	}

	var out *walletDomain.Transaction
	err := u.uow.WithinAccountTx(ctx, in.Target, func(r uow.Repos, a *walletDomain.Account) error {
		txn, err := applyEntry(ctx, r.Wallets, a, kind, money.Round2(in.Amount), in.Reference, in.Meta)
		if err != nil {
			return err
		}
		out = txn
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Info("wallet entry posted",
		zap.String("type", string(kind)),
		zap.String("account_id", out.AccountID),
		zap.String("reference", out.Reference),
		zap.String("amount", out.Amount.StringFixed(2)),
		zap.String("balance_after", out.BalanceAfter.StringFixed(2)))
	return out, nil
}

// Transfer debits `from` and credits `to` as a single logical unit inside one
// DB transaction: either both legs persist or neither does. Leg references are
// derived from the caller reference so a replay skips both legs.
func (u *Usecase) Transfer(ctx context.Context, in TransferInput) (*TransferResult, error) {
	if err := validateEntry(EntryInput{Target: in.From, Amount: in.Amount, Reference: in.Reference}); err != nil {
		return nil, err
	}
	if err := validateTarget(in.To); err != nil {
		return nil, err
	}

	amount := money.Round2(in.Amount)
	res := &TransferResult{}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		from, err := resolveForUpdate(ctx, r.Wallets, in.From, false)
		if err != nil {
			return err
		}
		to, err := resolveForUpdate(ctx, r.Wallets, in.To, true)
		if err != nil {
			return err
		}

		dr, err := applyEntry(ctx, r.Wallets, from, walletDomain.TxnTypeDebit, amount, in.Reference+"-DR", in.Meta)
		if err != nil {
			return err
		}
		cr, err := applyEntry(ctx, r.Wallets, to, walletDomain.TxnTypeCredit, amount, in.Reference+"-CR", in.Meta)
		if err != nil {
			return err
		}
		res.Debit, res.Credit = dr, cr
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.log.Info("wallet transfer posted",
		zap.String("from_account", res.Debit.AccountID),
		zap.String("to_account", res.Credit.AccountID),
		zap.String("reference", in.Reference),
		zap.String("amount", amount.StringFixed(2)))
	return res, nil
}

func (u *Usecase) Balance(ctx context.Context, ownerID string, currency walletDomain.Currency) (*walletDomain.Account, error) {
	a, err := u.repo.GetAccountByOwner(ctx, ownerID, currency)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, walletDomain.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (u *Usecase) Transactions(ctx context.Context, accountID string, limit, offset int) ([]walletDomain.Transaction, error) {
	return u.repo.ListTransactions(ctx, accountID, limit, offset)
}

// ---- internals ----

func validateEntry(in EntryInput) error {
	if err := validateTarget(in.Target); err != nil {
		return err
	}
	if in.Reference == "" {
		return walletDomain.ErrMissingReference
	}
	if money.Round2(in.Amount).LessThanOrEqual(decimal.Zero) {
		return walletDomain.ErrInvalidAmount
	}
	return nil
}

func validateTarget(t walletDomain.Target) error {
	if t.ByAccountID() {
		return nil
	}
	if t.OwnerID == "" {
		return walletDomain.ErrInvalidTarget
	}
	if !t.Currency.Valid() {
		return walletDomain.ErrInvalidCurrency
	}
	return nil
}

// resolveForUpdate locks the target account row inside the current
// transaction. Accounts addressed by (owner, currency) are created lazily
// when createMissing is set; accounts addressed by id must exist.
func resolveForUpdate(ctx context.Context, repo walletDomain.Repository, target walletDomain.Target, createMissing bool) (*walletDomain.Account, error) {
	if target.ByAccountID() {
		a, err := repo.GetAccountByAccountIDForUpdate(ctx, target.AccountID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, walletDomain.ErrNotFound
			}
			return nil, err
		}
		return a, nil
	}

	a, err := repo.GetAccountByOwnerForUpdate(ctx, target.OwnerID, target.Currency)
	switch {
	case err == nil:
		return a, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if !createMissing {
			return nil, walletDomain.ErrNotFound
		}
		a = &walletDomain.Account{
			AccountID: id.NewID24(),
			OwnerID:   target.OwnerID,
			Currency:  target.Currency,
			Balance:   decimal.Zero,
		}
		if err := repo.CreateAccount(ctx, a); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return repo.GetAccountByOwnerForUpdate(ctx, target.OwnerID, target.Currency)
			}
			return nil, err
		}
		return a, nil
	default:
		return nil, err
	}
}

// applyEntry posts one ledger row against a locked account. The transaction
// insert is the commit point: a duplicate (account_id, reference) means the
// operation already happened, so the stored row is returned and the balance
// stays untouched.
func applyEntry(ctx context.Context, repo walletDomain.Repository, a *walletDomain.Account, kind walletDomain.TxnType, amount decimal.Decimal, reference, meta string) (*walletDomain.Transaction, error) {
	// replay short-circuit; race-free because the account row is locked
	if existing, err := repo.GetTransactionByReference(ctx, a.AccountID, reference); err == nil {
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	balanceAfter := a.Balance
	switch kind {
	case walletDomain.TxnTypeCredit:
		balanceAfter = money.Round2(a.Balance.Add(amount))
	case walletDomain.TxnTypeDebit:
		if a.Balance.LessThan(amount) {
			return nil, walletDomain.ErrInsufficientFunds
		}
		balanceAfter = money.Round2(a.Balance.Sub(amount))
	}

	txn := &walletDomain.Transaction{
		TxnID:        id.NewID24(),
		AccountID:    a.AccountID,
		Reference:    reference,
		OwnerID:      a.OwnerID,
		Currency:     a.Currency,
		Type:         kind,
		Amount:       amount,
		BalanceAfter: balanceAfter,
		Meta:         meta,
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.CreateTransaction(ctx, txn); err != nil {
		// unique-index backstop for the same replay
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repo.GetTransactionByReference(ctx, a.AccountID, reference)
		}
		return nil, err
	}

	a.Balance = balanceAfter
	if err := repo.SaveAccount(ctx, a); err != nil {
		return nil, err
	}
	return txn, nil
}
