package wallet

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Currency string

const (
	CurrencyINR  Currency = "INR"
	CurrencyUSD  Currency = "USD"
	CurrencyUSDC Currency = "USDC"
)

// Valid reports whether c is one of the supported wallet currencies.
func (c Currency) Valid() bool {
	switch c {
	case CurrencyINR, CurrencyUSD, CurrencyUSDC:
		return true
	}
	return false
}

type TxnType string

const (
	TxnTypeCredit TxnType = "credit"
	TxnTypeDebit  TxnType = "debit"
)

// Account is a balance bucket per (owner, currency). Created lazily on the
// first credit; the balance column is the single source of truth and never
// goes negative.
type Account struct {
	ID        uint64          `gorm:"primaryKey;column:id" json:"-"`
	AccountID string          `gorm:"size:24;uniqueIndex:ux_wallet_accounts_account_id" json:"account_id"`
	OwnerID   string          `gorm:"size:24;uniqueIndex:ux_wallet_accounts_owner_currency,priority:1" json:"owner_id"`
	Currency  Currency        `gorm:"size:8;uniqueIndex:ux_wallet_accounts_owner_currency,priority:2" json:"currency"`
	Label     string          `gorm:"size:120" json:"label,omitempty"`
	Balance   decimal.Decimal `gorm:"type:decimal(18,2)" json:"balance"`
	CreatedAt time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Account) TableName() string { return "wallet_accounts" }

// Transaction is one append-only ledger row. The (account_id, reference)
// unique index is the idempotency fence: a retried operation with the same
// reference replays the stored row instead of moving funds again.
type Transaction struct {
	ID           uint64          `gorm:"primaryKey;column:id" json:"-"`
	TxnID        string          `gorm:"size:24;uniqueIndex:ux_wallet_txns_txn_id" json:"transaction_id"`
	AccountID    string          `gorm:"size:24;uniqueIndex:ux_wallet_txns_account_reference,priority:1;index:idx_wallet_txns_account" json:"account_id"`
	Reference    string          `gorm:"size:128;uniqueIndex:ux_wallet_txns_account_reference,priority:2" json:"reference"`
	OwnerID      string          `gorm:"size:24;index:idx_wallet_txns_owner" json:"owner_id"`
	Currency     Currency        `gorm:"size:8" json:"currency"`
	Type         TxnType         `gorm:"size:8" json:"type"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,2)" json:"amount"`
	BalanceAfter decimal.Decimal `gorm:"type:decimal(18,2)" json:"balance_after"`
	Meta         string          `gorm:"type:text" json:"meta,omitempty"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Transaction) TableName() string { return "wallet_transactions" }

// Target resolves an account either directly by AccountID or by the
// (OwnerID, Currency) pair. Exactly one of the two forms must be set.
type Target struct {
	AccountID string
	OwnerID   string
	Currency  Currency
}

func (t Target) ByAccountID() bool { return t.AccountID != "" }
