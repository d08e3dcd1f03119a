package rental

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"propvest-backend/internal/domain/wallet"
)

// PeriodStatus is the operator-facing lifecycle of an asset-month.
type PeriodStatus string

const (
	PeriodPending    PeriodStatus = "PENDING"
	PeriodProcessing PeriodStatus = "PROCESSING"
	PeriodCompleted  PeriodStatus = "COMPLETED"
	PeriodFailed     PeriodStatus = "FAILED"
)

func (s PeriodStatus) Terminal() bool { return s == PeriodCompleted || s == PeriodFailed }

// Period is the audit record for one asset-month. One per
// (asset_id, month, year), mutated only by the distribution processor's
// state transitions, never deleted.
type Period struct {
	ID                uint64          `gorm:"primaryKey;column:id" json:"-"`
	PeriodID          string          `gorm:"size:24;uniqueIndex:ux_rental_periods_period_id" json:"period_id"`
	AssetID           string          `gorm:"size:24;uniqueIndex:ux_rental_periods_asset_month,priority:1" json:"asset_id"`
	Month             int             `gorm:"uniqueIndex:ux_rental_periods_asset_month,priority:2" json:"month"`
	Year              int             `gorm:"uniqueIndex:ux_rental_periods_asset_month,priority:3" json:"year"`
	GrossYield        decimal.Decimal `gorm:"type:decimal(18,2)" json:"gross_yield"`
	NetYield          decimal.Decimal `gorm:"type:decimal(18,2)" json:"net_yield"`
	Status            PeriodStatus    `gorm:"size:16;default:'PENDING'" json:"status"`
	DistributedAt     *time.Time      `json:"distributed_at,omitempty"`
	DistributionNotes string          `gorm:"type:text" json:"distribution_notes,omitempty"`
	CreatedBy         string          `gorm:"size:24" json:"created_by"`
	StatusUpdatedAt   time.Time       `gorm:"autoCreateTime" json:"status_updated_at"`
	CreatedAt         time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Period) TableName() string { return "rental_periods" }

// DistributionStatus is the computation-facing lifecycle of a distribution.
type DistributionStatus string

const (
	DistributionDraft       DistributionStatus = "draft"
	DistributionReady       DistributionStatus = "ready"
	DistributionDistributed DistributionStatus = "distributed"
	DistributionCancelled   DistributionStatus = "cancelled"
)

func (s DistributionStatus) Terminal() bool {
	return s == DistributionDistributed || s == DistributionCancelled
}

// Distribution is the asset-level roll-up of one month's rental income.
// TotalExpenses and NetRentalIncome are always recomputed from the expense
// rows and the gross figure, never edited directly.
type Distribution struct {
	ID                     uint64             `gorm:"primaryKey;column:id" json:"-"`
	DistributionID         string             `gorm:"size:24;uniqueIndex:ux_rental_distributions_distribution_id" json:"distribution_id"`
	AssetID                string             `gorm:"size:24;uniqueIndex:ux_rental_distributions_asset_month,priority:1" json:"asset_id"`
	Month                  int                `gorm:"column:distribution_month;uniqueIndex:ux_rental_distributions_asset_month,priority:2" json:"distribution_month"`
	Year                   int                `gorm:"column:distribution_year;uniqueIndex:ux_rental_distributions_asset_month,priority:3" json:"distribution_year"`
	Currency               wallet.Currency    `gorm:"size:8;default:'INR'" json:"currency"`
	GrossRentalIncome      decimal.Decimal    `gorm:"type:decimal(18,2)" json:"gross_rental_income"`
	TotalExpenses          decimal.Decimal    `gorm:"type:decimal(18,2)" json:"total_expenses"`
	NetRentalIncome        decimal.Decimal    `gorm:"type:decimal(18,2)" json:"net_rental_income"`
	TotalTokensDistributed int64              `json:"total_tokens_distributed"`
	DistributionPerToken   decimal.Decimal    `gorm:"type:decimal(18,6)" json:"distribution_per_token"`
	Status                 DistributionStatus `gorm:"size:16;default:'draft'" json:"status"`
	StatusUpdatedAt        time.Time          `gorm:"autoCreateTime" json:"status_updated_at"`
	CreatedAt              time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt              time.Time          `gorm:"autoUpdateTime" json:"updated_at"`

	Expenses []Expense `gorm:"-" json:"expenses"`
}

func (Distribution) TableName() string { return "rental_distributions" }

// Expense is one line item deducted from gross rental income. Position
// preserves the operator-supplied ordering.
type Expense struct {
	ID             uint64          `gorm:"primaryKey;column:id" json:"-"`
	DistributionID string          `gorm:"size:24;index:idx_rental_expenses_distribution" json:"distribution_id"`
	Position       int             `json:"position"`
	Label          string          `gorm:"size:120" json:"label"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,2)" json:"amount"`
	Code           string          `gorm:"size:32" json:"code,omitempty"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Expense) TableName() string { return "rental_expenses" }

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentFailed    PaymentStatus = "failed"
	PaymentCancelled PaymentStatus = "cancelled"
)

func (s PaymentStatus) Terminal() bool { return s == PaymentPaid || s == PaymentCancelled }

// Payment is one investor's share of a distribution. Unique per
// (distribution_id, investor_id, order_id): domain-level idempotency, at most
// one payment row per investor per order per month.
type Payment struct {
	ID                   uint64          `gorm:"primaryKey;column:id" json:"-"`
	PaymentID            string          `gorm:"size:24;uniqueIndex:ux_rental_payments_payment_id" json:"payment_id"`
	DistributionID       string          `gorm:"size:24;uniqueIndex:ux_rental_payments_dist_investor_order,priority:1;index:idx_rental_payments_distribution" json:"rental_distribution_id"`
	InvestorID           string          `gorm:"size:24;uniqueIndex:ux_rental_payments_dist_investor_order,priority:2" json:"investor_id"`
	OrderID              string          `gorm:"size:24;uniqueIndex:ux_rental_payments_dist_investor_order,priority:3" json:"order_id"`
	AssetID              string          `gorm:"size:24;index:idx_rental_payments_asset" json:"asset_id"`
	Month                int             `gorm:"column:distribution_month" json:"distribution_month"`
	Year                 int             `gorm:"column:distribution_year" json:"distribution_year"`
	InvestorTokens       int64           `json:"investor_tokens"`
	OwnershipPercentage  decimal.Decimal `gorm:"type:decimal(12,8)" json:"ownership_percentage"`
	GrossRentalIncome    decimal.Decimal `gorm:"type:decimal(18,2)" json:"gross_rental_income"`
	TotalExpenses        decimal.Decimal `gorm:"type:decimal(18,2)" json:"total_expenses"`
	NetRentalIncome      decimal.Decimal `gorm:"type:decimal(18,2)" json:"net_rental_income"`
	InvestorShare        decimal.Decimal `gorm:"type:decimal(18,2)" json:"investor_share"`
	PaymentStatus        PaymentStatus   `gorm:"size:16;default:'pending';index:idx_rental_payments_status" json:"payment_status"`
	PaymentMethod        string          `gorm:"size:32" json:"payment_method,omitempty"`
	PaymentTransactionID string          `gorm:"size:24" json:"payment_transaction_id,omitempty"`
	FailureReason        string          `gorm:"size:255" json:"failure_reason,omitempty"`
	PaidAt               *time.Time      `json:"paid_at,omitempty"`
	CreatedAt            time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt            gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Payment) TableName() string { return "investor_rental_payments" }

// Summary aggregates payment rows of one distribution by status.
type Summary struct {
	DistributionID   string             `json:"distribution_id"`
	Status           DistributionStatus `json:"status"`
	NetRentalIncome  decimal.Decimal    `json:"net_rental_income"`
	TotalDistributed decimal.Decimal    `json:"total_distributed"`
	TotalPending     decimal.Decimal    `json:"total_pending"`
	TotalFailed      decimal.Decimal    `json:"total_failed"`
	PaidCount        int                `json:"paid_count"`
	PendingCount     int                `json:"pending_count"`
	FailedCount      int                `json:"failed_count"`
	CancelledCount   int                `json:"cancelled_count"`
	Payments         []Payment          `json:"payments"`
}
