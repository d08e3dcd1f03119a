package rental

import "context"

type PeriodRepository interface {
	Create(ctx context.Context, p *Period) error
	GetByPeriodID(ctx context.Context, periodID string) (*Period, error)
	GetByAssetMonth(ctx context.Context, assetID string, month, year int) (*Period, error)
	GetByAssetMonthForUpdate(ctx context.Context, assetID string, month, year int) (*Period, error)
	Save(ctx context.Context, p *Period) error
}

type DistributionRepository interface {
	Create(ctx context.Context, d *Distribution) error
	CreateExpenses(ctx context.Context, expenses []Expense) error
	GetByDistributionID(ctx context.Context, distributionID string) (*Distribution, error)
	GetByDistributionIDForUpdate(ctx context.Context, distributionID string) (*Distribution, error)
	GetByAssetMonth(ctx context.Context, assetID string, month, year int) (*Distribution, error)
	ListExpenses(ctx context.Context, distributionID string) ([]Expense, error)
	Save(ctx context.Context, d *Distribution) error
}

type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	GetByPaymentID(ctx context.Context, paymentID string) (*Payment, error)
	// ListByDistribution returns payments in stable investor_id order.
	ListByDistribution(ctx context.Context, distributionID string) ([]Payment, error)
	ListByDistributionAndStatus(ctx context.Context, distributionID string, statuses []PaymentStatus) ([]Payment, error)
	Save(ctx context.Context, p *Payment) error
}
