package rentalmock

import (
	"context"

	domain "propvest-backend/internal/domain/rental"
)

var (
	_ domain.PeriodRepository       = (*PeriodRepo)(nil)
	_ domain.DistributionRepository = (*DistributionRepo)(nil)
	_ domain.PaymentRepository      = (*PaymentRepo)(nil)
)

// PeriodRepo is a function-backed mock that satisfies rental.PeriodRepository.
type PeriodRepo struct {
	CreateFn                   func(ctx context.Context, p *domain.Period) error
	GetByPeriodIDFn            func(ctx context.Context, periodID string) (*domain.Period, error)
	GetByAssetMonthFn          func(ctx context.Context, assetID string, month, year int) (*domain.Period, error)
	GetByAssetMonthForUpdateFn func(ctx context.Context, assetID string, month, year int) (*domain.Period, error)
	SaveFn                     func(ctx context.Context, p *domain.Period) error
}

func (m *PeriodRepo) Create(ctx context.Context, p *domain.Period) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *PeriodRepo) GetByPeriodID(ctx context.Context, periodID string) (*domain.Period, error) {
	if m.GetByPeriodIDFn != nil {
		return m.GetByPeriodIDFn(ctx, periodID)
	}
	return nil, context.Canceled
}

func (m *PeriodRepo) GetByAssetMonth(ctx context.Context, assetID string, month, year int) (*domain.Period, error) {
	if m.GetByAssetMonthFn != nil {
		return m.GetByAssetMonthFn(ctx, assetID, month, year)
	}
	return nil, context.Canceled
}

func (m *PeriodRepo) GetByAssetMonthForUpdate(ctx context.Context, assetID string, month, year int) (*domain.Period, error) {
	if m.GetByAssetMonthForUpdateFn != nil {
		return m.GetByAssetMonthForUpdateFn(ctx, assetID, month, year)
	}
	return nil, context.Canceled
}

func (m *PeriodRepo) Save(ctx context.Context, p *domain.Period) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, p)
	}
	return nil
}

// DistributionRepo is a function-backed mock that satisfies
// rental.DistributionRepository.
type DistributionRepo struct {
	CreateFn                       func(ctx context.Context, d *domain.Distribution) error
	CreateExpensesFn               func(ctx context.Context, expenses []domain.Expense) error
	GetByDistributionIDFn          func(ctx context.Context, distributionID string) (*domain.Distribution, error)
	GetByDistributionIDForUpdateFn func(ctx context.Context, distributionID string) (*domain.Distribution, error)
	GetByAssetMonthFn              func(ctx context.Context, assetID string, month, year int) (*domain.Distribution, error)
	ListExpensesFn                 func(ctx context.Context, distributionID string) ([]domain.Expense, error)
	SaveFn                         func(ctx context.Context, d *domain.Distribution) error
}

func (m *DistributionRepo) Create(ctx context.Context, d *domain.Distribution) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, d)
	}
	return nil
}

func (m *DistributionRepo) CreateExpenses(ctx context.Context, expenses []domain.Expense) error {
	if m.CreateExpensesFn != nil {
		return m.CreateExpensesFn(ctx, expenses)
	}
	return nil
}

func (m *DistributionRepo) GetByDistributionID(ctx context.Context, distributionID string) (*domain.Distribution, error) {
	if m.GetByDistributionIDFn != nil {
		return m.GetByDistributionIDFn(ctx, distributionID)
	}
	return nil, context.Canceled
}

func (m *DistributionRepo) GetByDistributionIDForUpdate(ctx context.Context, distributionID string) (*domain.Distribution, error) {
	if m.GetByDistributionIDForUpdateFn != nil {
		return m.GetByDistributionIDForUpdateFn(ctx, distributionID)
	}
	return nil, context.Canceled
}

func (m *DistributionRepo) GetByAssetMonth(ctx context.Context, assetID string, month, year int) (*domain.Distribution, error) {
	if m.GetByAssetMonthFn != nil {
		return m.GetByAssetMonthFn(ctx, assetID, month, year)
	}
	return nil, context.Canceled
}

func (m *DistributionRepo) ListExpenses(ctx context.Context, distributionID string) ([]domain.Expense, error) {
	if m.ListExpensesFn != nil {
		return m.ListExpensesFn(ctx, distributionID)
	}
	return nil, context.Canceled
}

func (m *DistributionRepo) Save(ctx context.Context, d *domain.Distribution) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, d)
	}
	return nil
}

// PaymentRepo is a function-backed mock that satisfies rental.PaymentRepository.
type PaymentRepo struct {
	CreateFn                      func(ctx context.Context, p *domain.Payment) error
	GetByPaymentIDFn              func(ctx context.Context, paymentID string) (*domain.Payment, error)
	ListByDistributionFn          func(ctx context.Context, distributionID string) ([]domain.Payment, error)
	ListByDistributionAndStatusFn func(ctx context.Context, distributionID string, statuses []domain.PaymentStatus) ([]domain.Payment, error)
	SaveFn                        func(ctx context.Context, p *domain.Payment) error
}

func (m *PaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *PaymentRepo) GetByPaymentID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	if m.GetByPaymentIDFn != nil {
		return m.GetByPaymentIDFn(ctx, paymentID)
	}
	return nil, context.Canceled
}

func (m *PaymentRepo) ListByDistribution(ctx context.Context, distributionID string) ([]domain.Payment, error) {
	if m.ListByDistributionFn != nil {
		return m.ListByDistributionFn(ctx, distributionID)
	}
	return nil, context.Canceled
}

func (m *PaymentRepo) ListByDistributionAndStatus(ctx context.Context, distributionID string, statuses []domain.PaymentStatus) ([]domain.Payment, error) {
	if m.ListByDistributionAndStatusFn != nil {
		return m.ListByDistributionAndStatusFn(ctx, distributionID, statuses)
	}
	return nil, context.Canceled
}

func (m *PaymentRepo) Save(ctx context.Context, p *domain.Payment) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, p)
	}
	return nil
}
