package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	rentalDomain "propvest-backend/internal/domain/rental"
)

type PeriodRepository struct{ db *gorm.DB }

func NewPeriodRepository(db *gorm.DB) *PeriodRepository { return &PeriodRepository{db: db} }

func (r *PeriodRepository) Create(ctx context.Context, p *rentalDomain.Period) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PeriodRepository) GetByPeriodID(ctx context.Context, periodID string) (*rentalDomain.Period, error) {
	var out rentalDomain.Period
	res := r.db.WithContext(ctx).Where("period_id = ?", periodID).First(&out)
	return &out, res.Error
}

func (r *PeriodRepository) GetByAssetMonth(ctx context.Context, assetID string, month, year int) (*rentalDomain.Period, error) {
	var out rentalDomain.Period
	res := r.db.WithContext(ctx).
		Where("asset_id = ? AND month = ? AND year = ?", assetID, month, year).
		First(&out)
	return &out, res.Error
}

func (r *PeriodRepository) GetByAssetMonthForUpdate(ctx context.Context, assetID string, month, year int) (*rentalDomain.Period, error) {
	var out rentalDomain.Period
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("asset_id = ? AND month = ? AND year = ?", assetID, month, year).
		First(&out)
	return &out, res.Error
}

func (r *PeriodRepository) Save(ctx context.Context, p *rentalDomain.Period) error {
	return r.db.WithContext(ctx).Save(p).Error
}

type DistributionRepository struct{ db *gorm.DB }

func NewDistributionRepository(db *gorm.DB) *DistributionRepository {
	return &DistributionRepository{db: db}
}

func (r *DistributionRepository) Create(ctx context.Context, d *rentalDomain.Distribution) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DistributionRepository) CreateExpenses(ctx context.Context, expenses []rentalDomain.Expense) error {
	if len(expenses) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&expenses).Error
}

func (r *DistributionRepository) GetByDistributionID(ctx context.Context, distributionID string) (*rentalDomain.Distribution, error) {
	var out rentalDomain.Distribution
	res := r.db.WithContext(ctx).Where("distribution_id = ?", distributionID).First(&out)
	return &out, res.Error
}

func (r *DistributionRepository) GetByDistributionIDForUpdate(ctx context.Context, distributionID string) (*rentalDomain.Distribution, error) {
	var out rentalDomain.Distribution
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("distribution_id = ?", distributionID).
		First(&out)
	return &out, res.Error
}

func (r *DistributionRepository) GetByAssetMonth(ctx context.Context, assetID string, month, year int) (*rentalDomain.Distribution, error) {
	var out rentalDomain.Distribution
	res := r.db.WithContext(ctx).
		Where("asset_id = ? AND distribution_month = ? AND distribution_year = ?", assetID, month, year).
		First(&out)
	return &out, res.Error
}

func (r *DistributionRepository) ListExpenses(ctx context.Context, distributionID string) ([]rentalDomain.Expense, error) {
	var out []rentalDomain.Expense
	res := r.db.WithContext(ctx).
		Where("distribution_id = ?", distributionID).
		Order("position ASC").
		Find(&out)
	return out, res.Error
}

func (r *DistributionRepository) Save(ctx context.Context, d *rentalDomain.Distribution) error {
	return r.db.WithContext(ctx).Save(d).Error
}

type PaymentRepository struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) Create(ctx context.Context, p *rentalDomain.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) GetByPaymentID(ctx context.Context, paymentID string) (*rentalDomain.Payment, error) {
	var out rentalDomain.Payment
	res := r.db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&out)
	return &out, res.Error
}

func (r *PaymentRepository) ListByDistribution(ctx context.Context, distributionID string) ([]rentalDomain.Payment, error) {
	var out []rentalDomain.Payment
	res := r.db.WithContext(ctx).
		Where("distribution_id = ?", distributionID).
		Order("investor_id ASC, order_id ASC").
		Find(&out)
	return out, res.Error
}

func (r *PaymentRepository) ListByDistributionAndStatus(ctx context.Context, distributionID string, statuses []rentalDomain.PaymentStatus) ([]rentalDomain.Payment, error) {
	var out []rentalDomain.Payment
	res := r.db.WithContext(ctx).
		Where("distribution_id = ? AND payment_status IN ?", distributionID, statuses).
		Order("investor_id ASC, order_id ASC").
		Find(&out)
	return out, res.Error
}

func (r *PaymentRepository) Save(ctx context.Context, p *rentalDomain.Payment) error {
	return r.db.WithContext(ctx).Save(p).Error
}
