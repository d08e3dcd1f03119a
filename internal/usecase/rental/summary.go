package rental

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	rentalDomain "propvest-backend/internal/domain/rental"
)

// Summarize reports the payout state of one distribution. Pure aggregation
// over the payment rows, no side effects.
func (p *Processor) Summarize(ctx context.Context, distributionID string) (*rentalDomain.Summary, error) {
	dist, err := p.dists.GetByDistributionID(ctx, distributionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, rentalDomain.ErrNotFound
		}
		return nil, err
	}
	return p.summarize(ctx, dist)
}

func (p *Processor) summarize(ctx context.Context, dist *rentalDomain.Distribution) (*rentalDomain.Summary, error) {
	rows, err := p.payments.ListByDistribution(ctx, dist.DistributionID)
	if err != nil {
		return nil, err
	}
	return BuildSummary(dist, rows), nil
}

// BuildSummary folds payment rows into per-status totals and counts.
func BuildSummary(dist *rentalDomain.Distribution, rows []rentalDomain.Payment) *rentalDomain.Summary {
	s := &rentalDomain.Summary{
		DistributionID:   dist.DistributionID,
		Status:           dist.Status,
		NetRentalIncome:  dist.NetRentalIncome,
		TotalDistributed: decimal.Zero,
		TotalPending:     decimal.Zero,
		TotalFailed:      decimal.Zero,
		Payments:         rows,
	}
	for i := range rows {
		switch rows[i].PaymentStatus {
		case rentalDomain.PaymentPaid:
			s.PaidCount++
			s.TotalDistributed = s.TotalDistributed.Add(rows[i].InvestorShare)
		case rentalDomain.PaymentPending:
			s.PendingCount++
			s.TotalPending = s.TotalPending.Add(rows[i].InvestorShare)
		case rentalDomain.PaymentFailed:
			s.FailedCount++
			s.TotalFailed = s.TotalFailed.Add(rows[i].InvestorShare)
		case rentalDomain.PaymentCancelled:
			s.CancelledCount++
		}
	}
	return s
}
