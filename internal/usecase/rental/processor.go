package rental

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	rentalDomain "propvest-backend/internal/domain/rental"
	"propvest-backend/internal/domain/uow"
	"propvest-backend/internal/domain/wallet"
	walletUsecase "propvest-backend/internal/usecase/wallet"
)

// Ledger is the slice of the wallet usecase the processor needs. Crediting is
// idempotent per reference, so a retried sweep replays instead of
// double-paying.
type Ledger interface {
	Credit(ctx context.Context, in walletUsecase.EntryInput) (*wallet.Transaction, error)
}

const (
	paymentMethodWallet   = "wallet_credit"
	paymentMethodExternal = "external"
)

// Processor sweeps a distribution's payment rows, credits investor wallets,
// and drives the distribution and its period to a terminal state.
type Processor struct {
	dists    rentalDomain.DistributionRepository
	payments rentalDomain.PaymentRepository
	ledger   Ledger
	uow      uow.UnitOfWork
	log      *zap.Logger
}

func NewProcessor(
	dists rentalDomain.DistributionRepository,
	payments rentalDomain.PaymentRepository,
	ledger Ledger,
	tx uow.UnitOfWork,
	log *zap.Logger,
) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Processor{dists: dists, payments: payments, ledger: ledger, uow: tx, log: log}
}

type ProcessOptions struct {
	// ForceProcess retries failed payments, and cancels the ones that fail
	// again so the distribution can still close.
	ForceProcess bool
	// SkipWalletCredit marks payments paid without touching the ledger, for
	// months settled through an external payout channel.
	SkipWalletCredit bool
}

// Process pays out one distribution. Each payment attempt is isolated: one
// investor's failure never blocks the others, and a crash mid-sweep is
// recovered by calling Process again — already-paid rows are skipped and the
// ledger reference dedup absorbs replayed credits.
func (p *Processor) Process(ctx context.Context, distributionID string, opts ProcessOptions) (*rentalDomain.Summary, error) {
	dist, err := p.dists.GetByDistributionID(ctx, distributionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, rentalDomain.ErrNotFound
		}
		return nil, err
	}
	switch dist.Status {
	case rentalDomain.DistributionCancelled, rentalDomain.DistributionDraft:
		return nil, rentalDomain.ErrInvalidTransition
	case rentalDomain.DistributionDistributed:
		// already closed: report, don't re-sweep
		return p.summarize(ctx, dist)
	}

	if err := p.markProcessing(ctx, dist); err != nil {
		return nil, err
	}

	rows, err := p.payments.ListByDistribution(ctx, distributionID)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		payment := &rows[i]
		switch payment.PaymentStatus {
		case rentalDomain.PaymentPaid, rentalDomain.PaymentCancelled:
			continue
		case rentalDomain.PaymentFailed:
			if !opts.ForceProcess {
				continue
			}
		}
		if err := p.settle(ctx, dist, payment, opts); err != nil {
			return nil, err
		}
	}

	if err := p.finalize(ctx, distributionID, opts); err != nil {
		return nil, err
	}

	dist, err = p.dists.GetByDistributionID(ctx, distributionID)
	if err != nil {
		return nil, err
	}
	return p.summarize(ctx, dist)
}

// settle pushes one payment to a terminal-or-failed state. The ledger credit
// commits independently of the payment row update: if we crash in between,
// the next sweep re-credits with the same reference and the ledger returns
// the original transaction.
func (p *Processor) settle(ctx context.Context, dist *rentalDomain.Distribution, payment *rentalDomain.Payment, opts ProcessOptions) error {
	now := time.Now().UTC()

	// a zero share carries nothing to transfer; the row is settled as-is
	if payment.InvestorShare.IsZero() {
		payment.PaymentStatus = rentalDomain.PaymentPaid
		payment.FailureReason = ""
		payment.PaidAt = &now
		return p.payments.Save(ctx, payment)
	}

	if opts.SkipWalletCredit {
		payment.PaymentStatus = rentalDomain.PaymentPaid
		payment.PaymentMethod = paymentMethodExternal
		payment.FailureReason = ""
		payment.PaidAt = &now
		return p.payments.Save(ctx, payment)
	}

	txn, err := p.ledger.Credit(ctx, walletUsecase.EntryInput{
		Target: wallet.Target{
			OwnerID:  payment.InvestorID,
			Currency: dist.Currency,
		},
		Amount:    payment.InvestorShare,
		Reference: CreditReference(dist.DistributionID, payment.InvestorID, payment.OrderID),
		Meta:      fmt.Sprintf(`{"asset_id":%q,"month":%d,"year":%d}`, payment.AssetID, payment.Month, payment.Year),
	})
	if err != nil {
		payment.PaymentStatus = rentalDomain.PaymentFailed
		payment.FailureReason = err.Error()
		if saveErr := p.payments.Save(ctx, payment); saveErr != nil {
			return saveErr
		}
		p.log.Warn("rental payment failed",
			zap.String("distribution_id", dist.DistributionID),
			zap.String("payment_id", payment.PaymentID),
			zap.String("investor_id", payment.InvestorID),
			zap.Error(err))
		return nil
	}

	payment.PaymentStatus = rentalDomain.PaymentPaid
	payment.PaymentMethod = paymentMethodWallet
	payment.PaymentTransactionID = txn.TxnID
	payment.FailureReason = ""
	payment.PaidAt = &now
	if err := p.payments.Save(ctx, payment); err != nil {
		return err
	}

	p.log.Info("rental payment paid",
		zap.String("distribution_id", dist.DistributionID),
		zap.String("payment_id", payment.PaymentID),
		zap.String("investor_id", payment.InvestorID),
		zap.String("amount", payment.InvestorShare.StringFixed(2)))
	return nil
}

// markProcessing flips the period to PROCESSING on the first sweep.
func (p *Processor) markProcessing(ctx context.Context, dist *rentalDomain.Distribution) error {
	return p.uow.WithinTx(ctx, func(r uow.Repos) error {
		period, err := r.Periods.GetByAssetMonthForUpdate(ctx, dist.AssetID, dist.Month, dist.Year)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return rentalDomain.ErrNotFound
			}
			return err
		}
		if period.Status != rentalDomain.PeriodPending {
			return nil
		}
		period.Status = rentalDomain.PeriodProcessing
		period.StatusUpdatedAt = time.Now().UTC()
		return r.Periods.Save(ctx, period)
	})
}

// finalize re-reads the payment rows under the distribution lock and decides
// whether the distribution can close. It closes only when no payment is left
// pending; under ForceProcess, payments that failed their retry are cancelled
// so the month can still be shut.
func (p *Processor) finalize(ctx context.Context, distributionID string, opts ProcessOptions) error {
	return p.uow.WithinDistributionTx(ctx, distributionID, func(r uow.Repos, dist *rentalDomain.Distribution) error {
		rows, err := r.Payments.ListByDistribution(ctx, distributionID)
		if err != nil {
			return err
		}

		var pending, failed, cancelled int
		for i := range rows {
			switch rows[i].PaymentStatus {
			case rentalDomain.PaymentPending:
				pending++
			case rentalDomain.PaymentFailed:
				failed++
			case rentalDomain.PaymentCancelled:
				cancelled++
			}
		}
		if pending > 0 {
			return nil
		}

		notes := ""
		if failed > 0 {
			if !opts.ForceProcess {
				// stays ready; caller retries or forces
				return nil
			}
			for i := range rows {
				if rows[i].PaymentStatus != rentalDomain.PaymentFailed {
					continue
				}
				rows[i].PaymentStatus = rentalDomain.PaymentCancelled
				if err := r.Payments.Save(ctx, &rows[i]); err != nil {
					return err
				}
			}
			cancelled += failed
			notes = fmt.Sprintf("force-processed: %d payment(s) cancelled after failed retry", failed)
		}

		now := time.Now().UTC()
		dist.Status = rentalDomain.DistributionDistributed
		dist.StatusUpdatedAt = now
		if err := r.Distributions.Save(ctx, dist); err != nil {
			return err
		}

		period, err := r.Periods.GetByAssetMonthForUpdate(ctx, dist.AssetID, dist.Month, dist.Year)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return rentalDomain.ErrNotFound
			}
			return err
		}
		period.Status = rentalDomain.PeriodCompleted
		period.DistributedAt = &now
		period.DistributionNotes = notes
		period.StatusUpdatedAt = now
		if err := r.Periods.Save(ctx, period); err != nil {
			return err
		}

		p.log.Info("distribution closed",
			zap.String("distribution_id", dist.DistributionID),
			zap.String("asset_id", dist.AssetID),
			zap.Int("cancelled", cancelled))
		return nil
	})
}

// Cancel abandons a distribution before payout completes: every non-terminal
// payment row is cancelled and the period closes as FAILED so the month is
// visibly not distributed. Already-paid rows keep their money; a distribution
// that fully closed cannot be cancelled anymore.
func (p *Processor) Cancel(ctx context.Context, distributionID, reason string) (*rentalDomain.Summary, error) {
	err := p.uow.WithinDistributionTx(ctx, distributionID, func(r uow.Repos, dist *rentalDomain.Distribution) error {
		switch dist.Status {
		case rentalDomain.DistributionCancelled:
			return nil
		case rentalDomain.DistributionDistributed:
			return rentalDomain.ErrInvalidTransition
		}

		rows, err := r.Payments.ListByDistribution(ctx, distributionID)
		if err != nil {
			return err
		}
		var cancelled int
		for i := range rows {
			if rows[i].PaymentStatus.Terminal() {
				continue
			}
			rows[i].PaymentStatus = rentalDomain.PaymentCancelled
			if reason != "" {
				rows[i].FailureReason = reason
			}
			if err := r.Payments.Save(ctx, &rows[i]); err != nil {
				return err
			}
			cancelled++
		}

		now := time.Now().UTC()
		dist.Status = rentalDomain.DistributionCancelled
		dist.StatusUpdatedAt = now
		if err := r.Distributions.Save(ctx, dist); err != nil {
			return err
		}

		period, err := r.Periods.GetByAssetMonthForUpdate(ctx, dist.AssetID, dist.Month, dist.Year)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return rentalDomain.ErrNotFound
			}
			return err
		}
		notes := "cancelled"
		if reason != "" {
			notes = "cancelled: " + reason
		}
		period.Status = rentalDomain.PeriodFailed
		period.DistributionNotes = notes
		period.StatusUpdatedAt = now
		if err := r.Periods.Save(ctx, period); err != nil {
			return err
		}

		p.log.Info("distribution cancelled",
			zap.String("distribution_id", dist.DistributionID),
			zap.String("asset_id", dist.AssetID),
			zap.Int("payments_cancelled", cancelled),
			zap.String("reason", reason))
		return nil
	})
	if err != nil {
		return nil, err
	}

	dist, err := p.dists.GetByDistributionID(ctx, distributionID)
	if err != nil {
		return nil, err
	}
	return p.summarize(ctx, dist)
}

// CreditReference is the ledger idempotency key for one payment row. It
// includes the order so an investor holding several orders of the same asset
// gets one credit per payment row, not one per investor.
func CreditReference(distributionID, investorID, orderID string) string {
	return "rental:" + distributionID + ":" + investorID + ":" + orderID
}
