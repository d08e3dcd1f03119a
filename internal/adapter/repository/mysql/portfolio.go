package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	portfolioDomain "propvest-backend/internal/domain/portfolio"
)

type PortfolioRepository struct{ db *gorm.DB }

func NewPortfolioRepository(db *gorm.DB) *PortfolioRepository { return &PortfolioRepository{db: db} }

func (r *PortfolioRepository) Upsert(ctx context.Context, h *portfolioDomain.Holding) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "asset_id"}, {Name: "investor_id"}, {Name: "order_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"tokens", "updated_at"}),
		}).
		Create(h).Error
}

func (r *PortfolioRepository) SnapshotByAsset(ctx context.Context, assetID string) (*portfolioDomain.Snapshot, error) {
	var holdings []portfolioDomain.Holding
	res := r.db.WithContext(ctx).
		Where("asset_id = ? AND tokens > 0", assetID).
		Order("investor_id ASC, order_id ASC").
		Find(&holdings)
	if res.Error != nil {
		return nil, res.Error
	}

	snap := &portfolioDomain.Snapshot{AssetID: assetID}
	for _, h := range holdings {
		snap.TotalTokens += h.Tokens
		snap.Entries = append(snap.Entries, portfolioDomain.SnapshotEntry{
			InvestorID: h.InvestorID,
			OrderID:    h.OrderID,
			Tokens:     h.Tokens,
		})
	}
	return snap, nil
}
