package portfoliomock

import (
	"context"

	domain "propvest-backend/internal/domain/portfolio"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies portfolio.Repository.
type Repo struct {
	UpsertFn          func(ctx context.Context, h *domain.Holding) error
	SnapshotByAssetFn func(ctx context.Context, assetID string) (*domain.Snapshot, error)
}

func (m *Repo) Upsert(ctx context.Context, h *domain.Holding) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, h)
	}
	return nil
}

func (m *Repo) SnapshotByAsset(ctx context.Context, assetID string) (*domain.Snapshot, error) {
	if m.SnapshotByAssetFn != nil {
		return m.SnapshotByAssetFn(ctx, assetID)
	}
	return nil, context.Canceled
}
