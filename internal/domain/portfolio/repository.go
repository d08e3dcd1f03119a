package portfolio

import "context"

type Repository interface {
	Upsert(ctx context.Context, h *Holding) error
	// SnapshotByAsset freezes the current holdings of an asset, ordered by
	// (investor_id, order_id) ascending.
	SnapshotByAsset(ctx context.Context, assetID string) (*Snapshot, error)
}
