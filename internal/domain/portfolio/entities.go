package portfolio

import (
	"time"

	"gorm.io/gorm"
)

// Holding is one investor's token position in an asset, keyed by the order
// that minted it. The distribution engine reads these rows to build its
// point-in-time ownership snapshot.
type Holding struct {
	ID         uint64         `gorm:"primaryKey;column:id" json:"-"`
	HoldingID  string         `gorm:"size:24;uniqueIndex:ux_holdings_holding_id" json:"holding_id"`
	AssetID    string         `gorm:"size:24;uniqueIndex:ux_holdings_asset_investor_order,priority:1;index:idx_holdings_asset" json:"asset_id"`
	InvestorID string         `gorm:"size:24;uniqueIndex:ux_holdings_asset_investor_order,priority:2" json:"investor_id"`
	OrderID    string         `gorm:"size:24;uniqueIndex:ux_holdings_asset_investor_order,priority:3" json:"order_id"`
	Tokens     int64          `json:"tokens"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Holding) TableName() string { return "token_holdings" }

// SnapshotEntry is one row of a frozen ownership snapshot.
type SnapshotEntry struct {
	InvestorID string
	OrderID    string
	Tokens     int64
}

// Snapshot is the point-in-time token ownership of one asset, ordered by
// (investor_id, order_id) ascending so allocation iteration is stable.
type Snapshot struct {
	AssetID     string
	TotalTokens int64
	Entries     []SnapshotEntry
}
