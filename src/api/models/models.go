package models

import "time"

// CampaignRecord mirrors one on-chain campaign into MySQL so browse and
// search endpoints survive RPC outages. The ledger stays the source of
// truth; the indexer refreshes these rows.
type CampaignRecord struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement:false"` // on-chain id
	Creator     string `gorm:"size:64;index;not null"`
	Title       string `gorm:"size:255"`
	Category    string `gorm:"size:64;index"`
	GoalAmount  string `gorm:"size:80"` // display units
	TotalFunded string `gorm:"size:80"`
	IsActive    bool   `gorm:"default:true"`
	CreatedAt   uint64 `gorm:"autoCreateTime:false;default:0"` // ledger timestamp, not row time
	Duration    string `gorm:"size:16"`
	UpdatedAt   time.Time
}
