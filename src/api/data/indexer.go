package data

import (
	"context"
	"log"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/goalzilla/goalzilla/src/api/models"
	"github.com/goalzilla/goalzilla/src/core/campaign"
)

// lister is the slice of the repository the indexer consumes.
type lister interface {
	List(ctx context.Context) ([]campaign.Campaign, error)
}

// RunCampaignIndexer mirrors the current ledger campaign set into MySQL.
// Rows are upserted, never deleted; campaigns are append-only on chain.
func RunCampaignIndexer(ctx context.Context, db *gorm.DB, repo lister) {
	campaigns, err := repo.List(ctx)
	if err != nil {
		log.Printf("indexer: fetch failed: %v", err)
		return
	}

	created, updated := 0, 0
	for _, c := range campaigns {
		select {
		case <-ctx.Done():
			return
		default:
		}

		id, convErr := strconv.ParseUint(c.ID, 10, 64)
		if convErr != nil {
			log.Printf("indexer: bad campaign id %q: %v", c.ID, convErr)
			continue
		}

		var rec models.CampaignRecord
		err := db.First(&rec, "id = ?", id).Error

		if err == gorm.ErrRecordNotFound {
			rec = models.CampaignRecord{
				ID:          id,
				Creator:     c.Creator,
				Title:       c.Title,
				Category:    c.Category,
				GoalAmount:  c.GoalAmount,
				TotalFunded: c.TotalFunded,
				IsActive:    c.IsActive,
				CreatedAt:   c.CreatedAt,
				Duration:    c.Duration,
				UpdatedAt:   time.Now(),
			}
			if err := db.Create(&rec).Error; err != nil {
				log.Printf("indexer: create campaign %s: %v", c.ID, err)
			} else {
				created++
			}
		} else if err == nil {
			changed := false
			if rec.TotalFunded != c.TotalFunded {
				rec.TotalFunded = c.TotalFunded
				changed = true
			}
			if rec.IsActive != c.IsActive {
				rec.IsActive = c.IsActive
				changed = true
			}
			if changed {
				rec.UpdatedAt = time.Now()
				if err := db.Save(&rec).Error; err != nil {
					log.Printf("indexer: update campaign %s: %v", c.ID, err)
				} else {
					updated++
				}
			}
		} else {
			log.Printf("indexer: database error for campaign %s: %v", c.ID, err)
		}
	}

	log.Printf("indexer: sync complete - %d campaigns (created: %d, updated: %d)",
		len(campaigns), created, updated)
}

// IndexerService runs the indexer periodically.
func IndexerService(ctx context.Context, db *gorm.DB, repo lister, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run once immediately
	RunCampaignIndexer(ctx, db, repo)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			RunCampaignIndexer(ctx, db, repo)
		}
	}
}
