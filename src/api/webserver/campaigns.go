package webserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/goalzilla/goalzilla/src/api/data"
	"github.com/goalzilla/goalzilla/src/api/models"
	"github.com/goalzilla/goalzilla/src/core"
	"github.com/goalzilla/goalzilla/src/core/campaign"
	"github.com/goalzilla/goalzilla/src/core/contract"
)

type Campaigns struct {
	db        *gorm.DB
	rdb       *redis.Client
	svc       *core.Service
	sanitizer *bluemonday.Policy
}

func NewCampaigns(db *gorm.DB, rdb *redis.Client, svc *core.Service) Campaigns {
	return Campaigns{
		db:        db,
		rdb:       rdb,
		svc:       svc,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// List serves the cached campaign set.
func (h Campaigns) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"campaigns": h.svc.Campaigns()})
}

// Mine serves the cached campaigns created by the connected account.
func (h Campaigns) Mine(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"campaigns": h.svc.UserCampaigns()})
}

// Refresh re-fetches the campaign set from the ledger.
func (h Campaigns) Refresh(c *gin.Context) {
	campaigns, err := h.svc.FetchCampaigns(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"err": h.svc.Err()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"campaigns": campaigns})
}

// Browse serves the indexed mirror from MySQL, filterable by category and
// creator, without touching the ledger.
func (h Campaigns) Browse(c *gin.Context) {
	q := h.db.Model(&models.CampaignRecord{}).Order("id ASC")
	if cat := c.Query("category"); cat != "" {
		q = q.Where("category = ?", cat)
	}
	if creator := c.Query("creator"); creator != "" {
		q = q.Where("creator = ?", creator)
	}

	var records []models.CampaignRecord
	if err := q.Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"campaigns": records})
}

// Get reads one campaign's full details fresh from the ledger.
func (h Campaigns) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "bad campaign id"})
		return
	}

	found, err := h.svc.GetCampaignByID(c.Request.Context(), id)
	if errors.Is(err, campaign.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"err": "campaign not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"err": "failed to fetch campaign"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"campaign": found})
}

// Create validates and submits a draft for the connected account, waiting
// for on-chain confirmation before answering.
func (h Campaigns) Create(c *gin.Context) {
	var draft campaign.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	// Free-text fields may carry markdown; strip anything dangerous
	// before it reaches the ledger.
	draft.Description = h.sanitizer.Sanitize(draft.Description)
	draft.ProofOfWork = h.sanitizer.Sanitize(draft.ProofOfWork)
	draft.Beneficiaries = h.sanitizer.Sanitize(draft.Beneficiaries)

	err := h.svc.CreateCampaign(c.Request.Context(), draft)

	var vErr *campaign.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"err": "validation failed", "fields": vErr.Result})
		return
	case errors.Is(err, contract.ErrNotConnected):
		c.JSON(http.StatusUnauthorized, gin.H{"err": "wallet not connected"})
		return
	case err != nil:
		c.JSON(http.StatusBadGateway, gin.H{"err": "campaign creation failed"})
		return
	}

	_ = data.PublishCampaignCreated(c, h.rdb, map[string]interface{}{
		"creator": c.GetString("addr"),
		"title":   draft.Title,
		"goal":    draft.Goal,
	})
	c.JSON(http.StatusCreated, gin.H{"ok": true})
}
