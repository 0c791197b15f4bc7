// Package campaign fetches, normalizes and caches campaign records from the
// ledger and validates drafts before submission.
package campaign

import (
	"github.com/goalzilla/goalzilla/src/core/amount"
	"github.com/goalzilla/goalzilla/src/core/contract"
)

// Campaign is the normalized client model. Amounts are decimal display
// units; the ledger keeps them as fixed-point integers.
type Campaign struct {
	ID          string `json:"id"`
	Creator     string `json:"creator"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	GoalAmount  string `json:"goalAmount"`
	TotalFunded string `json:"totalFunded"`
	IsActive    bool   `json:"isActive"`
	CreatedAt   uint64 `json:"createdAt"`
	Duration    string `json:"duration"`

	// Detail fields, populated by GetByID only.
	Description   string   `json:"description,omitempty"`
	ProofOfWork   string   `json:"proofOfWork,omitempty"`
	Beneficiaries string   `json:"beneficiaries,omitempty"`
	Media         []string `json:"media,omitempty"`
}

// Milestone is a client-side draft sub-target; the ledger stores parallel
// name/target arrays instead of milestone entities.
type Milestone struct {
	Name   string `json:"name"`
	Target string `json:"target"`
}

// Draft is a campaign creation form as entered by the user, amounts still
// in decimal display units.
type Draft struct {
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Goal          string      `json:"goal"`
	Duration      string      `json:"duration"`
	Category      string      `json:"category"`
	Milestones    []Milestone `json:"milestones"`
	Beneficiaries string      `json:"beneficiaries"`
	ProofOfWork   string      `json:"proofOfWork"`
	Media         []string    `json:"media"`
}

func fromMetadata(raw contract.RawCampaign) (Campaign, error) {
	goal, err := amount.ToDisplayUnits(raw.GoalAmount)
	if err != nil {
		return Campaign{}, err
	}
	funded, err := amount.ToDisplayUnits(raw.TotalFunded)
	if err != nil {
		return Campaign{}, err
	}
	return Campaign{
		ID:          raw.ID.String(),
		Creator:     raw.Creator,
		Title:       raw.Title,
		Category:    raw.Category,
		GoalAmount:  goal,
		TotalFunded: funded,
		IsActive:    raw.IsActive,
		CreatedAt:   raw.CreatedAt.Uint64(),
		Duration:    raw.Duration.String(),
	}, nil
}

func fromDetails(raw contract.RawCampaignDetail) (Campaign, error) {
	c, err := fromMetadata(raw.RawCampaign)
	if err != nil {
		return Campaign{}, err
	}
	c.Description = raw.Description
	c.ProofOfWork = raw.ProofOfWork
	c.Beneficiaries = raw.Beneficiaries
	c.Media = raw.Media
	return c, nil
}
