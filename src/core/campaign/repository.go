package campaign

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/goalzilla/goalzilla/src/core/amount"
	"github.com/goalzilla/goalzilla/src/core/contract"
	"github.com/goalzilla/goalzilla/src/core/wallet"
)

var (
	ErrPartialFetch = errors.New("campaign fetch incomplete")
	ErrNotFound     = errors.New("campaign not found")
)

// Repository owns the normalized campaign cache. Only the repository
// mutates it; everything else reads through the accessors.
type Repository struct {
	mu      sync.Mutex
	gateway *contract.Gateway
	session *wallet.Session

	campaigns     []Campaign
	userCampaigns []Campaign
	loading       bool
	lastErr       string
}

// NewRepository wires a repository to the gateway and the session whose
// account scopes the user view.
func NewRepository(gateway *contract.Gateway, session *wallet.Session) *Repository {
	return &Repository{gateway: gateway, session: session}
}

// List fetches every campaign from the ledger. The per-index metadata reads
// run concurrently but the result keeps ascending id order. The batch is
// all-or-nothing: one failed read fails the call and leaves the previous
// cache untouched.
func (r *Repository) List(ctx context.Context) ([]Campaign, error) {
	r.setLoading(true)
	defer r.setLoading(false)

	campaigns, err := r.fetchAll(ctx)
	if err != nil {
		log.Printf("campaigns: fetch failed: %v", err)
		r.mu.Lock()
		r.lastErr = "Failed to fetch campaigns"
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: %v", ErrPartialFetch, err)
	}

	account := r.session.Account()
	var mine []Campaign
	for _, c := range campaigns {
		if account != "" && strings.EqualFold(c.Creator, account) {
			mine = append(mine, c)
		}
	}

	r.mu.Lock()
	r.campaigns = campaigns
	r.userCampaigns = mine
	r.lastErr = ""
	r.mu.Unlock()
	return campaigns, nil
}

func (r *Repository) fetchAll(ctx context.Context) ([]Campaign, error) {
	count, err := r.gateway.CampaignCount(ctx)
	if err != nil {
		return nil, err
	}

	// One result slot per index keeps ledger order regardless of which
	// read finishes first.
	out := make([]Campaign, count)
	g, ctx := errgroup.WithContext(ctx)
	for i := uint64(0); i < count; i++ {
		i := i
		g.Go(func() error {
			raw, err := r.gateway.CampaignMetadata(ctx, i)
			if err != nil {
				return err
			}
			c, err := fromMetadata(raw)
			if err != nil {
				return err
			}
			out[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID reads one campaign's full details straight from the ledger,
// bypassing the list cache.
func (r *Repository) GetByID(ctx context.Context, id uint64) (Campaign, error) {
	raw, err := r.gateway.CampaignDetails(ctx, id)
	if errors.Is(err, contract.ErrEmptyRecord) {
		return Campaign{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return Campaign{}, err
	}
	return fromDetails(raw)
}

// Create validates the draft, encodes amounts to ledger units, splits
// milestones into parallel name/target arrays and submits the transaction,
// waiting for confirmation. The cached list is not refreshed; callers call
// List again to observe the new campaign.
func (r *Repository) Create(ctx context.Context, draft Draft) error {
	if res := Validate(draft); !res.OK() {
		return &ValidationError{Result: res}
	}

	goalUnits, err := amount.ToLedgerUnits(draft.Goal)
	if err != nil {
		return fmt.Errorf("goal: %w", err)
	}
	days, err := strconv.ParseUint(strings.TrimSpace(draft.Duration), 10, 32)
	if err != nil {
		return fmt.Errorf("duration: %w", amount.ErrInvalidAmount)
	}

	names := make([]string, len(draft.Milestones))
	targets := make([]*big.Int, len(draft.Milestones))
	for i, m := range draft.Milestones {
		names[i] = m.Name
		targets[i], err = amount.ToLedgerUnits(m.Target)
		if err != nil {
			return fmt.Errorf("milestone %q: %w", m.Name, err)
		}
	}

	media := draft.Media
	if media == nil {
		media = []string{}
	}

	tx, err := r.gateway.SubmitCampaign(ctx, contract.SubmitArgs{
		Title:            draft.Title,
		Description:      draft.Description,
		Category:         draft.Category,
		GoalUnits:        goalUnits,
		DurationDays:     new(big.Int).SetUint64(days),
		MilestoneNames:   names,
		MilestoneTargets: targets,
		ProofOfWork:      draft.ProofOfWork,
		Beneficiaries:    draft.Beneficiaries,
		Media:            media,
	})
	if err != nil {
		return err
	}

	log.Printf("campaigns: submitted %s, awaiting confirmation", tx.Hash)
	return tx.Wait(ctx)
}

// Campaigns returns the cached normalized list.
func (r *Repository) Campaigns() []Campaign {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Campaign, len(r.campaigns))
	copy(out, r.campaigns)
	return out
}

// UserCampaigns returns the cached campaigns created by the connected
// account. Recomputed only at fetch time; a mid-session account change
// needs another List to be reflected.
func (r *Repository) UserCampaigns() []Campaign {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Campaign, len(r.userCampaigns))
	copy(out, r.userCampaigns)
	return out
}

// Loading reports whether a fetch is in flight.
func (r *Repository) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}

// Err returns the last user-visible fetch error message.
func (r *Repository) Err() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

func (r *Repository) setLoading(v bool) {
	r.mu.Lock()
	r.loading = v
	r.mu.Unlock()
}
