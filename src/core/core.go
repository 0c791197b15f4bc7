// Package core composes the wallet session and the campaign repository into
// the single surface the rest of the system consumes.
package core

import (
	"context"
	"errors"

	"github.com/goalzilla/goalzilla/src/core/campaign"
	"github.com/goalzilla/goalzilla/src/core/contract"
	"github.com/goalzilla/goalzilla/src/core/network"
	"github.com/goalzilla/goalzilla/src/core/wallet"
)

// ErrNotImplemented marks flows declared in the public contract but outside
// this core's scope.
var ErrNotImplemented = errors.New("not implemented")

// Service is the application core. All mutable state lives in the session
// and the repository; Service itself is stateless glue.
type Service struct {
	session *wallet.Session
	repo    *campaign.Repository
}

// New wires the core: one session against the provider, one gateway bound
// to the contract address, one repository over both.
func New(provider wallet.Provider, caller contract.Caller, contractAddress string, required network.Descriptor) *Service {
	session := wallet.NewSession(provider, required)
	gateway := contract.New(caller, contractAddress, session)
	return &Service{
		session: session,
		repo:    campaign.NewRepository(gateway, session),
	}
}

// ConnectWallet connects the session, reconciling the provider's network
// first.
func (s *Service) ConnectWallet(ctx context.Context) error {
	_, _, err := s.session.Connect(ctx)
	return err
}

func (s *Service) IsConnected() bool        { return s.session.IsConnected() }
func (s *Service) ConnectedAccount() string { return s.session.Account() }
func (s *Service) AccountBalance() string   { return s.session.Balance() }

// Campaigns returns the cached campaign list.
func (s *Service) Campaigns() []campaign.Campaign { return s.repo.Campaigns() }

// UserCampaigns returns the cached campaigns created by the connected account.
func (s *Service) UserCampaigns() []campaign.Campaign { return s.repo.UserCampaigns() }

// FetchCampaigns refreshes the cache from the ledger.
func (s *Service) FetchCampaigns(ctx context.Context) ([]campaign.Campaign, error) {
	return s.repo.List(ctx)
}

// GetCampaignByID reads one campaign fresh from the ledger.
func (s *Service) GetCampaignByID(ctx context.Context, id uint64) (campaign.Campaign, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateCampaign validates and submits a draft, waiting for confirmation.
func (s *Service) CreateCampaign(ctx context.Context, draft campaign.Draft) error {
	return s.repo.Create(ctx, draft)
}

// Loading reports whether the session or the repository has work in flight.
func (s *Service) Loading() bool {
	return s.session.Loading() || s.repo.Loading()
}

// Err returns the most recent user-visible error message.
func (s *Service) Err() string {
	if msg := s.session.Err(); msg != "" {
		return msg
	}
	return s.repo.Err()
}

// DisconnectWallet is declared for the public contract; sessions end with
// process teardown.
func (s *Service) DisconnectWallet(ctx context.Context) error { return ErrNotImplemented }

// Contribute is out of scope for this core.
func (s *Service) Contribute(ctx context.Context, id uint64, amount string) error {
	return ErrNotImplemented
}

// Withdraw is out of scope for this core.
func (s *Service) Withdraw(ctx context.Context, id uint64, amount string) error {
	return ErrNotImplemented
}

// CompleteMilestone is out of scope for this core.
func (s *Service) CompleteMilestone(ctx context.Context, id uint64, milestone string) error {
	return ErrNotImplemented
}

// UpdateMilestone is out of scope for this core.
func (s *Service) UpdateMilestone(ctx context.Context, id uint64, milestone string) error {
	return ErrNotImplemented
}
