// Package wallet owns the connection lifecycle against the user's wallet
// provider and exposes a stable connected/disconnected view of it.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/big"
	"sync"

	"github.com/goalzilla/goalzilla/src/core/amount"
	"github.com/goalzilla/goalzilla/src/core/network"
)

var (
	ErrNoProvider        = errors.New("no wallet provider available")
	ErrConnectInProgress = errors.New("wallet connect already in progress")
	ErrConnectFailed     = errors.New("wallet connection failed")
	ErrNotImplemented    = errors.New("not implemented")
)

// Provider is the full wallet provider boundary the session consumes.
type Provider interface {
	network.Provider
	RequestAccounts(ctx context.Context) ([]string, error)
	Balance(ctx context.Context, addr string) (*big.Int, error)
}

// State of the session lifecycle.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
)

// Session is the single owner of connection state. Sessions start
// disconnected and never reconnect on their own.
type Session struct {
	mu         sync.Mutex
	provider   Provider
	reconciler *network.Reconciler

	state   State
	account string
	balance string
	loading bool
	lastErr string
}

// NewSession wires a session to a provider handle (nil when no wallet is
// installed) and the chain the contract requires.
func NewSession(provider Provider, required network.Descriptor) *Session {
	return &Session{
		provider:   provider,
		reconciler: network.NewReconciler(required),
	}
}

// Connect negotiates the required network, requests account access and
// reads the native balance. The first returned account becomes the active
// one. A second Connect while one is in flight is rejected rather than
// racing the provider.
func (s *Session) Connect(ctx context.Context) (account, balance string, err error) {
	s.mu.Lock()
	if s.provider == nil {
		s.lastErr = "A wallet provider is required. Please install one."
		s.mu.Unlock()
		return "", "", ErrNoProvider
	}
	if s.state == Connecting {
		s.mu.Unlock()
		return "", "", ErrConnectInProgress
	}
	s.state = Connecting
	s.loading = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	account, balance, err = s.connect(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		log.Printf("wallet: connect failed: %v", err)
		s.state = Disconnected
		s.lastErr = "Error connecting to wallet."
		return "", "", fmt.Errorf("%w: %v", ErrConnectFailed, err)
	}
	s.state = Connected
	s.account = account
	s.balance = balance
	s.lastErr = ""
	return account, balance, nil
}

func (s *Session) connect(ctx context.Context) (string, string, error) {
	if err := s.reconciler.Ensure(ctx, s.provider); err != nil {
		return "", "", err
	}

	accounts, err := s.provider.RequestAccounts(ctx)
	if err != nil {
		return "", "", fmt.Errorf("request accounts: %w", err)
	}
	if len(accounts) == 0 {
		return "", "", fmt.Errorf("provider returned no accounts")
	}
	account := accounts[0]

	raw, err := s.provider.Balance(ctx, account)
	if err != nil {
		return "", "", fmt.Errorf("read balance: %w", err)
	}
	balance, err := amount.ToDisplayUnits(raw)
	if err != nil {
		return "", "", fmt.Errorf("format balance: %w", err)
	}
	return account, balance, nil
}

// Disconnect is declared for the public contract but not implemented;
// sessions end with process teardown.
func (s *Session) Disconnect(ctx context.Context) error {
	return ErrNotImplemented
}

// IsConnected reports whether a connect completed successfully.
func (s *Session) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == Connected
}

// Account returns the active account, empty while disconnected.
func (s *Session) Account() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account
}

// Balance returns the native balance in display units.
func (s *Session) Balance() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance
}

// Loading reports whether a connect is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last user-visible connection error message.
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
