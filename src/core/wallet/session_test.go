package wallet

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goalzilla/goalzilla/src/core/network"
	"github.com/goalzilla/goalzilla/src/evm"
)

var testNet = network.Descriptor{
	ChainIDHex:       "0x29",
	Name:             "Testnet",
	RPCURL:           "https://rpc.test",
	BlockExplorerURL: "https://explorer.test",
	NativeCurrency:   evm.NativeCurrency{Name: "Testnet", Symbol: "TST", Decimals: 18},
}

type fakeProvider struct {
	chainID    string
	accounts   []string
	balance    *big.Int
	balanceErr error

	switchCalls int
	gate        chan struct{} // when set, RequestAccounts blocks on it
}

func (p *fakeProvider) ChainID(ctx context.Context) (string, error) {
	return p.chainID, nil
}

func (p *fakeProvider) SwitchChain(ctx context.Context, chainIDHex string) error {
	p.switchCalls++
	p.chainID = chainIDHex
	return nil
}

func (p *fakeProvider) AddChain(ctx context.Context, params evm.AddChainParams) error {
	p.chainID = params.ChainID
	return nil
}

func (p *fakeProvider) RequestAccounts(ctx context.Context) ([]string, error) {
	if p.gate != nil {
		<-p.gate
	}
	if len(p.accounts) == 0 {
		return nil, errors.New("no accounts")
	}
	return p.accounts, nil
}

func (p *fakeProvider) Balance(ctx context.Context, addr string) (*big.Int, error) {
	if p.balanceErr != nil {
		return nil, p.balanceErr
	}
	return p.balance, nil
}

func oneEther() *big.Int {
	n, _ := new(big.Int).SetString("1000000000000000000", 10)
	return n
}

func TestConnectNoProvider(t *testing.T) {
	s := NewSession(nil, testNet)

	_, _, err := s.Connect(context.Background())
	assert.ErrorIs(t, err, ErrNoProvider)
	assert.False(t, s.IsConnected())
	assert.NotEmpty(t, s.Err())
}

func TestConnectOnWrongNetwork(t *testing.T) {
	p := &fakeProvider{
		chainID:  "0x1",
		accounts: []string{"0xAbC0000000000000000000000000000000000001", "0xAbC0000000000000000000000000000000000002"},
		balance:  oneEther(),
	}
	s := NewSession(p, testNet)

	account, balance, err := s.Connect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, p.switchCalls, "wrong network triggers exactly one switch")
	assert.Equal(t, "0xAbC0000000000000000000000000000000000001", account, "first account wins")
	assert.Equal(t, "1", balance)
	assert.True(t, s.IsConnected())
	assert.Equal(t, account, s.Account())
	assert.Equal(t, "1", s.Balance())
	assert.False(t, s.Loading())
	assert.Empty(t, s.Err())
}

func TestConnectFailureResetsState(t *testing.T) {
	p := &fakeProvider{
		chainID:    "0x29",
		accounts:   []string{"0xAbC0000000000000000000000000000000000001"},
		balanceErr: errors.New("rpc down"),
	}
	s := NewSession(p, testNet)

	_, _, err := s.Connect(context.Background())
	assert.ErrorIs(t, err, ErrConnectFailed)
	assert.False(t, s.IsConnected())
	assert.Empty(t, s.Account())
	assert.False(t, s.Loading(), "loading flag cleared on failure")
	assert.Equal(t, "Error connecting to wallet.", s.Err())
}

func TestConnectRejectsReentry(t *testing.T) {
	p := &fakeProvider{
		chainID:  "0x29",
		accounts: []string{"0xAbC0000000000000000000000000000000000001"},
		balance:  oneEther(),
		gate:     make(chan struct{}),
	}
	s := NewSession(p, testNet)

	done := make(chan error, 1)
	go func() {
		_, _, err := s.Connect(context.Background())
		done <- err
	}()

	// Wait for the first connect to reach the provider.
	require.Eventually(t, s.Loading, time.Second, 5*time.Millisecond)

	_, _, err := s.Connect(context.Background())
	assert.ErrorIs(t, err, ErrConnectInProgress)

	close(p.gate)
	require.NoError(t, <-done)
	assert.True(t, s.IsConnected())
}

func TestConnectRetriesAfterFailure(t *testing.T) {
	p := &fakeProvider{chainID: "0x29"}
	s := NewSession(p, testNet)

	_, _, err := s.Connect(context.Background())
	require.ErrorIs(t, err, ErrConnectFailed)

	p.accounts = []string{"0xAbC0000000000000000000000000000000000001"}
	p.balance = oneEther()

	_, _, err = s.Connect(context.Background())
	require.NoError(t, err)
	assert.True(t, s.IsConnected())
}

func TestDisconnectStub(t *testing.T) {
	s := NewSession(&fakeProvider{}, testNet)
	assert.ErrorIs(t, s.Disconnect(context.Background()), ErrNotImplemented)
}
