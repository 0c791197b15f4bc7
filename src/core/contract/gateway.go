// Package contract is the typed façade over the campaign contract. Raw
// return tuples are decoded here and nowhere else; the rest of the system
// only sees typed records.
package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/goalzilla/goalzilla/src/core/wallet"
	"github.com/goalzilla/goalzilla/src/evm"
)

var (
	ErrNotConnected = errors.New("wallet not connected")
	ErrTxFailed     = errors.New("transaction failed")
)

// Caller is the slice of the RPC client the gateway needs. Reads work with
// a bare caller; writes go through the connected session's account.
type Caller interface {
	CallContract(ctx context.Context, to string, data []byte) ([]byte, error)
	SendTransaction(ctx context.Context, from, to string, data []byte) (string, error)
	TransactionReceipt(ctx context.Context, hash string) (*evm.Receipt, error)
}

// RawCampaign is the decoded getCampaignMetadata tuple.
type RawCampaign struct {
	ID          *big.Int
	Creator     string
	Title       string
	Category    string
	GoalAmount  *big.Int
	TotalFunded *big.Int
	IsActive    bool
	CreatedAt   *big.Int
	Duration    *big.Int
}

// RawCampaignDetail is the decoded getCampaignDetails tuple, extending the
// metadata with the heavy fields.
type RawCampaignDetail struct {
	RawCampaign
	Description   string
	ProofOfWork   string
	Beneficiaries string
	Media         []string
}

// SubmitArgs carries a createCampaign call with amounts already in ledger
// units; encoding is the caller's responsibility.
type SubmitArgs struct {
	Title            string
	Description      string
	Category         string
	GoalUnits        *big.Int
	DurationDays     *big.Int
	MilestoneNames   []string
	MilestoneTargets []*big.Int
	ProofOfWork      string
	Beneficiaries    string
	Media            []string
}

// Gateway binds one contract address to a caller and the wallet session
// that signs writes.
type Gateway struct {
	caller  Caller
	address string
	session *wallet.Session
}

// New builds a gateway for the contract at address.
func New(caller Caller, address string, session *wallet.Session) *Gateway {
	return &Gateway{caller: caller, address: address, session: session}
}

// CampaignCount reads the contract's campaign counter.
func (g *Gateway) CampaignCount(ctx context.Context) (uint64, error) {
	data, err := evm.EncodeCall("campaignCounter()")
	if err != nil {
		return 0, err
	}
	out, err := g.caller.CallContract(ctx, g.address, data)
	if err != nil {
		return 0, fmt.Errorf("campaignCounter: %w", err)
	}
	n, err := evm.NewTuple(out).Uint(0)
	if err != nil {
		return 0, fmt.Errorf("campaignCounter: %w", err)
	}
	return n.Uint64(), nil
}

func decodeMetadata(t *evm.Tuple) (RawCampaign, error) {
	var c RawCampaign
	var err error
	if c.ID, err = t.Uint(0); err != nil {
		return c, err
	}
	if c.Creator, err = t.Addr(1); err != nil {
		return c, err
	}
	if c.Title, err = t.String(2); err != nil {
		return c, err
	}
	if c.Category, err = t.String(3); err != nil {
		return c, err
	}
	if c.GoalAmount, err = t.Uint(4); err != nil {
		return c, err
	}
	if c.TotalFunded, err = t.Uint(5); err != nil {
		return c, err
	}
	if c.IsActive, err = t.Bool(6); err != nil {
		return c, err
	}
	if c.CreatedAt, err = t.Uint(7); err != nil {
		return c, err
	}
	if c.Duration, err = t.Uint(8); err != nil {
		return c, err
	}
	return c, nil
}

// CampaignMetadata reads the light campaign tuple at index.
func (g *Gateway) CampaignMetadata(ctx context.Context, index uint64) (RawCampaign, error) {
	data, err := evm.EncodeCall("getCampaignMetadata(uint256)", new(big.Int).SetUint64(index))
	if err != nil {
		return RawCampaign{}, err
	}
	out, err := g.caller.CallContract(ctx, g.address, data)
	if err != nil {
		return RawCampaign{}, fmt.Errorf("getCampaignMetadata(%d): %w", index, err)
	}
	c, err := decodeMetadata(evm.NewTuple(out))
	if err != nil {
		return RawCampaign{}, fmt.Errorf("getCampaignMetadata(%d): %w", index, err)
	}
	return c, nil
}

// ErrEmptyRecord marks a details read that decoded to the contract's
// zero-valued record, meaning no campaign exists at that id.
var ErrEmptyRecord = errors.New("empty campaign record")

// CampaignDetails reads the full campaign tuple for id. A read past the
// counter does not fail at the contract; it answers with a zero-valued
// record, recognizable by its zero creator address.
func (g *Gateway) CampaignDetails(ctx context.Context, id uint64) (RawCampaignDetail, error) {
	data, err := evm.EncodeCall("getCampaignDetails(uint256)", new(big.Int).SetUint64(id))
	if err != nil {
		return RawCampaignDetail{}, err
	}
	out, err := g.caller.CallContract(ctx, g.address, data)
	if err != nil {
		return RawCampaignDetail{}, fmt.Errorf("getCampaignDetails(%d): %w", id, err)
	}
	t := evm.NewTuple(out)
	var d RawCampaignDetail
	if d.RawCampaign, err = decodeMetadata(t); err != nil {
		return RawCampaignDetail{}, fmt.Errorf("getCampaignDetails(%d): %w", id, err)
	}
	if d.Creator == evm.ZeroAddress {
		return RawCampaignDetail{}, ErrEmptyRecord
	}
	if d.Description, err = t.String(9); err != nil {
		return RawCampaignDetail{}, err
	}
	if d.ProofOfWork, err = t.String(10); err != nil {
		return RawCampaignDetail{}, err
	}
	if d.Beneficiaries, err = t.String(11); err != nil {
		return RawCampaignDetail{}, err
	}
	if d.Media, err = t.StringSlice(12); err != nil {
		return RawCampaignDetail{}, err
	}
	return d, nil
}

// SubmitCampaign sends a createCampaign transaction signed by the connected
// account and returns the pending handle immediately.
func (g *Gateway) SubmitCampaign(ctx context.Context, args SubmitArgs) (*PendingTx, error) {
	if !g.session.IsConnected() {
		return nil, ErrNotConnected
	}

	data, err := evm.EncodeCall(
		"createCampaign(string,string,string,uint256,uint256,string[],uint256[],string,string,string[])",
		args.Title,
		args.Description,
		args.Category,
		args.GoalUnits,
		args.DurationDays,
		args.MilestoneNames,
		args.MilestoneTargets,
		args.ProofOfWork,
		args.Beneficiaries,
		args.Media,
	)
	if err != nil {
		return nil, fmt.Errorf("createCampaign: encode: %w", err)
	}

	hash, err := g.caller.SendTransaction(ctx, g.session.Account(), g.address, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTxFailed, err)
	}
	return &PendingTx{Hash: hash, caller: g.caller}, nil
}

// PendingTx is a submitted transaction awaiting inclusion.
type PendingTx struct {
	Hash string

	caller       Caller
	pollInterval time.Duration
}

// Wait blocks the calling goroutine until the ledger includes the
// transaction or reports a revert.
func (p *PendingTx) Wait(ctx context.Context) error {
	interval := p.pollInterval
	if interval == 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		receipt, err := p.caller.TransactionReceipt(ctx, p.Hash)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrTxFailed, err)
		}
		if receipt != nil {
			if !receipt.Succeeded() {
				return fmt.Errorf("%w: reverted in block %s", ErrTxFailed, receipt.BlockNumber)
			}
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrTxFailed, ctx.Err())
		case <-ticker.C:
		}
	}
}
