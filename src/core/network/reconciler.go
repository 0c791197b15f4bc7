package network

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/goalzilla/goalzilla/src/evm"
)

// ErrSwitchFailed is returned when the provider refuses to move to the
// required chain for any reason other than not knowing it.
var ErrSwitchFailed = errors.New("network switch failed")

// Provider is the slice of the wallet provider the reconciler needs.
type Provider interface {
	ChainID(ctx context.Context) (string, error)
	SwitchChain(ctx context.Context, chainIDHex string) error
	AddChain(ctx context.Context, params evm.AddChainParams) error
}

// Reconciler moves the provider onto one required chain before ledger calls
// proceed.
type Reconciler struct {
	required Descriptor
}

// NewReconciler returns a reconciler for the given chain.
func NewReconciler(required Descriptor) *Reconciler {
	return &Reconciler{required: required}
}

// Ensure makes the provider's active chain match the required one. Already
// matching is a no-op with no provider prompt. A provider that has never
// seen the chain answers the switch with code 4902; the chain is then
// registered with the full descriptor, which also activates it.
func (r *Reconciler) Ensure(ctx context.Context, provider Provider) error {
	chainID, err := provider.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("%w: read chain id: %v", ErrSwitchFailed, err)
	}
	if chainID == r.required.ChainIDHex {
		return nil
	}

	err = provider.SwitchChain(ctx, r.required.ChainIDHex)
	if err == nil {
		return nil
	}
	if !isUnrecognizedChain(err) {
		log.Printf("network: switch to %s failed: %v", r.required.ChainIDHex, err)
		return fmt.Errorf("%w: %v", ErrSwitchFailed, err)
	}

	if err := provider.AddChain(ctx, r.required.AddChainParams()); err != nil {
		log.Printf("network: add chain %s failed: %v", r.required.ChainIDHex, err)
		return fmt.Errorf("%w: %v", ErrSwitchFailed, err)
	}
	return nil
}

type coder interface {
	ErrorCode() int
}

func isUnrecognizedChain(err error) bool {
	var c coder
	return errors.As(err, &c) && c.ErrorCode() == evm.CodeUnrecognizedChain
}
