// Package network reconciles the wallet provider's active chain with the
// chain the campaign contract is deployed on.
package network

import "github.com/goalzilla/goalzilla/src/evm"

// Descriptor identifies the chain the contract lives on. It is fixed
// configuration, loaded once at startup and never mutated.
type Descriptor struct {
	ChainIDHex       string
	Name             string
	RPCURL           string
	BlockExplorerURL string
	NativeCurrency   evm.NativeCurrency
}

// AddChainParams converts the descriptor into the provider's
// wallet_addEthereumChain payload.
func (d Descriptor) AddChainParams() evm.AddChainParams {
	return evm.AddChainParams{
		ChainID:           d.ChainIDHex,
		ChainName:         d.Name,
		RPCURLs:           []string{d.RPCURL},
		NativeCurrency:    d.NativeCurrency,
		BlockExplorerURLs: []string{d.BlockExplorerURL},
	}
}
