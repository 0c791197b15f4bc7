package evm

import "fmt"

// Provider error code returned when a wallet has never seen the requested
// chain (EIP-3085/3326).
const CodeUnrecognizedChain = 4902

// RPCError is a JSON-RPC error object returned by the node or wallet provider.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc %d: %s", e.Code, e.Message)
}

// ErrorCode exposes the provider error code for callers that branch on it
// without importing this package's concrete type.
func (e *RPCError) ErrorCode() int { return e.Code }

// Receipt is the subset of an eth_getTransactionReceipt result the client
// needs to decide whether a transaction was included and succeeded.
type Receipt struct {
	TransactionHash string `json:"transactionHash"`
	BlockNumber     string `json:"blockNumber"`
	Status          string `json:"status"` // "0x1" success, "0x0" revert
}

// Succeeded reports whether the receipt marks a successful execution.
func (r *Receipt) Succeeded() bool { return r.Status == "0x1" }

// AddChainParams is the wallet_addEthereumChain request payload.
type AddChainParams struct {
	ChainID           string         `json:"chainId"`
	ChainName         string         `json:"chainName"`
	RPCURLs           []string       `json:"rpcUrls"`
	NativeCurrency    NativeCurrency `json:"nativeCurrency"`
	BlockExplorerURLs []string       `json:"blockExplorerUrls"`
}

// NativeCurrency describes the chain's native token for wallet registration.
type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}
