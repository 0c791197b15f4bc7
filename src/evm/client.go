package evm

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ---------- tiny JSON-RPC helpers ----------

type rpcReq struct {
	Jsonrpc string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcResp struct {
	Jsonrpc string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// Client is an EVM JSON-RPC client speaking the eth_* node methods and the
// wallet_* provider methods over a websocket connection.
type Client struct {
	mu   sync.Mutex
	conn *websocket.Conn
	id   uint64
}

// Dial connects to a websocket JSON-RPC endpoint.
func Dial(url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return &Client{conn: conn}, nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Call performs a raw JSON-RPC call. Requests are serialized; the
// connection carries one request in flight at a time.
func (c *Client) Call(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error) {
	if params == nil {
		params = []interface{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetWriteDeadline(deadline)
		_ = c.conn.SetReadDeadline(deadline)
	} else {
		_ = c.conn.SetWriteDeadline(time.Now().Add(30 * time.Second))
		_ = c.conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	}

	c.id++
	req := rpcReq{Jsonrpc: "2.0", ID: c.id, Method: method, Params: params}
	if err := c.conn.WriteJSON(req); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	var rsp rpcResp
	if err := c.conn.ReadJSON(&rsp); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	if rsp.Error != nil {
		return nil, fmt.Errorf("%s: %w", method, rsp.Error)
	}
	return rsp.Result, nil
}

func (c *Client) callString(ctx context.Context, method string, params ...interface{}) (string, error) {
	raw, err := c.Call(ctx, method, params...)
	if err != nil {
		return "", err
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%s: decode result: %w", method, err)
	}
	return s, nil
}

// ChainID returns the provider's active chain id as a hex quantity.
func (c *Client) ChainID(ctx context.Context) (string, error) {
	return c.callString(ctx, "eth_chainId")
}

// RequestAccounts asks the provider for account access.
func (c *Client) RequestAccounts(ctx context.Context) ([]string, error) {
	raw, err := c.Call(ctx, "eth_requestAccounts")
	if err != nil {
		return nil, err
	}
	var accounts []string
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return nil, fmt.Errorf("eth_requestAccounts: decode result: %w", err)
	}
	return accounts, nil
}

// SwitchChain asks the provider to activate chainIDHex. Providers answer
// with code 4902 when the chain was never registered.
func (c *Client) SwitchChain(ctx context.Context, chainIDHex string) error {
	_, err := c.Call(ctx, "wallet_switchEthereumChain",
		map[string]string{"chainId": chainIDHex})
	return err
}

// AddChain registers (and on most providers activates) a chain.
func (c *Client) AddChain(ctx context.Context, params AddChainParams) error {
	_, err := c.Call(ctx, "wallet_addEthereumChain", params)
	return err
}

// Balance reads the native balance of addr in the token's smallest unit.
func (c *Client) Balance(ctx context.Context, addr string) (*big.Int, error) {
	s, err := c.callString(ctx, "eth_getBalance", addr, "latest")
	if err != nil {
		return nil, err
	}
	return DecodeQuantity(s)
}

// CallContract executes a read-only contract call against latest state.
func (c *Client) CallContract(ctx context.Context, to string, data []byte) ([]byte, error) {
	s, err := c.callString(ctx, "eth_call",
		map[string]string{"to": to, "data": EncodeHex(data)}, "latest")
	if err != nil {
		return nil, err
	}
	return DecodeHex(s)
}

// SendTransaction submits a state-changing call signed by from and returns
// the transaction hash without waiting for inclusion.
func (c *Client) SendTransaction(ctx context.Context, from, to string, data []byte) (string, error) {
	return c.callString(ctx, "eth_sendTransaction",
		map[string]string{"from": from, "to": to, "data": EncodeHex(data)})
}

// TransactionReceipt returns the receipt for hash, or nil while the
// transaction is still pending.
func (c *Client) TransactionReceipt(ctx context.Context, hash string) (*Receipt, error) {
	raw, err := c.Call(ctx, "eth_getTransactionReceipt", hash)
	if err != nil {
		return nil, err
	}
	if string(raw) == "null" {
		return nil, nil
	}
	var r Receipt
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("eth_getTransactionReceipt: decode result: %w", err)
	}
	return &r, nil
}
