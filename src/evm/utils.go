package evm

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// DecodeHex decodes a hex string, handling 0x prefix
func DecodeHex(hexStr string) ([]byte, error) {
	hexStr = strings.TrimPrefix(hexStr, "0x")
	if len(hexStr)%2 == 1 {
		hexStr = "0" + hexStr
	}
	return hex.DecodeString(hexStr)
}

// EncodeHex encodes bytes as a 0x prefixed hex string
func EncodeHex(data []byte) string {
	return "0x" + hex.EncodeToString(data)
}

// DecodeQuantity decodes an eth hex quantity ("0x1a4") into a big.Int
func DecodeQuantity(hexStr string) (*big.Int, error) {
	s := strings.TrimPrefix(hexStr, "0x")
	if s == "" {
		return nil, fmt.Errorf("empty quantity")
	}
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return nil, fmt.Errorf("bad quantity %q", hexStr)
	}
	return n, nil
}

// EncodeQuantity encodes a big.Int as an eth hex quantity
func EncodeQuantity(n *big.Int) string {
	if n == nil || n.Sign() == 0 {
		return "0x0"
	}
	return "0x" + n.Text(16)
}
