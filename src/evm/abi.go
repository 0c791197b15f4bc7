package evm

import (
	"fmt"
	"math/big"

	"golang.org/x/crypto/sha3"
)

// Contract call ABI codec for the fixed method surface this client speaks.
// Supported types: uint256, address, bool, string, string[], uint256[].
// Values are encoded with the standard head/tail layout: static values
// occupy one 32-byte head word, dynamic values put a byte offset in the
// head and their payload in the tail.

const wordSize = 32

func keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}

// Selector returns the 4-byte function selector for a canonical signature,
// e.g. "campaignCounter()".
func Selector(sig string) []byte {
	return keccak256([]byte(sig))[:4]
}

func leftPad(b []byte) []byte {
	if len(b) >= wordSize {
		return b[len(b)-wordSize:]
	}
	out := make([]byte, wordSize)
	copy(out[wordSize-len(b):], b)
	return out
}

func rightPad(b []byte) []byte {
	n := (len(b) + wordSize - 1) / wordSize * wordSize
	out := make([]byte, n)
	copy(out, b)
	return out
}

func encodeUint(n *big.Int) []byte {
	return leftPad(n.Bytes())
}

func encodeBool(v bool) []byte {
	out := make([]byte, wordSize)
	if v {
		out[wordSize-1] = 1
	}
	return out
}

func encodeAddress(addr string) ([]byte, error) {
	raw, err := DecodeHex(addr)
	if err != nil || len(raw) != 20 {
		return nil, fmt.Errorf("bad address %q", addr)
	}
	return leftPad(raw), nil
}

func encodeString(s string) []byte {
	out := encodeUint(big.NewInt(int64(len(s))))
	return append(out, rightPad([]byte(s))...)
}

// isDynamic reports whether the value uses the tail section.
func isDynamic(v interface{}) bool {
	switch v.(type) {
	case string, []string, []*big.Int:
		return true
	}
	return false
}

func encodeTail(v interface{}) ([]byte, error) {
	switch val := v.(type) {
	case string:
		return encodeString(val), nil
	case []*big.Int:
		out := encodeUint(big.NewInt(int64(len(val))))
		for _, n := range val {
			if n == nil || n.Sign() < 0 {
				return nil, fmt.Errorf("abi: uint256 element must be non-negative")
			}
			out = append(out, encodeUint(n)...)
		}
		return out, nil
	case []string:
		// dynamic array of dynamic elements: length, then per-element
		// offsets relative to the start of the element area
		out := encodeUint(big.NewInt(int64(len(val))))
		heads := make([]byte, 0, len(val)*wordSize)
		tails := make([]byte, 0)
		offset := len(val) * wordSize
		for _, s := range val {
			heads = append(heads, encodeUint(big.NewInt(int64(offset)))...)
			enc := encodeString(s)
			tails = append(tails, enc...)
			offset += len(enc)
		}
		return append(out, append(heads, tails...)...), nil
	}
	return nil, fmt.Errorf("abi: unsupported dynamic type %T", v)
}

// EncodeCall builds calldata for sig with the given arguments. Accepted
// argument types: *big.Int (uint256), Address (address), bool, string,
// []string and []*big.Int.
func EncodeCall(sig string, args ...interface{}) ([]byte, error) {
	enc, err := EncodeTuple(args...)
	if err != nil {
		return nil, err
	}
	return append(Selector(sig), enc...), nil
}

// EncodeTuple encodes values as an ABI tuple without a selector, the same
// layout contracts use for return data.
func EncodeTuple(args ...interface{}) ([]byte, error) {
	head := make([]byte, 0, len(args)*wordSize)
	tail := make([]byte, 0)
	base := len(args) * wordSize

	for _, arg := range args {
		if isDynamic(arg) {
			head = append(head, encodeUint(big.NewInt(int64(base+len(tail))))...)
			enc, err := encodeTail(arg)
			if err != nil {
				return nil, err
			}
			tail = append(tail, enc...)
			continue
		}
		switch val := arg.(type) {
		case *big.Int:
			if val == nil || val.Sign() < 0 {
				return nil, fmt.Errorf("abi: uint256 must be non-negative")
			}
			head = append(head, encodeUint(val)...)
		case bool:
			head = append(head, encodeBool(val)...)
		case Address:
			enc, err := encodeAddress(string(val))
			if err != nil {
				return nil, err
			}
			head = append(head, enc...)
		default:
			return nil, fmt.Errorf("abi: unsupported type %T", arg)
		}
	}

	return append(head, tail...), nil
}

// Address distinguishes a hex address argument from a plain string when
// building calldata.
type Address string

// ZeroAddress is the address returned for unset address fields.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// Tuple reads typed fields out of returned call data. Head slots are
// addressed by index; dynamic fields are resolved through their offset.
type Tuple struct {
	data []byte
}

// NewTuple wraps raw return data.
func NewTuple(data []byte) *Tuple {
	return &Tuple{data: data}
}

func (t *Tuple) word(slot int) ([]byte, error) {
	start := slot * wordSize
	if start+wordSize > len(t.data) {
		return nil, fmt.Errorf("abi: return data too short for slot %d", slot)
	}
	return t.data[start : start+wordSize], nil
}

// Uint decodes the uint256 in head slot i.
func (t *Tuple) Uint(slot int) (*big.Int, error) {
	w, err := t.word(slot)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(w), nil
}

// Bool decodes the bool in head slot i.
func (t *Tuple) Bool(slot int) (bool, error) {
	w, err := t.word(slot)
	if err != nil {
		return false, err
	}
	return w[wordSize-1] == 1, nil
}

// Addr decodes the address in head slot i as a 0x hex string.
func (t *Tuple) Addr(slot int) (string, error) {
	w, err := t.word(slot)
	if err != nil {
		return "", err
	}
	return EncodeHex(w[12:]), nil
}

func (t *Tuple) offsetAt(slot int) (int, error) {
	n, err := t.Uint(slot)
	if err != nil {
		return 0, err
	}
	if !n.IsInt64() || n.Int64() < 0 || n.Int64() > int64(len(t.data)) {
		return 0, fmt.Errorf("abi: bad offset in slot %d", slot)
	}
	return int(n.Int64()), nil
}

func decodeStringAt(data []byte, offset int) (string, error) {
	if offset+wordSize > len(data) {
		return "", fmt.Errorf("abi: string offset out of range")
	}
	n := new(big.Int).SetBytes(data[offset : offset+wordSize])
	if !n.IsInt64() {
		return "", fmt.Errorf("abi: bad string length")
	}
	length := int(n.Int64())
	start := offset + wordSize
	if start+length > len(data) {
		return "", fmt.Errorf("abi: string payload out of range")
	}
	return string(data[start : start+length]), nil
}

// String decodes the dynamic string whose offset sits in head slot i.
func (t *Tuple) String(slot int) (string, error) {
	offset, err := t.offsetAt(slot)
	if err != nil {
		return "", err
	}
	return decodeStringAt(t.data, offset)
}

// StringSlice decodes the string[] whose offset sits in head slot i.
func (t *Tuple) StringSlice(slot int) ([]string, error) {
	offset, err := t.offsetAt(slot)
	if err != nil {
		return nil, err
	}
	if offset+wordSize > len(t.data) {
		return nil, fmt.Errorf("abi: array offset out of range")
	}
	n := new(big.Int).SetBytes(t.data[offset : offset+wordSize])
	if !n.IsInt64() {
		return nil, fmt.Errorf("abi: bad array length")
	}
	count := int(n.Int64())
	elemBase := offset + wordSize
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		slotStart := elemBase + i*wordSize
		if slotStart+wordSize > len(t.data) {
			return nil, fmt.Errorf("abi: array element %d out of range", i)
		}
		rel := new(big.Int).SetBytes(t.data[slotStart : slotStart+wordSize])
		if !rel.IsInt64() {
			return nil, fmt.Errorf("abi: bad element offset")
		}
		s, err := decodeStringAt(t.data, elemBase+int(rel.Int64()))
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
