package evm

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelector(t *testing.T) {
	// Known selectors from the canonical keccak256 of the signature.
	assert.Equal(t, "0x70a08231", EncodeHex(Selector("balanceOf(address)")))
	assert.Equal(t, "0xa9059cbb", EncodeHex(Selector("transfer(address,uint256)")))
}

func TestEncodeCallStatic(t *testing.T) {
	data, err := EncodeCall("balanceOf(address)", Address("0x658f17BC6Dcfc19BBc4A76B260a8Dab56A413799"))
	require.NoError(t, err)

	assert.Len(t, data, 4+32)
	assert.Equal(t, Selector("balanceOf(address)"), data[:4])
	// address right-aligned in its word
	assert.Equal(t,
		"0x000000000000000000000000658f17bc6dcfc19bbc4a76b260a8dab56a413799",
		EncodeHex(data[4:]))
}

func TestTupleRoundTrip(t *testing.T) {
	goal, _ := new(big.Int).SetString("100000000000000000000", 10)
	funded := big.NewInt(0)

	data, err := EncodeTuple(
		big.NewInt(3),
		Address("0x658f17BC6Dcfc19BBc4A76B260a8Dab56A413799"),
		"Clean Water",
		"Environment",
		goal,
		funded,
		true,
		big.NewInt(1700000000),
		big.NewInt(30),
	)
	require.NoError(t, err)

	tup := NewTuple(data)

	id, err := tup.Uint(0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), id.Int64())

	creator, err := tup.Addr(1)
	require.NoError(t, err)
	assert.Equal(t, "0x658f17bc6dcfc19bbc4a76b260a8dab56a413799", creator)

	title, err := tup.String(2)
	require.NoError(t, err)
	assert.Equal(t, "Clean Water", title)

	category, err := tup.String(3)
	require.NoError(t, err)
	assert.Equal(t, "Environment", category)

	gotGoal, err := tup.Uint(4)
	require.NoError(t, err)
	assert.Equal(t, goal.String(), gotGoal.String())

	active, err := tup.Bool(6)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestTupleStringSlice(t *testing.T) {
	data, err := EncodeTuple(
		big.NewInt(1),
		[]string{"https://a.example/one.png", "https://a.example/two.png", ""},
	)
	require.NoError(t, err)

	media, err := NewTuple(data).StringSlice(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example/one.png", "https://a.example/two.png", ""}, media)
}

func TestEncodeTupleUintSlice(t *testing.T) {
	targets := []*big.Int{big.NewInt(40), big.NewInt(60)}
	data, err := EncodeTuple(targets)
	require.NoError(t, err)

	tup := NewTuple(data)
	// offset word, then length, then two elements
	assert.Len(t, data, 4*32)
	n, err := tup.Uint(1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n.Int64())
}

func TestTupleZeroAddress(t *testing.T) {
	data, err := EncodeTuple(Address(ZeroAddress))
	require.NoError(t, err)

	addr, err := NewTuple(data).Addr(0)
	require.NoError(t, err)
	assert.Equal(t, ZeroAddress, addr)
}

func TestTupleShortData(t *testing.T) {
	_, err := NewTuple([]byte{0x01}).Uint(0)
	assert.Error(t, err)
}

func TestQuantityRoundTrip(t *testing.T) {
	n, err := DecodeQuantity("0x1a4")
	require.NoError(t, err)
	assert.Equal(t, int64(420), n.Int64())
	assert.Equal(t, "0x1a4", EncodeQuantity(n))

	assert.Equal(t, "0x0", EncodeQuantity(big.NewInt(0)))
}
