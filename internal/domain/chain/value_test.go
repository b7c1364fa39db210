package chain

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/contractdock/backend/internal/entity"
)

var erc20ABI = entity.Array[map[string]any]{
	{
		"type": "function",
		"name": "transfer",
		"inputs": []any{
			map[string]any{"name": "to", "type": "address"},
			map[string]any{"name": "value", "type": "uint256"},
		},
		"outputs": []any{map[string]any{"name": "", "type": "bool"}},
	},
	{
		"type": "event",
		"name": "Transfer",
		"inputs": []any{
			map[string]any{"name": "from", "type": "address", "indexed": true},
			map[string]any{"name": "to", "type": "address", "indexed": true},
			map[string]any{"name": "value", "type": "uint256", "indexed": false},
		},
	},
}

func Test_parseABI(t *testing.T) {
	parsed, err := ParseABI(erc20ABI)
	require.NoError(t, err)
	require.Contains(t, parsed.Methods, "transfer")
	require.Contains(t, parsed.Events, "Transfer")
}

func Test_packArgs(t *testing.T) {
	parsed, err := ParseABI(erc20ABI)
	require.NoError(t, err)

	// Arguments arrive in json shapes, address as string and number as
	// float64.
	packed, err := PackArgs(parsed, "transfer", []any{
		"0x70997970C51812dc3A010C7d01b50e0d17dc79C8",
		float64(1000),
	})
	require.NoError(t, err)
	require.NotEmpty(t, packed)

	// Numbers beyond the json safe range arrive as decimal strings.
	packed, err = PackArgs(parsed, "transfer", []any{
		"0x70997970C51812dc3A010C7d01b50e0d17dc79C8",
		"123456789123456789123456789",
	})
	require.NoError(t, err)
	require.NotEmpty(t, packed)

	_, err = PackArgs(parsed, "transfer", []any{"0x70997970C51812dc3A010C7d01b50e0d17dc79C8"})
	require.Error(t, err)

	_, err = PackArgs(parsed, "mint", []any{})
	require.Error(t, err)

	_, err = PackArgs(parsed, "transfer", []any{true, float64(1)})
	require.Error(t, err)
}

func Test_normalizeValue(t *testing.T) {
	require.Equal(t, int64(42), NormalizeValue(big.NewInt(42)))

	huge, ok := new(big.Int).SetString("123456789123456789123456789", 10)
	require.True(t, ok)
	require.Equal(t, "123456789123456789123456789", NormalizeValue(huge))

	address := common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	require.Equal(t, address.Hex(), NormalizeValue(address))

	require.Equal(t, "abcd", NormalizeValue([]byte{0xab, 0xcd}))

	nested := NormalizeValue([]any{big.NewInt(1), address})
	require.Equal(t, []any{int64(1), address.Hex()}, nested)

	require.Equal(t, "plain", NormalizeValue("plain"))
}
