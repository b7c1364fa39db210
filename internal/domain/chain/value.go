package chain

import (
	"bytes"
	"fmt"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/contractdock/backend/internal/entity"
)

func bytesReader(b []byte) io.Reader {
	return bytes.NewReader(b)
}

// maxSafeInteger is the largest integer a json number can carry without
// losing precision. Anything beyond degrades to a decimal string.
var maxSafeInteger = big.NewInt(1<<53 - 1)

// PackArgs encodes call arguments after coercing them from their json shapes
// into what the abi expects.
func PackArgs(parsedABI abi.ABI, method string, args []any) ([]byte, error) {
	m, ok := parsedABI.Methods[method]
	if !ok {
		return nil, fmt.Errorf("unknown method %s", method)
	}

	if len(args) != len(m.Inputs) {
		return nil, fmt.Errorf("method %s expects %d arguments, got %d",
			method, len(m.Inputs), len(args))
	}

	coerced := make([]any, len(args))
	for i, arg := range args {
		v, err := coerceArg(m.Inputs[i].Type, arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d of %s: %w", i, method, err)
		}

		coerced[i] = v
	}

	return parsedABI.Pack(method, coerced...)
}

// PackConstructor encodes the creation payload of a contract, bytecode
// followed by constructor arguments.
func PackConstructor(parsedABI abi.ABI, bytecode []byte, args []any) ([]byte, error) {
	coerced := make([]any, len(args))
	for i, arg := range args {
		if i >= len(parsedABI.Constructor.Inputs) {
			return nil, fmt.Errorf("constructor expects %d arguments, got %d",
				len(parsedABI.Constructor.Inputs), len(args))
		}

		v, err := coerceArg(parsedABI.Constructor.Inputs[i].Type, arg)
		if err != nil {
			return nil, fmt.Errorf("constructor argument %d: %w", i, err)
		}

		coerced[i] = v
	}

	packed, err := parsedABI.Pack("", coerced...)
	if err != nil {
		return nil, err
	}

	return append(bytecode, packed...), nil
}

func coerceArg(t abi.Type, arg any) (any, error) {
	switch t.T {
	case abi.AddressTy:
		s, ok := arg.(string)
		if !ok {
			return nil, fmt.Errorf("expected address string, got %T", arg)
		}

		return common.HexToAddress(s), nil

	case abi.UintTy, abi.IntTy:
		n := new(big.Int)
		switch v := arg.(type) {
		case float64:
			n.SetInt64(int64(v))
		case int:
			n.SetInt64(int64(v))
		case int64:
			n.SetInt64(v)
		case string:
			if _, ok := n.SetString(v, 10); !ok {
				return nil, fmt.Errorf("invalid number %q", v)
			}
		default:
			return nil, fmt.Errorf("expected number, got %T", arg)
		}

		if t.Size <= 64 && t.T == abi.UintTy {
			return coerceUintSize(t.Size, n)
		}

		if t.Size <= 64 && t.T == abi.IntTy {
			return coerceIntSize(t.Size, n)
		}

		return n, nil

	case abi.BoolTy:
		b, ok := arg.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %T", arg)
		}

		return b, nil

	case abi.StringTy:
		s, ok := arg.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", arg)
		}

		return s, nil

	case abi.BytesTy:
		s, ok := arg.(string)
		if !ok {
			return nil, fmt.Errorf("expected hex string, got %T", arg)
		}

		return common.FromHex(s), nil

	default:
		return arg, nil
	}
}

func coerceUintSize(size int, n *big.Int) (any, error) {
	switch size {
	case 8:
		return uint8(n.Uint64()), nil
	case 16:
		return uint16(n.Uint64()), nil
	case 32:
		return uint32(n.Uint64()), nil
	case 64:
		return n.Uint64(), nil
	default:
		return n, nil
	}
}

func coerceIntSize(size int, n *big.Int) (any, error) {
	switch size {
	case 8:
		return int8(n.Int64()), nil
	case 16:
		return int16(n.Int64()), nil
	case 32:
		return int32(n.Int64()), nil
	case 64:
		return n.Int64(), nil
	default:
		return n, nil
	}
}

// NormalizeValue converts decoded chain values into shapes that survive a
// json round trip. Big integers beyond the safe range become strings.
func NormalizeValue(v any) any {
	switch t := v.(type) {
	case *big.Int:
		if t.CmpAbs(maxSafeInteger) > 0 {
			return t.String()
		}

		return t.Int64()

	case common.Address:
		return t.Hex()

	case common.Hash:
		return t.Hex()

	case []byte:
		return common.Bytes2Hex(t)

	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = NormalizeValue(e)
		}

		return out

	default:
		return v
	}
}

func outputMap(method abi.Method, values []any) entity.Map {
	outputs := entity.Map{}
	for i, output := range method.Outputs {
		name := output.Name
		if name == "" {
			name = fmt.Sprintf("%d", i)
		}

		if i < len(values) {
			outputs[name] = NormalizeValue(values[i])
		}
	}

	return outputs
}

// DecodeEvent flattens one log into a map of event fields plus its position
// on chain.
func DecodeEvent(parsedABI abi.ABI, event abi.Event, l ethtypes.Log) (entity.Map, error) {
	fields := map[string]any{}
	if err := parsedABI.UnpackIntoMap(fields, event.Name, l.Data); err != nil {
		return nil, err
	}

	indexed := make([]abi.Argument, 0)
	for _, input := range event.Inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}

	if len(indexed) > 0 {
		if err := abi.ParseTopicsIntoMap(fields, indexed, l.Topics[1:]); err != nil {
			return nil, err
		}
	}

	decoded := entity.Map{}
	for name, value := range fields {
		decoded[name] = NormalizeValue(value)
	}

	decoded["_event"] = event.Name
	decoded["_blockNumber"] = l.BlockNumber
	decoded["_transactionHash"] = l.TxHash.Hex()

	return decoded, nil
}
