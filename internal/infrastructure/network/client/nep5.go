package client

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"neo_wallet/internal/domain/entity"
	"neo_wallet/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/nspcc-dev/neo-go/pkg/encoding/base58"
	"github.com/nspcc-dev/neo-go/pkg/encoding/bigint"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
)

type invokeParam struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type stackItem struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

type invokeResult struct {
	State string      `json:"state"`
	Stack []stackItem `json:"stack"`
}

func (r *invokeResult) faulted() bool {
	return strings.Contains(strings.ToUpper(r.State), "FAULT")
}

func (r *invokeResult) top() (stackItem, bool) {
	if len(r.Stack) == 0 {
		return stackItem{}, false
	}
	return r.Stack[0], true
}

// AddressToScriptHash decodes a NEO address into the script hash string
// expected by invokefunction parameters.
func AddressToScriptHash(address string, version byte) (string, error) {
	raw, err := base58.CheckDecode(address)
	if err != nil {
		return "", fmt.Errorf("decode address %s: %w", address, err)
	}
	if len(raw) != 21 || raw[0] != version {
		return "", fmt.Errorf("decode address %s: unexpected version or length", address)
	}
	u, err := util.Uint160DecodeBytesBE(raw[1:])
	if err != nil {
		return "", fmt.Errorf("decode address %s: %w", address, err)
	}
	return u.StringLE(), nil
}

// GetTokenBalance implements port.TokenBalanceReader. The token's name,
// symbol, decimals, total supply and the address balance are read in one batch.
func (c *NeoRPCClient) GetTokenBalance(ctx context.Context, network, assetID, address string) (entity.TokenBalanceResult, error) {
	if network != "" && !strings.EqualFold(network, c.netDef.Name) {
		return entity.TokenBalanceResult{}, fmt.Errorf("client for %s cannot read tokens of %s", c.netDef.Name, network)
	}
	holder, err := AddressToScriptHash(address, c.netDef.Version())
	if err != nil {
		return entity.TokenBalanceResult{}, err
	}

	scriptHash := "0x" + trimHex(strings.ToLower(assetID))
	operations := []string{"name", "symbol", "decimals", "totalSupply", "balanceOf"}
	results := make([]invokeResult, len(operations))
	elems := make([]rpc.BatchElem, len(operations))
	for i, op := range operations {
		params := []invokeParam{}
		if op == "balanceOf" {
			params = append(params, invokeParam{Type: "Hash160", Value: holder})
		}
		elems[i] = rpc.BatchElem{
			Method: "invokefunction",
			Args:   []any{scriptHash, op, params},
			Result: &results[i],
		}
	}

	if err := c.batch(ctx, "invokefunction_batch", elems); err != nil {
		return entity.TokenBalanceFailed(entity.NewNetworkError("invokefunction", err)), nil
	}
	for i, elem := range elems {
		if elem.Error != nil {
			c.logger.Debug("Token sub-request failed",
				zap.String("assetId", assetID), zap.String("operation", operations[i]), zap.Error(elem.Error))
			return entity.TokenBalanceFailed(entity.NewNetworkError("invokefunction "+operations[i], elem.Error)), nil
		}
		if results[i].faulted() {
			return entity.TokenBalanceMissing(fmt.Errorf("%w: %s faulted on %s", entity.ErrTokenNotFound, operations[i], assetID)), nil
		}
	}

	name, err := stackString(results[0])
	if err != nil {
		return entity.TokenBalanceResult{}, fmt.Errorf("token %s name: %w", assetID, err)
	}
	symbol, err := stackString(results[1])
	if err != nil {
		return entity.TokenBalanceResult{}, fmt.Errorf("token %s symbol: %w", assetID, err)
	}
	if symbol == "" {
		return entity.TokenBalanceMissing(fmt.Errorf("%w: %s has no symbol", entity.ErrTokenNotFound, assetID)), nil
	}
	decimals, err := stackInteger(results[2])
	if err != nil {
		return entity.TokenBalanceResult{}, fmt.Errorf("token %s decimals: %w", assetID, err)
	}
	if !decimals.IsInt64() || decimals.Int64() < 0 || decimals.Int64() > 18 {
		return entity.TokenBalanceResult{}, fmt.Errorf("token %s decimals out of range: %s", assetID, decimals)
	}
	totalSupply, err := stackInteger(results[3])
	if err != nil {
		return entity.TokenBalanceResult{}, fmt.Errorf("token %s totalSupply: %w", assetID, err)
	}
	balance, err := stackInteger(results[4])
	if err != nil {
		return entity.TokenBalanceResult{}, fmt.Errorf("token %s balanceOf: %w", assetID, err)
	}

	d := int32(decimals.Int64())
	return entity.TokenBalanceFound(entity.TokenBalance{
		Balance:     utils.FromIntegerAmount(balance, d),
		Decimals:    d,
		Name:        name,
		Symbol:      symbol,
		TotalSupply: utils.FromIntegerAmount(totalSupply, d),
	}), nil
}

func stackString(r invokeResult) (string, error) {
	item, ok := r.top()
	if !ok {
		return "", fmt.Errorf("empty stack")
	}
	var value string
	if err := json.Unmarshal(item.Value, &value); err != nil {
		return "", fmt.Errorf("decode %s item: %w", item.Type, err)
	}
	switch item.Type {
	case "ByteArray":
		b, err := hex.DecodeString(value)
		if err != nil {
			return "", fmt.Errorf("decode ByteArray: %w", err)
		}
		return string(b), nil
	case "String":
		return value, nil
	default:
		return "", fmt.Errorf("unexpected stack item type %s", item.Type)
	}
}

func stackInteger(r invokeResult) (*big.Int, error) {
	item, ok := r.top()
	if !ok {
		return nil, fmt.Errorf("empty stack")
	}
	var value string
	if err := json.Unmarshal(item.Value, &value); err != nil {
		return nil, fmt.Errorf("decode %s item: %w", item.Type, err)
	}
	switch item.Type {
	case "Integer":
		n, ok := new(big.Int).SetString(value, 10)
		if !ok {
			return nil, fmt.Errorf("invalid Integer %q", value)
		}
		return n, nil
	case "ByteArray":
		b, err := hex.DecodeString(value)
		if err != nil {
			return nil, fmt.Errorf("decode ByteArray: %w", err)
		}
		return bigint.FromBytes(b), nil
	default:
		return nil, fmt.Errorf("unexpected stack item type %s", item.Type)
	}
}
