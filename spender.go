package chainconn

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// routerLookup resolves an integration's router address for a chain.
type routerLookup func(chainID uint64) (common.Address, error)

// spenderAliases maps logical spender names to their per-chain router
// lookups. Anything not in this table is treated as an already-resolved
// address and passed through.
var spenderAliases = map[string]routerLookup{
	"uniswap":   uniswapRouter,
	"sushiswap": sushiswapRouter,
}

// Uniswap V2 router, deployed at the same address on mainnet and the
// original testnets.
var uniswapV2Router = common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")

func uniswapRouter(chainID uint64) (common.Address, error) {
	switch chainID {
	case 1, 3, 4, 5, 42:
		return uniswapV2Router, nil
	}
	return common.Address{}, fmt.Errorf("%w: uniswap on chain %d", ErrNoRouterForChain, chainID)
}

var (
	sushiswapMainnetRouter = common.HexToAddress("0xd9e1cE17f2641f24aE83637ab66a2cca9C378B9F")
	sushiswapAltRouter     = common.HexToAddress("0x1b02dA8Cb0d097eB8D57A175b88c7D8b47997506")
)

func sushiswapRouter(chainID uint64) (common.Address, error) {
	switch chainID {
	case 1:
		return sushiswapMainnetRouter, nil
	case 56, 137, 43114:
		return sushiswapAltRouter, nil
	}
	return common.Address{}, fmt.Errorf("%w: sushiswap on chain %d", ErrNoRouterForChain, chainID)
}

// GetSpender resolves a logical spender alias to the integration's router
// address on this connector's network. A value that is not a known alias is
// returned unchanged, treated as an already-resolved address; validating it
// is the caller's responsibility.
func (c *Connector) GetSpender(requested string) (string, error) {
	lookup, ok := spenderAliases[requested]
	if !ok {
		return requested, nil
	}
	addr, err := lookup(c.cfg.ChainID)
	if err != nil {
		return "", err
	}
	return addr.Hex(), nil
}
