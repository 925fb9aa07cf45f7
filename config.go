package chainconn

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Gas price levels understood by the gas station feed. The feed response is
// a JSON object keyed by these names with values in tenths of gwei.
const (
	GasLevelSafeLow = "safeLow"
	GasLevelAverage = "average"
	GasLevelFast    = "fast"
	GasLevelFastest = "fastest"
)

const (
	DefaultRefreshInterval = 60 * time.Second
	DefaultSampleInterval  = 5 * time.Minute
	DefaultFeedTimeout     = 10 * time.Second
)

// NetworkConfig holds the immutable per-network configuration resolved once
// at connector construction. It is never mutated afterwards.
type NetworkConfig struct {
	Name              string `yaml:"name"`
	ChainID           uint64 `yaml:"chain_id"`
	NativeTokenSymbol string `yaml:"native_token_symbol"`

	// RPCURL is the node endpoint prefix; the key read from RPCAPIKeyEnv
	// (if any) is appended to form the full endpoint.
	RPCURL       string `yaml:"rpc_url"`
	RPCAPIKeyEnv string `yaml:"rpc_api_key_env"`

	// ManualGasPrice is the static gas price in gwei used whenever the gas
	// station feed is disabled, and as the initial estimate until the first
	// successful fetch when it is enabled.
	ManualGasPrice float64 `yaml:"manual_gas_price"`

	GasStationEnabled bool          `yaml:"gas_station_enabled"`
	GasStationURL     string        `yaml:"gas_station_url"`
	GasStationAPIKey  string        `yaml:"gas_station_api_key"`
	GasLevel          string        `yaml:"gas_level"`
	RefreshInterval   time.Duration `yaml:"refresh_interval"`

	// Token list loading is delegated to the base layer; the connector only
	// carries the source so callers can hand it over.
	TokenListSource string `yaml:"token_list_source"`
	TokenListType   string `yaml:"token_list_type"`

	SampleInterval time.Duration `yaml:"sample_interval"`
	BlockTime      time.Duration `yaml:"block_time"`
}

// Validate checks that the configuration can actually drive a connector.
func (c *NetworkConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("network name is required")
	}
	if c.ChainID == 0 {
		return fmt.Errorf("chain id is required")
	}
	if c.ManualGasPrice <= 0 {
		return fmt.Errorf("manual gas price must be positive, got %f", c.ManualGasPrice)
	}
	if c.GasStationEnabled && c.GasStationURL == "" {
		return fmt.Errorf("gas station is enabled but no feed URL is configured")
	}
	return nil
}

// RPCEndpoint returns the full node endpoint, appending the API key from the
// configured environment variable when one is set.
func (c *NetworkConfig) RPCEndpoint() string {
	if c.RPCAPIKeyEnv == "" {
		return c.RPCURL
	}
	return c.RPCURL + os.Getenv(c.RPCAPIKeyEnv)
}

var builtinNetworks = map[string]NetworkConfig{
	"mainnet": {
		Name:              "mainnet",
		ChainID:           1,
		NativeTokenSymbol: "ETH",
		RPCURL:            "https://mainnet.infura.io/v3/",
		RPCAPIKeyEnv:      "CHAINCONN_MAINNET_RPC_KEY",
		ManualGasPrice:    30,
		GasStationEnabled: true,
		GasStationURL:     "https://ethgasstation.info/api/ethgasAPI.json",
		GasStationAPIKey:  os.Getenv("CHAINCONN_GAS_STATION_KEY"),
		GasLevel:          GasLevelFast,
		RefreshInterval:   DefaultRefreshInterval,
		TokenListSource:   "https://tokens.coingecko.com/uniswap/all.json",
		TokenListType:     "URL",
		SampleInterval:    DefaultSampleInterval,
		BlockTime:         12 * time.Second,
	},
	"sepolia": {
		Name:              "sepolia",
		ChainID:           11155111,
		NativeTokenSymbol: "ETH",
		RPCURL:            "https://sepolia.infura.io/v3/",
		RPCAPIKeyEnv:      "CHAINCONN_SEPOLIA_RPC_KEY",
		ManualGasPrice:    5,
		GasLevel:          GasLevelFast,
		RefreshInterval:   DefaultRefreshInterval,
		SampleInterval:    DefaultSampleInterval,
		BlockTime:         12 * time.Second,
	},
	"bsc": {
		Name:              "bsc",
		ChainID:           56,
		NativeTokenSymbol: "BNB",
		RPCURL:            "https://bsc-dataseed.binance.org",
		ManualGasPrice:    5,
		GasLevel:          GasLevelFast,
		RefreshInterval:   DefaultRefreshInterval,
		TokenListSource:   "https://tokens.pancakeswap.finance/pancakeswap-extended.json",
		TokenListType:     "URL",
		SampleInterval:    DefaultSampleInterval,
		BlockTime:         3 * time.Second,
	},
	"polygon": {
		Name:              "polygon",
		ChainID:           137,
		NativeTokenSymbol: "MATIC",
		RPCURL:            "https://polygon-rpc.com",
		ManualGasPrice:    50,
		GasLevel:          GasLevelFast,
		RefreshInterval:   DefaultRefreshInterval,
		SampleInterval:    DefaultSampleInterval,
		BlockTime:         2 * time.Second,
	},
	"avalanche": {
		Name:              "avalanche",
		ChainID:           43114,
		NativeTokenSymbol: "AVAX",
		RPCURL:            "https://api.avax.network/ext/bc/C/rpc",
		ManualGasPrice:    25,
		GasLevel:          GasLevelFast,
		RefreshInterval:   DefaultRefreshInterval,
		SampleInterval:    DefaultSampleInterval,
		BlockTime:         2 * time.Second,
	},
}

// ResolveNetworkConfig returns the configuration for a built-in network
// name. The returned value is a copy; mutating it has no effect on the
// built-in table or on connectors already constructed from it.
func ResolveNetworkConfig(name string) (NetworkConfig, error) {
	cfg, ok := builtinNetworks[name]
	if !ok {
		return NetworkConfig{}, fmt.Errorf("%w: %q", ErrUnknownNetwork, name)
	}
	return cfg, nil
}

// netAdapter exposes a NetworkConfig through the jarvis networks.Network
// interface so the base layer (reader, broadcaster) can be constructed from
// connector configuration.
type netAdapter struct {
	cfg NetworkConfig
}

func (n *netAdapter) GetName() string                            { return n.cfg.Name }
func (n *netAdapter) GetChainID() uint64                         { return n.cfg.ChainID }
func (n *netAdapter) GetAlternativeNames() []string              { return nil }
func (n *netAdapter) GetNativeTokenSymbol() string               { return n.cfg.NativeTokenSymbol }
func (n *netAdapter) GetNativeTokenDecimal() uint64              { return 18 }
func (n *netAdapter) GetBlockTime() time.Duration                { return n.cfg.BlockTime }
func (n *netAdapter) GetNodeVariableName() string                { return n.cfg.RPCAPIKeyEnv }
func (n *netAdapter) GetBlockExplorerAPIKeyVariableName() string { return "" }
func (n *netAdapter) GetBlockExplorerAPIURL() string             { return "" }
func (n *netAdapter) IsSyncTxSupported() bool                    { return false }
func (n *netAdapter) MultiCallContract() string                  { return "" }

func (n *netAdapter) GetDefaultNodes() map[string]string {
	return map[string]string{"default": n.cfg.RPCEndpoint()}
}

func (n *netAdapter) RecommendedGasPrice() (float64, error) {
	return n.cfg.ManualGasPrice, nil
}

func (n *netAdapter) GetABIString(address string) (string, error) {
	return "", fmt.Errorf("ABI lookup is not supported on network %s", n.cfg.Name)
}

func (n *netAdapter) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.cfg)
}

func (n *netAdapter) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &n.cfg)
}
