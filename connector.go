// Package chainconn mediates all interaction with a single blockchain
// network instance. A Connector resolves its network configuration once,
// keeps a live gas price estimate refreshed from an external feed, samples
// outbound request rates, builds ABI-bound contract handles, resolves
// logical spender aliases, and supports cancelling stuck transactions by
// re-submitting at the same nonce with the current gas price.
//
// Raw RPC access, signing and broadcasting are delegated to the jarvis
// toolkit; the connector owns only the per-network state and its refresh
// lifecycle.
package chainconn

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/KyberNetwork/logger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/tranvictor/jarvis/accounts"
	"github.com/tranvictor/jarvis/networks"
	"github.com/tranvictor/jarvis/util"

	"github.com/timbob3/chainconn/internal/feedguard"
	"github.com/timbob3/chainconn/internal/gasfeed"
)

// nodeReader is the subset of the base layer read API the connector uses.
// *reader.EthReader from jarvis satisfies it.
type nodeReader interface {
	GetMinedNonce(wallet string) (uint64, error)
	GetPendingNonce(wallet string) (uint64, error)
}

// txBroadcaster is the broadcast surface of the base layer.
// *broadcaster.Broadcaster from jarvis satisfies it.
type txBroadcaster interface {
	BroadcastTx(tx *types.Transaction) (hash string, broadcasted bool, err error)
}

// txSigner signs a transaction for a chain. *account.Account from jarvis
// satisfies it.
type txSigner interface {
	SignTx(tx *types.Transaction, chainID *big.Int) (common.Address, *types.Transaction, error)
}

// priceFeed is the gas station fetch surface, satisfied by *gasfeed.Client.
type priceFeed interface {
	Fetch(ctx context.Context) (float64, error)
}

// Connector is the per-network stateful service object. It holds the
// immutable NetworkConfig plus the live gas price and request-rate state,
// and owns the background loops that refresh them. One Connector exists per
// network name; obtain instances through a Registry.
type Connector struct {
	cfg NetworkConfig
	net networks.Network

	// Gas price state. The update after a successful feed fetch is a
	// single assignment under the lock, so readers always observe either
	// the previous or the fully-updated value.
	gasMu       sync.RWMutex
	gasPrice    float64
	lastUpdated *time.Time

	// Outbound request counter, drained by the metrics sampler.
	requests atomic.Int64

	feed      priceFeed
	feedGuard *feedguard.Guard
	nodeGuard *feedguard.Guard

	// Base layer access, built lazily on first use.
	initMu      sync.Mutex
	reader      nodeReader
	broadcaster txBroadcaster

	// Signing accounts keyed by address.
	signers sync.Map // map[common.Address]txSigner

	stopOnce sync.Once
	stop     chan struct{}
	loops    sync.WaitGroup
}

// Option configures a Connector at construction.
type Option func(*Connector)

// WithReader injects a base layer reader, bypassing lazy jarvis construction.
func WithReader(r nodeReader) Option {
	return func(c *Connector) { c.reader = r }
}

// WithBroadcaster injects a base layer broadcaster, bypassing lazy jarvis
// construction.
func WithBroadcaster(b txBroadcaster) Option {
	return func(c *Connector) { c.broadcaster = b }
}

// WithSigner registers a signing account for a wallet address.
func WithSigner(wallet common.Address, s txSigner) Option {
	return func(c *Connector) { c.signers.Store(wallet, s) }
}

// WithFeed injects a gas price feed, replacing the HTTP client built from
// the gas station configuration.
func WithFeed(f priceFeed) Option {
	return func(c *Connector) { c.feed = f }
}

// NewConnector constructs a connector from a resolved configuration and
// starts its background loops: the gas price refresh loop when the gas
// station feed is enabled, and the request metrics sampler. The gas price
// starts at the configured manual value and keeps it until the first
// successful feed fetch. Callers must Close the connector to stop the loops.
func NewConnector(cfg NetworkConfig, opts ...Option) (*Connector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid network config for %q: %w", cfg.Name, err)
	}

	c := &Connector{
		cfg:       cfg,
		net:       &netAdapter{cfg: cfg},
		gasPrice:  cfg.ManualGasPrice,
		feedGuard: feedguard.New(feedguard.DefaultConfig()),
		nodeGuard: feedguard.New(feedguard.DefaultConfig()),
		stop:      make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	if cfg.GasStationEnabled && c.feed == nil {
		c.feed = gasfeed.New(cfg.GasStationURL, cfg.GasStationAPIKey, cfg.GasLevel, DefaultFeedTimeout)
	}

	if cfg.GasStationEnabled {
		c.loops.Add(1)
		go c.runGasPriceLoop()
	}

	sampleInterval := cfg.SampleInterval
	if sampleInterval <= 0 {
		sampleInterval = DefaultSampleInterval
	}
	c.loops.Add(1)
	go c.runMetricsLoop(sampleInterval)

	logger.WithFields(logger.Fields{
		"network":     cfg.Name,
		"chain_id":    cfg.ChainID,
		"gas_station": cfg.GasStationEnabled,
		"gas_price":   cfg.ManualGasPrice,
	}).Debug("connector initialized")

	return c, nil
}

// Name returns the network name this connector serves.
func (c *Connector) Name() string { return c.cfg.Name }

// ChainID returns the chain id of the network.
func (c *Connector) ChainID() uint64 { return c.cfg.ChainID }

// Config returns a copy of the connector's network configuration.
func (c *Connector) Config() NetworkConfig { return c.cfg }

// Network returns the jarvis network view of this connector's configuration,
// for callers that need to hand it to base layer utilities directly.
func (c *Connector) Network() networks.Network { return c.net }

// GasPrice returns the current gas price estimate in gwei. It is always a
// positive value: the last successful feed fetch when the gas station is
// enabled, the configured manual price otherwise.
func (c *Connector) GasPrice() float64 {
	c.gasMu.RLock()
	defer c.gasMu.RUnlock()
	return c.gasPrice
}

// LastUpdated returns the time of the last successful feed fetch, or nil if
// the feed is disabled or has not succeeded yet.
func (c *Connector) LastUpdated() *time.Time {
	c.gasMu.RLock()
	defer c.gasMu.RUnlock()
	if c.lastUpdated == nil {
		return nil
	}
	t := *c.lastUpdated
	return &t
}

// setGasPrice stores a freshly fetched price and its fetch time.
func (c *Connector) setGasPrice(price float64, at time.Time) {
	c.gasMu.Lock()
	defer c.gasMu.Unlock()
	c.gasPrice = price
	c.lastUpdated = &at
}

// SetAccount registers a signing account for a wallet address.
func (c *Connector) SetAccount(wallet common.Address, s txSigner) {
	c.signers.Store(wallet, s)
}

// Account returns the registered signer for a wallet, or nil.
func (c *Connector) Account(wallet common.Address) txSigner {
	if s, ok := c.signers.Load(wallet); ok {
		return s.(txSigner)
	}
	return nil
}

// UnlockAccount unlocks a wallet through the jarvis account store and
// registers it with the connector.
func (c *Connector) UnlockAccount(wallet common.Address) (txSigner, error) {
	accDesc, err := accounts.GetAccount(wallet.Hex())
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoAccount, wallet.Hex())
	}
	acc, err := accounts.UnlockAccount(accDesc)
	if err != nil {
		return nil, fmt.Errorf("unlocking wallet %s failed: %w", wallet.Hex(), err)
	}
	c.SetAccount(wallet, acc)
	return acc, nil
}

// Reader returns the base layer reader for this network, building it from
// the network configuration on first use. Repeated node failures suspend
// access for a cooldown.
func (c *Connector) Reader() (nodeReader, error) {
	if !c.nodeGuard.Allow() {
		return nil, fmt.Errorf("%w for network %s", ErrNodeUnavailable, c.cfg.Name)
	}

	c.initMu.Lock()
	defer c.initMu.Unlock()
	if c.reader == nil {
		r, err := util.EthReader(c.net)
		if err != nil {
			c.nodeGuard.RecordFailure()
			return nil, fmt.Errorf("couldn't init reader for network %s: %w", c.cfg.Name, err)
		}
		c.reader = r
	}
	return c.reader, nil
}

// Broadcaster returns the base layer broadcaster for this network, building
// it from the network configuration on first use.
func (c *Connector) Broadcaster() (txBroadcaster, error) {
	if !c.nodeGuard.Allow() {
		return nil, fmt.Errorf("%w for network %s", ErrNodeUnavailable, c.cfg.Name)
	}

	c.initMu.Lock()
	defer c.initMu.Unlock()
	if c.broadcaster == nil {
		b, err := util.EthBroadcaster(c.net)
		if err != nil {
			c.nodeGuard.RecordFailure()
			return nil, fmt.Errorf("couldn't init broadcaster for network %s: %w", c.cfg.Name, err)
		}
		c.broadcaster = b
	}
	return c.broadcaster, nil
}

// PendingNonce returns the node's pending transaction count for a wallet,
// which is the nonce a new transaction should use.
func (c *Connector) PendingNonce(wallet common.Address) (uint64, error) {
	r, err := c.Reader()
	if err != nil {
		return 0, err
	}
	c.noteRequest()
	nonce, err := r.GetPendingNonce(wallet.Hex())
	if err != nil {
		c.nodeGuard.RecordFailure()
		return 0, fmt.Errorf("couldn't get pending nonce of %s: %w", wallet.Hex(), err)
	}
	c.nodeGuard.RecordSuccess()
	return nonce, nil
}

// MinedNonce returns the node's latest mined transaction count for a wallet.
func (c *Connector) MinedNonce(wallet common.Address) (uint64, error) {
	r, err := c.Reader()
	if err != nil {
		return 0, err
	}
	c.noteRequest()
	nonce, err := r.GetMinedNonce(wallet.Hex())
	if err != nil {
		c.nodeGuard.RecordFailure()
		return 0, fmt.Errorf("couldn't get mined nonce of %s: %w", wallet.Hex(), err)
	}
	c.nodeGuard.RecordSuccess()
	return nonce, nil
}

// NodeStats returns the failure-guard counters for node access.
func (c *Connector) NodeStats() feedguard.Stats { return c.nodeGuard.Stats() }

// FeedStats returns the failure-guard counters for the gas price feed.
func (c *Connector) FeedStats() feedguard.Stats { return c.feedGuard.Stats() }

// Close stops the gas price refresh loop and the metrics sampler and waits
// for them to exit. It is safe to call more than once.
func (c *Connector) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
	c.loops.Wait()
}
