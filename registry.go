package chainconn

import (
	"fmt"
	"sync"

	"github.com/KyberNetwork/logger"
)

// Registry hands out one Connector per network name, constructing each
// lazily on first request and caching it for the registry's lifetime.
// Construct one Registry at process startup and pass it to whatever needs
// connector access; connectors are never evicted.
type Registry struct {
	mu         sync.Mutex
	connectors map[string]*Connector

	// custom networks registered on top of the built-in table
	networks map[string]NetworkConfig

	// options applied to every connector this registry constructs
	connOpts []Option
}

// RegistryOption configures a Registry at construction.
type RegistryOption func(*Registry)

// WithNetwork registers a custom network configuration, overriding the
// built-in table for that name.
func WithNetwork(cfg NetworkConfig) RegistryOption {
	return func(r *Registry) { r.networks[cfg.Name] = cfg }
}

// WithConnectorOptions sets options applied to every connector the registry
// constructs.
func WithConnectorOptions(opts ...Option) RegistryOption {
	return func(r *Registry) { r.connOpts = append(r.connOpts, opts...) }
}

// NewRegistry creates an empty connector registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		connectors: make(map[string]*Connector),
		networks:   make(map[string]NetworkConfig),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetInstance returns the connector for a network name. The first call for
// a name resolves its configuration and constructs the connector, starting
// its background loops; every later call returns the same instance without
// re-running initialization. First calls for the same name are serialized,
// so a name is constructed exactly once even under concurrent access.
func (r *Registry) GetInstance(name string) (*Connector, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if conn, ok := r.connectors[name]; ok {
		return conn, nil
	}

	cfg, ok := r.networks[name]
	if !ok {
		var err error
		cfg, err = ResolveNetworkConfig(name)
		if err != nil {
			return nil, err
		}
	}

	conn, err := NewConnector(cfg, r.connOpts...)
	if err != nil {
		return nil, fmt.Errorf("couldn't construct connector for %q: %w", name, err)
	}
	r.connectors[name] = conn

	logger.WithFields(logger.Fields{
		"network":  name,
		"chain_id": cfg.ChainID,
	}).Debug("connector registered")

	return conn, nil
}

// Close tears down every connector the registry has constructed.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, conn := range r.connectors {
		conn.Close()
	}
}
