package chainconn

import "fmt"

// Connector errors
var (
	ErrUnknownNetwork   = fmt.Errorf("unknown network name")
	ErrConnectorClosed  = fmt.Errorf("connector is closed")
	ErrNoRouterForChain = fmt.Errorf("integration has no router deployed on this chain")
	ErrNoAccount        = fmt.Errorf("wallet is not registered with the connector")
	ErrBroadcastFailed  = fmt.Errorf("transaction was not accepted by any node")
	ErrFeedUnavailable  = fmt.Errorf("gas price feed is temporarily unavailable")
	ErrNodeUnavailable  = fmt.Errorf("node access suspended: too many consecutive failures")
)
