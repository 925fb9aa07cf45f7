package chainconn

import (
	"time"

	"github.com/KyberNetwork/logger"
)

// noteRequest counts one outbound network request. It is called at every
// connector call site that talks to a node or the gas feed.
func (c *Connector) noteRequest() {
	c.requests.Add(1)
}

// ObserveRequest counts an outbound request made on this network by code
// outside the connector, such as a wrapper around the base layer. The count
// feeds the periodic rate summary.
func (c *Connector) ObserveRequest() {
	c.noteRequest()
}

// RequestCount returns the number of requests accumulated since the last
// sampler emission.
func (c *Connector) RequestCount() int64 {
	return c.requests.Load()
}

// runMetricsLoop emits a request-rate summary every interval, resetting the
// counter after each emission.
func (c *Connector) runMetricsLoop(interval time.Duration) {
	defer c.loops.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.emitRequestRate(interval)
		}
	}
}

// emitRequestRate logs the requests accumulated over one interval, resets
// the counter to zero and returns the emitted count.
func (c *Connector) emitRequestRate(interval time.Duration) int64 {
	count := c.requests.Swap(0)
	logger.WithFields(logger.Fields{
		"network":  c.cfg.Name,
		"requests": count,
		"interval": interval.String(),
	}).Info("outbound request rate")
	return count
}
