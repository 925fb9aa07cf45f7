package chainconn

import (
	"context"
	"time"

	"github.com/KyberNetwork/logger"
)

// runGasPriceLoop refreshes the gas price estimate from the gas station
// feed. It fetches once immediately, then on every RefreshInterval tick
// until the connector is closed. Individual fetch failures are logged and
// the loop keeps its schedule; repeated failures suspend the feed for a
// cooldown through the feed guard.
func (c *Connector) runGasPriceLoop() {
	defer c.loops.Done()

	interval := c.cfg.RefreshInterval
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}

	c.refreshGasPrice()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.refreshGasPrice()
		}
	}
}

// refreshGasPrice performs one feed fetch cycle. The estimate and its
// timestamp are replaced together in a single assignment, so concurrent
// readers see either the previous or the fully-updated value.
func (c *Connector) refreshGasPrice() {
	if !c.feedGuard.Allow() {
		logger.WithFields(logger.Fields{
			"network": c.cfg.Name,
			"level":   c.cfg.GasLevel,
		}).Debug("gas price refresh skipped: feed suspended after repeated failures")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultFeedTimeout)
	defer cancel()

	c.noteRequest()
	price, err := c.feed.Fetch(ctx)
	if err != nil {
		c.feedGuard.RecordFailure()
		logger.WithFields(logger.Fields{
			"network": c.cfg.Name,
			"level":   c.cfg.GasLevel,
			"error":   err,
		}).Warn("gas price refresh failed, keeping previous estimate")
		return
	}
	c.feedGuard.RecordSuccess()

	now := time.Now()
	c.setGasPrice(price, now)

	logger.WithFields(logger.Fields{
		"network":   c.cfg.Name,
		"level":     c.cfg.GasLevel,
		"gas_price": price,
	}).Debug("gas price refreshed from feed")
}
