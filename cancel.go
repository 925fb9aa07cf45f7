package chainconn

import (
	"context"
	"fmt"
	"math/big"

	"github.com/KyberNetwork/logger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	jarviscommon "github.com/tranvictor/jarvis/common"
)

// nativeTransferGasLimit is the exact gas cost of a plain value transfer,
// which is all a cancellation transaction does.
const nativeTransferGasLimit = 21000

// CancelTx builds and broadcasts a zero-value transfer from the wallet to
// itself at the supplied nonce, using the connector's current gas price.
// Reusing the nonce with the current (higher) price supersedes a stuck
// transaction at that nonce. It returns the signed replacement transaction
// as soon as the broadcast is accepted; it does not wait for confirmation,
// does not verify the original transaction is actually stuck, and does not
// retry a failed broadcast.
func (c *Connector) CancelTx(ctx context.Context, wallet common.Address, nonce uint64) (*types.Transaction, error) {
	gasPrice := c.GasPrice()

	logger.WithFields(logger.Fields{
		"network":   c.cfg.Name,
		"wallet":    wallet.Hex(),
		"nonce":     nonce,
		"gas_price": gasPrice,
	}).Info("canceling tx: submitting zero-value self transfer at same nonce")

	signer := c.Account(wallet)
	if signer == nil {
		var err error
		signer, err = c.UnlockAccount(wallet)
		if err != nil {
			return nil, err
		}
	}

	tx := jarviscommon.BuildExactTx(
		types.LegacyTxType,
		nonce,
		wallet.Hex(),
		big.NewInt(0),
		nativeTransferGasLimit,
		gasPrice,
		0,
		nil,
		c.cfg.ChainID,
	)

	_, signedTx, err := signer.SignTx(tx, big.NewInt(int64(c.cfg.ChainID)))
	if err != nil {
		return nil, fmt.Errorf("couldn't sign cancellation tx for %s nonce %d: %w", wallet.Hex(), nonce, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b, err := c.Broadcaster()
	if err != nil {
		return nil, err
	}

	c.noteRequest()
	hash, broadcasted, err := b.BroadcastTx(signedTx)
	if !broadcasted {
		c.nodeGuard.RecordFailure()
		return nil, fmt.Errorf("%w: cancellation of nonce %d: %v", ErrBroadcastFailed, nonce, err)
	}
	c.nodeGuard.RecordSuccess()

	logger.WithFields(logger.Fields{
		"network": c.cfg.Name,
		"wallet":  wallet.Hex(),
		"nonce":   nonce,
		"tx_hash": hash,
	}).Debug("cancellation tx broadcasted")

	return signedTx, nil
}
