package chainconn

import (
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// testConfig returns a minimal valid config with the gas station disabled.
// Tests that exercise the refresh loop override the gas station fields.
func testConfig(name string, chainID uint64) NetworkConfig {
	return NetworkConfig{
		Name:              name,
		ChainID:           chainID,
		NativeTokenSymbol: "ETH",
		RPCURL:            "http://localhost:8545",
		ManualGasPrice:    30,
		GasLevel:          GasLevelFast,
		RefreshInterval:   10 * time.Millisecond,
		SampleInterval:    time.Hour,
		BlockTime:         time.Second,
	}
}

// mockBroadcaster records every transaction it is asked to broadcast.
type mockBroadcaster struct {
	mu     sync.Mutex
	txs    []*types.Transaction
	fail   bool
	failed error
}

func (m *mockBroadcaster) BroadcastTx(tx *types.Transaction) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return "", false, m.failed
	}
	m.txs = append(m.txs, tx)
	return tx.Hash().Hex(), true, nil
}

func (m *mockBroadcaster) lastTx() *types.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.txs) == 0 {
		return nil
	}
	return m.txs[len(m.txs)-1]
}

// mockSigner passes transactions through unsigned; good enough for
// asserting what the connector builds and broadcasts.
type mockSigner struct {
	wallet common.Address
	err    error
}

func (m *mockSigner) SignTx(tx *types.Transaction, chainID *big.Int) (common.Address, *types.Transaction, error) {
	if m.err != nil {
		return common.Address{}, nil, m.err
	}
	return m.wallet, tx, nil
}

// mockReader serves canned nonces.
type mockReader struct {
	minedNonce   uint64
	pendingNonce uint64
	err          error
}

func (m *mockReader) GetMinedNonce(wallet string) (uint64, error) {
	return m.minedNonce, m.err
}

func (m *mockReader) GetPendingNonce(wallet string) (uint64, error) {
	return m.pendingNonce, m.err
}
