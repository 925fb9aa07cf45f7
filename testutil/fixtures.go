package testutil

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ============================================================
// Common Test Addresses
// ============================================================

var (
	// TestWallet is a throwaway wallet address used across tests
	TestWallet = common.HexToAddress("0x1111111111111111111111111111111111111111")

	// TestToken is an arbitrary token address that is NOT the legacy token
	TestToken = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

// ============================================================
// Gas Price Constants (wei)
// ============================================================

var (
	OneGwei    = big.NewInt(1_000_000_000)
	TwentyGwei = big.NewInt(20_000_000_000)
)

// GweiToWei converts a whole-gwei price to wei for comparing against
// transaction fields.
func GweiToWei(gwei int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(gwei), OneGwei)
}
