package chainconn

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestSampler(t *testing.T) {
	t.Run("emission reports the accumulated count and resets", func(t *testing.T) {
		conn, err := NewConnector(testConfig("devnet", 1337))
		require.NoError(t, err)
		defer conn.Close()

		for i := 0; i < 5; i++ {
			conn.ObserveRequest()
		}
		assert.Equal(t, int64(5), conn.RequestCount())

		emitted := conn.emitRequestRate(time.Minute)
		assert.Equal(t, int64(5), emitted)
		assert.Equal(t, int64(0), conn.RequestCount(), "counter must reset after emission")
	})

	t.Run("second emission after reset reports zero", func(t *testing.T) {
		conn, err := NewConnector(testConfig("devnet", 1337))
		require.NoError(t, err)
		defer conn.Close()

		conn.ObserveRequest()
		conn.emitRequestRate(time.Minute)

		assert.Equal(t, int64(0), conn.emitRequestRate(time.Minute))
	})

	t.Run("sampler loop drains the counter on its interval", func(t *testing.T) {
		cfg := testConfig("devnet", 1337)
		cfg.SampleInterval = 20 * time.Millisecond

		conn, err := NewConnector(cfg)
		require.NoError(t, err)
		defer conn.Close()

		for i := 0; i < 3; i++ {
			conn.ObserveRequest()
		}

		assert.Eventually(t, func() bool {
			return conn.RequestCount() == 0
		}, 2*time.Second, 5*time.Millisecond, "sampler loop never reset the counter")
	})
}
