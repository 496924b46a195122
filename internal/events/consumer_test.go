package events_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/booklend/lending-service/internal/events"
	"github.com/booklend/lending-service/internal/model"
)

// Every consumer-group rebalance starts a new session and calls Setup
// again on the same handler instance.
func TestConsumer_SetupAcrossRebalances(t *testing.T) {
	t.Parallel()

	c := events.NewConsumer(func(model.LoanEvent) {}, zap.NewNop())

	require.NotPanics(t, func() {
		require.NoError(t, c.Setup(nil))
		require.NoError(t, c.Cleanup(nil))
		require.NoError(t, c.Setup(nil))
		require.NoError(t, c.Cleanup(nil))
	})
}
