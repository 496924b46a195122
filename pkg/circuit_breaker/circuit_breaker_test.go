package circuit_breaker_test

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/booklend/lending-service/pkg/circuit_breaker"
)

func Test_circuitBreaker_Call(t *testing.T) {
	ok := func() error { return nil }
	fail := func() error { return errors.New("service error") }

	t.Run("stays closed on successes", func(t *testing.T) {
		cb := circuit_breaker.New(10, time.Second, 0.5, 3)
		for i := 0; i < 40; i++ {
			require.NoError(t, cb.Call(ok))
		}
	})

	t.Run("trips open after failure ratio exceeded", func(t *testing.T) {
		cb := circuit_breaker.New(10, time.Minute, 0.5, 3)
		for i := 0; i < 5; i++ {
			require.Error(t, cb.Call(fail))
		}
		// breaker is open now: call is rejected before the service runs
		err := cb.Call(ok)
		require.ErrorIs(t, err, circuit_breaker.ErrOpenCB)
	})

	t.Run("recovers through half-open", func(t *testing.T) {
		cb := circuit_breaker.New(4, time.Millisecond*20, 0.5, 2)
		for i := 0; i < 2; i++ {
			require.Error(t, cb.Call(fail))
		}
		require.ErrorIs(t, cb.Call(ok), circuit_breaker.ErrOpenCB)

		time.Sleep(time.Millisecond * 30)
		for i := 0; i < 3; i++ {
			require.NoError(t, cb.Call(ok))
		}
		// closed again, failures from the old window are gone
		require.NoError(t, cb.Call(ok))
	})

	t.Run("half-open failure re-opens", func(t *testing.T) {
		cb := circuit_breaker.New(4, time.Millisecond*20, 0.5, 2)
		for i := 0; i < 2; i++ {
			require.Error(t, cb.Call(fail))
		}
		time.Sleep(time.Millisecond * 30)
		require.Error(t, cb.Call(fail))
		require.ErrorIs(t, cb.Call(ok), circuit_breaker.ErrOpenCB)
	})
}
