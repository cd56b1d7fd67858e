package resilience_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anchornote/internal/anchornote/resilience"
)

var errLedger = errors.New("ledger call failed")

func TestCircuitBreaker(t *testing.T) {
	ctx := context.Background()

	t.Run("успешные вызовы проходят в закрытом состоянии", func(t *testing.T) {
		cb := resilience.NewCircuitBreaker("test", resilience.DefaultCircuitBreakerConfig())

		err := cb.Execute(ctx, func() error { return nil })

		require.NoError(t, err)
		assert.Equal(t, resilience.StateClosed, cb.GetState())
	})

	t.Run("переход в открытое состояние после порога ошибок", func(t *testing.T) {
		cfg := resilience.CircuitBreakerConfig{
			ErrorThreshold:   3,
			Timeout:          time.Minute,
			SuccessThreshold: 1,
		}
		cb := resilience.NewCircuitBreaker("test", cfg)

		for i := 0; i < 3; i++ {
			_ = cb.Execute(ctx, func() error { return errLedger })
		}

		assert.Equal(t, resilience.StateOpen, cb.GetState())

		err := cb.Execute(ctx, func() error { return nil })
		assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	})

	t.Run("восстановление через полуоткрытое состояние", func(t *testing.T) {
		cfg := resilience.CircuitBreakerConfig{
			ErrorThreshold:   1,
			Timeout:          10 * time.Millisecond,
			SuccessThreshold: 1,
		}
		cb := resilience.NewCircuitBreaker("test", cfg)

		_ = cb.Execute(ctx, func() error { return errLedger })
		require.Equal(t, resilience.StateOpen, cb.GetState())

		time.Sleep(20 * time.Millisecond)

		err := cb.Execute(ctx, func() error { return nil })
		require.NoError(t, err)
		assert.Equal(t, resilience.StateClosed, cb.GetState())
	})
}

func TestRetrier(t *testing.T) {
	ctx := context.Background()

	cfg := resilience.RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
	}

	t.Run("успех после повторной попытки", func(t *testing.T) {
		r := resilience.NewRetrier(cfg)

		calls := 0
		err := r.Do(ctx, "fetch", func() error {
			calls++
			if calls < 3 {
				return errLedger
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("исчерпание попыток", func(t *testing.T) {
		r := resilience.NewRetrier(cfg)

		calls := 0
		err := r.Do(ctx, "fetch", func() error {
			calls++
			return errLedger
		})

		require.ErrorIs(t, err, errLedger)
		assert.Equal(t, 3, calls)
	})

	t.Run("отмена контекста не повторяется", func(t *testing.T) {
		r := resilience.NewRetrier(cfg)

		calls := 0
		err := r.Do(ctx, "fetch", func() error {
			calls++
			return context.Canceled
		})

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	})
}

func TestLedgerResilience(t *testing.T) {
	ctx := context.Background()

	t.Run("запись не повторяется при ошибке", func(t *testing.T) {
		lr := resilience.NewDefaultLedgerResilience()

		calls := 0
		err := lr.ExecuteWrite(ctx, func() error {
			calls++
			return errLedger
		})

		require.ErrorIs(t, err, errLedger)
		assert.Equal(t, 1, calls)
	})

	t.Run("чтение повторяется до успеха", func(t *testing.T) {
		lr := resilience.NewDefaultLedgerResilience()

		calls := 0
		err := lr.ExecuteRead(ctx, "fetch", func() error {
			calls++
			if calls < 2 {
				return errLedger
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})
}
