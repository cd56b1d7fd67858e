package resilience

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"anchornote/pkg/logger"
)

// Константы для логирования.
const (
	LogRetryAttempt   = "retrying ledger call"
	LogRetryExhausted = "retry attempts exhausted"
	LogRetrySuccess   = "ledger call succeeded after retry"
)

// RetryConfig содержит настройки механизма повторных попыток.
type RetryConfig struct {
	// MaxAttempts - максимальное количество попыток.
	MaxAttempts int
	// InitialDelay - начальная задержка между попытками.
	InitialDelay time.Duration
	// MaxDelay - максимальная задержка между попытками.
	MaxDelay time.Duration
	// BackoffFactor - множитель увеличения задержки.
	BackoffFactor float64
}

// DefaultRetryConfig возвращает конфигурацию повторных попыток по умолчанию.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      2 * time.Second,
		BackoffFactor: 2.0,
	}
}

// Retrier выполняет функции с повторными попытками и экспоненциальной задержкой.
type Retrier struct {
	config RetryConfig
}

// NewRetrier создает новый экземпляр Retrier.
func NewRetrier(config RetryConfig) *Retrier {
	return &Retrier{config: config}
}

// Do выполняет функцию с повторными попытками.
func (r *Retrier) Do(ctx context.Context, name string, fn func() error) error {
	log := logger.Log(ctx).With(zap.String("operation", name))

	var lastErr error
	delay := r.config.InitialDelay

	for attempt := 1; attempt <= r.config.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			if attempt > 1 {
				log.Info(ctx, LogRetrySuccess, zap.Int("attempt", attempt))
			}
			return nil
		}

		if !shouldRetry(lastErr) || attempt == r.config.MaxAttempts {
			break
		}

		log.Warn(ctx, LogRetryAttempt,
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(lastErr))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * r.config.BackoffFactor)
		if delay > r.config.MaxDelay {
			delay = r.config.MaxDelay
		}
	}

	if shouldRetry(lastErr) {
		log.Warn(ctx, LogRetryExhausted, zap.Error(lastErr))
	}

	return lastErr
}

// shouldRetry определяет, допускает ли ошибка повторную попытку.
func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrCircuitOpen) {
		return false
	}
	return true
}
