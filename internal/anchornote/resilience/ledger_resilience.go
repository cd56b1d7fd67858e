package resilience

import (
	"context"
)

// Имя защищаемого сервиса.
const ledgerBreakerName = "ledger"

// LedgerResilience объединяет Circuit Breaker и повторные попытки для вызовов узла реестра.
// Чтение повторяется при ошибках, отправка транзакций выполняется строго один раз.
type LedgerResilience struct {
	breaker *CircuitBreaker
	retrier *Retrier
}

// NewLedgerResilience создает новый экземпляр LedgerResilience.
func NewLedgerResilience(breakerConfig CircuitBreakerConfig, retryConfig RetryConfig) *LedgerResilience {
	return &LedgerResilience{
		breaker: NewCircuitBreaker(ledgerBreakerName, breakerConfig),
		retrier: NewRetrier(retryConfig),
	}
}

// NewDefaultLedgerResilience создает LedgerResilience с настройками по умолчанию.
func NewDefaultLedgerResilience() *LedgerResilience {
	return NewLedgerResilience(DefaultCircuitBreakerConfig(), DefaultRetryConfig())
}

// ExecuteRead выполняет идемпотентный вызов с Circuit Breaker и повторными попытками.
func (lr *LedgerResilience) ExecuteRead(ctx context.Context, name string, fn func() error) error {
	return lr.retrier.Do(ctx, name, func() error {
		return lr.breaker.Execute(ctx, fn)
	})
}

// ExecuteWrite выполняет неидемпотентный вызов только с Circuit Breaker, без повторов.
func (lr *LedgerResilience) ExecuteWrite(ctx context.Context, fn func() error) error {
	return lr.breaker.Execute(ctx, fn)
}

// State возвращает текущее состояние Circuit Breaker.
func (lr *LedgerResilience) State() CircuitState {
	return lr.breaker.GetState()
}
