// Package ledger определяет интерфейс взаимодействия с внешним реестром транзакций.
package ledger

import (
	"context"
	"errors"
)

// Ошибки взаимодействия с реестром. Адаптеры обязаны возвращать
// именно эти значения (возможно обернутыми), чтобы вызывающий код
// различал исходы через errors.Is.
var (
	ErrLedgerUnavailable  = errors.New("ledger node is unavailable")
	ErrNoSigningAccount   = errors.New("no signing account available")
	ErrSubmissionRejected = errors.New("ledger rejected the submission")
	ErrReferenceNotFound  = errors.New("ledger reference not found")
)

// AccountID - идентификатор счета, способного подписывать отправки.
type AccountID string

// Reference - непрозрачная ссылка на принятую реестром отправку.
type Reference string

// Status представляет статус подтверждения записи в реестре.
type Status string

// Возможные статусы записи реестра.
const (
	StatusConfirmed Status = "confirmed"
	StatusPending   Status = "pending"
	StatusFailed    Status = "failed"
)

// Record - запись реестра, полученная по ссылке: исходная нагрузка,
// статус подтверждения и порядковый маркер блока (если запись подтверждена).
type Record struct {
	Payload     []byte `json:"payload"`
	Status      Status `json:"status"`
	BlockMarker *int64 `json:"block_marker,omitempty"`
}

// Receipt - результат принятой отправки: ссылка и маркер блока,
// если отправка была подтверждена до возврата.
type Receipt struct {
	Reference   Reference
	BlockMarker *int64
}

// Gateway - единственная точка контакта с внешним реестром.
type Gateway interface {
	// IsReachable проверяет доступность узла реестра. Никогда не возвращает ошибку:
	// любой сбой связи означает false.
	IsReachable(ctx context.Context) bool

	// SigningAccounts возвращает счета, способные подписывать отправки.
	// Пустой список - корректный исход, а не ошибка.
	SigningAccounts(ctx context.Context) ([]AccountID, error)

	// Submit отправляет нагрузку в реестр от имени счета и блокируется
	// до принятия отправки. Ограничивается дедлайном контекста.
	Submit(ctx context.Context, payload []byte, from AccountID) (*Receipt, error)

	// Fetch возвращает запись реестра по ссылке.
	Fetch(ctx context.Context, ref Reference) (*Record, error)
}
