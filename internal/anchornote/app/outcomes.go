// Package app implements application business logic for the anchornote service.
package app

// AnchoringStatus - итоговый статус попытки якорения.
type AnchoringStatus string

// Возможные статусы якорения.
const (
	// StatusAnchored - отпечаток отправлен в реестр, запись якорения создана.
	StatusAnchored AnchoringStatus = "anchored"
	// StatusSavedLocallyOnly - заметка сохранена, но якорение не состоялось.
	StatusSavedLocallyOnly AnchoringStatus = "saved_locally_only"
	// StatusAlreadyAnchored - у заметки уже есть запись якорения.
	StatusAlreadyAnchored AnchoringStatus = "already_anchored"
)

// SkipReason уточняет, почему якорение не состоялось.
type SkipReason string

// Причины отказа от якорения. Все они восстановимы: заметка сохранена,
// вызывающая сторона может повторить попытку позже.
const (
	ReasonLedgerOffline SkipReason = "ledger_offline"
	ReasonNoAccount     SkipReason = "no_account"
	ReasonLedgerError   SkipReason = "ledger_error"
	ReasonTimeout       SkipReason = "timeout"
)

// AnchoringOutcome - структурированный результат якорения. Сбои реестра
// представлены здесь, а не ошибками: существование заметки не зависит
// от успеха якорения.
type AnchoringOutcome struct {
	Status      AnchoringStatus `json:"status"`
	Reason      SkipReason      `json:"reason,omitempty"`
	Detail      string          `json:"detail,omitempty"`
	Reference   string          `json:"reference,omitempty"`
	Digest      string          `json:"digest,omitempty"`
	BlockMarker *int64          `json:"block_marker,omitempty"`
}

// LedgerStatus - статус записи реестра в отчете о проверке.
type LedgerStatus string

// Возможные статусы реестра при проверке.
const (
	LedgerConfirmed   LedgerStatus = "confirmed"
	LedgerPending     LedgerStatus = "pending"
	LedgerFailed      LedgerStatus = "failed"
	LedgerUnreachable LedgerStatus = "unreachable"
)

// VerificationReport - результат проверки целостности заметки.
// TamperDetected - авторитетный локальный признак: отпечаток текущего
// содержимого сравнивается с отпечатком на момент якорения и не требует
// доступа к реестру. LedgerConsistent - дополнительное свидетельство:
// совпадает ли нагрузка в реестре с локально сохраненным отпечатком;
// nil, когда реестр недоступен.
type VerificationReport struct {
	Reference        string       `json:"reference"`
	LedgerStatus     LedgerStatus `json:"ledger_status"`
	BlockMarker      *int64       `json:"block_marker,omitempty"`
	CurrentDigest    string       `json:"current_digest"`
	StoredDigest     string       `json:"stored_digest"`
	TamperDetected   bool         `json:"tamper_detected"`
	LedgerConsistent *bool        `json:"ledger_consistent,omitempty"`
}
