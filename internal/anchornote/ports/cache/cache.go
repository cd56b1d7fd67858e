// Package cache определяет интерфейс кэша записей реестра.
package cache

import (
	"context"

	"anchornote/internal/anchornote/ports/ledger"
)

// LedgerRecordCache кэширует подтвержденные записи реестра по ссылке.
// Подтвержденная запись неизменяема, поэтому кэш не требует инвалидации.
type LedgerRecordCache interface {
	Get(ctx context.Context, ref ledger.Reference) (*ledger.Record, error)
	Set(ctx context.Context, ref ledger.Reference, record *ledger.Record) error
	Close() error
}
