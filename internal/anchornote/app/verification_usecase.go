package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"anchornote/internal/anchornote/domain/entities"
	"anchornote/internal/anchornote/domain/fingerprint"
	"anchornote/internal/anchornote/ports/cache"
	"anchornote/internal/anchornote/ports/ledger"
	"anchornote/internal/anchornote/ports/repositories"
	"anchornote/pkg/logger"
)

// ErrNoAnchorRecord возвращается при проверке заметки без записи якорения.
// Это ожидаемое состояние ("не заякорена"), а не сбой системы.
var ErrNoAnchorRecord = errors.New("note has no anchor record")

// Константы для сообщений logger.
const (
	LogVerificationStarted = "verifying note integrity"
	LogLedgerFetchFailed   = "ledger record unavailable, reporting local comparison only"
	LogLedgerRecordCached  = "confirmed ledger record cached"
	LogCacheLookupFailed   = "ledger record cache lookup failed"
	LogCacheStoreFailed    = "failed to cache ledger record"
)

// VerificationUseCase проверяет целостность заметки: пересчитывает отпечаток
// текущего содержимого, сравнивает его с отпечатком на момент якорения и
// сверяет локальную запись с нагрузкой в реестре.
type VerificationUseCase struct {
	anchorRepo   repositories.AnchorRepository
	gateway      ledger.Gateway
	recordCache  cache.LedgerRecordCache
	fetchTimeout time.Duration
}

// NewVerificationUseCase создает новый экземпляр VerificationUseCase.
// recordCache может быть nil: проверка работает и без кэша.
func NewVerificationUseCase(
	anchorRepo repositories.AnchorRepository,
	gateway ledger.Gateway,
	recordCache cache.LedgerRecordCache,
	fetchTimeout time.Duration,
) *VerificationUseCase {
	return &VerificationUseCase{
		anchorRepo:   anchorRepo,
		gateway:      gateway,
		recordCache:  recordCache,
		fetchTimeout: fetchTimeout,
	}
}

// Verify строит отчет о целостности заметки. Недоступность реестра не
// является ошибкой: отчет заполняется локально известными данными со
// статусом LedgerUnreachable. Ошибка возвращается при сбое хранилища,
// отсутствии записи якорения (ErrNoAnchorRecord) или незаданном
// идентификаторе заметки.
//
// Заметка, измененная после якорения, получает TamperDetected=true даже
// если реестр подтверждает исходный отпечаток: сравнение судит текущее
// содержимое против отпечатка на момент якорения, нагрузка реестра -
// только подкрепляющее свидетельство.
func (uc *VerificationUseCase) Verify(ctx context.Context, note *entities.Note) (*VerificationReport, error) {
	log := logger.Log(ctx).With(zap.Int64("noteID", note.ID))
	log.Debug(ctx, LogVerificationStarted)

	record, err := uc.anchorRepo.GetByNoteID(ctx, note.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load anchor record: %w", err)
	}
	if record == nil {
		return nil, ErrNoAnchorRecord
	}

	current, err := fingerprint.Compute(note.ID, note.Title, note.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to compute current fingerprint: %w", err)
	}

	report := &VerificationReport{
		Reference:      record.Reference,
		LedgerStatus:   LedgerUnreachable,
		BlockMarker:    record.BlockMarker,
		CurrentDigest:  current.String(),
		StoredDigest:   record.Digest,
		TamperDetected: current.String() != record.Digest,
	}

	ledgerRecord := uc.fetchLedgerRecord(ctx, ledger.Reference(record.Reference))
	if ledgerRecord == nil {
		return report, nil
	}

	switch ledgerRecord.Status {
	case ledger.StatusConfirmed:
		report.LedgerStatus = LedgerConfirmed
	case ledger.StatusPending:
		report.LedgerStatus = LedgerPending
	case ledger.StatusFailed:
		report.LedgerStatus = LedgerFailed
	}

	if ledgerRecord.BlockMarker != nil {
		report.BlockMarker = ledgerRecord.BlockMarker
	}

	// Совпадение нагрузки реестра с локальной записью ловит порчу самой
	// записи якорения, чего сравнение двух локальных копий не обнаружит.
	consistent := string(ledgerRecord.Payload) == record.Digest
	report.LedgerConsistent = &consistent

	return report, nil
}

// fetchLedgerRecord возвращает запись реестра по ссылке, используя кэш
// для подтвержденных записей. Возвращает nil, если реестр недоступен
// или ссылка не найдена.
func (uc *VerificationUseCase) fetchLedgerRecord(ctx context.Context, ref ledger.Reference) *ledger.Record {
	log := logger.Log(ctx).With(zap.String("reference", string(ref)))

	if uc.recordCache != nil {
		cached, err := uc.recordCache.Get(ctx, ref)
		if err != nil {
			log.Warn(ctx, LogCacheLookupFailed, zap.Error(err))
		} else if cached != nil {
			return cached
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, uc.fetchTimeout)
	defer cancel()

	record, err := uc.gateway.Fetch(fetchCtx, ref)
	if err != nil {
		log.Warn(ctx, LogLedgerFetchFailed, zap.Error(err))
		return nil
	}

	// Подтвержденная запись неизменяема, кэшировать ее безопасно.
	if record.Status == ledger.StatusConfirmed && uc.recordCache != nil {
		if err := uc.recordCache.Set(ctx, ref, record); err != nil {
			log.Warn(ctx, LogCacheStoreFailed, zap.Error(err))
		} else {
			log.Debug(ctx, LogLedgerRecordCached)
		}
	}

	return record
}
