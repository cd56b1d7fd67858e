package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"anchornote/internal/anchornote/domain/entities"
	"anchornote/internal/anchornote/domain/fingerprint"
	"anchornote/internal/anchornote/ports/ledger"
	"anchornote/internal/anchornote/ports/repositories"
	"anchornote/pkg/logger"
)

// Константы для сообщений logger.
const (
	LogAnchoringStarted    = "anchoring note"
	LogLedgerOffline       = "ledger unreachable, note saved locally only"
	LogNoSigningAccounts   = "no signing accounts, note saved locally only"
	LogSubmissionDone      = "fingerprint submitted to ledger"
	LogSubmissionFailed    = "ledger submission failed, note saved locally only"
	LogAnchorRecordCreated = "anchor record created"
	LogLostAnchoringRace   = "concurrent anchoring won, keeping existing record"
)

// AnchoringUseCase выполняет якорение: вычисляет отпечаток заметки,
// отправляет его в реестр и сохраняет запись якорения.
type AnchoringUseCase struct {
	anchorRepo    repositories.AnchorRepository
	gateway       ledger.Gateway
	submitTimeout time.Duration
}

// NewAnchoringUseCase создает новый экземпляр AnchoringUseCase.
func NewAnchoringUseCase(anchorRepo repositories.AnchorRepository, gateway ledger.Gateway, submitTimeout time.Duration) *AnchoringUseCase {
	return &AnchoringUseCase{
		anchorRepo:    anchorRepo,
		gateway:       gateway,
		submitTimeout: submitTimeout,
	}
}

// Anchor якорит заметку в реестре. Ошибка возвращается только при сбоях
// хранилища или некорректном входе; любой сбой реестра превращается в
// структурированный AnchoringOutcome - заметка к этому моменту уже
// сохранена, и ее существование не зависит от успеха якорения.
//
// Повторное якорение уже заякоренной заметки отклоняется со статусом
// StatusAlreadyAnchored: запись якорения неизменяема.
func (uc *AnchoringUseCase) Anchor(ctx context.Context, note *entities.Note) (*AnchoringOutcome, error) {
	log := logger.Log(ctx).With(zap.Int64("noteID", note.ID))
	log.Debug(ctx, LogAnchoringStarted)

	existing, err := uc.anchorRepo.GetByNoteID(ctx, note.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing anchor record: %w", err)
	}
	if existing != nil {
		return alreadyAnchoredOutcome(existing), nil
	}

	digest, err := fingerprint.Compute(note.ID, note.Title, note.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to compute fingerprint: %w", err)
	}

	if !uc.gateway.IsReachable(ctx) {
		log.Warn(ctx, LogLedgerOffline)
		return &AnchoringOutcome{Status: StatusSavedLocallyOnly, Reason: ReasonLedgerOffline}, nil
	}

	accounts, err := uc.gateway.SigningAccounts(ctx)
	if err != nil {
		log.Warn(ctx, LogSubmissionFailed, zap.Error(err))
		return savedLocallyOutcome(err), nil
	}
	if len(accounts) == 0 {
		log.Warn(ctx, LogNoSigningAccounts)
		return &AnchoringOutcome{Status: StatusSavedLocallyOnly, Reason: ReasonNoAccount}, nil
	}

	submitCtx, cancel := context.WithTimeout(ctx, uc.submitTimeout)
	defer cancel()

	receipt, err := uc.gateway.Submit(submitCtx, digest.Bytes(), accounts[0])
	if err != nil {
		log.Warn(ctx, LogSubmissionFailed, zap.Error(err))
		return savedLocallyOutcome(err), nil
	}

	log.Info(ctx, LogSubmissionDone,
		zap.String("reference", string(receipt.Reference)),
		zap.String("digest", digest.String()))

	record, err := uc.anchorRepo.Create(ctx, &entities.AnchorRecord{
		NoteID:      note.ID,
		Reference:   string(receipt.Reference),
		BlockMarker: receipt.BlockMarker,
		Digest:      digest.String(),
	})
	if err != nil {
		if errors.Is(err, repositories.ErrAlreadyAnchored) {
			// Проигравший гонку параллельного якорения: запись соперника
			// остается, наша отправка становится осиротевшей транзакцией.
			log.Warn(ctx, LogLostAnchoringRace)
			winner, getErr := uc.anchorRepo.GetByNoteID(ctx, note.ID)
			if getErr != nil || winner == nil {
				return &AnchoringOutcome{Status: StatusAlreadyAnchored}, nil
			}
			return alreadyAnchoredOutcome(winner), nil
		}
		return nil, fmt.Errorf("failed to persist anchor record: %w", err)
	}

	log.Info(ctx, LogAnchorRecordCreated, zap.String("reference", record.Reference))

	return &AnchoringOutcome{
		Status:      StatusAnchored,
		Reference:   record.Reference,
		Digest:      record.Digest,
		BlockMarker: record.BlockMarker,
	}, nil
}

// savedLocallyOutcome превращает ошибку реестра в структурированный исход.
func savedLocallyOutcome(err error) *AnchoringOutcome {
	outcome := &AnchoringOutcome{Status: StatusSavedLocallyOnly}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		outcome.Reason = ReasonTimeout
	case errors.Is(err, ledger.ErrLedgerUnavailable):
		outcome.Reason = ReasonLedgerOffline
	case errors.Is(err, ledger.ErrNoSigningAccount):
		outcome.Reason = ReasonNoAccount
	default:
		outcome.Reason = ReasonLedgerError
		outcome.Detail = err.Error()
	}

	return outcome
}

func alreadyAnchoredOutcome(record *entities.AnchorRecord) *AnchoringOutcome {
	return &AnchoringOutcome{
		Status:      StatusAlreadyAnchored,
		Reference:   record.Reference,
		Digest:      record.Digest,
		BlockMarker: record.BlockMarker,
	}
}
