package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"anchornote/internal/anchornote/domain/entities"
	"anchornote/internal/anchornote/ports/repositories"
	"anchornote/pkg/logger"
)

// Код ошибки Postgres для нарушения ограничения уникальности.
const uniqueViolationCode = "23505"

// AnchorRepository реализует интерфейс repositories.AnchorRepository.
type AnchorRepository struct {
	pool PgxPoolInterface
}

// NewAnchorRepository создает новый репозиторий записей якорения.
func NewAnchorRepository(pool PgxPoolInterface) repositories.AnchorRepository {
	return &AnchorRepository{pool: pool}
}

// Create сохраняет запись якорения. Для одной заметки допускается только
// одна запись: нарушение уникальности превращается в ErrAlreadyAnchored,
// чтобы проигравший параллельную гонку получил различимый исход.
func (r *AnchorRepository) Create(ctx context.Context, record *entities.AnchorRecord) (*entities.AnchorRecord, error) {
	log := logger.Log(ctx).With(zap.String("method", "AnchorRepository.Create"))
	log.Debug(ctx, "creating anchor record", zap.Int64("noteID", record.NoteID))

	var created entities.AnchorRecord
	err := r.pool.QueryRow(ctx,
		`INSERT INTO anchor_records (note_id, reference, block_marker, digest)
         VALUES ($1, $2, $3, $4)
         RETURNING note_id, reference, block_marker, digest, created_at`,
		record.NoteID, record.Reference, record.BlockMarker, record.Digest,
	).Scan(&created.NoteID, &created.Reference, &created.BlockMarker, &created.Digest, &created.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			log.Debug(ctx, "anchor record already exists", zap.Int64("noteID", record.NoteID))
			return nil, repositories.ErrAlreadyAnchored
		}
		log.Error(ctx, "failed to create anchor record", zap.Error(err))
		return nil, fmt.Errorf("failed to create anchor record: %w", err)
	}

	log.Debug(ctx, "anchor record created", zap.String("reference", created.Reference))
	return &created, nil
}

// GetByNoteID получает запись якорения заметки. Возвращает nil, nil если записи нет.
func (r *AnchorRepository) GetByNoteID(ctx context.Context, noteID int64) (*entities.AnchorRecord, error) {
	log := logger.Log(ctx).With(zap.String("method", "AnchorRepository.GetByNoteID"))
	log.Debug(ctx, "getting anchor record", zap.Int64("noteID", noteID))

	var record entities.AnchorRecord
	err := r.pool.QueryRow(ctx,
		`SELECT note_id, reference, block_marker, digest, created_at
         FROM anchor_records
         WHERE note_id = $1`,
		noteID,
	).Scan(&record.NoteID, &record.Reference, &record.BlockMarker, &record.Digest, &record.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "anchor record not found", zap.Int64("noteID", noteID))
			return nil, nil
		}
		log.Error(ctx, "failed to get anchor record", zap.Error(err))
		return nil, fmt.Errorf("failed to get anchor record: %w", err)
	}

	return &record, nil
}
