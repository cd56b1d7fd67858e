package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"anchornote/internal/anchornote/domain/entities"
	"anchornote/internal/anchornote/ports/repositories"
	"anchornote/pkg/logger"
)

// Ошибки уровня бизнес-логики.
var (
	ErrNotFound      = fmt.Errorf("note not found")
	ErrInvalidParams = fmt.Errorf("invalid parameters")
)

// Anchorer якорит заметку в реестре.
type Anchorer interface {
	Anchor(ctx context.Context, note *entities.Note) (*AnchoringOutcome, error)
}

// NoteUseCase представляет собой бизнес-логику работы с заметками.
// Якорение подключено к созданию заметки, но никогда не мешает ему:
// заметка сохраняется независимо от исхода якорения.
type NoteUseCase struct {
	noteRepo repositories.NoteRepository
	anchorer Anchorer
}

// NewNoteUseCase создает новый экземпляр NoteUseCase.
func NewNoteUseCase(noteRepo repositories.NoteRepository, anchorer Anchorer) *NoteUseCase {
	return &NoteUseCase{
		noteRepo: noteRepo,
		anchorer: anchorer,
	}
}

// CreateNote создает новую заметку и пытается заякорить ее в реестре.
// Исход якорения возвращается вместе с заметкой; сбой якорения не
// откатывает создание.
func (uc *NoteUseCase) CreateNote(ctx context.Context, title, content string) (*entities.Note, *AnchoringOutcome, error) {
	if title == "" || content == "" {
		return nil, nil, fmt.Errorf("title and content are required: %w", ErrInvalidParams)
	}

	note, err := uc.noteRepo.Create(ctx, entities.NewNote(title, content))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create note: %w", err)
	}

	outcome, err := uc.anchorer.Anchor(ctx, note)
	if err != nil {
		// Заметка уже сохранена: сбой якорения деградирует в статус, а не в ошибку.
		logger.Log(ctx).Error(ctx, "anchoring failed after note creation",
			zap.Int64("noteID", note.ID), zap.Error(err))
		outcome = &AnchoringOutcome{
			Status: StatusSavedLocallyOnly,
			Reason: ReasonLedgerError,
			Detail: err.Error(),
		}
	}

	return note, outcome, nil
}

// AnchorNote якорит существующую заметку, сохраненную ранее без якоря.
func (uc *NoteUseCase) AnchorNote(ctx context.Context, noteID int64) (*AnchoringOutcome, error) {
	note, err := uc.getNote(ctx, noteID)
	if err != nil {
		return nil, err
	}

	outcome, err := uc.anchorer.Anchor(ctx, note)
	if err != nil {
		return nil, fmt.Errorf("failed to anchor note: %w", err)
	}
	return outcome, nil
}

// GetNote возвращает заметку по ID.
func (uc *NoteUseCase) GetNote(ctx context.Context, noteID int64) (*entities.Note, error) {
	return uc.getNote(ctx, noteID)
}

// ListNotes возвращает список заметок с пагинацией, новые первыми.
func (uc *NoteUseCase) ListNotes(ctx context.Context, limit, offset int) ([]*entities.Note, int, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	notes, total, err := uc.noteRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notes: %w", err)
	}

	return notes, total, nil
}

// UpdateNote обновляет существующую заметку. Запись якорения при этом не
// трогается: последующая проверка сообщит о расхождении отпечатков.
func (uc *NoteUseCase) UpdateNote(ctx context.Context, noteID int64, title, content string) (*entities.Note, error) {
	note, err := uc.getNote(ctx, noteID)
	if err != nil {
		return nil, err
	}

	if title != "" {
		note.Title = title
	}
	if content != "" {
		note.Content = content
	}
	note.UpdatedAt = time.Now()

	if err := uc.noteRepo.Update(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	return note, nil
}

// DeleteNote удаляет заметку вместе с ее записью якорения (каскад в БД).
func (uc *NoteUseCase) DeleteNote(ctx context.Context, noteID int64) error {
	if _, err := uc.getNote(ctx, noteID); err != nil {
		return err
	}

	if err := uc.noteRepo.Delete(ctx, noteID); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	return nil
}

func (uc *NoteUseCase) getNote(ctx context.Context, noteID int64) (*entities.Note, error) {
	if noteID <= 0 {
		return nil, fmt.Errorf("note id must be positive: %w", ErrInvalidParams)
	}

	note, err := uc.noteRepo.GetByID(ctx, noteID)
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	if note == nil {
		return nil, ErrNotFound
	}

	return note, nil
}
