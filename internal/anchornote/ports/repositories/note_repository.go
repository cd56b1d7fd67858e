// Package repositories defines repository interfaces for the anchornote service.
package repositories

import (
	"context"

	"anchornote/internal/anchornote/domain/entities"
)

// NoteRepository определяет интерфейс для работы с хранилищем заметок.
type NoteRepository interface {
	Create(ctx context.Context, note *entities.Note) (*entities.Note, error)
	GetByID(ctx context.Context, noteID int64) (*entities.Note, error)
	List(ctx context.Context, limit, offset int) ([]*entities.Note, int, error)
	Update(ctx context.Context, note *entities.Note) error
	Delete(ctx context.Context, noteID int64) error
}
