package repositories

import (
	"context"
	"errors"

	"anchornote/internal/anchornote/domain/entities"
)

// ErrAlreadyAnchored возвращается при попытке создать вторую запись якорения
// для одной заметки. Запись якорения неизменяема: на заметку приходится не
// более одной записи.
var ErrAlreadyAnchored = errors.New("note already has an anchor record")

// AnchorRepository определяет интерфейс для работы с записями якорения.
type AnchorRepository interface {
	Create(ctx context.Context, record *entities.AnchorRecord) (*entities.AnchorRecord, error)
	GetByNoteID(ctx context.Context, noteID int64) (*entities.AnchorRecord, error)
}
