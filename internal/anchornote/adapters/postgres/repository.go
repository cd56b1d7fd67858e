package postgres

import (
	"anchornote/internal/anchornote/ports/repositories"
)

// RepositoryFactory создает репозитории для работы с базой данных.
type RepositoryFactory struct {
	pool PgxPoolInterface
}

// NewRepositoryFactory создает новую фабрику репозиториев.
func NewRepositoryFactory(pool PgxPoolInterface) *RepositoryFactory {
	return &RepositoryFactory{pool: pool}
}

// NoteRepository возвращает репозиторий для работы с заметками.
func (f *RepositoryFactory) NoteRepository() repositories.NoteRepository {
	return NewNoteRepository(f.pool)
}

// AnchorRepository возвращает репозиторий записей якорения.
func (f *RepositoryFactory) AnchorRepository() repositories.AnchorRepository {
	return NewAnchorRepository(f.pool)
}
