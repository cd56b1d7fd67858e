package noteusecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"anchornote/internal/anchornote/app"
	"anchornote/internal/anchornote/domain/entities"
)

var errDatabase = errors.New("database error")

type mockNoteRepository struct {
	mock.Mock
}

func (m *mockNoteRepository) Create(ctx context.Context, note *entities.Note) (*entities.Note, error) {
	args := m.Called(ctx, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNoteRepository) GetByID(ctx context.Context, noteID int64) (*entities.Note, error) {
	args := m.Called(ctx, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNoteRepository) List(ctx context.Context, limit, offset int) ([]*entities.Note, int, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Note), args.Int(1), args.Error(2)
}

func (m *mockNoteRepository) Update(ctx context.Context, note *entities.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *mockNoteRepository) Delete(ctx context.Context, noteID int64) error {
	args := m.Called(ctx, noteID)
	return args.Error(0)
}

type mockAnchorer struct {
	mock.Mock
}

func (m *mockAnchorer) Anchor(ctx context.Context, note *entities.Note) (*app.AnchoringOutcome, error) {
	args := m.Called(ctx, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*app.AnchoringOutcome), args.Error(1)
}

func storedNote() *entities.Note {
	now := time.Now()
	return &entities.Note{ID: 7, Title: "Shopping", Content: "milk, eggs", CreatedAt: now, UpdatedAt: now}
}

func TestCreateNote(t *testing.T) {
	ctx := context.Background()

	t.Run("success with anchoring", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("Create", mock.Anything, mock.Anything).Return(storedNote(), nil)

		anchorer := new(mockAnchorer)
		anchorer.On("Anchor", mock.Anything, mock.Anything).
			Return(&app.AnchoringOutcome{Status: app.StatusAnchored, Reference: "0xabc"}, nil)

		uc := app.NewNoteUseCase(repo, anchorer)
		note, outcome, err := uc.CreateNote(ctx, "Shopping", "milk, eggs")

		require.NoError(t, err)
		assert.Equal(t, int64(7), note.ID)
		assert.Equal(t, app.StatusAnchored, outcome.Status)
		repo.AssertExpectations(t)
		anchorer.AssertExpectations(t)
	})

	t.Run("missing title or content", func(t *testing.T) {
		uc := app.NewNoteUseCase(new(mockNoteRepository), new(mockAnchorer))

		_, _, err := uc.CreateNote(ctx, "", "content")
		assert.ErrorIs(t, err, app.ErrInvalidParams)

		_, _, err = uc.CreateNote(ctx, "title", "")
		assert.ErrorIs(t, err, app.ErrInvalidParams)
	})

	t.Run("note persists when anchoring errors", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("Create", mock.Anything, mock.Anything).Return(storedNote(), nil)

		anchorer := new(mockAnchorer)
		anchorer.On("Anchor", mock.Anything, mock.Anything).Return(nil, errDatabase)

		uc := app.NewNoteUseCase(repo, anchorer)
		note, outcome, err := uc.CreateNote(ctx, "Shopping", "milk, eggs")

		require.NoError(t, err)
		assert.NotNil(t, note)
		assert.Equal(t, app.StatusSavedLocallyOnly, outcome.Status)
		assert.Equal(t, app.ReasonLedgerError, outcome.Reason)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil, errDatabase)

		uc := app.NewNoteUseCase(repo, new(mockAnchorer))
		note, outcome, err := uc.CreateNote(ctx, "Shopping", "milk, eggs")

		require.Error(t, err)
		assert.Nil(t, note)
		assert.Nil(t, outcome)
	})
}

func TestAnchorNote(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("GetByID", mock.Anything, int64(7)).Return(storedNote(), nil)

		anchorer := new(mockAnchorer)
		anchorer.On("Anchor", mock.Anything, mock.Anything).
			Return(&app.AnchoringOutcome{Status: app.StatusAnchored, Reference: "0xabc"}, nil)

		uc := app.NewNoteUseCase(repo, anchorer)
		outcome, err := uc.AnchorNote(ctx, 7)

		require.NoError(t, err)
		assert.Equal(t, app.StatusAnchored, outcome.Status)
	})

	t.Run("note not found", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("GetByID", mock.Anything, int64(99)).Return(nil, nil)

		uc := app.NewNoteUseCase(repo, new(mockAnchorer))
		outcome, err := uc.AnchorNote(ctx, 99)

		assert.ErrorIs(t, err, app.ErrNotFound)
		assert.Nil(t, outcome)
	})
}

func TestGetNote(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("GetByID", mock.Anything, int64(7)).Return(storedNote(), nil)

		uc := app.NewNoteUseCase(repo, new(mockAnchorer))
		note, err := uc.GetNote(ctx, 7)

		require.NoError(t, err)
		assert.Equal(t, "Shopping", note.Title)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("GetByID", mock.Anything, int64(99)).Return(nil, nil)

		uc := app.NewNoteUseCase(repo, new(mockAnchorer))
		_, err := uc.GetNote(ctx, 99)

		assert.ErrorIs(t, err, app.ErrNotFound)
	})

	t.Run("invalid id", func(t *testing.T) {
		uc := app.NewNoteUseCase(new(mockNoteRepository), new(mockAnchorer))
		_, err := uc.GetNote(ctx, 0)

		assert.ErrorIs(t, err, app.ErrInvalidParams)
	})
}

func TestListNotes(t *testing.T) {
	ctx := context.Background()

	t.Run("applies pagination defaults", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("List", mock.Anything, 10, 0).Return([]*entities.Note{storedNote()}, 1, nil)

		uc := app.NewNoteUseCase(repo, new(mockAnchorer))
		notes, total, err := uc.ListNotes(ctx, -1, -5)

		require.NoError(t, err)
		assert.Len(t, notes, 1)
		assert.Equal(t, 1, total)
		repo.AssertExpectations(t)
	})
}

func TestUpdateNote(t *testing.T) {
	ctx := context.Background()

	t.Run("updates provided fields", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("GetByID", mock.Anything, int64(7)).Return(storedNote(), nil)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(note *entities.Note) bool {
			return note.Title == "Shopping" && note.Content == "milk, eggs, bread"
		})).Return(nil)

		uc := app.NewNoteUseCase(repo, new(mockAnchorer))
		note, err := uc.UpdateNote(ctx, 7, "", "milk, eggs, bread")

		require.NoError(t, err)
		assert.Equal(t, "milk, eggs, bread", note.Content)
		repo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("GetByID", mock.Anything, int64(99)).Return(nil, nil)

		uc := app.NewNoteUseCase(repo, new(mockAnchorer))
		_, err := uc.UpdateNote(ctx, 99, "t", "c")

		assert.ErrorIs(t, err, app.ErrNotFound)
	})
}

func TestDeleteNote(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("GetByID", mock.Anything, int64(7)).Return(storedNote(), nil)
		repo.On("Delete", mock.Anything, int64(7)).Return(nil)

		uc := app.NewNoteUseCase(repo, new(mockAnchorer))
		require.NoError(t, uc.DeleteNote(ctx, 7))
		repo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(mockNoteRepository)
		repo.On("GetByID", mock.Anything, int64(99)).Return(nil, nil)

		uc := app.NewNoteUseCase(repo, new(mockAnchorer))
		assert.ErrorIs(t, uc.DeleteNote(ctx, 99), app.ErrNotFound)
	})
}
