package anchorrepo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anchornote/internal/anchornote/adapters/postgres"
	"anchornote/internal/anchornote/domain/entities"
	"anchornote/internal/anchornote/ports/repositories"
	"anchornote/pkg/logger"
)

const testDigest = "0deba2ea11a12cc254848a4d9dcf3ec67c2a0c720681f655d046225ca05a76d2"

func testContext(t *testing.T) context.Context {
	t.Helper()

	testLogger, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)
	return logger.NewContext(context.Background(), testLogger)
}

func TestAnchorRepository_Create(t *testing.T) {
	ctx := testContext(t)
	blockMarker := int64(12)
	now := time.Now().UTC().Truncate(time.Microsecond)

	input := &entities.AnchorRecord{
		NoteID:      7,
		Reference:   "0xabc",
		BlockMarker: &blockMarker,
		Digest:      testDigest,
	}

	t.Run("успешное создание записи якорения", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("INSERT INTO anchor_records .+").
			WithArgs(input.NoteID, input.Reference, input.BlockMarker, input.Digest).
			WillReturnRows(
				pgxmock.NewRows([]string{"note_id", "reference", "block_marker", "digest", "created_at"}).
					AddRow(input.NoteID, input.Reference, input.BlockMarker, input.Digest, now),
			)

		repo := postgres.NewAnchorRepository(mock)
		created, err := repo.Create(ctx, input)

		require.NoError(t, err)
		assert.Equal(t, int64(7), created.NoteID)
		assert.Equal(t, "0xabc", created.Reference)
		assert.Equal(t, testDigest, created.Digest)
		require.NotNil(t, created.BlockMarker)
		assert.Equal(t, blockMarker, *created.BlockMarker)
		assert.Equal(t, now, created.CreatedAt)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("нарушение уникальности превращается в ErrAlreadyAnchored", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("INSERT INTO anchor_records .+").
			WithArgs(input.NoteID, input.Reference, input.BlockMarker, input.Digest).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "anchor_records_note_id_key"})

		repo := postgres.NewAnchorRepository(mock)
		created, err := repo.Create(ctx, input)

		assert.Nil(t, created)
		assert.ErrorIs(t, err, repositories.ErrAlreadyAnchored)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("общая ошибка БД", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("INSERT INTO anchor_records .+").
			WithArgs(input.NoteID, input.Reference, input.BlockMarker, input.Digest).
			WillReturnError(errors.New("connection refused"))

		repo := postgres.NewAnchorRepository(mock)
		created, err := repo.Create(ctx, input)

		assert.Nil(t, created)
		require.Error(t, err)
		assert.NotErrorIs(t, err, repositories.ErrAlreadyAnchored)
		assert.Contains(t, err.Error(), "failed to create anchor record")
	})
}

func TestAnchorRepository_GetByNoteID(t *testing.T) {
	ctx := testContext(t)
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("запись найдена", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		blockMarker := int64(12)
		mock.ExpectQuery("SELECT note_id, reference, block_marker, digest, created_at FROM anchor_records .+").
			WithArgs(int64(7)).
			WillReturnRows(
				pgxmock.NewRows([]string{"note_id", "reference", "block_marker", "digest", "created_at"}).
					AddRow(int64(7), "0xabc", &blockMarker, testDigest, now),
			)

		repo := postgres.NewAnchorRepository(mock)
		record, err := repo.GetByNoteID(ctx, 7)

		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, "0xabc", record.Reference)
		assert.Equal(t, testDigest, record.Digest)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("записи нет - nil без ошибки", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT note_id, reference, block_marker, digest, created_at FROM anchor_records .+").
			WithArgs(int64(99)).
			WillReturnError(pgx.ErrNoRows)

		repo := postgres.NewAnchorRepository(mock)
		record, err := repo.GetByNoteID(ctx, 99)

		require.NoError(t, err)
		assert.Nil(t, record)
	})
}
