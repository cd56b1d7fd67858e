package verificationusecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"anchornote/internal/anchornote/domain/entities"
	"anchornote/internal/anchornote/ports/ledger"
)

type mockAnchorRepository struct {
	mock.Mock
}

func (m *mockAnchorRepository) Create(ctx context.Context, record *entities.AnchorRecord) (*entities.AnchorRecord, error) {
	args := m.Called(ctx, record)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.AnchorRecord), args.Error(1)
}

func (m *mockAnchorRepository) GetByNoteID(ctx context.Context, noteID int64) (*entities.AnchorRecord, error) {
	args := m.Called(ctx, noteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.AnchorRecord), args.Error(1)
}

// fakeLedger возвращает заранее подготовленные записи реестра и считает обращения.
type fakeLedger struct {
	records    map[ledger.Reference]*ledger.Record
	fetchErr   error
	fetchCalls int
}

func (f *fakeLedger) IsReachable(_ context.Context) bool {
	return f.fetchErr == nil
}

func (f *fakeLedger) SigningAccounts(_ context.Context) ([]ledger.AccountID, error) {
	return nil, nil
}

func (f *fakeLedger) Submit(_ context.Context, _ []byte, _ ledger.AccountID) (*ledger.Receipt, error) {
	return nil, ledger.ErrSubmissionRejected
}

func (f *fakeLedger) Fetch(_ context.Context, ref ledger.Reference) (*ledger.Record, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	record, ok := f.records[ref]
	if !ok {
		return nil, ledger.ErrReferenceNotFound
	}
	return record, nil
}

// memoryCache - кэш записей реестра в памяти процесса.
type memoryCache struct {
	entries map[ledger.Reference]*ledger.Record
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[ledger.Reference]*ledger.Record)}
}

func (c *memoryCache) Get(_ context.Context, ref ledger.Reference) (*ledger.Record, error) {
	return c.entries[ref], nil
}

func (c *memoryCache) Set(_ context.Context, ref ledger.Reference, record *ledger.Record) error {
	c.entries[ref] = record
	return nil
}

func (c *memoryCache) Close() error {
	return nil
}
