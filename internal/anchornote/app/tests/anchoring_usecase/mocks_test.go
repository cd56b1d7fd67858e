package anchoringusecase_test

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

// fakeLedger - детерминированная подмена реестра для тестов.
type fakeLedger struct {
	reachable   bool
	accounts    []ledger.AccountID
	accountsErr error

	receipt   *ledger.Receipt
	submitErr error

	submissions [][]byte
	records     map[ledger.Reference]*ledger.Record
}

func (f *fakeLedger) IsReachable(_ context.Context) bool {
	return f.reachable
}

func (f *fakeLedger) SigningAccounts(_ context.Context) ([]ledger.AccountID, error) {
	return f.accounts, f.accountsErr
}

func (f *fakeLedger) Submit(_ context.Context, payload []byte, _ ledger.AccountID) (*ledger.Receipt, error) {
	if f.submitErr != nil {
		return nil, f.submitErr
	}

	f.submissions = append(f.submissions, payload)
	if f.records == nil {
		f.records = make(map[ledger.Reference]*ledger.Record)
	}
	f.records[f.receipt.Reference] = &ledger.Record{
		Payload:     payload,
		Status:      ledger.StatusConfirmed,
		BlockMarker: f.receipt.BlockMarker,
	}
	return f.receipt, nil
}

func (f *fakeLedger) Fetch(_ context.Context, ref ledger.Reference) (*ledger.Record, error) {
	record, ok := f.records[ref]
	if !ok {
		return nil, ledger.ErrReferenceNotFound
	}
	return record, nil
}
