package application

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/joneireis/cidacake-program/internal/ledger/domain"
	"github.com/joneireis/cidacake-program/internal/pkg/database"
	"github.com/joneireis/cidacake-program/internal/pkg/logging"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecordStore struct {
	records  map[domain.Address]domain.Record
	writeErr error
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{records: make(map[domain.Address]domain.Record)}
}

func (s *fakeRecordStore) ReadRecord(_ context.Context, _ database.Querier, address domain.Address) (domain.Record, error) {
	record, ok := s.records[address]
	if !ok {
		return domain.Record{}, &domain.RecordNotFoundError{}
	}
	return record, nil
}

func (s *fakeRecordStore) ReadRecordForUpdate(ctx context.Context, querier database.Querier, address domain.Address) (domain.Record, error) {
	return s.ReadRecord(ctx, querier, address)
}

func (s *fakeRecordStore) WriteRecord(_ context.Context, _ database.Executor, address domain.Address, record domain.Record) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.records[address] = record
	return nil
}

type settleCall struct {
	buyer  domain.Identity
	owner  domain.Identity
	amount uint64
}

type fakeSettler struct {
	err   error
	calls []settleCall
}

func (s *fakeSettler) Settle(_ context.Context, _ database.QueryExecuter, buyer, owner domain.Identity, amount uint64) error {
	s.calls = append(s.calls, settleCall{buyer: buyer, owner: owner, amount: amount})
	return s.err
}

type fakeAccounts struct {
	balances map[domain.Identity]uint64
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{balances: make(map[domain.Identity]uint64)}
}

func (a *fakeAccounts) Deposit(_ context.Context, identity domain.Identity, amount uint64) (uint64, error) {
	a.balances[identity] += amount
	return a.balances[identity], nil
}

func (a *fakeAccounts) GetBalance(_ context.Context, identity domain.Identity) (uint64, error) {
	balance, ok := a.balances[identity]
	if !ok {
		return 0, &domain.AccountNotFoundError{}
	}
	return balance, nil
}

type fakeLocker struct {
	locks   int
	unlocks int
}

func (l *fakeLocker) LockRecord(_ context.Context, _ domain.Address) (domain.UnlockFunc, error) {
	l.locks++
	return func() { l.unlocks++ }, nil
}

type dispatcherDeps struct {
	mock     pgxmock.PgxConnIface
	store    *fakeRecordStore
	settler  *fakeSettler
	accounts *fakeAccounts
	locker   *fakeLocker
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *dispatcherDeps) {
	t.Helper()

	mock, err := pgxmock.NewConn()
	require.NoError(t, err)

	deps := &dispatcherDeps{
		mock:     mock,
		store:    newFakeRecordStore(),
		settler:  &fakeSettler{},
		accounts: newFakeAccounts(),
		locker:   &fakeLocker{},
	}

	dispatcher := NewDispatcher(mock, deps.store, deps.settler, deps.accounts, deps.locker, logging.StdoutLogger, nil)

	return dispatcher, deps
}

func expectCommittedTx(mock pgxmock.PgxConnIface) {
	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	mock.ExpectCommit()
	mock.ExpectRollback().WillReturnError(pgx.ErrTxClosed)
}

func expectAbortedTx(mock pgxmock.PgxConnIface) {
	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	mock.ExpectRollback()
}

func testAddress(fill byte) domain.Address {
	var addr domain.Address
	for i := range addr {
		addr[i] = fill
	}
	return addr
}

func testIdentity(fill byte) domain.Identity {
	var id domain.Identity
	for i := range id {
		id[i] = fill
	}
	return id
}

func TestDispatcher_Initialize(t *testing.T) {
	t.Parallel()

	dispatcher, deps := newTestDispatcher(t)
	address := testAddress(1)
	owner := testIdentity(0xA)

	expectCommittedTx(deps.mock)

	summary, err := dispatcher.Initialize(context.Background(), address, owner, 100, 1_000_000)
	require.NoError(t, err)

	assert.Equal(t, address, summary.Address)
	assert.Equal(t, uint64(100), summary.Stock)
	assert.Equal(t, uint64(1_000_000), summary.Price)
	assert.Equal(t, owner, summary.Owner)

	assert.Equal(t, 1, deps.locker.locks)
	assert.Equal(t, 1, deps.locker.unlocks)
	assert.NoError(t, deps.mock.ExpectationsWereMet())
}

func TestDispatcher_Initialize_Twice(t *testing.T) {
	t.Parallel()

	dispatcher, deps := newTestDispatcher(t)
	address := testAddress(1)
	owner := testIdentity(0xA)

	expectCommittedTx(deps.mock)
	expectAbortedTx(deps.mock)

	_, err := dispatcher.Initialize(context.Background(), address, owner, 100, 1_000_000)
	require.NoError(t, err)

	_, err = dispatcher.Initialize(context.Background(), address, testIdentity(0xB), 5, 10)
	assert.ErrorIs(t, err, &domain.AlreadyInitializedError{})

	// The slot keeps its first-initialization state.
	record := deps.store.records[address]
	assert.Equal(t, uint64(100), record.Stock)
	assert.Equal(t, owner, record.Owner)
	assert.NoError(t, deps.mock.ExpectationsWereMet())
}

func TestDispatcher_Initialize_InvalidPrice(t *testing.T) {
	t.Parallel()

	dispatcher, deps := newTestDispatcher(t)

	expectAbortedTx(deps.mock)

	_, err := dispatcher.Initialize(context.Background(), testAddress(1), testIdentity(0xA), 100, 0)
	assert.ErrorIs(t, err, &domain.InvalidPriceError{})
	assert.Empty(t, deps.store.records)
}

func TestDispatcher_AddStock(t *testing.T) {
	t.Parallel()

	owner := testIdentity(0xA)
	address := testAddress(1)

	type testCase struct {
		name   string
		caller domain.Identity
		amount uint64

		expectedStock uint64
		expectedErr   error
	}

	tests := []testCase{
		{
			name:          "owner adds stock",
			caller:        owner,
			amount:        50,
			expectedStock: 150,
		},
		{
			name:        "non-owner rejected",
			caller:      testIdentity(0xB),
			amount:      50,
			expectedErr: &domain.UnauthorizedError{},
		},
		{
			name:        "zero amount rejected",
			caller:      owner,
			amount:      0,
			expectedErr: &domain.InvalidAmountError{},
		},
	}

	for _, tc := range tests {
		tt := tc
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dispatcher, deps := newTestDispatcher(t)
			deps.store.records[address] = domain.Record{Stock: 100, Price: 1_000_000, Owner: owner}

			if tt.expectedErr == nil {
				expectCommittedTx(deps.mock)
			} else {
				expectAbortedTx(deps.mock)
			}

			summary, err := dispatcher.AddStock(context.Background(), address, tt.caller, tt.amount)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Equal(t, uint64(100), deps.store.records[address].Stock)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectedStock, summary.Stock)
			assert.Equal(t, tt.expectedStock, deps.store.records[address].Stock)
			assert.NoError(t, deps.mock.ExpectationsWereMet())
		})
	}
}

func TestDispatcher_AddStock_RecordMissing(t *testing.T) {
	t.Parallel()

	dispatcher, deps := newTestDispatcher(t)

	expectAbortedTx(deps.mock)

	_, err := dispatcher.AddStock(context.Background(), testAddress(9), testIdentity(0xA), 10)
	assert.ErrorIs(t, err, &domain.RecordNotFoundError{})
}

func TestDispatcher_UpdatePrice(t *testing.T) {
	t.Parallel()

	owner := testIdentity(0xA)
	address := testAddress(1)

	dispatcher, deps := newTestDispatcher(t)
	deps.store.records[address] = domain.Record{Stock: 150, Price: 1_000_000, Owner: owner}

	expectCommittedTx(deps.mock)

	summary, err := dispatcher.UpdatePrice(context.Background(), address, owner, 2_000_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(2_000_000), summary.Price)
	assert.Equal(t, uint64(150), summary.Stock)

	expectAbortedTx(deps.mock)

	_, err = dispatcher.UpdatePrice(context.Background(), address, owner, 0)
	assert.ErrorIs(t, err, &domain.InvalidPriceError{})
	assert.Equal(t, uint64(2_000_000), deps.store.records[address].Price)
}

func TestDispatcher_Sell(t *testing.T) {
	t.Parallel()

	owner := testIdentity(0xA)
	buyer := testIdentity(0xB)
	address := testAddress(1)

	dispatcher, deps := newTestDispatcher(t)
	deps.store.records[address] = domain.Record{Stock: 150, Price: 2_000_000, Owner: owner}

	expectCommittedTx(deps.mock)

	summary, err := dispatcher.Sell(context.Background(), address, buyer, 10)
	require.NoError(t, err)

	assert.Equal(t, uint64(140), summary.Stock)
	assert.Equal(t, uint64(20_000_000), summary.TotalDue)
	assert.Equal(t, uint64(140), deps.store.records[address].Stock)

	require.Len(t, deps.settler.calls, 1)
	assert.Equal(t, settleCall{buyer: buyer, owner: owner, amount: 20_000_000}, deps.settler.calls[0])
	assert.NoError(t, deps.mock.ExpectationsWereMet())
}

func TestDispatcher_Sell_InsufficientStock(t *testing.T) {
	t.Parallel()

	owner := testIdentity(0xA)
	address := testAddress(1)

	dispatcher, deps := newTestDispatcher(t)
	deps.store.records[address] = domain.Record{Stock: 140, Price: 2_000_000, Owner: owner}

	expectAbortedTx(deps.mock)

	_, err := dispatcher.Sell(context.Background(), address, testIdentity(0xB), 1000)
	assert.ErrorIs(t, err, &domain.InsufficientStockError{})

	// No transfer is attempted and the record is unchanged.
	assert.Empty(t, deps.settler.calls)
	assert.Equal(t, uint64(140), deps.store.records[address].Stock)
}

func TestDispatcher_Sell_SettlementFailureRollsBack(t *testing.T) {
	t.Parallel()

	owner := testIdentity(0xA)
	address := testAddress(1)

	dispatcher, deps := newTestDispatcher(t)
	deps.store.records[address] = domain.Record{Stock: 150, Price: 2_000_000, Owner: owner}
	deps.settler.err = &domain.TransferFailedError{Msg: "injected"}

	expectAbortedTx(deps.mock)

	_, err := dispatcher.Sell(context.Background(), address, testIdentity(0xB), 10)
	assert.ErrorIs(t, err, &domain.TransferFailedError{})

	// The settlement was attempted, but the stock decrement never reached the
	// store and the transaction rolled back.
	require.Len(t, deps.settler.calls, 1)
	assert.Equal(t, uint64(150), deps.store.records[address].Stock)
	assert.NoError(t, deps.mock.ExpectationsWereMet())
}

func TestDispatcher_Deposit(t *testing.T) {
	t.Parallel()

	dispatcher, deps := newTestDispatcher(t)
	identity := testIdentity(0xB)

	_, err := dispatcher.Deposit(context.Background(), identity, 0)
	assert.ErrorIs(t, err, &domain.InvalidAmountError{})

	balance, err := dispatcher.Deposit(context.Background(), identity, 500)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), balance)
	assert.Equal(t, uint64(500), deps.accounts.balances[identity])
}

func TestDispatcher_GetRecord(t *testing.T) {
	t.Parallel()

	dispatcher, deps := newTestDispatcher(t)
	address := testAddress(1)
	deps.store.records[address] = domain.Record{Stock: 150, Price: 2_000_000, Owner: testIdentity(0xA)}

	summary, err := dispatcher.GetRecord(context.Background(), address)
	require.NoError(t, err)
	assert.Equal(t, uint64(150), summary.Stock)

	_, err = dispatcher.GetRecord(context.Background(), testAddress(2))
	assert.ErrorIs(t, err, &domain.RecordNotFoundError{})
}
