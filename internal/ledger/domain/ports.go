package domain

import (
	"context"

	"github.com/joneireis/cidacake-program/internal/pkg/database"
)

// RecordStore reads and writes the opaque record encoding at an address.
// Methods take the executor explicitly so reads and writes join the caller's
// transaction.
type RecordStore interface {
	ReadRecord(ctx context.Context, querier database.Querier, address Address) (Record, error)
	ReadRecordForUpdate(ctx context.Context, querier database.Querier, address Address) (Record, error)
	WriteRecord(ctx context.Context, executor database.Executor, address Address, record Record) error
}

// Settler moves funds from the buyer to the owner through the value-transfer
// service. The executor binds the transfer to the invocation's transaction so
// settlement and the record write commit or roll back together.
type Settler interface {
	Settle(ctx context.Context, executor database.QueryExecuter, buyer, owner Identity, amount uint64) error
}

type AccountRepository interface {
	Deposit(ctx context.Context, identity Identity, amount uint64) (uint64, error)
	GetBalance(ctx context.Context, identity Identity) (uint64, error)
}

type UnlockFunc func()

// RecordLocker serializes invocations against one record, standing in for the
// hosting environment's single-writer-per-record guarantee.
type RecordLocker interface {
	LockRecord(ctx context.Context, address Address) (UnlockFunc, error)
}
