package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/joneireis/cidacake-program/internal/ledger/domain"
	"github.com/joneireis/cidacake-program/internal/pkg/database"
	"github.com/joneireis/cidacake-program/internal/pkg/logging"
	"github.com/joneireis/cidacake-program/internal/pkg/metrics"
)

// Dispatcher routes one operation request through guard, ledger and settlement
// steps and commits or aborts the invocation as a single unit. Every mutation
// runs inside one database transaction holding a row lock on the target
// record, so a failed settlement leaves the persisted record untouched.
type Dispatcher struct {
	db        database.QueryTxBeginner
	txManager database.TxManager
	records   domain.RecordStore
	settler   domain.Settler
	accounts  domain.AccountRepository
	locker    domain.RecordLocker
	logger    logging.Logger
	metrics   *metrics.OperationMetrics
}

func NewDispatcher(
	db database.QueryTxBeginner,
	records domain.RecordStore,
	settler domain.Settler,
	accounts domain.AccountRepository,
	locker domain.RecordLocker,
	logger logging.Logger,
	operationMetrics *metrics.OperationMetrics,
) *Dispatcher {
	return &Dispatcher{
		db:        db,
		txManager: database.NewDelegateTxManager(db, logger),
		records:   records,
		settler:   settler,
		accounts:  accounts,
		locker:    locker,
		logger:    logger,
		metrics:   operationMetrics,
	}
}

func (d *Dispatcher) Initialize(ctx context.Context, address domain.Address, caller domain.Identity, initialStock, initialPrice uint64) (domain.RecordSummary, error) {
	var summary domain.RecordSummary

	err := d.runInvocation(ctx, "initialize", address, func(ctx context.Context, executor database.QueryExecuter) error {
		_, err := d.records.ReadRecordForUpdate(ctx, executor, address)
		if err == nil {
			return &domain.AlreadyInitializedError{Msg: "record already initialized"}
		}
		if !errors.Is(err, &domain.RecordNotFoundError{}) {
			return err
		}

		record, err := domain.NewRecord(initialStock, initialPrice, caller)
		if err != nil {
			return err
		}

		if err := d.records.WriteRecord(ctx, executor, address, record); err != nil {
			return err
		}

		summary = summaryOf(address, record)
		return nil
	})

	return summary, err
}

func (d *Dispatcher) AddStock(ctx context.Context, address domain.Address, caller domain.Identity, amount uint64) (domain.RecordSummary, error) {
	var summary domain.RecordSummary

	err := d.runInvocation(ctx, "add_stock", address, func(ctx context.Context, executor database.QueryExecuter) error {
		record, err := d.records.ReadRecordForUpdate(ctx, executor, address)
		if err != nil {
			return err
		}

		if err := domain.Authorize(record, caller); err != nil {
			return err
		}

		updated, err := domain.AddStock(record, amount)
		if err != nil {
			return err
		}

		if err := d.records.WriteRecord(ctx, executor, address, updated); err != nil {
			return err
		}

		summary = summaryOf(address, updated)
		return nil
	})

	return summary, err
}

func (d *Dispatcher) UpdatePrice(ctx context.Context, address domain.Address, caller domain.Identity, newPrice uint64) (domain.RecordSummary, error) {
	var summary domain.RecordSummary

	err := d.runInvocation(ctx, "update_price", address, func(ctx context.Context, executor database.QueryExecuter) error {
		record, err := d.records.ReadRecordForUpdate(ctx, executor, address)
		if err != nil {
			return err
		}

		if err := domain.Authorize(record, caller); err != nil {
			return err
		}

		updated, err := domain.UpdatePrice(record, newPrice)
		if err != nil {
			return err
		}

		if err := d.records.WriteRecord(ctx, executor, address, updated); err != nil {
			return err
		}

		summary = summaryOf(address, updated)
		return nil
	})

	return summary, err
}

// Sell is the only operation spanning two collaborators: the stock decrement
// is computed first, settlement runs on the same transaction, and the record
// write commits only after the transfer succeeded. Any failure rolls the whole
// invocation back.
func (d *Dispatcher) Sell(ctx context.Context, address domain.Address, buyer domain.Identity, quantity uint64) (domain.SaleSummary, error) {
	var summary domain.SaleSummary

	err := d.runInvocation(ctx, "sell", address, func(ctx context.Context, executor database.QueryExecuter) error {
		record, err := d.records.ReadRecordForUpdate(ctx, executor, address)
		if err != nil {
			return err
		}

		updated, totalDue, err := domain.ComputeSale(record, quantity)
		if err != nil {
			return err
		}

		if err := d.settler.Settle(ctx, executor, buyer, record.Owner, totalDue); err != nil {
			return err
		}

		if err := d.records.WriteRecord(ctx, executor, address, updated); err != nil {
			return err
		}

		summary = domain.SaleSummary{
			RecordSummary: summaryOf(address, updated),
			TotalDue:      totalDue,
		}
		return nil
	})

	return summary, err
}

func (d *Dispatcher) GetRecord(ctx context.Context, address domain.Address) (domain.RecordSummary, error) {
	record, err := d.records.ReadRecord(ctx, d.db, address)
	if err != nil {
		return domain.RecordSummary{}, err
	}

	return summaryOf(address, record), nil
}

func (d *Dispatcher) Deposit(ctx context.Context, identity domain.Identity, amount uint64) (uint64, error) {
	if amount == 0 {
		return 0, &domain.InvalidAmountError{Msg: "amount must be positive"}
	}

	return d.accounts.Deposit(ctx, identity, amount)
}

func (d *Dispatcher) GetBalance(ctx context.Context, identity domain.Identity) (uint64, error) {
	return d.accounts.GetBalance(ctx, identity)
}

func (d *Dispatcher) runInvocation(ctx context.Context, operation string, address domain.Address, txFn database.TxFunc) error {
	start := time.Now()
	invocationId := uuid.NewString()

	err := func() error {
		if d.locker != nil {
			unlock, err := d.locker.LockRecord(ctx, address)
			if err != nil {
				return fmt.Errorf("failed to lock record %s: %w", address, err)
			}
			defer unlock()
		}

		return d.txManager.WithinTransaction(ctx, txFn)
	}()

	outcome := metrics.OutcomeOk
	if err != nil {
		outcome = domain.ErrorKind(err)
		d.logger.Error("invocation aborted",
			"invocation_id", invocationId, "operation", operation, "address", address.String(), "error", err.Error())
	} else {
		d.logger.Info("invocation committed",
			"invocation_id", invocationId, "operation", operation, "address", address.String())
	}

	if d.metrics != nil {
		d.metrics.Observe(operation, outcome, time.Since(start))
	}

	return err
}

func summaryOf(address domain.Address, record domain.Record) domain.RecordSummary {
	return domain.RecordSummary{
		Address: address,
		Stock:   record.Stock,
		Price:   record.Price,
		Owner:   record.Owner,
	}
}
