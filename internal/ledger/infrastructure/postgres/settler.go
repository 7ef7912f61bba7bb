package postgres

import (
	"context"

	"github.com/joneireis/cidacake-program/internal/ledger/domain"
	"github.com/joneireis/cidacake-program/internal/pkg/database"
	"github.com/joneireis/cidacake-program/internal/pkg/logging"
)

// Settler is the value-transfer service adapter. It debits the buyer, credits
// the owner and appends an audit row, all on the executor handed in by the
// dispatcher, so the transfer commits or rolls back with the rest of the
// invocation. Every failure surfaces uniformly as TransferFailed: the caller
// cannot fix a transfer problem by changing the request.
type Settler struct {
	logger logging.Logger
}

func NewSettler(logger logging.Logger) *Settler {
	return &Settler{
		logger: logger,
	}
}

func (s *Settler) Settle(ctx context.Context, executor database.QueryExecuter, buyer, owner domain.Identity, amount uint64) error {
	if amount == 0 {
		return nil
	}

	if buyer == owner {
		return &domain.TransferFailedError{Msg: "buyer and owner accounts must differ"}
	}

	debitSQL := `UPDATE accounts SET balance = balance - $1 WHERE identity = $2 AND balance >= $1`
	tag, err := executor.Exec(ctx, debitSQL, amount, buyer[:])
	if err != nil {
		return &domain.TransferFailedError{Msg: "failed to debit buyer: " + err.Error()}
	} else if tag.RowsAffected() == 0 {
		return &domain.TransferFailedError{Msg: "buyer has no account or insufficient funds"}
	}

	creditSQL := `UPDATE accounts SET balance = balance + $1 WHERE identity = $2`
	tag, err = executor.Exec(ctx, creditSQL, amount, owner[:])
	if err != nil {
		return &domain.TransferFailedError{Msg: "failed to credit owner: " + err.Error()}
	} else if tag.RowsAffected() == 0 {
		return &domain.TransferFailedError{Msg: "owner has no account"}
	}

	insertTransferSQL := `INSERT INTO transfers (from_identity, to_identity, amount) VALUES ($1, $2, $3)`
	_, err = executor.Exec(ctx, insertTransferSQL, buyer[:], owner[:], amount)
	if err != nil {
		return &domain.TransferFailedError{Msg: "failed to record transfer: " + err.Error()}
	}

	s.logger.Info("settlement completed", "buyer", buyer.String(), "owner", owner.String(), "amount", amount)

	return nil
}
