package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/joneireis/cidacake-program/internal/ledger/domain"
	"github.com/joneireis/cidacake-program/internal/pkg/database"
)

// RecordStore persists the opaque record encoding in a bytes-at-address
// table. The byte layout is owned by the domain codec; this layer only moves
// it in and out of the row.
type RecordStore struct {
}

func NewRecordStore() *RecordStore {
	return &RecordStore{}
}

func (rs *RecordStore) ReadRecord(ctx context.Context, querier database.Querier, address domain.Address) (domain.Record, error) {
	selectRecordSQL := `SELECT data FROM records WHERE address = $1`

	return rs.readRecord(ctx, querier, address, selectRecordSQL)
}

// ReadRecordForUpdate locks the record row for the rest of the transaction,
// giving the invocation exclusive access to the record until commit or abort.
func (rs *RecordStore) ReadRecordForUpdate(ctx context.Context, querier database.Querier, address domain.Address) (domain.Record, error) {
	selectRecordSQL := `SELECT data FROM records WHERE address = $1 FOR UPDATE`

	return rs.readRecord(ctx, querier, address, selectRecordSQL)
}

func (rs *RecordStore) readRecord(ctx context.Context, querier database.Querier, address domain.Address, selectSQL string) (domain.Record, error) {
	var data []byte
	err := querier.QueryRow(ctx, selectSQL, address[:]).Scan(&data)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Record{}, &domain.RecordNotFoundError{Msg: fmt.Sprintf("record %s not found", address)}
		}

		return domain.Record{}, fmt.Errorf("failed to read record: %w", err)
	}

	record, initialized, err := domain.DecodeRecord(data)
	if err != nil {
		return domain.Record{}, fmt.Errorf("failed to decode record %s: %w", address, err)
	}

	if !initialized {
		return domain.Record{}, &domain.RecordNotFoundError{Msg: fmt.Sprintf("record %s not initialized", address)}
	}

	return record, nil
}

func (rs *RecordStore) WriteRecord(ctx context.Context, executor database.Executor, address domain.Address, record domain.Record) error {
	upsertRecordSQL := `INSERT INTO records (address, data, updated_at) VALUES ($1, $2, now())
ON CONFLICT (address) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`

	_, err := executor.Exec(ctx, upsertRecordSQL, address[:], domain.EncodeRecord(record))
	if err != nil {
		return fmt.Errorf("failed to write record %s: %w", address, err)
	}

	return nil
}
