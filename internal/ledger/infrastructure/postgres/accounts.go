package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/joneireis/cidacake-program/internal/ledger/domain"
	"github.com/joneireis/cidacake-program/internal/pkg/database"
)

// AccountRepository is the minimal account surface of the transfer service:
// enough to fund a buyer and inspect a balance.
type AccountRepository struct {
	db database.QueryExecuter
}

func NewAccountRepository(db database.QueryExecuter) *AccountRepository {
	return &AccountRepository{
		db: db,
	}
}

func (ar *AccountRepository) Deposit(ctx context.Context, identity domain.Identity, amount uint64) (uint64, error) {
	depositSQL := `INSERT INTO accounts (identity, balance) VALUES ($1, $2)
ON CONFLICT (identity) DO UPDATE SET balance = accounts.balance + EXCLUDED.balance
RETURNING balance`

	var balance uint64
	err := ar.db.QueryRow(ctx, depositSQL, identity[:], amount).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("failed to deposit into account %s: %w", identity, err)
	}

	return balance, nil
}

func (ar *AccountRepository) GetBalance(ctx context.Context, identity domain.Identity) (uint64, error) {
	selectBalanceSQL := `SELECT balance FROM accounts WHERE identity = $1`

	var balance uint64
	err := ar.db.QueryRow(ctx, selectBalanceSQL, identity[:]).Scan(&balance)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, &domain.AccountNotFoundError{Msg: fmt.Sprintf("account %s not found", identity)}
		}

		return 0, fmt.Errorf("failed to read account balance: %w", err)
	}

	return balance, nil
}
