package http

import (
	"context"

	"github.com/joneireis/cidacake-program/internal/ledger/domain"
)

// OperationService is what the transport needs from the dispatcher.
type OperationService interface {
	Initialize(ctx context.Context, address domain.Address, caller domain.Identity, initialStock, initialPrice uint64) (domain.RecordSummary, error)
	AddStock(ctx context.Context, address domain.Address, caller domain.Identity, amount uint64) (domain.RecordSummary, error)
	UpdatePrice(ctx context.Context, address domain.Address, caller domain.Identity, newPrice uint64) (domain.RecordSummary, error)
	Sell(ctx context.Context, address domain.Address, buyer domain.Identity, quantity uint64) (domain.SaleSummary, error)
	GetRecord(ctx context.Context, address domain.Address) (domain.RecordSummary, error)
	Deposit(ctx context.Context, identity domain.Identity, amount uint64) (uint64, error)
	GetBalance(ctx context.Context, identity domain.Identity) (uint64, error)
}
