package domain

import "math"

// Defaults applied when an Initialize request does not name its own values.
const (
	DefaultInitialStock = 100
	DefaultInitialPrice = 1_000_000
)

// NewRecord builds the initial record for a fresh slot. The owner is fixed
// here and never changes afterwards.
func NewRecord(initialStock, initialPrice uint64, owner Identity) (Record, error) {
	if initialPrice == 0 {
		return Record{}, &InvalidPriceError{Msg: "initial price must be positive"}
	}

	return Record{
		Stock: initialStock,
		Price: initialPrice,
		Owner: owner,
	}, nil
}

// Authorize permits a mutating operation only to the record's owner. The
// caller identity is already proven by the hosting environment; this is a
// plain value comparison.
func Authorize(record Record, caller Identity) error {
	if record.Owner != caller {
		return &UnauthorizedError{Msg: "caller is not the record owner"}
	}

	return nil
}

func AddStock(record Record, amount uint64) (Record, error) {
	if amount == 0 {
		return Record{}, &InvalidAmountError{Msg: "amount must be positive"}
	}
	if amount > math.MaxUint64-record.Stock {
		return Record{}, &OverflowError{Msg: "stock addition overflows"}
	}

	record.Stock += amount
	return record, nil
}

func UpdatePrice(record Record, newPrice uint64) (Record, error) {
	if newPrice == 0 {
		return Record{}, &InvalidPriceError{Msg: "price must be positive"}
	}

	record.Price = newPrice
	return record, nil
}

// ComputeSale reserves quantity units and computes the amount due. It does not
// move funds; settlement is a separate step and the returned record must not
// be persisted until that step succeeds.
func ComputeSale(record Record, quantity uint64) (Record, uint64, error) {
	if quantity == 0 {
		return Record{}, 0, &InvalidAmountError{Msg: "quantity must be positive"}
	}
	if quantity > record.Stock {
		return Record{}, 0, &InsufficientStockError{Msg: "not enough stock for requested quantity"}
	}
	if record.Price > 0 && quantity > math.MaxUint64/record.Price {
		return Record{}, 0, &OverflowError{Msg: "sale total overflows"}
	}

	totalDue := quantity * record.Price
	record.Stock -= quantity

	return record, totalDue, nil
}
