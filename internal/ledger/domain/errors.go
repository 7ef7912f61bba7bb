package domain

import "errors"

//region AlreadyInitializedError

type AlreadyInitializedError struct {
	Msg string
}

func (e *AlreadyInitializedError) Error() string {
	return e.Msg
}

func (e *AlreadyInitializedError) Is(target error) bool {
	_, ok := target.(*AlreadyInitializedError)
	return ok
}

//endregion

//region UnauthorizedError

type UnauthorizedError struct {
	Msg string
}

func (e *UnauthorizedError) Error() string {
	return e.Msg
}

func (e *UnauthorizedError) Is(target error) bool {
	_, ok := target.(*UnauthorizedError)
	return ok
}

//endregion

//region InvalidAmountError

type InvalidAmountError struct {
	Msg string
}

func (e *InvalidAmountError) Error() string {
	return e.Msg
}

func (e *InvalidAmountError) Is(target error) bool {
	_, ok := target.(*InvalidAmountError)
	return ok
}

//endregion

//region InvalidPriceError

type InvalidPriceError struct {
	Msg string
}

func (e *InvalidPriceError) Error() string {
	return e.Msg
}

func (e *InvalidPriceError) Is(target error) bool {
	_, ok := target.(*InvalidPriceError)
	return ok
}

//endregion

//region InsufficientStockError

type InsufficientStockError struct {
	Msg string
}

func (e *InsufficientStockError) Error() string {
	return e.Msg
}

func (e *InsufficientStockError) Is(target error) bool {
	_, ok := target.(*InsufficientStockError)
	return ok
}

//endregion

//region OverflowError

type OverflowError struct {
	Msg string
}

func (e *OverflowError) Error() string {
	return e.Msg
}

func (e *OverflowError) Is(target error) bool {
	_, ok := target.(*OverflowError)
	return ok
}

//endregion

//region TransferFailedError

type TransferFailedError struct {
	Msg string
}

func (e *TransferFailedError) Error() string {
	return e.Msg
}

func (e *TransferFailedError) Is(target error) bool {
	_, ok := target.(*TransferFailedError)
	return ok
}

//endregion

//region RecordNotFoundError

type RecordNotFoundError struct {
	Msg string
}

func (e *RecordNotFoundError) Error() string {
	return e.Msg
}

func (e *RecordNotFoundError) Is(target error) bool {
	_, ok := target.(*RecordNotFoundError)
	return ok
}

//endregion

//region AccountNotFoundError

type AccountNotFoundError struct {
	Msg string
}

func (e *AccountNotFoundError) Error() string {
	return e.Msg
}

func (e *AccountNotFoundError) Is(target error) bool {
	_, ok := target.(*AccountNotFoundError)
	return ok
}

//endregion

// ErrorKind maps a failure to its machine-readable kind so callers can tell
// "resubmit later" apart from "will never succeed as submitted".
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, &AlreadyInitializedError{}):
		return "already_initialized"
	case errors.Is(err, &UnauthorizedError{}):
		return "unauthorized"
	case errors.Is(err, &InvalidAmountError{}):
		return "invalid_amount"
	case errors.Is(err, &InvalidPriceError{}):
		return "invalid_price"
	case errors.Is(err, &InsufficientStockError{}):
		return "insufficient_stock"
	case errors.Is(err, &OverflowError{}):
		return "overflow"
	case errors.Is(err, &TransferFailedError{}):
		return "transfer_failed"
	case errors.Is(err, &RecordNotFoundError{}):
		return "record_not_found"
	case errors.Is(err, &AccountNotFoundError{}):
		return "account_not_found"
	default:
		return "internal"
	}
}
