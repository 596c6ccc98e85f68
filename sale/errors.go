package sale

import "errors"

var (
	ErrSuspended         = errors.New("sale: suspended")
	ErrOutsideWindow     = errors.New("sale: outside sale window")
	ErrBelowMinimum      = errors.New("sale: contribution below minimum")
	ErrNotWhitelisted    = errors.New("sale: not whitelisted for the current stage")
	ErrNothingToPurchase = errors.New("sale: nothing left to purchase")
	ErrOutOfRange        = errors.New("sale: parameter out of range")
	ErrEmptyBatch        = errors.New("sale: empty batch")
	ErrLengthMismatch    = errors.New("sale: batch length mismatch")
	ErrStageRegression   = errors.New("sale: stage may only advance")
	ErrInvalidWindow     = errors.New("sale: end time must follow start time")
)
