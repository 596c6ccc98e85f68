package ledger

import "errors"

var (
	ErrInsufficientBalance   = errors.New("ledger: insufficient balance")
	ErrInsufficientAllowance = errors.New("ledger: insufficient allowance")
	ErrTransfersRestricted   = errors.New("ledger: transfers restricted until finalized")
	ErrInvalidSupply         = errors.New("ledger: total supply must be positive")
)
