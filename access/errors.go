package access

import "errors"

var (
	ErrUnauthorized       = errors.New("access: caller not authorized")
	ErrInvalidAddress     = errors.New("access: invalid address")
	ErrNotInitialized     = errors.New("access: not initialized")
	ErrAlreadyInitialized = errors.New("access: already initialized")
	ErrAlreadyFinalized   = errors.New("access: already finalized")
)
