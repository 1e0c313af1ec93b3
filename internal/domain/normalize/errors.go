package normalize

import "errors"

// Sentinel error kinds for this package.
var (
	ErrEmptyResult     = errors.New("empty unified table")
	ErrBlankCustomerID = errors.New("blank customer id")
)
