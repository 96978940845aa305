package errors

import (
	"errors"
)

var NotFound = errors.New("Not found")

var (
	TransactionInProgress = errors.New("transaction already in progress")
	NoTransaction         = errors.New("no transaction in progress")
	UnitOfWorkClosed      = errors.New("unit of work is closed")
)
