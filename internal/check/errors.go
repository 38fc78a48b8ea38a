package check

import (
	"context"
	"errors"

	"github.com/zeebo/errs"
)

var (
	Error         = errs.Class("check")
	ConfigError   = errs.Class("check: config")
	MismatchError = errs.Class("check: mismatch")
)

// Process exit statuses for cmd/num128check.
const (
	ExitSuccess       = 0
	ExitErrorGeneric  = 1
	ExitErrorTimeout  = 2
	ExitErrorMismatch = 3
	ExitErrorConfig   = 4
	ExitErrorCanceled = 130
)

// ExitCode maps the error returned by ParseConfig or Run to an exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case ConfigError.Has(err):
		return ExitErrorConfig
	case MismatchError.Has(err):
		return ExitErrorMismatch
	case errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	default:
		return ExitErrorGeneric
	}
}
