package num

import "github.com/zeebo/errs"

// Error classes returned (or, for DivideByZero, panicked) by this package.
// Test membership with the class's Has method:
//
//	if num.FormatError.Has(err) { ... }
//
var (
	FormatError   = errs.Class("num: format")
	DivideByZero  = errs.Class("num: divide by zero")
	InvalidCast   = errs.Class("num: invalid cast")
	ArgumentError = errs.Class("num: argument")
)

func panicDivideByZero(kind string) {
	panic(DivideByZero.New("%s division by zero", kind))
}
