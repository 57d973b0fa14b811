package exchange

import "errors"

var (
	errMissingSymbol  = errors.New("missing symbol")
	errMissingOrderID = errors.New("missing order id")
)
