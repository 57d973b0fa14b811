package orderbook

import "errors"

var (
	// ErrOrderAlreadyExists is returned when the submitted ID is already
	// resting on either side of the book.
	ErrOrderAlreadyExists = errors.New("order already exists")

	// ErrNonPositiveQuantity is returned when the submitted quantity is
	// zero or negative.
	ErrNonPositiveQuantity = errors.New("non-positive quantity")

	// ErrOrderNotFound is returned when cancelling an ID that is not
	// resting, including an ID already filled or cancelled.
	ErrOrderNotFound = errors.New("order not found")
)
