package service

import "errors"

// Failures of AddItem. All are terminal for the call and leave no writes
// behind; callers match them with errors.Is.
var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrOrderNotEditable = errors.New("order is not editable")
	ErrProductNotFound  = errors.New("product not found")
	ErrNotEnoughStock   = errors.New("not enough stock")
	ErrInvalidQuantity  = errors.New("quantity must be positive")
)

// Kind returns the stable name of a domain failure, or "" for any other
// error.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrOrderNotFound):
		return "OrderNotFound"
	case errors.Is(err, ErrOrderNotEditable):
		return "OrderNotEditable"
	case errors.Is(err, ErrProductNotFound):
		return "ProductNotFound"
	case errors.Is(err, ErrNotEnoughStock):
		return "NotEnoughStock"
	case errors.Is(err, ErrInvalidQuantity):
		return "InvalidQuantity"
	default:
		return ""
	}
}
