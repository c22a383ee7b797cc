package domain

import "errors"

var (
	ErrUnknownOrderType  = errors.New("unknown order type")
	ErrInvalidSide       = errors.New("invalid order side")
	ErrInvalidQuantity   = errors.New("order quantity must be positive")
	ErrMissingLimitPrice = errors.New("limit price required for price-capped order")
	ErrInvalidBudget     = errors.New("budget must be positive for budget-capped order")
	ErrOrderNotFound     = errors.New("order not found")
	ErrDuplicateOrder    = errors.New("duplicate order")
	ErrSymbolNotFound    = errors.New("symbol not found")
)
