package domain

import (
	"bytes"
	"strconv"
)

// OrderType is the execution policy of an incoming order. The numeric codes
// are part of the external contract and must never be reassigned.
type OrderType uint8

const (
	OrderTypeGTC       OrderType = 0 // good till cancel, rests until filled or cancelled
	OrderTypeIOC       OrderType = 1 // immediate or cancel, price cap
	OrderTypeIOCBudget OrderType = 2 // immediate or cancel, total amount cap
	OrderTypeFOK       OrderType = 3 // fill or kill, price cap
	OrderTypeFOKBudget OrderType = 4 // fill or kill, total amount cap

	orderTypeGTCstr       = "GTC"
	orderTypeIOCstr       = "IOC"
	orderTypeIOCBudgetStr = "IOC_BUDGET"
	orderTypeFOKstr       = "FOK"
	orderTypeFOKBudgetStr = "FOK_BUDGET"
)

var (
	orderTypeGTCbytes       = []byte(`"GTC"`)
	orderTypeIOCbytes       = []byte(`"IOC"`)
	orderTypeIOCBudgetBytes = []byte(`"IOC_BUDGET"`)
	orderTypeFOKbytes       = []byte(`"FOK"`)
	orderTypeFOKBudgetBytes = []byte(`"FOK_BUDGET"`)
)

// OrderTypeFromCode resolves a wire code to its order type. Unknown codes
// are a validation error, never a default.
func OrderTypeFromCode(code uint8) (OrderType, error) {
	switch OrderType(code) {
	case OrderTypeGTC, OrderTypeIOC, OrderTypeIOCBudget, OrderTypeFOK, OrderTypeFOKBudget:
		return OrderType(code), nil
	}
	return 0, ErrUnknownOrderType
}

// Code returns the stable wire code of the order type.
func (ot OrderType) Code() uint8 { return uint8(ot) }

// AllowsResting reports whether unmatched remainder may rest in the book.
func (ot OrderType) AllowsResting() bool { return ot == OrderTypeGTC }

// AllOrNone reports whether the order must fill completely or not at all.
func (ot OrderType) AllOrNone() bool {
	return ot == OrderTypeFOK || ot == OrderTypeFOKBudget
}

// BudgetCapped reports whether the order is bounded by a total notional
// budget instead of a limit price.
func (ot OrderType) BudgetCapped() bool {
	return ot == OrderTypeIOCBudget || ot == OrderTypeFOKBudget
}

func (ot OrderType) Valid() bool { return ot <= OrderTypeFOKBudget }

func (ot OrderType) String() string {
	switch ot {
	case OrderTypeGTC:
		return orderTypeGTCstr
	case OrderTypeIOC:
		return orderTypeIOCstr
	case OrderTypeIOCBudget:
		return orderTypeIOCBudgetStr
	case OrderTypeFOK:
		return orderTypeFOKstr
	case OrderTypeFOKBudget:
		return orderTypeFOKBudgetStr
	}
	return "unknown(" + strconv.Itoa(int(ot)) + ")"
}

func (ot OrderType) MarshalJSON() ([]byte, error) {
	switch ot {
	case OrderTypeGTC:
		return orderTypeGTCbytes, nil
	case OrderTypeIOC:
		return orderTypeIOCbytes, nil
	case OrderTypeIOCBudget:
		return orderTypeIOCBudgetBytes, nil
	case OrderTypeFOK:
		return orderTypeFOKbytes, nil
	case OrderTypeFOKBudget:
		return orderTypeFOKBudgetBytes, nil
	}
	return nil, ErrUnknownOrderType
}

func (ot *OrderType) UnmarshalJSON(data []byte) error {
	switch {
	case bytes.Equal(data, orderTypeGTCbytes):
		*ot = OrderTypeGTC
	case bytes.Equal(data, orderTypeIOCbytes):
		*ot = OrderTypeIOC
	case bytes.Equal(data, orderTypeIOCBudgetBytes):
		*ot = OrderTypeIOCBudget
	case bytes.Equal(data, orderTypeFOKbytes):
		*ot = OrderTypeFOK
	case bytes.Equal(data, orderTypeFOKBudgetBytes):
		*ot = OrderTypeFOKBudget
	default:
		return ErrUnknownOrderType
	}
	return nil
}

// OrderTypeFromString resolves the symbolic name used by the API layer.
func OrderTypeFromString(value string) (OrderType, error) {
	switch value {
	case orderTypeGTCstr:
		return OrderTypeGTC, nil
	case orderTypeIOCstr:
		return OrderTypeIOC, nil
	case orderTypeIOCBudgetStr:
		return OrderTypeIOCBudget, nil
	case orderTypeFOKstr:
		return OrderTypeFOK, nil
	case orderTypeFOKBudgetStr:
		return OrderTypeFOKBudget, nil
	}
	return 0, ErrUnknownOrderType
}
