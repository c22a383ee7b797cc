package domain

import (
	"time"
)

type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Opposite returns the side an incoming order matches against.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

func (s Side) Valid() bool { return s == Buy || s == Sell }

// Order is a single order inside the matching core. Prices are integer
// ticks, quantities integer lots; Budget is a notional ceiling in
// ticks x lots used only by the budget-capped policies.
type Order struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	Symbol    string    `json:"symbol"`
	Side      Side      `json:"side"`
	Type      OrderType `json:"type"`
	Price     int64     `json:"price"`
	Budget    int64     `json:"budget,omitempty"`
	Quantity  int64     `json:"quantity"`
	Remaining int64     `json:"remaining"`
	SeqID     uint64    `json:"seq_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks an order before it touches the book. Price and budget
// requirements depend on the cap kind of the policy.
func (o *Order) Validate() error {
	if !o.Type.Valid() {
		return ErrUnknownOrderType
	}
	if !o.Side.Valid() {
		return ErrInvalidSide
	}
	if o.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if o.Type.BudgetCapped() {
		if o.Budget <= 0 {
			return ErrInvalidBudget
		}
		return nil
	}
	if o.Price <= 0 {
		return ErrMissingLimitPrice
	}
	return nil
}
