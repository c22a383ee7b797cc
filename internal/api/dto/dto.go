package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type SubmitOrderRequest struct {
	OrderID  string          `json:"order_id,omitempty"` // for deduplicate
	ClientID string          `json:"client_id" binding:"required"`
	Symbol   string          `json:"symbol" binding:"required"`
	Side     string          `json:"side" binding:"required"`
	Type     string          `json:"type" binding:"required"`
	Price    decimal.Decimal `json:"price,omitempty"`  // price-capped policies
	Budget   decimal.Decimal `json:"budget,omitempty"` // budget-capped policies
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

type SubmitOrderResponse struct {
	OrderID   string          `json:"order_id"`
	Outcome   string          `json:"outcome"`
	Trades    []Trade         `json:"trades"`
	Remaining decimal.Decimal `json:"remaining"`
	Message   string          `json:"message,omitempty"`
}

type CancelOrderRequest struct {
	OrderID string `json:"order_id" binding:"required"`
	Symbol  string `json:"symbol" binding:"required"`
}

type CancelOrderResponse struct {
	OrderID   string          `json:"order_id"`
	Cancelled bool            `json:"cancelled"`
	Remaining decimal.Decimal `json:"remaining"`
	Message   string          `json:"message,omitempty"`
}

type Trade struct {
	ID           string          `json:"id"`
	TakerOrderID string          `json:"taker_order_id"`
	MakerOrderID string          `json:"maker_order_id"`
	Price        decimal.Decimal `json:"price"`
	Quantity     decimal.Decimal `json:"quantity"`
	Timestamp    time.Time       `json:"timestamp"`
}

type GetTradesResponse struct {
	Trades []Trade `json:"trades"`
}

type BookLevel struct {
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
}

type GetOrderbookResponse struct {
	Symbol  string          `json:"symbol"`
	BestBid decimal.Decimal `json:"best_bid,omitempty"`
	BestAsk decimal.Decimal `json:"best_ask,omitempty"`
	HasBid  bool            `json:"has_bid"`
	HasAsk  bool            `json:"has_ask"`
	Bids    []BookLevel     `json:"bids"`
	Asks    []BookLevel     `json:"asks"`
}
