package domain

import "time"

// Trade records one match between an incoming taker order and a resting
// maker order. Price is always the maker's resting price.
type Trade struct {
	ID           string    `json:"id"`
	Symbol       string    `json:"symbol"`
	TakerOrderID string    `json:"taker_order_id"`
	MakerOrderID string    `json:"maker_order_id"`
	Price        int64     `json:"price"`
	Quantity     int64     `json:"quantity"`
	Timestamp    time.Time `json:"timestamp"`
}
