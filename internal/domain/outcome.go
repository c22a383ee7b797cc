package domain

// Outcome is the terminal disposition of one matching pass.
type Outcome string

const (
	// Filled: the incoming order matched in full.
	Filled Outcome = "FILLED"
	// PartialRested: partially matched, remainder rests in the book (GTC).
	PartialRested Outcome = "PARTIAL_RESTED"
	// PartialCancelled: partially matched, remainder cancelled (IOC kinds).
	PartialCancelled Outcome = "PARTIAL_CANCELLED"
	// Killed: nothing executed because all-or-none could not be satisfied
	// (FOK kinds), or no liquidity was immediately available.
	Killed Outcome = "KILLED"
	// Rejected: the order failed validation before touching the book.
	Rejected Outcome = "REJECTED"
)

// MatchResult is what one submit call produces. Trades are in execution
// order; for Killed and Rejected outcomes it is always empty. Makers lists
// the resting orders whose remaining quantity was consumed by the pass, so
// persistence can re-save them alongside the taker; it is not part of the
// journal payload.
type MatchResult struct {
	Outcome   Outcome  `json:"outcome"`
	Trades    []*Trade `json:"trades"`
	Remaining int64    `json:"remaining"`
	Makers    []*Order `json:"-"`
	Reason    error    `json:"-"`
}

// TopOfBook is the quoting view exported to external collaborators.
type TopOfBook struct {
	Symbol  string `json:"symbol"`
	BestBid int64  `json:"best_bid"`
	BestAsk int64  `json:"best_ask"`
	HasBid  bool   `json:"has_bid"`
	HasAsk  bool   `json:"has_ask"`
}

// BookLevel is one aggregated price level in a depth snapshot.
type BookLevel struct {
	Price    int64 `json:"price"`
	Quantity int64 `json:"quantity"`
}

// BookSnapshot is an aggregated depth view of one order book.
type BookSnapshot struct {
	Symbol string      `json:"symbol"`
	Bids   []BookLevel `json:"bids"`
	Asks   []BookLevel `json:"asks"`
}
