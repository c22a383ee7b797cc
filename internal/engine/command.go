package engine

import (
	"github.com/huashen/exchange-core/internal/domain"
)

type commandType int

const (
	cmdPlace commandType = iota
	cmdCancel
	cmdTop
	cmdSnapshot
	cmdRestore
)

// command is one request funneled into a book loop. Every mutation and
// read of a book goes through its channel, which is what serializes
// matching and cancellation per symbol.
type command struct {
	typ     commandType
	order   *domain.Order   // cmdPlace
	orderID string          // cmdCancel
	depth   int             // cmdSnapshot
	orders  []*domain.Order // cmdRestore
	resp    chan any
}

type placeReply struct {
	res *domain.MatchResult
}

type cancelReply struct {
	remaining int64
	found     bool
}
