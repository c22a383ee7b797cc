package port

import (
	"context"

	"github.com/huashen/exchange-core/internal/domain"
)

// Journal is the durability hook. The engine calls Append exactly once per
// completed submit, after book state has been mutated, never before.
// Downstream ledger settlement hangs off this hook.
type Journal interface {
	Append(ctx context.Context, o *domain.Order, res *domain.MatchResult) error
}
