package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/huashen/exchange-core/internal/core"
	"github.com/huashen/exchange-core/internal/domain"
	"github.com/huashen/exchange-core/internal/port"
)

// bookLoop owns one symbol's order book. Exactly one goroutine runs its
// command loop, so matching passes and cancels on the same book never
// interleave.
type bookLoop struct {
	book    *core.OrderBook
	cmds    chan command
	seq     uint64
	journal port.Journal
	repo    port.Repository
	cache   port.Cache
	log     *slog.Logger
}

func newBookLoop(symbol string, buffer int, journal port.Journal, repo port.Repository, cache port.Cache, log *slog.Logger) *bookLoop {
	return &bookLoop{
		book:    core.NewOrderBook(symbol),
		cmds:    make(chan command, buffer),
		journal: journal,
		repo:    repo,
		cache:   cache,
		log:     log.With("symbol", symbol),
	}
}

func (l *bookLoop) run(ctx context.Context) {
	for {
		select {
		case cmd := <-l.cmds:
			switch cmd.typ {
			case cmdPlace:
				cmd.resp <- placeReply{res: l.place(ctx, cmd.order)}
			case cmdCancel:
				remaining, found := l.cancel(ctx, cmd.orderID)
				cmd.resp <- cancelReply{remaining: remaining, found: found}
			case cmdTop:
				top := l.book.BestBidAsk()
				cmd.resp <- &top
			case cmdSnapshot:
				cmd.resp <- l.book.Snapshot(cmd.depth)
			case cmdRestore:
				l.restore(cmd.orders)
				cmd.resp <- struct{}{}
			}
		case <-ctx.Done():
			return
		}
	}
}

func (l *bookLoop) place(ctx context.Context, o *domain.Order) *domain.MatchResult {
	l.seq++
	o.SeqID = l.seq
	o.CreatedAt = time.Now()

	res := l.book.Submit(o)

	// Journal after book mutation, exactly once per submit.
	if l.journal != nil {
		if err := l.journal.Append(ctx, o, res); err != nil {
			l.log.Error("journal append failed", "order_id", o.ID, "err", err)
		}
	}

	if res.Outcome != domain.Rejected {
		if err := l.persist(ctx, o, res); err != nil {
			l.log.Error("persist match result failed", "order_id", o.ID, "err", err)
		}
		l.updateCache(ctx)
	}
	return res
}

func (l *bookLoop) cancel(ctx context.Context, orderID string) (int64, bool) {
	remaining, found := l.book.Cancel(orderID)
	if !found {
		return 0, false
	}
	if l.repo != nil {
		if err := l.repo.MarkCancelled(ctx, orderID, remaining); err != nil {
			l.log.Error("mark cancelled failed", "order_id", orderID, "err", err)
		}
	}
	l.updateCache(ctx)
	return remaining, true
}

// persist writes the taker order, every maker whose remaining quantity the
// pass consumed, and the trades in one transaction. Re-saving the makers is
// what keeps LoadOpenOrders from restoring filled liquidity after a
// restart.
func (l *bookLoop) persist(ctx context.Context, o *domain.Order, res *domain.MatchResult) error {
	if l.repo == nil {
		return nil
	}
	tx, err := l.repo.BeginTx(ctx)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()
	if err := tx.SaveOrder(ctx, o); err != nil {
		return err
	}
	for _, m := range res.Makers {
		if err := tx.SaveOrder(ctx, m); err != nil {
			return err
		}
	}
	for _, t := range res.Trades {
		if err := tx.SaveTrade(ctx, t); err != nil {
			return err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	committed = true
	return nil
}

func (l *bookLoop) updateCache(ctx context.Context) {
	if l.cache == nil {
		return
	}
	top := l.book.BestBidAsk()
	if err := l.cache.SetTopOfBook(ctx, &top); err != nil {
		l.log.Warn("top-of-book cache update failed", "err", err)
	}
	if err := l.cache.SetSnapshot(ctx, l.book.Snapshot(snapshotDepth)); err != nil {
		l.log.Warn("snapshot cache update failed", "err", err)
	}
}

// restore rests persisted open orders back into the book, preserving their
// original sequence numbers for time priority.
func (l *bookLoop) restore(orders []*domain.Order) {
	for _, o := range orders {
		l.book.Restore(o)
		if o.SeqID > l.seq {
			l.seq = o.SeqID
		}
	}
}

const snapshotDepth = 20
