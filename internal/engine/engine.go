package engine

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/huashen/exchange-core/internal/domain"
	"github.com/huashen/exchange-core/internal/port"
)

// Engine routes requests to per-symbol book loops. Books of different
// symbols share no state and run fully in parallel; requests for one
// symbol are serialized by its loop.
type Engine struct {
	mu      sync.Mutex
	loops   map[string]*bookLoop
	ctx     context.Context
	buffer  int
	journal port.Journal
	repo    port.Repository
	cache   port.Cache
	log     *slog.Logger
}

func NewEngine(journal port.Journal, repo port.Repository, cache port.Cache, buffer int, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		loops:   make(map[string]*bookLoop),
		buffer:  buffer,
		journal: journal,
		repo:    repo,
		cache:   cache,
		log:     log,
	}
}

// Start binds the engine's loops to ctx; loops stop when ctx is cancelled.
// Must be called before any submit or cancel.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ctx = ctx
}

// LoadOpenOrders rebuilds resting books from the repository, one symbol at
// a time, before the engine serves traffic.
func (e *Engine) LoadOpenOrders(ctx context.Context, symbols []string) error {
	if e.repo == nil {
		return nil
	}
	for _, symbol := range symbols {
		orders, err := e.repo.LoadOpenOrders(ctx, symbol)
		if err != nil {
			return err
		}
		cmd := command{typ: cmdRestore, orders: orders, resp: make(chan any, 1)}
		if _, err := e.send(ctx, symbol, cmd); err != nil {
			return err
		}
		e.log.Info("restored open orders", "symbol", symbol, "count", len(orders))
	}
	return nil
}

// SubmitOrder runs one matching pass for the order. The returned result is
// terminal: trades listed in execution order plus the final disposition.
func (e *Engine) SubmitOrder(ctx context.Context, o *domain.Order) (*domain.MatchResult, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	cmd := command{typ: cmdPlace, order: o, resp: make(chan any, 1)}
	reply, err := e.send(ctx, o.Symbol, cmd)
	if err != nil {
		return nil, err
	}
	return reply.(placeReply).res, nil
}

// CancelOrder removes a resting order, reporting the quantity that remained
// at cancellation. A missing order is reported, not an error.
func (e *Engine) CancelOrder(ctx context.Context, symbol, orderID string) (int64, bool, error) {
	cmd := command{typ: cmdCancel, orderID: orderID, resp: make(chan any, 1)}
	reply, err := e.send(ctx, symbol, cmd)
	if err != nil {
		return 0, false, err
	}
	r := reply.(cancelReply)
	return r.remaining, r.found, nil
}

// TopOfBook returns the best bid and ask for quoting.
func (e *Engine) TopOfBook(ctx context.Context, symbol string) (*domain.TopOfBook, error) {
	cmd := command{typ: cmdTop, resp: make(chan any, 1)}
	reply, err := e.send(ctx, symbol, cmd)
	if err != nil {
		return nil, err
	}
	return reply.(*domain.TopOfBook), nil
}

// Snapshot returns an aggregated depth view of the symbol's book.
func (e *Engine) Snapshot(ctx context.Context, symbol string, depth int) (*domain.BookSnapshot, error) {
	cmd := command{typ: cmdSnapshot, depth: depth, resp: make(chan any, 1)}
	reply, err := e.send(ctx, symbol, cmd)
	if err != nil {
		return nil, err
	}
	return reply.(*domain.BookSnapshot), nil
}

// TradesForOrder reads from the repository; it does not touch book state.
func (e *Engine) TradesForOrder(ctx context.Context, orderID string) ([]*domain.Trade, error) {
	if e.repo == nil {
		return nil, nil
	}
	return e.repo.LoadTradesForOrder(ctx, orderID)
}

func (e *Engine) send(ctx context.Context, symbol string, cmd command) (any, error) {
	l := e.loopFor(symbol)
	select {
	case l.cmds <- cmd:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case reply := <-cmd.resp:
		return reply, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (e *Engine) loopFor(symbol string) *bookLoop {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.loops[symbol]
	if !ok {
		l = newBookLoop(symbol, e.buffer, e.journal, e.repo, e.cache, e.log)
		e.loops[symbol] = l
		ctx := e.ctx
		if ctx == nil {
			ctx = context.Background()
		}
		go l.run(ctx)
	}
	return l
}
