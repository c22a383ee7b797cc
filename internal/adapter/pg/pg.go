package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huashen/exchange-core/internal/domain"
	"github.com/huashen/exchange-core/internal/port"
)

var (
	_ port.Repository = (*PgRepo)(nil)
	_ port.Journal    = (*PgRepo)(nil)
)

type PgRepo struct {
	pool *pgxpool.Pool
}

// call Close when finished working with the database.
func NewPgRepo(ctx context.Context, dsn string) (*PgRepo, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}
	return &PgRepo{pool: pool}, nil
}

func (p *PgRepo) Close(ctx context.Context) {
	if p.pool != nil {
		p.pool.Close()
	}
}

func (p *PgRepo) SaveOrder(ctx context.Context, o *domain.Order) error {
	if o == nil {
		return errors.New("nil order")
	}
	return saveOrder(ctx, p.pool, o)
}

func (p *PgRepo) SaveTrade(ctx context.Context, t *domain.Trade) error {
	if t == nil {
		return errors.New("nil trade")
	}
	return saveTrade(ctx, p.pool, t)
}

// LoadOpenOrders returns resting orders for a symbol ordered by seq_id ASC
// so restored books keep their time priority.
func (p *PgRepo) LoadOpenOrders(ctx context.Context, symbol string) ([]*domain.Order, error) {
	rows, err := p.pool.Query(ctx, `
SELECT id, client_id, symbol, side, type, price, budget, quantity, remaining, seq_id, created_at
FROM orders
WHERE symbol = $1 AND remaining > 0 AND cancelled = FALSE AND type = $2
ORDER BY seq_id ASC
`, symbol, domain.OrderTypeGTC.Code())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Order
	for rows.Next() {
		var o domain.Order
		var typeCode uint8
		if err := rows.Scan(&o.ID, &o.ClientID, &o.Symbol, &o.Side, &typeCode,
			&o.Price, &o.Budget, &o.Quantity, &o.Remaining, &o.SeqID, &o.CreatedAt); err != nil {
			return nil, err
		}
		ot, err := domain.OrderTypeFromCode(typeCode)
		if err != nil {
			return nil, fmt.Errorf("pg: order %s: %w", o.ID, err)
		}
		o.Type = ot
		res = append(res, &o)
	}
	return res, rows.Err()
}

func (p *PgRepo) MarkCancelled(ctx context.Context, orderID string, remaining int64) error {
	tag, err := p.pool.Exec(ctx, `
UPDATE orders SET cancelled = TRUE, remaining = $2 WHERE id = $1
`, orderID, remaining)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (p *PgRepo) LoadTradesForOrder(ctx context.Context, orderID string) ([]*domain.Trade, error) {
	rows, err := p.pool.Query(ctx, `
SELECT id, symbol, taker_order_id, maker_order_id, price, quantity, executed_at
FROM trades
WHERE taker_order_id = $1 OR maker_order_id = $1
ORDER BY executed_at ASC
`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Trade
	for rows.Next() {
		var t domain.Trade
		if err := rows.Scan(&t.ID, &t.Symbol, &t.TakerOrderID, &t.MakerOrderID,
			&t.Price, &t.Quantity, &t.Timestamp); err != nil {
			return nil, err
		}
		res = append(res, &t)
	}
	return res, rows.Err()
}

// Append implements the journal hook: one row per completed submit with the
// full result encoded as JSON.
func (p *PgRepo) Append(ctx context.Context, o *domain.Order, res *domain.MatchResult) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return err
	}
	reason := ""
	if res.Reason != nil {
		reason = res.Reason.Error()
	}
	_, err = p.pool.Exec(ctx, `
INSERT INTO journal(order_id, symbol, outcome, reason, payload, logged_at)
VALUES($1, $2, $3, $4, $5, now())
`, o.ID, o.Symbol, string(res.Outcome), reason, payload)
	return err
}

func (p *PgRepo) BeginTx(ctx context.Context) (port.Tx, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("pg: begin tx: %w", err)
	}
	return &pgTx{tx: tx}, nil
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) SaveOrder(ctx context.Context, o *domain.Order) error {
	return saveOrder(ctx, t.tx, o)
}

func (t *pgTx) SaveTrade(ctx context.Context, tr *domain.Trade) error {
	return saveTrade(ctx, t.tx, tr)
}

func (t *pgTx) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *pgTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

// execer is satisfied by both pgxpool.Pool and pgx.Tx.
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func saveOrder(ctx context.Context, db execer, o *domain.Order) error {
	_, err := db.Exec(ctx, `
INSERT INTO orders(id, client_id, symbol, side, type, price, budget, quantity, remaining, seq_id, cancelled, created_at)
VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,FALSE,$11)
ON CONFLICT (id) DO UPDATE SET
  remaining = EXCLUDED.remaining,
  seq_id = EXCLUDED.seq_id
`, o.ID, o.ClientID, o.Symbol, string(o.Side), o.Type.Code(),
		o.Price, o.Budget, o.Quantity, o.Remaining, o.SeqID, o.CreatedAt)
	return err
}

func saveTrade(ctx context.Context, db execer, t *domain.Trade) error {
	_, err := db.Exec(ctx, `
INSERT INTO trades(id, symbol, taker_order_id, maker_order_id, price, quantity, executed_at)
VALUES($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO NOTHING
`, t.ID, t.Symbol, t.TakerOrderID, t.MakerOrderID, t.Price, t.Quantity, t.Timestamp)
	return err
}
