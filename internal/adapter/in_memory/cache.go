package in_memory

import (
	"context"
	"sync"

	"github.com/huashen/exchange-core/internal/domain"
	"github.com/huashen/exchange-core/internal/port"
)

var _ port.Cache = (*Cache)(nil)

type Cache struct {
	mu    sync.Mutex
	tops  map[string]*domain.TopOfBook
	snaps map[string]*domain.BookSnapshot
}

func NewCache() *Cache {
	return &Cache{
		tops:  make(map[string]*domain.TopOfBook),
		snaps: make(map[string]*domain.BookSnapshot),
	}
}

func (c *Cache) SetTopOfBook(ctx context.Context, top *domain.TopOfBook) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *top
	c.tops[top.Symbol] = &cp
	return nil
}

func (c *Cache) GetTopOfBook(ctx context.Context, symbol string) (*domain.TopOfBook, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	top, ok := c.tops[symbol]
	if !ok {
		return nil, nil
	}
	cp := *top
	return &cp, nil
}

func (c *Cache) SetSnapshot(ctx context.Context, snap *domain.BookSnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *snap
	c.snaps[snap.Symbol] = &cp
	return nil
}

func (c *Cache) GetSnapshot(ctx context.Context, symbol string) (*domain.BookSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap, ok := c.snaps[symbol]
	if !ok {
		return nil, nil
	}
	cp := *snap
	return &cp, nil
}
