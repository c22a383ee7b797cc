package port

import (
	"context"

	"github.com/huashen/exchange-core/internal/domain"
)

type Cache interface {
	SetTopOfBook(ctx context.Context, top *domain.TopOfBook) error
	GetTopOfBook(ctx context.Context, symbol string) (*domain.TopOfBook, error)
	SetSnapshot(ctx context.Context, snap *domain.BookSnapshot) error
	GetSnapshot(ctx context.Context, symbol string) (*domain.BookSnapshot, error)
}
