package http

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/huashen/exchange-core/internal/api/dto"
	"github.com/huashen/exchange-core/internal/domain"
	"github.com/huashen/exchange-core/internal/engine"
	"github.com/huashen/exchange-core/internal/middleware"
)

// HTTPServer exposes the matching engine over REST. Decimal prices and
// quantities are converted to integer ticks/lots at this boundary; the
// core only ever sees integers.
type HTTPServer struct {
	Eng         *engine.Engine
	priceScale  int32
	qtyScale    int32
	submittedID sync.Map // for deduplication by OrderID
}

func NewHTTPServer(eng *engine.Engine, priceScale, qtyScale int32) *HTTPServer {
	return &HTTPServer{Eng: eng, priceScale: priceScale, qtyScale: qtyScale}
}

func (s *HTTPServer) Run(addr string) error {
	r := gin.Default()

	rl := middleware.NewRateLimiter(time.Millisecond * 100)
	r.Use(rl.Middleware())

	r.POST("/orders", s.submitOrder)
	r.POST("/orders/cancel", s.cancelOrder)
	r.GET("/orders/:id/trades", s.getTrades)
	r.GET("/orderbook", s.getOrderbook)

	return r.Run(addr)
}

var errNotRepresentable = errors.New("value not representable at instrument scale")

// toUnits converts a decimal to integer units at the given scale, rejecting
// values that would lose precision.
func toUnits(d decimal.Decimal, scale int32) (int64, error) {
	shifted := d.Shift(scale)
	if !shifted.IsInteger() {
		return 0, errNotRepresentable
	}
	return shifted.IntPart(), nil
}

func fromUnits(v int64, scale int32) decimal.Decimal {
	return decimal.New(v, -scale)
}

func (s *HTTPServer) submitOrder(c *gin.Context) {
	var req dto.SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := s.orderFromRequest(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// deduplication
	if req.OrderID != "" {
		if _, exists := s.submittedID.LoadOrStore(req.OrderID, struct{}{}); exists {
			c.JSON(http.StatusOK, gin.H{"message": domain.ErrDuplicateOrder.Error(), "order_id": req.OrderID})
			return
		}
	}

	res, err := s.Eng.SubmitOrder(c.Request.Context(), o)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := dto.SubmitOrderResponse{
		OrderID:   o.ID,
		Outcome:   string(res.Outcome),
		Trades:    s.convertTrades(res.Trades),
		Remaining: fromUnits(res.Remaining, s.qtyScale),
	}
	if res.Reason != nil {
		resp.Message = res.Reason.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *HTTPServer) cancelOrder(c *gin.Context) {
	var req dto.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	remaining, found, err := s.Eng.CancelOrder(c.Request.Context(), req.Symbol, req.OrderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	resp := dto.CancelOrderResponse{
		OrderID:   req.OrderID,
		Cancelled: found,
		Remaining: fromUnits(remaining, s.qtyScale),
	}
	if !found {
		resp.Message = domain.ErrOrderNotFound.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (s *HTTPServer) getTrades(c *gin.Context) {
	id := c.Param("id")
	trades, err := s.Eng.TradesForOrder(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.GetTradesResponse{Trades: s.convertTrades(trades)})
}

func (s *HTTPServer) getOrderbook(c *gin.Context) {
	symbol := c.Query("symbol")
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol required"})
		return
	}
	// One snapshot command serves both the levels and the top of book, so
	// the quoted best prices always agree with the returned depth.
	snap, err := s.Eng.Snapshot(c.Request.Context(), symbol, 20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := dto.GetOrderbookResponse{
		Symbol: symbol,
		HasBid: len(snap.Bids) > 0,
		HasAsk: len(snap.Asks) > 0,
		Bids:   s.convertLevels(snap.Bids),
		Asks:   s.convertLevels(snap.Asks),
	}
	if resp.HasBid {
		resp.BestBid = fromUnits(snap.Bids[0].Price, s.priceScale)
	}
	if resp.HasAsk {
		resp.BestAsk = fromUnits(snap.Asks[0].Price, s.priceScale)
	}
	c.JSON(http.StatusOK, resp)
}

func (s *HTTPServer) orderFromRequest(req *dto.SubmitOrderRequest) (*domain.Order, error) {
	ot, err := domain.OrderTypeFromString(req.Type)
	if err != nil {
		return nil, err
	}
	side := domain.Side(req.Side)
	if !side.Valid() {
		return nil, domain.ErrInvalidSide
	}
	qty, err := toUnits(req.Quantity, s.qtyScale)
	if err != nil {
		return nil, err
	}

	o := &domain.Order{
		ID:       req.OrderID,
		ClientID: req.ClientID,
		Symbol:   req.Symbol,
		Side:     side,
		Type:     ot,
		Quantity: qty,
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if ot.BudgetCapped() {
		// budget is notional: price scale times quantity scale
		o.Budget, err = toUnits(req.Budget, s.priceScale+s.qtyScale)
	} else {
		o.Price, err = toUnits(req.Price, s.priceScale)
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (s *HTTPServer) convertTrades(trades []*domain.Trade) []dto.Trade {
	out := make([]dto.Trade, 0, len(trades))
	for _, t := range trades {
		out = append(out, dto.Trade{
			ID:           t.ID,
			TakerOrderID: t.TakerOrderID,
			MakerOrderID: t.MakerOrderID,
			Price:        fromUnits(t.Price, s.priceScale),
			Quantity:     fromUnits(t.Quantity, s.qtyScale),
			Timestamp:    t.Timestamp,
		})
	}
	return out
}

func (s *HTTPServer) convertLevels(levels []domain.BookLevel) []dto.BookLevel {
	out := make([]dto.BookLevel, 0, len(levels))
	for _, lvl := range levels {
		out = append(out, dto.BookLevel{
			Price:    fromUnits(lvl.Price, s.priceScale),
			Quantity: fromUnits(lvl.Quantity, s.qtyScale),
		})
	}
	return out
}
