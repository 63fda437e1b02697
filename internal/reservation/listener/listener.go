package listener

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fluxpos/warehouse-service/internal/apperr"
	"github.com/fluxpos/warehouse-service/internal/reservation"
	"github.com/fluxpos/warehouse-service/internal/stock/dto"
)

// SalesListener adapts sale lifecycle events onto the reservation API.
// OrderCreated reserves each line, OrderCancelled releases it. The listener
// never retries taxonomy failures; an oversold line stays logged for the
// sales side to resolve.
type SalesListener struct {
	reader *kafka.Reader
	uc     reservation.UseCase
	logger *zap.Logger
}

func NewSalesListener(reader *kafka.Reader, uc reservation.UseCase, logger *zap.Logger) *SalesListener {
	return &SalesListener{
		reader: reader,
		uc:     uc,
		logger: logger,
	}
}

type saleEvent struct {
	EventID   string      `json:"event_id"`
	EventType string      `json:"event_type"`
	Payload   salePayload `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

type salePayload struct {
	ID       string     `json:"id"`
	TenantID string     `json:"tenant_id"`
	Items    []saleItem `json:"items"`
}

type saleItem struct {
	ProductID  string          `json:"product_id"`
	LocationID string          `json:"location_id"`
	LotID      *string         `json:"lot_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

func (l *SalesListener) Start(ctx context.Context) {
	l.logger.Info("starting sales event listener")
	for {
		msg, err := l.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				l.logger.Info("stopping sales event listener")
				return
			}
			l.logger.Error("failed to read sales event", zap.Error(err))
			time.Sleep(1 * time.Second)
			continue
		}
		l.processMessage(ctx, msg.Value)
	}
}

func (l *SalesListener) processMessage(ctx context.Context, value []byte) {
	var event saleEvent
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("failed to unmarshal sales event", zap.Error(err))
		return
	}

	switch event.EventType {
	case "OrderCreated":
		l.handleOrder(ctx, &event, true)
	case "OrderCancelled":
		l.handleOrder(ctx, &event, false)
	default:
		// Not for us.
	}
}

func (l *SalesListener) handleOrder(ctx context.Context, event *saleEvent, reserve bool) {
	for _, item := range event.Payload.Items {
		var err error
		if reserve {
			_, err = l.uc.ReserveStock(ctx, &dto.ReserveStockInput{
				TenantID:      event.Payload.TenantID,
				ProductID:     item.ProductID,
				LocationID:    item.LocationID,
				LotID:         item.LotID,
				Quantity:      item.Quantity,
				ReferenceType: "sale",
				ReferenceID:   event.Payload.ID,
			})
		} else {
			_, err = l.uc.ReleaseStock(ctx, &dto.ReleaseStockInput{
				TenantID:      event.Payload.TenantID,
				ProductID:     item.ProductID,
				LocationID:    item.LocationID,
				LotID:         item.LotID,
				Quantity:      item.Quantity,
				ReferenceType: "sale",
				ReferenceID:   event.Payload.ID,
			})
		}
		if err != nil {
			l.logger.Warn("sales event not applied",
				zap.String("event_id", event.EventID),
				zap.String("event_type", event.EventType),
				zap.String("product_id", item.ProductID),
				zap.String("code", apperr.CodeOf(err)),
				zap.Error(err),
			)
		}
	}
}
