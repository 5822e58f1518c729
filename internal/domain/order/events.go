package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderFinalizedEvent is emitted once per finalized order for downstream consumers
// (register takings, receipts).
type OrderFinalizedEvent struct {
	OrderID         string
	RegisterID      int
	PaymentMethodID string
	Subtotal        decimal.Decimal
	Discount        decimal.Decimal
	Total           decimal.Decimal
	ItemCount       int
	OccurredAt      time.Time
}

func (OrderFinalizedEvent) EventName() string { return "order.finalized" }

// EventKey identifies the event for deduplication and log correlation.
func (e OrderFinalizedEvent) EventKey() string { return e.OrderID }

func NewOrderFinalizedEvent(o *Order) OrderFinalizedEvent {
	return OrderFinalizedEvent{
		OrderID:         o.ID,
		RegisterID:      o.RegisterID,
		PaymentMethodID: o.PaymentMethod.ID,
		Subtotal:        o.Subtotal,
		Discount:        o.Discount,
		Total:           o.Total,
		ItemCount:       o.ItemCount(),
		OccurredAt:      time.Now().UTC(),
	}
}

// OrderCancelledEvent is emitted when a session abandons a non-empty order.
type OrderCancelledEvent struct {
	SessionID  string
	RegisterID int
	ItemCount  int
	OccurredAt time.Time
}

func (OrderCancelledEvent) EventName() string { return "order.cancelled" }

func (e OrderCancelledEvent) EventKey() string { return e.SessionID }

func NewOrderCancelledEvent(sessionID string, registerID, itemCount int) OrderCancelledEvent {
	return OrderCancelledEvent{
		SessionID:  sessionID,
		RegisterID: registerID,
		ItemCount:  itemCount,
		OccurredAt: time.Now().UTC(),
	}
}
