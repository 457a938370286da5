// Package events fans placed orders out to whoever is listening: admin
// dashboards over websocket and downstream services over kafka.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/shopspring/decimal"
)

const TypeOrderPlaced = "order.placed"

type OrderPlaced struct {
	Type       string          `json:"type"`
	OrderID    uint            `json:"order_id"`
	OrderRef   string          `json:"order_ref"`
	UserID     uint            `json:"user_id"`
	Status     string          `json:"status"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Items      []OrderLine     `json:"items"`
	PlacedAt   time.Time       `json:"placed_at"`
}

type OrderLine struct {
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

func NewOrderPlaced(o *models.Order) OrderPlaced {
	lines := make([]OrderLine, len(o.Items))
	for i, it := range o.Items {
		lines[i] = OrderLine{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price}
	}
	return OrderPlaced{
		Type:       TypeOrderPlaced,
		OrderID:    o.ID,
		OrderRef:   o.OrderRef,
		UserID:     o.UserID,
		Status:     string(o.Status),
		TotalPrice: o.TotalPrice,
		Items:      lines,
		PlacedAt:   o.CreatedAt,
	}
}

type OrderNotifier interface {
	OrderPlaced(ctx context.Context, evt OrderPlaced) error
}

// Multi delivers to every notifier and joins their errors.
type Multi []OrderNotifier

func (m Multi) OrderPlaced(ctx context.Context, evt OrderPlaced) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.OrderPlaced(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
