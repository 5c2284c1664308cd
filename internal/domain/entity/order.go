package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// OrderLine is one product inside an order.
type OrderLine struct {
	ProductID int             `json:"productId,omitempty"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image"`
}

// Order mirrors the blob kept under the device's orders key. CreatedAt and
// the other timestamps are unix milliseconds; zero means unknown.
type Order struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Items       int             `json:"items"`
	Total       decimal.Decimal `json:"total"`
	Status      string          `json:"status"`
	Store       string          `json:"store"`
	StoreID     int             `json:"storeId,omitempty"`
	CreatedAt   int64           `json:"createdAt,omitempty"`
	ShippedAt   int64           `json:"shippedAt,omitempty"`
	CompletedAt int64           `json:"completedAt,omitempty"`
	CancelledAt int64           `json:"cancelledAt,omitempty"`
	Products    []OrderLine     `json:"products"`
}

func (o *Order) CreatedTime() time.Time {
	return time.UnixMilli(o.CreatedAt)
}

// CancelDeadline is the instant after which the order can no longer be
// cancelled. The zero time is returned when the creation time is unknown.
func (o *Order) CancelDeadline(window time.Duration) time.Time {
	if o.CreatedAt <= 0 {
		return time.Time{}
	}
	return o.CreatedTime().Add(window)
}

// CanCancel reports whether the order is still processing and inside the
// cancellation window at now.
func (o *Order) CanCancel(now time.Time, window time.Duration) bool {
	if o.Status != OrderStatusProcessing || o.CreatedAt <= 0 {
		return false
	}
	return now.Before(o.CancelDeadline(window))
}

// Matches reports whether query appears in the order id, store name or any
// product name, ignoring case.
func (o *Order) Matches(query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(o.ID), query) || strings.Contains(strings.ToLower(o.Store), query) {
		return true
	}
	for _, p := range o.Products {
		if strings.Contains(strings.ToLower(p.Name), query) {
			return true
		}
	}
	return false
}
