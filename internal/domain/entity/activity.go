package entity

import "github.com/shopspring/decimal"

const (
	ActivityPurchase = "Purchase"
	ActivityRefund   = "Refund"
)

// ActivityEntry is one row in the profile's wallet history.
type ActivityEntry struct {
	Type    string          `json:"type"`
	OrderID string          `json:"orderId"`
	Store   string          `json:"store"`
	Amount  decimal.Decimal `json:"amount"`
	Date    string          `json:"date"`
	Status  string          `json:"status"`
}
