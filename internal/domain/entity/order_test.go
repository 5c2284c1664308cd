package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderCanCancel(t *testing.T) {
	created := time.Date(2024, 1, 20, 10, 0, 0, 0, time.UTC)
	order := &Order{Status: OrderStatusProcessing, CreatedAt: created.UnixMilli()}

	assert.True(t, order.CanCancel(created.Add(59*time.Minute), time.Hour))
	assert.False(t, order.CanCancel(created.Add(time.Hour), time.Hour))

	order.Status = OrderStatusShipped
	assert.False(t, order.CanCancel(created.Add(time.Minute), time.Hour))

	legacy := &Order{Status: OrderStatusProcessing}
	assert.False(t, legacy.CanCancel(created, time.Hour))
	assert.True(t, legacy.CancelDeadline(time.Hour).IsZero())
}

func TestOrderMatches(t *testing.T) {
	order := &Order{
		ID:    "ORD-1705745400000",
		Store: "Artisan Pottery Studio",
		Products: []OrderLine{
			{Name: "Handmade Ceramic Vase"},
		},
	}

	assert.True(t, order.Matches(""))
	assert.True(t, order.Matches("ord-1705"))
	assert.True(t, order.Matches("pottery"))
	assert.True(t, order.Matches("  CERAMIC "))
	assert.False(t, order.Matches("headphones"))
}

func TestOrderDecodesLegacyBlob(t *testing.T) {
	blob := `{"id":"ORD-1","date":"2024-01-20","items":1,"total":89.99,"status":"processing",` +
		`"store":"Artisan Pottery Studio","products":[{"name":"Handmade Ceramic Vase","price":89.99,"quantity":1,"image":"x"}]}`

	var order Order
	require.NoError(t, json.Unmarshal([]byte(blob), &order))

	assert.True(t, decimal.RequireFromString("89.99").Equal(order.Total))
	assert.Zero(t, order.CreatedAt)

	out, err := json.Marshal(order)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"total":89.99`)
}

func TestConversationUnreadCount(t *testing.T) {
	conv := &Conversation{
		LastReadAt: 200,
		Messages: []Message{
			{Sender: SenderOther, Timestamp: 100},
			{Sender: SenderMe, Timestamp: 300},
			{Sender: SenderOther, Timestamp: 400},
		},
	}

	assert.Equal(t, 1, conv.UnreadCount())
	assert.Equal(t, int64(400), conv.LastActivity())

	empty := &Conversation{CreatedAt: 50}
	assert.Nil(t, empty.LastMessage())
	assert.Equal(t, int64(50), empty.LastActivity())
}

func TestSellerStoreName(t *testing.T) {
	assert.Equal(t, "sam's Sports Store", (&User{Username: "sam"}).SellerStoreName())
	assert.Equal(t, "Court Kings", (&User{Username: "sam", StoreName: "Court Kings"}).SellerStoreName())
	assert.Equal(t, RoleBuyer, (&User{}).EffectiveRole())
}
