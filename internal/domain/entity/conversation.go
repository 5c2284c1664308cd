package entity

const (
	SenderMe    = "me"
	SenderOther = "other"
)

type Message struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// Conversation is the local message thread with one store.
type Conversation struct {
	StoreID    int       `json:"storeId"`
	StoreName  string    `json:"storeName"`
	Messages   []Message `json:"messages"`
	CreatedAt  int64     `json:"createdAt"`
	LastReadAt int64     `json:"lastReadAt"`
}

func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return &c.Messages[len(c.Messages)-1]
}

// LastActivity is the timestamp of the newest message, or the creation time
// of an empty conversation.
func (c *Conversation) LastActivity() int64 {
	if m := c.LastMessage(); m != nil {
		return m.Timestamp
	}
	return c.CreatedAt
}

// UnreadCount counts messages from the other side newer than LastReadAt.
func (c *Conversation) UnreadCount() int {
	n := 0
	for _, m := range c.Messages {
		if m.Sender == SenderOther && m.Timestamp > c.LastReadAt {
			n++
		}
	}
	return n
}

// ConversationSummary is a row in the conversation list.
type ConversationSummary struct {
	StoreID     int    `json:"storeId"`
	StoreName   string `json:"storeName"`
	Avatar      string `json:"avatar,omitempty"`
	LastMessage string `json:"lastMessage"`
	LastAt      int64  `json:"lastAt"`
	Unread      int    `json:"unread"`
	Online      bool   `json:"online"`
}
