package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"vira/internal/domain/entity"
	"vira/internal/domain/repository"
	"vira/pkg/errors"
	"vira/pkg/logger"
)

const (
	ActionSendMessage = "send_message"

	maxMessageLength = 2000
)

type ChatUseCase struct {
	conversationRepo repository.ConversationRepository
	catalogRepo      repository.CatalogRepository
	limiter          RateLimiter
	now              func() time.Time
}

func NewChatUseCase(
	conversationRepo repository.ConversationRepository,
	catalogRepo repository.CatalogRepository,
	limiter RateLimiter,
) *ChatUseCase {
	return &ChatUseCase{
		conversationRepo: conversationRepo,
		catalogRepo:      catalogRepo,
		limiter:          limiter,
		now:              time.Now,
	}
}

// ListConversations returns conversation summaries ordered by last
// activity. query filters on the store name.
func (uc *ChatUseCase) ListConversations(ctx context.Context, device, query string) ([]entity.ConversationSummary, error) {
	conversations, err := uc.conversationRepo.List(ctx, device)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].LastActivity() > conversations[j].LastActivity()
	})

	summaries := make([]entity.ConversationSummary, 0, len(conversations))
	for _, c := range conversations {
		if query != "" && !strings.Contains(strings.ToLower(c.StoreName), query) {
			continue
		}

		summary := entity.ConversationSummary{
			StoreID:   c.StoreID,
			StoreName: c.StoreName,
			LastAt:    c.LastActivity(),
			Unread:    c.UnreadCount(),
		}
		if m := c.LastMessage(); m != nil {
			summary.LastMessage = m.Text
		}
		if store, err := uc.catalogRepo.GetStore(c.StoreID); err == nil {
			summary.Avatar = store.Avatar
			summary.Online = store.Online
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// UnreadTotal sums unread messages over all conversations.
func (uc *ChatUseCase) UnreadTotal(ctx context.Context, device string) (int, error) {
	conversations, err := uc.conversationRepo.List(ctx, device)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, c := range conversations {
		total += c.UnreadCount()
	}
	return total, nil
}

// GetConversation returns the thread and marks it read.
func (uc *ChatUseCase) GetConversation(ctx context.Context, device string, storeID int) (*entity.Conversation, error) {
	return uc.conversationRepo.Upsert(ctx, device, storeID, func(c *entity.Conversation) (*entity.Conversation, error) {
		if c == nil {
			return nil, errors.NotFound("Conversation", nil)
		}
		c.LastReadAt = uc.now().UnixMilli()
		return c, nil
	})
}

// StartConversation opens a thread with a catalog store. The second result
// reports whether a new thread was created.
func (uc *ChatUseCase) StartConversation(ctx context.Context, device string, storeID int) (*entity.Conversation, bool, error) {
	store, err := uc.catalogRepo.GetStore(storeID)
	if err != nil {
		return nil, false, err
	}

	created := false
	conv, err := uc.conversationRepo.Upsert(ctx, device, storeID, func(c *entity.Conversation) (*entity.Conversation, error) {
		if c != nil {
			return c, nil
		}
		created = true
		return uc.newConversation(store), nil
	})
	if err != nil {
		return nil, false, err
	}
	if created {
		logger.Info("Conversation started: device=%s, store=%d", device, storeID)
	}
	return conv, created, nil
}

func (uc *ChatUseCase) SendMessage(ctx context.Context, device string, storeID int, text string) (*entity.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.BadRequest("Message cannot be empty", nil)
	}
	if utf8.RuneCountInString(text) > maxMessageLength {
		return nil, errors.BadRequest(fmt.Sprintf("Message cannot exceed %d characters", maxMessageLength), nil)
	}

	if allowed, wait := uc.limiter.Allow(device, ActionSendMessage); !allowed {
		logger.Warn("Message rate limit hit: device=%s, retry_after=%v", device, wait)
		return nil, errors.TooManyRequests("You are sending messages too quickly", wait)
	}

	store, err := uc.catalogRepo.GetStore(storeID)
	if err != nil {
		return nil, err
	}

	now := uc.now().UnixMilli()
	msg := entity.Message{
		ID:        uuid.NewString(),
		Sender:    entity.SenderMe,
		Text:      text,
		Timestamp: now,
	}

	_, err = uc.conversationRepo.Upsert(ctx, device, storeID, func(c *entity.Conversation) (*entity.Conversation, error) {
		if c == nil {
			c = uc.newConversation(store)
		}
		c.Messages = append(c.Messages, msg)
		c.LastReadAt = now
		return c, nil
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (uc *ChatUseCase) DeleteConversation(ctx context.Context, device string, storeID int) error {
	if err := uc.conversationRepo.Delete(ctx, device, storeID); err != nil {
		return err
	}
	logger.Info("Conversation deleted: device=%s, store=%d", device, storeID)
	return nil
}

// newConversation seeds a thread with the store's greeting, which stays
// unread until the thread is opened.
func (uc *ChatUseCase) newConversation(store *entity.Store) *entity.Conversation {
	now := uc.now().UnixMilli()
	return &entity.Conversation{
		StoreID:   store.ID,
		StoreName: store.Name,
		CreatedAt: now,
		Messages: []entity.Message{{
			ID:        uuid.NewString(),
			Sender:    entity.SenderOther,
			Text:      fmt.Sprintf("Hi! Thanks for your interest in %s. How can we help?", store.Name),
			Timestamp: now,
		}},
	}
}
