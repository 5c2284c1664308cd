package repository

import (
	"context"

	"vira/internal/domain/entity"
)

type ConversationRepository interface {
	List(ctx context.Context, device string) ([]*entity.Conversation, error)
	Get(ctx context.Context, device string, storeID int) (*entity.Conversation, error)
	// Upsert loads the conversation (nil if absent), lets fn modify or create
	// it, and saves the result under the device lock.
	Upsert(ctx context.Context, device string, storeID int, fn func(*entity.Conversation) (*entity.Conversation, error)) (*entity.Conversation, error)
	Delete(ctx context.Context, device string, storeID int) error
}
