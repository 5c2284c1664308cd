package repository

import (
	"context"
	"sort"
	"strconv"

	"vira/internal/domain/entity"
	"vira/internal/domain/repository"
	"vira/internal/infrastructure/localstorage"
	"vira/pkg/errors"
)

// Conversations are stored as one JSON object keyed by store id.
type kvConversationRepository struct {
	storage localstorage.Storage
	locker  *localstorage.Locker
}

func NewKVConversationRepository(storage localstorage.Storage, locker *localstorage.Locker) repository.ConversationRepository {
	return &kvConversationRepository{storage: storage, locker: locker}
}

func (r *kvConversationRepository) load(ctx context.Context, device string) (map[string]*entity.Conversation, error) {
	all := map[string]*entity.Conversation{}
	if _, err := localstorage.GetJSON(ctx, r.storage, device, localstorage.KeyConversations, &all); err != nil {
		return nil, errors.Internal("Failed to read conversations", err)
	}
	if all == nil {
		all = map[string]*entity.Conversation{}
	}
	return all, nil
}

func (r *kvConversationRepository) save(ctx context.Context, device string, all map[string]*entity.Conversation) error {
	if err := localstorage.SetJSON(ctx, r.storage, device, localstorage.KeyConversations, all); err != nil {
		return errors.Internal("Failed to save conversations", err)
	}
	return nil
}

func (r *kvConversationRepository) List(ctx context.Context, device string) ([]*entity.Conversation, error) {
	all, err := r.load(ctx, device)
	if err != nil {
		return nil, err
	}

	list := make([]*entity.Conversation, 0, len(all))
	for _, c := range all {
		if c != nil {
			list = append(list, c)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].StoreID < list[j].StoreID
	})
	return list, nil
}

func (r *kvConversationRepository) Get(ctx context.Context, device string, storeID int) (*entity.Conversation, error) {
	all, err := r.load(ctx, device)
	if err != nil {
		return nil, err
	}
	c, ok := all[strconv.Itoa(storeID)]
	if !ok || c == nil {
		return nil, errors.NotFound("Conversation", nil)
	}
	return c, nil
}

func (r *kvConversationRepository) Upsert(ctx context.Context, device string, storeID int, fn func(*entity.Conversation) (*entity.Conversation, error)) (*entity.Conversation, error) {
	unlock := r.locker.Lock(device)
	defer unlock()

	all, err := r.load(ctx, device)
	if err != nil {
		return nil, err
	}

	key := strconv.Itoa(storeID)
	updated, err := fn(all[key])
	if err != nil {
		return nil, err
	}
	all[key] = updated

	if err := r.save(ctx, device, all); err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *kvConversationRepository) Delete(ctx context.Context, device string, storeID int) error {
	unlock := r.locker.Lock(device)
	defer unlock()

	all, err := r.load(ctx, device)
	if err != nil {
		return err
	}

	key := strconv.Itoa(storeID)
	if _, ok := all[key]; !ok {
		return errors.NotFound("Conversation", nil)
	}
	delete(all, key)
	return r.save(ctx, device, all)
}
