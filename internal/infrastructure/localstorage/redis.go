package localstorage

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "vira:device:"

// redisStorage keeps each device partition in a single hash.
type redisStorage struct {
	client *redis.Client
}

func NewRedisStorage(addr, password string, db int) (Storage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("localstorage: connect redis %s: %w", addr, err)
	}
	return &redisStorage{client: client}, nil
}

// NewRedisStorageFromClient wraps an existing client.
func NewRedisStorageFromClient(client *redis.Client) Storage {
	return &redisStorage{client: client}
}

func hashKey(device string) string {
	return redisKeyPrefix + device
}

func (r *redisStorage) Get(ctx context.Context, device, key string) ([]byte, bool, error) {
	if err := validDevice(device); err != nil {
		return nil, false, err
	}

	value, err := r.client.HGet(ctx, hashKey(device), key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (r *redisStorage) Set(ctx context.Context, device, key string, value []byte) error {
	if err := validDevice(device); err != nil {
		return err
	}
	return r.client.HSet(ctx, hashKey(device), key, value).Err()
}

func (r *redisStorage) Remove(ctx context.Context, device, key string) error {
	if err := validDevice(device); err != nil {
		return err
	}
	return r.client.HDel(ctx, hashKey(device), key).Err()
}

func (r *redisStorage) Keys(ctx context.Context, device string) ([]string, error) {
	if err := validDevice(device); err != nil {
		return nil, err
	}
	keys, err := r.client.HKeys(ctx, hashKey(device)).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

func (r *redisStorage) Clear(ctx context.Context, device string) error {
	if err := validDevice(device); err != nil {
		return err
	}
	return r.client.Del(ctx, hashKey(device)).Err()
}

func (r *redisStorage) Devices(ctx context.Context) ([]string, error) {
	devices := []string{}
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		devices = append(devices, strings.TrimPrefix(iter.Val(), redisKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	sort.Strings(devices)
	return devices, nil
}

func (r *redisStorage) Close() error {
	return r.client.Close()
}
