// Package localstorage is the device-partitioned key-value store that holds
// every piece of per-user state. Each device partition behaves like one
// browser's localStorage: flat string keys, opaque values, no transactions
// across keys.
package localstorage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	"vira/pkg/logger"
)

const (
	KeyUser          = "viraUser"
	KeyPassword      = "viraPassword"
	KeyOrders        = "viraOrders"
	KeyConversations = "viraConversations"
	KeyFavorites     = "viraFavorites"
)

var ErrInvalidDevice = errors.New("localstorage: device id is required")

type Op string

const (
	OpSet    Op = "set"
	OpRemove Op = "remove"
	OpClear  Op = "clear"
)

// Event is published after every successful mutation.
type Event struct {
	Device string    `json:"device"`
	Key    string    `json:"key,omitempty"`
	Op     Op        `json:"op"`
	At     time.Time `json:"at"`
}

type Storage interface {
	Get(ctx context.Context, device, key string) ([]byte, bool, error)
	Set(ctx context.Context, device, key string, value []byte) error
	Remove(ctx context.Context, device, key string) error
	Keys(ctx context.Context, device string) ([]string, error)
	Clear(ctx context.Context, device string) error
	// Devices lists every device that has at least one key.
	Devices(ctx context.Context) ([]string, error)
	Close() error
}

type Options struct {
	Driver        string
	BoltPath      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open builds the driver named in opts.
func Open(opts Options) (Storage, error) {
	switch opts.Driver {
	case "", "bolt":
		return NewBoltStorage(opts.BoltPath)
	case "redis":
		return NewRedisStorage(opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
	case "memory":
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("localstorage: unknown driver %q", opts.Driver)
	}
}

// GetJSON decodes the value under key into out. A missing key reports false.
// A value that is not valid JSON is logged and treated as missing, so one
// corrupt blob never locks a device out of its other data.
func GetJSON(ctx context.Context, s Storage, device, key string, out interface{}) (bool, error) {
	raw, ok, err := s.Get(ctx, device, key)
	if err != nil || !ok {
		return false, err
	}
	// Decode into a fresh value so a type error halfway through leaves out
	// untouched.
	target := reflect.ValueOf(out).Elem()
	fresh := reflect.New(target.Type())
	if err := json.Unmarshal(raw, fresh.Interface()); err != nil {
		logger.Warn("Discarding corrupt value: device=%s, key=%s, error=%v", device, key, err)
		target.Set(reflect.Zero(target.Type()))
		return false, nil
	}
	target.Set(fresh.Elem())
	return true, nil
}

func SetJSON(ctx context.Context, s Storage, device, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("localstorage: encode %s: %w", key, err)
	}
	return s.Set(ctx, device, key, raw)
}

func validDevice(device string) error {
	if device == "" {
		return ErrInvalidDevice
	}
	return nil
}
