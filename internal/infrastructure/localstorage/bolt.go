package localstorage

import (
	"context"
	"fmt"
	"strings"
	"time"

	bolt "go.etcd.io/bbolt"
)

const boltBucketPrefix = "device:"

// boltStorage keeps one top-level bucket per device.
type boltStorage struct {
	db *bolt.DB
}

func NewBoltStorage(path string) (Storage, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("localstorage: open bolt %s: %w", path, err)
	}
	return &boltStorage{db: db}, nil
}

func bucketName(device string) []byte {
	return []byte(boltBucketPrefix + device)
}

func (b *boltStorage) Get(ctx context.Context, device, key string) ([]byte, bool, error) {
	if err := validDevice(device); err != nil {
		return nil, false, err
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var value []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketName(device))
		if bucket == nil {
			return nil
		}
		if v := bucket.Get([]byte(key)); v != nil {
			// bolt values are only valid inside the transaction
			value = append([]byte{}, v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return value, value != nil, nil
}

func (b *boltStorage) Set(ctx context.Context, device, key string, value []byte) error {
	if err := validDevice(device); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if value == nil {
		value = []byte{}
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(bucketName(device))
		if err != nil {
			return err
		}
		return bucket.Put([]byte(key), value)
	})
}

func (b *boltStorage) Remove(ctx context.Context, device, key string) error {
	if err := validDevice(device); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketName(device))
		if bucket == nil {
			return nil
		}
		if err := bucket.Delete([]byte(key)); err != nil {
			return err
		}
		if k, _ := bucket.Cursor().First(); k == nil {
			return tx.DeleteBucket(bucketName(device))
		}
		return nil
	})
}

func (b *boltStorage) Keys(ctx context.Context, device string) ([]string, error) {
	if err := validDevice(device); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	keys := []string{}
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketName(device))
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys, err
}

func (b *boltStorage) Clear(ctx context.Context, device string) error {
	if err := validDevice(device); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		err := tx.DeleteBucket(bucketName(device))
		if err == bolt.ErrBucketNotFound {
			return nil
		}
		return err
	})
}

func (b *boltStorage) Devices(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	devices := []string{}
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			if device, ok := strings.CutPrefix(string(name), boltBucketPrefix); ok {
				devices = append(devices, device)
			}
			return nil
		})
	})
	return devices, err
}

func (b *boltStorage) Close() error {
	return b.db.Close()
}
