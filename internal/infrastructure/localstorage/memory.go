package localstorage

import (
	"context"
	"sort"
	"sync"
)

type memoryStorage struct {
	mu      sync.RWMutex
	devices map[string]map[string][]byte
}

func NewMemoryStorage() Storage {
	return &memoryStorage{devices: make(map[string]map[string][]byte)}
}

func (m *memoryStorage) Get(_ context.Context, device, key string) ([]byte, bool, error) {
	if err := validDevice(device); err != nil {
		return nil, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.devices[device][key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (m *memoryStorage) Set(_ context.Context, device, key string, value []byte) error {
	if err := validDevice(device); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	keys, ok := m.devices[device]
	if !ok {
		keys = make(map[string][]byte)
		m.devices[device] = keys
	}
	keys[key] = append([]byte(nil), value...)
	return nil
}

func (m *memoryStorage) Remove(_ context.Context, device, key string) error {
	if err := validDevice(device); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.devices[device], key)
	if len(m.devices[device]) == 0 {
		delete(m.devices, device)
	}
	return nil
}

func (m *memoryStorage) Keys(_ context.Context, device string) ([]string, error) {
	if err := validDevice(device); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.devices[device]))
	for k := range m.devices[device] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *memoryStorage) Clear(_ context.Context, device string) error {
	if err := validDevice(device); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.devices, device)
	return nil
}

func (m *memoryStorage) Devices(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	devices := make([]string, 0, len(m.devices))
	for d := range m.devices {
		devices = append(devices, d)
	}
	sort.Strings(devices)
	return devices, nil
}

func (m *memoryStorage) Close() error {
	return nil
}
