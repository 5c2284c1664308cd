package localstorage

import "sync"

// Locker serializes read-modify-write cycles within one device partition.
type Locker struct {
	locks sync.Map
}

func NewLocker() *Locker {
	return &Locker{}
}

// Lock acquires the device lock and returns its release func.
func (l *Locker) Lock(device string) func() {
	v, _ := l.locks.LoadOrStore(device, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
