// Package keymutex provides an in-process mutex scoped to string keys.
package keymutex

import (
	"context"
	"slices"
	"sync"
)

// Mutex serialises holders of the same key. The zero value is not usable; call New.
type Mutex struct {
	mu    sync.Mutex
	locks map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

// New returns an empty Mutex.
func New() *Mutex {
	return &Mutex{locks: make(map[string]*slot)}
}

// Lock acquires every key, in sorted order after removing duplicates and empty
// keys. It blocks until all keys are held or ctx is done; on failure nothing
// stays held. The returned unlock func is safe to call more than once.
func (m *Mutex) Lock(ctx context.Context, keys ...string) (func(), error) {
	keys = SortedUnique(keys)

	held := make([]string, 0, len(keys))
	for _, k := range keys {
		if err := m.acquire(ctx, k); err != nil {
			m.releaseAll(held)
			return nil, err
		}
		held = append(held, k)
	}

	var once sync.Once
	return func() { once.Do(func() { m.releaseAll(held) }) }, nil
}

func (m *Mutex) acquire(ctx context.Context, key string) error {
	m.mu.Lock()
	s, ok := m.locks[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		m.locks[key] = s
	}
	s.refs++
	m.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
		return nil
	case <-ctx.Done():
		m.release(key, false)
		return ctx.Err()
	}
}

func (m *Mutex) releaseAll(keys []string) {
	for i := len(keys) - 1; i >= 0; i-- {
		m.release(keys[i], true)
	}
}

func (m *Mutex) release(key string, held bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.locks[key]
	if held {
		<-s.ch
	}
	s.refs--
	if s.refs == 0 {
		delete(m.locks, key)
	}
}

// Len reports how many keys are currently held or awaited.
func (m *Mutex) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}

// SortedUnique returns the non-empty keys sorted and without duplicates.
// A fixed acquisition order keeps multi-key holders from deadlocking.
func SortedUnique(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
