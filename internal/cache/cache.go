package cache

import "sync"

// Memo is a process-lifetime memoization cache with no eviction. It backs
// the sheet loader: datasets are small and sessions short, so entries live
// until the process exits.
type Memo[T any] struct {
	mu    sync.Mutex
	items map[string]T
}

// NewMemo creates an empty memoization cache.
func NewMemo[T any]() *Memo[T] {
	return &Memo[T]{items: make(map[string]T)}
}

// Get retrieves a memoized value.
func (m *Memo[T]) Get(key string) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok
}

// Set stores a value under key, replacing any prior entry.
func (m *Memo[T]) Set(key string, data T) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = data
}

// GetOrFill returns the memoized value for key, calling fill once and
// storing the result on a miss. A fill error is returned uncached so the
// next call retries.
func (m *Memo[T]) GetOrFill(key string, fill func() (T, error)) (T, error) {
	if v, ok := m.Get(key); ok {
		return v, nil
	}
	v, err := fill()
	if err != nil {
		var zero T
		return zero, err
	}
	m.Set(key, v)
	return v, nil
}

// Size returns the number of memoized entries.
func (m *Memo[T]) Size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
