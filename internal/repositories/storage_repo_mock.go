package repositories

import (
	"fmt"
	"sync"
)

// MockStorageRepository is an in-memory implementation of StorageRepository.
type MockStorageRepository struct {
	entries map[string]string
	mu      sync.RWMutex
}

// NewMockStorageRepository creates a new instance of MockStorageRepository.
func NewMockStorageRepository() *MockStorageRepository {
	return &MockStorageRepository{
		entries: make(map[string]string),
	}
}

// Get returns the value stored under key.
func (r *MockStorageRepository) Get(key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.entries[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (r *MockStorageRepository) Set(key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[key] = value
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (r *MockStorageRepository) Delete(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, key)
	return nil
}

// Clear removes every key.
func (r *MockStorageRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = make(map[string]string)
	return nil
}

// Has reports whether key is present.
func (r *MockStorageRepository) Has(key string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.entries[key]
	return ok, nil
}
