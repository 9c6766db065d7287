// Package storage is the typed, JSON-serialising layer over persisted
// key/value storage. Read failures never escape: a missing or corrupt entry
// degrades to nil and is logged.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"go.uber.org/zap"
)

// Key names a persisted entry.
type Key string

const (
	KeyCart        Key = "cart"
	KeyUserSession Key = "user_session"
)

// Storage wraps a StorageRepository with JSON (de)serialisation.
type Storage struct {
	repo   repositories.StorageRepository
	logger *zap.Logger
}

// New creates a Storage over repo.
func New(repo repositories.StorageRepository, logger *zap.Logger) *Storage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Storage{repo: repo, logger: logger}
}

// GetItem loads and decodes the value under key. It returns nil when the key is
// absent, unreadable, JSON null or does not decode into T.
func GetItem[T any](s *Storage, key Key) *T {
	raw, err := s.repo.Get(string(key))
	if err != nil {
		if !errors.Is(err, repositories.ErrKeyNotFound) {
			s.logger.Error("failed to read storage", zap.String("key", string(key)), zap.Error(err))
		}
		return nil
	}

	var value *T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		s.logger.Error("failed to decode storage", zap.String("key", string(key)), zap.Error(err))
		return nil
	}
	return value
}

// SetItem encodes value as JSON and stores it under key.
func SetItem[T any](s *Storage, key Key, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("failed to encode storage", zap.String("key", string(key)), zap.Error(err))
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.repo.Set(string(key), string(data)); err != nil {
		s.logger.Error("failed to write storage", zap.String("key", string(key)), zap.Error(err))
		return err
	}
	return nil
}

// Remove deletes key.
func (s *Storage) Remove(key Key) error {
	if err := s.repo.Delete(string(key)); err != nil {
		s.logger.Error("failed to remove storage", zap.String("key", string(key)), zap.Error(err))
		return err
	}
	return nil
}

// Clear deletes every key.
func (s *Storage) Clear() error {
	if err := s.repo.Clear(); err != nil {
		s.logger.Error("failed to clear storage", zap.Error(err))
		return err
	}
	return nil
}

// Has reports whether key holds a value. Repository failures count as absent.
func (s *Storage) Has(key Key) bool {
	ok, err := s.repo.Has(string(key))
	if err != nil {
		s.logger.Error("failed to check storage", zap.String("key", string(key)), zap.Error(err))
		return false
	}
	return ok
}

// UserID returns the id of the persisted session, or "" when there is none.
// It reads storage on every call so it always reflects the last written session.
func (s *Storage) UserID() string {
	session := GetItem[models.UserSession](s, KeyUserSession)
	if session == nil {
		return ""
	}
	return session.ID
}
