package repositories

import "errors"

// ErrKeyNotFound is returned by Get when no value is stored under the key.
var ErrKeyNotFound = errors.New("storage key not found")

// StorageRepository defines the interface for persisted key/value access.
// Values are opaque strings; serialisation belongs to the caller.
type StorageRepository interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	Clear() error
	Has(key string) (bool, error)
}
