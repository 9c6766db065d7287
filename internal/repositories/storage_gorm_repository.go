package repositories

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// StorageEntry is a single persisted key/value pair.
type StorageEntry struct {
	Key       string `gorm:"column:storage_key;primaryKey;type:varchar(64)"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

// TableName pins the table name independently of the struct name.
func (StorageEntry) TableName() string {
	return "storage_entries"
}

// OpenDatabase opens a GORM connection for the given driver ("sqlite" or
// "postgres") and migrates the storage table.
func OpenDatabase(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", driver, err)
	}
	if err := db.AutoMigrate(&StorageEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate storage: %w", err)
	}
	return db, nil
}

// GORMStorageRepository is a GORM implementation of StorageRepository.
type GORMStorageRepository struct {
	db *gorm.DB
}

// NewGORMStorageRepository creates a new instance of GORMStorageRepository.
func NewGORMStorageRepository(db *gorm.DB) *GORMStorageRepository {
	return &GORMStorageRepository{
		db: db,
	}
}

// Get retrieves the value stored under key.
func (r *GORMStorageRepository) Get(key string) (string, error) {
	var entry StorageEntry
	if err := r.db.First(&entry, "storage_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		}
		return "", fmt.Errorf("failed to get storage key %s: %w", key, err)
	}
	return entry.Value, nil
}

// Set upserts value under key.
func (r *GORMStorageRepository) Set(key, value string) error {
	entry := StorageEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to set storage key %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (r *GORMStorageRepository) Delete(key string) error {
	if err := r.db.Delete(&StorageEntry{}, "storage_key = ?", key).Error; err != nil {
		return fmt.Errorf("failed to delete storage key %s: %w", key, err)
	}
	return nil
}

// Clear removes every stored key.
func (r *GORMStorageRepository) Clear() error {
	if err := r.db.Where("1 = 1").Delete(&StorageEntry{}).Error; err != nil {
		return fmt.Errorf("failed to clear storage: %w", err)
	}
	return nil
}

// Has reports whether key is present.
func (r *GORMStorageRepository) Has(key string) (bool, error) {
	var count int64
	if err := r.db.Model(&StorageEntry{}).Where("storage_key = ?", key).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check storage key %s: %w", key, err)
	}
	return count > 0, nil
}
