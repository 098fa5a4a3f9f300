// Package kvstore is the persistent key-value storage the cart snapshot and
// the cached profile mirror live in. One named slot per value,
// replace-whole-value semantics, no transactions spanning slots.
package kvstore

import (
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sparshnfc/storefront/internal/models"
)

// Store is a synchronous single-slot store. Writes that fail silently no-op;
// callers have no recovery path for storage failures and must not see them.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}

type Memory struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *Memory) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

func (m *Memory) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
}

// DB keeps each slot as one row in kv_slots.
type DB struct {
	DB *gorm.DB
}

func NewDB(db *gorm.DB) *DB {
	return &DB{DB: db}
}

func (s *DB) Get(key string) (string, bool) {
	var slot models.KVSlot
	if err := s.DB.Where("key = ?", key).First(&slot).Error; err != nil {
		return "", false
	}
	return slot.Value, true
}

func (s *DB) Set(key, value string) {
	s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&models.KVSlot{Key: key, Value: value})
}

func (s *DB) Remove(key string) {
	s.DB.Where("key = ?", key).Delete(&models.KVSlot{})
}
