package models

import "time"

// StorageSlot is one persisted key/value slot. Keys are namespaced by the
// browsing session that owns them.
type StorageSlot struct {
	Key       string    `gorm:"column:slot_key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (StorageSlot) TableName() string { return "storage_slots" }
