package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/innovativehub/storefront/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SlotRepository persists string slots in the storage_slots table.
type SlotRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSlotRepository(db *gorm.DB) *SlotRepository {
	return &SlotRepository{db: db, now: time.Now}
}

// Get returns the value under key and whether it exists.
func (r *SlotRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var slot models.StorageSlot
	err := r.db.WithContext(ctx).Where("slot_key = ?", key).Take(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load slot %s: %w", key, err)
	}
	return slot.Value, true, nil
}

// Set upserts the value under key.
func (r *SlotRepository) Set(ctx context.Context, key, value string) error {
	slot := models.StorageSlot{Key: key, Value: value, UpdatedAt: r.now().UTC()}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slot_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&slot).Error
	if err != nil {
		return fmt.Errorf("save slot %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (r *SlotRepository) Delete(ctx context.Context, key string) error {
	if err := r.db.WithContext(ctx).Where("slot_key = ?", key).Delete(&models.StorageSlot{}).Error; err != nil {
		return fmt.Errorf("delete slot %s: %w", key, err)
	}
	return nil
}

// PurgeOlderThan drops slots untouched since cutoff and returns how many went.
func (r *SlotRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("updated_at < ?", cutoff.UTC()).Delete(&models.StorageSlot{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge slots: %w", res.Error)
	}
	return res.RowsAffected, nil
}
