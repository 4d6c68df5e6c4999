package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"
	pkgerrors "github.com/TBosstradamus/pasha-vorschau-sub000/pkg/errors"
)

// StorageRepository 持久化键值存储（localStorage 语义，后写覆盖）
type StorageRepository interface {
	// GetItem 读取键值；键不存在时 ok=false
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// storageRepo StorageRepository 的 GORM 实现（storage_entries 表）
type storageRepo struct {
	db *gorm.DB
}

// NewStorageRepo 创建 PostgreSQL 键值存储
func NewStorageRepo(db *gorm.DB) StorageRepository {
	return &storageRepo{db: db}
}

func (r *storageRepo) GetItem(ctx context.Context, key string) (string, bool, error) {
	var entry model.StorageEntry
	err := r.db.WithContext(ctx).
		Where("storage_key = ?", key).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

func (r *storageRepo) SetItem(ctx context.Context, key, value string) error {
	now := time.Now()
	entry := model.StorageEntry{Key: key, Value: value, Revision: 1, UpdatedAt: now}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "storage_key"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"value":      value,
				"updated_at": now,
				"revision":   gorm.Expr("storage_entries.revision + 1"),
			}),
		}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("%w: %v", pkgerrors.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *storageRepo) RemoveItem(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).
		Where("storage_key = ?", key).
		Delete(&model.StorageEntry{}).Error
}
