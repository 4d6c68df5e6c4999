package model

import "time"

// StorageEntry 键值存储行（对应 storage_entries 表）
type StorageEntry struct {
	Key       string    `gorm:"column:storage_key;primaryKey;size:200" json:"key"`
	Value     string    `gorm:"column:value;type:text;not null" json:"value"`
	Revision  int64     `gorm:"column:revision;not null;default:0" json:"revision"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (StorageEntry) TableName() string { return "storage_entries" }
