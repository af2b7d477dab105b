package models

import (
	"time"

	"github.com/google/uuid"
)

// DashboardCache stores a serialized aggregate report keyed by name so the
// dashboard can skip recomputation within the freshness window.
type DashboardCache struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Key         string    `gorm:"column:key;not null;uniqueIndex:dashboard_cache_key_key"`
	Value       string    `gorm:"column:value;type:jsonb;not null"`
	LastUpdated time.Time `gorm:"column:last_updated;autoUpdateTime"`
}

// TableName keeps the singular table name used by the migrations.
func (DashboardCache) TableName() string {
	return "dashboard_cache"
}
