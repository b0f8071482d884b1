package models

import "time"

// DailyAnalytics is the per-tenant, per-day rollup. The composite unique
// index guarantees a single row per (tenant, date); counters only ever grow
// and are incremented with SQL expressions, never read-modify-write.
type DailyAnalytics struct {
	ID                  int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	TenantConfigID      int64      `gorm:"column:tenant_config_id;not null;unique_index:idx_tenant_date" json:"tenant_config_id"`
	Date                string     `gorm:"column:date;not null;unique_index:idx_tenant_date" json:"date"`
	DmReceived          int64      `gorm:"column:dm_received;not null;default:0" json:"dm_received"`
	DmAutoReplied       int64      `gorm:"column:dm_auto_replied;not null;default:0" json:"dm_auto_replied"`
	CommentsReceived    int64      `gorm:"column:comments_received;not null;default:0" json:"comments_received"`
	CommentsAutoReplied int64      `gorm:"column:comments_auto_replied;not null;default:0" json:"comments_auto_replied"`
	AiApiCalls          int64      `gorm:"column:ai_api_calls;not null;default:0" json:"ai_api_calls"`
	AiApiCostUsd        float64    `gorm:"column:ai_api_cost_usd;not null;default:0" json:"ai_api_cost_usd"`
	CreatedAt           *time.Time `json:"created_at"`
	UpdatedAt           *time.Time `json:"updated_at"`
}
