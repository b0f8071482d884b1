package models

import "time"

/************************************************
/**** MARK: FAILURE STAGES ****/
/************************************************/
const FAILURE_STAGE_GENERATE = "generate"
const FAILURE_STAGE_DISPATCH = "dispatch"
const FAILURE_STAGE_PERSIST = "persist"
const FAILURE_STAGE_ANALYTICS = "analytics"

// FailureRecord is the dead-letter log. The webhook always acks deliveries,
// so per-event failures land here instead of in the HTTP response.
type FailureRecord struct {
	ID              int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	TenantConfigID  int64      `gorm:"column:tenant_config_id;index" json:"tenant_config_id"`
	ExternalEventID string     `gorm:"column:external_event_id" json:"external_event_id"`
	EventType       string     `gorm:"column:event_type" json:"event_type"`
	Stage           string     `gorm:"column:stage;not null" json:"stage"`
	Reason          string     `gorm:"type:text" json:"reason"`
	CreatedAt       *time.Time `json:"created_at"`
}
