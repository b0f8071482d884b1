package models

import "time"

/************************************************
/**** MARK: MESSAGE TYPES ****/
/************************************************/
const MESSAGE_TYPE_DM = "dm"
const MESSAGE_TYPE_COMMENT = "comment"

// ProcessedMessage is the append-only log of handled webhook events. The
// unique index on external_event_id is the authoritative dedup backstop: an
// insert that violates it means the event was already handled by a concurrent
// delivery, and the handler treats that as a silent drop.
type ProcessedMessage struct {
	ID               int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	TenantConfigID   int64      `gorm:"column:tenant_config_id;not null;index" json:"tenant_config_id"`
	ExternalEventID  string     `gorm:"column:external_event_id;not null;unique_index" json:"external_event_id"`
	MessageType      string     `gorm:"column:message_type;not null;index" json:"message_type"`
	SenderID         string     `gorm:"column:sender_id" json:"sender_id"`
	SenderUsername   string     `gorm:"column:sender_username" json:"sender_username"`
	Content          string     `gorm:"type:text" json:"content"`
	PostID           string     `gorm:"column:post_id" json:"post_id,omitempty"`
	CommentID        string     `gorm:"column:comment_id" json:"comment_id,omitempty"`
	ConversationID   string     `gorm:"column:conversation_id" json:"conversation_id,omitempty"`
	AutoReplySent    bool       `gorm:"column:auto_reply_sent;not null;default:false" json:"auto_reply_sent"`
	AutoReplyContent string     `gorm:"column:auto_reply_content;type:text" json:"auto_reply_content"`
	AiModelUsed      string     `gorm:"column:ai_model_used" json:"ai_model_used"`
	ProcessingTimeMs int64      `gorm:"column:processing_time_ms" json:"processing_time_ms"`
	CreatedAt        *time.Time `json:"created_at"`
}
