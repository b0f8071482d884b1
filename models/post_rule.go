package models

import (
	"encoding/json"
	"strings"
	"time"
)

// PostRule is the per-post automation override. No row for a post means
// automation is off for that post. KeywordTriggers is stored as a JSON array
// of strings; an empty array means "reply to everything that passes the
// reply_to_all flag".
type PostRule struct {
	ID                 int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	TenantConfigID     int64      `gorm:"column:tenant_config_id;not null;index" json:"tenant_config_id"`
	PostID             string     `gorm:"column:post_id;not null;unique_index" json:"post_id"`
	IsEnabled          bool       `gorm:"column:is_enabled;not null;default:false" json:"is_enabled"`
	KeywordTriggers    string     `gorm:"column:keyword_triggers;type:text" json:"keyword_triggers"`
	ReplyToAllComments bool       `gorm:"column:reply_to_all_comments;not null;default:false" json:"reply_to_all_comments"`
	CreatedAt          *time.Time `json:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at"`
}

// Keywords decodes the stored trigger list. Malformed or empty storage yields
// an empty list, never an error, so a bad row degrades to "match everything".
func (r PostRule) Keywords() []string {
	s := strings.TrimSpace(r.KeywordTriggers)
	if s == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}

// SetKeywords encodes the trigger list for storage.
func (r *PostRule) SetKeywords(keywords []string) {
	if len(keywords) == 0 {
		r.KeywordTriggers = ""
		return
	}
	b, _ := json.Marshal(keywords)
	r.KeywordTriggers = string(b)
}
