package models

import "time"

/************************************************
/**** MARK: LLM PROVIDERS ****/
/************************************************/
const LLM_PROVIDER_GEMINI = "gemini"
const LLM_PROVIDER_CLAUDE = "claude"
const LLM_PROVIDER_OPENAI = "openai"

// TenantConfig holds one tenant's linked Instagram account and its automation
// settings. One row per connected account (unique ig_account_id); created when
// the account is linked in the dashboard and only read by the pipeline.
type TenantConfig struct {
	ID                      int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	IgAccountID             string     `gorm:"column:ig_account_id;not null;unique_index" json:"ig_account_id"`
	IgUsername              string     `gorm:"column:ig_username" json:"ig_username"`
	IgAccessToken           string     `gorm:"column:ig_access_token;not null" json:"-"`
	DmAutoReplyEnabled      bool       `gorm:"column:dm_auto_reply_enabled;not null;default:false" json:"dm_auto_reply_enabled"`
	CommentAutoReplyEnabled bool       `gorm:"column:comment_auto_reply_enabled;not null;default:false" json:"comment_auto_reply_enabled"`
	LlmProvider             string     `gorm:"column:llm_provider;not null;default:'gemini'" json:"llm_provider"`
	LlmModel                string     `gorm:"column:llm_model;not null;default:'gemini-2.0-flash-exp'" json:"llm_model"`
	LlmApiKey               string     `gorm:"column:llm_api_key;not null" json:"-"`
	SystemPrompt            string     `gorm:"type:text" json:"system_prompt"`
	CreatedAt               *time.Time `json:"created_at"`
	UpdatedAt               *time.Time `json:"updated_at"`
}
