package processor

import (
	"context"
	"fmt"

	"directdm/llm"
	"directdm/models"

	"github.com/jinzhu/gorm"
)

// HandleComment runs the comment pipeline for one event. Same skeleton as
// HandleDM with the post-rule resolution and keyword gate in front of dedup.
func (p *Processor) HandleComment(ctx context.Context, ev CommentEvent) error {
	started := p.now()

	if ev.CommentID == "" || ev.Text == "" || ev.PostID == "" {
		return fmt.Errorf("%w: comment missing id, text or post", ErrMalformedEvent)
	}

	var rule models.PostRule
	err := p.db.
		Where("post_id = ? AND is_enabled = ?", ev.PostID, true).
		First(&rule).Error
	if gorm.IsRecordNotFoundError(err) {
		return fmt.Errorf("%w: no enabled rule for post %s", ErrNoActiveConfig, ev.PostID)
	}
	if err != nil {
		return fmt.Errorf("resolve post rule: %w", err)
	}

	var cfg models.TenantConfig
	err = p.db.First(&cfg, rule.TenantConfigID).Error
	if gorm.IsRecordNotFoundError(err) {
		return fmt.Errorf("%w: rule %d has no tenant config", ErrNoActiveConfig, rule.ID)
	}
	if err != nil {
		return fmt.Errorf("resolve tenant config: %w", err)
	}
	if !cfg.CommentAutoReplyEnabled {
		return fmt.Errorf("%w: comment auto-reply disabled for tenant %d", ErrNoActiveConfig, cfg.ID)
	}

	if !rule.ReplyToAllComments && !MatchKeywords(ev.Text, rule.Keywords()) {
		return fmt.Errorf("%w: comment %s", ErrKeywordMismatch, ev.CommentID)
	}

	dup, err := p.alreadyProcessed(ev.CommentID)
	if err != nil {
		return fmt.Errorf("dedup check: %w", err)
	}
	if dup {
		return fmt.Errorf("%w: comment %s", ErrDuplicateEvent, ev.CommentID)
	}

	reply, err := p.generate(ctx, cfg.LlmProvider, cfg.LlmModel, cfg.LlmApiKey, llm.Request{
		Prompt:       ev.Text,
		SystemPrompt: cfg.SystemPrompt,
	})
	if err != nil {
		p.recordFailure(cfg.ID, ev.CommentID, models.MESSAGE_TYPE_COMMENT, models.FAILURE_STAGE_GENERATE, err)
		return fmt.Errorf("generate reply: %w", err)
	}

	if _, err := p.platform(cfg.IgAccessToken).ReplyToComment(ctx, ev.CommentID, reply.Text); err != nil {
		p.recordFailure(cfg.ID, ev.CommentID, models.MESSAGE_TYPE_COMMENT, models.FAILURE_STAGE_DISPATCH, err)
		return fmt.Errorf("reply to comment: %w", err)
	}

	senderUsername := ev.SenderUsername
	if senderUsername == "" {
		senderUsername = ev.SenderID
	}

	msg := models.ProcessedMessage{
		TenantConfigID:   cfg.ID,
		ExternalEventID:  ev.CommentID,
		MessageType:      models.MESSAGE_TYPE_COMMENT,
		SenderID:         ev.SenderID,
		SenderUsername:   senderUsername,
		Content:          ev.Text,
		PostID:           ev.PostID,
		CommentID:        ev.CommentID,
		AutoReplySent:    true,
		AutoReplyContent: reply.Text,
		AiModelUsed:      reply.Model,
		ProcessingTimeMs: p.now().Sub(started).Milliseconds(),
	}
	if err := p.db.Create(&msg).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: comment %s (insert conflict)", ErrDuplicateEvent, ev.CommentID)
		}
		p.recordFailure(cfg.ID, ev.CommentID, models.MESSAGE_TYPE_COMMENT, models.FAILURE_STAGE_PERSIST, err)
		return fmt.Errorf("persist message: %w", err)
	}

	if err := RecordAnalytics(p.db, cfg.ID, p.today(), models.MESSAGE_TYPE_COMMENT, reply.CostUsd); err != nil {
		p.recordFailure(cfg.ID, ev.CommentID, models.MESSAGE_TYPE_COMMENT, models.FAILURE_STAGE_ANALYTICS, err)
		return fmt.Errorf("update analytics: %w", err)
	}

	return nil
}
