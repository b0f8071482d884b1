package processor

import (
	"context"
	"fmt"

	"directdm/llm"
	"directdm/models"

	"github.com/jinzhu/gorm"
)

// HandleDM runs the DM pipeline for one event: resolve tenant, dedup,
// generate, dispatch, persist, account. Guard failures return a drop
// sentinel; failures after the guards are dead-lettered.
func (p *Processor) HandleDM(ctx context.Context, ev DMEvent) error {
	started := p.now()

	if ev.SenderID == "" || ev.MessageID == "" || ev.Text == "" {
		return fmt.Errorf("%w: dm missing sender, id or text", ErrMalformedEvent)
	}

	var cfg models.TenantConfig
	err := p.db.
		Where("ig_account_id = ? AND dm_auto_reply_enabled = ?", ev.RecipientID, true).
		First(&cfg).Error
	if gorm.IsRecordNotFoundError(err) {
		return fmt.Errorf("%w: dm for account %s", ErrNoActiveConfig, ev.RecipientID)
	}
	if err != nil {
		return fmt.Errorf("resolve tenant config: %w", err)
	}

	dup, err := p.alreadyProcessed(ev.MessageID)
	if err != nil {
		return fmt.Errorf("dedup check: %w", err)
	}
	if dup {
		return fmt.Errorf("%w: message %s", ErrDuplicateEvent, ev.MessageID)
	}

	reply, err := p.generate(ctx, cfg.LlmProvider, cfg.LlmModel, cfg.LlmApiKey, llm.Request{
		Prompt:       ev.Text,
		SystemPrompt: cfg.SystemPrompt,
	})
	if err != nil {
		p.recordFailure(cfg.ID, ev.MessageID, models.MESSAGE_TYPE_DM, models.FAILURE_STAGE_GENERATE, err)
		return fmt.Errorf("generate reply: %w", err)
	}

	// Thread key derived from the participant pair. The platform accepts it
	// as a conversation handle, so no lookup round trip is needed.
	conversationID := ev.SenderID + "_" + ev.RecipientID

	if _, err := p.platform(cfg.IgAccessToken).SendDirectMessage(ctx, conversationID, reply.Text); err != nil {
		p.recordFailure(cfg.ID, ev.MessageID, models.MESSAGE_TYPE_DM, models.FAILURE_STAGE_DISPATCH, err)
		return fmt.Errorf("send dm: %w", err)
	}

	msg := models.ProcessedMessage{
		TenantConfigID:   cfg.ID,
		ExternalEventID:  ev.MessageID,
		MessageType:      models.MESSAGE_TYPE_DM,
		SenderID:         ev.SenderID,
		SenderUsername:   ev.SenderID,
		Content:          ev.Text,
		ConversationID:   conversationID,
		AutoReplySent:    true,
		AutoReplyContent: reply.Text,
		AiModelUsed:      reply.Model,
		ProcessingTimeMs: p.now().Sub(started).Milliseconds(),
	}
	if err := p.db.Create(&msg).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: message %s (insert conflict)", ErrDuplicateEvent, ev.MessageID)
		}
		p.recordFailure(cfg.ID, ev.MessageID, models.MESSAGE_TYPE_DM, models.FAILURE_STAGE_PERSIST, err)
		return fmt.Errorf("persist message: %w", err)
	}

	if err := RecordAnalytics(p.db, cfg.ID, p.today(), models.MESSAGE_TYPE_DM, reply.CostUsd); err != nil {
		p.recordFailure(cfg.ID, ev.MessageID, models.MESSAGE_TYPE_DM, models.FAILURE_STAGE_ANALYTICS, err)
		return fmt.Errorf("update analytics: %w", err)
	}

	return nil
}
