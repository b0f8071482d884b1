package processor

import (
	"context"
	"errors"
	"testing"

	"directdm/models"

	"github.com/jinzhu/gorm"
)

func activeCommentTenant() models.TenantConfig {
	return models.TenantConfig{
		IgAccountID:             "acct1",
		IgAccessToken:           "token",
		CommentAutoReplyEnabled: true,
		LlmProvider:             models.LLM_PROVIDER_CLAUDE,
		LlmModel:                "claude-3-5-haiku-20241022",
		LlmApiKey:               "key",
	}
}

func seedRule(t *testing.T, db *gorm.DB, tenantID int64, keywords []string, replyToAll bool) models.PostRule {
	t.Helper()
	rule := models.PostRule{
		TenantConfigID:     tenantID,
		PostID:             "p1",
		IsEnabled:          true,
		ReplyToAllComments: replyToAll,
	}
	rule.SetKeywords(keywords)
	if err := db.Create(&rule).Error; err != nil {
		t.Fatalf("seed post rule: %v", err)
	}
	return rule
}

func TestHandleComment_KeywordMatchReplies(t *testing.T) {
	p, db, gen, plat := testProcessor(t)
	cfg := seedTenant(t, db, activeCommentTenant())
	seedRule(t, db, cfg.ID, []string{"price"}, false)

	ev := CommentEvent{CommentID: "c1", Text: "what's the PRICE?", SenderID: "u1", SenderUsername: "ann", PostID: "p1"}
	if err := p.HandleComment(context.Background(), ev); err != nil {
		t.Fatalf("HandleComment: %v", err)
	}

	if gen.calls != 1 {
		t.Errorf("generate calls = %d, want 1", gen.calls)
	}
	if plat.replyCalls != 1 || plat.lastComment != "c1" {
		t.Errorf("reply calls = %d (last=%q), want 1 to c1", plat.replyCalls, plat.lastComment)
	}

	var msg models.ProcessedMessage
	if err := db.Where("external_event_id = ?", "c1").First(&msg).Error; err != nil {
		t.Fatalf("load processed message: %v", err)
	}
	if msg.MessageType != models.MESSAGE_TYPE_COMMENT || !msg.AutoReplySent {
		t.Errorf("message = %+v, want replied comment", msg)
	}
	if msg.PostID != "p1" || msg.CommentID != "c1" || msg.SenderUsername != "ann" {
		t.Errorf("message fields = post:%q comment:%q user:%q", msg.PostID, msg.CommentID, msg.SenderUsername)
	}

	var day models.DailyAnalytics
	if err := db.Where("tenant_config_id = ?", cfg.ID).First(&day).Error; err != nil {
		t.Fatalf("load analytics: %v", err)
	}
	if day.CommentsReceived != 1 || day.CommentsAutoReplied != 1 || day.AiApiCalls != 1 {
		t.Errorf("analytics = %+v, want comment counters at 1", day)
	}
	if day.DmReceived != 0 {
		t.Errorf("dm_received = %d, want 0", day.DmReceived)
	}
}

func TestHandleComment_KeywordMismatchDrops(t *testing.T) {
	p, db, gen, plat := testProcessor(t)
	cfg := seedTenant(t, db, activeCommentTenant())
	seedRule(t, db, cfg.ID, []string{"price", "ship"}, false)

	ev := CommentEvent{CommentID: "c1", Text: "lovely photo", SenderID: "u1", PostID: "p1"}
	if err := p.HandleComment(context.Background(), ev); !errors.Is(err, ErrKeywordMismatch) {
		t.Fatalf("err = %v, want ErrKeywordMismatch", err)
	}

	if gen.calls != 0 || plat.replyCalls != 0 {
		t.Errorf("generate=%d reply=%d, want 0/0", gen.calls, plat.replyCalls)
	}
	if n := countRows(t, db, &models.ProcessedMessage{}); n != 0 {
		t.Errorf("processed messages = %d, want 0", n)
	}
}

func TestHandleComment_ReplyToAllSkipsKeywordGate(t *testing.T) {
	p, db, _, plat := testProcessor(t)
	cfg := seedTenant(t, db, activeCommentTenant())
	seedRule(t, db, cfg.ID, []string{"price"}, true)

	ev := CommentEvent{CommentID: "c1", Text: "lovely photo", SenderID: "u1", PostID: "p1"}
	if err := p.HandleComment(context.Background(), ev); err != nil {
		t.Fatalf("HandleComment: %v", err)
	}
	if plat.replyCalls != 1 {
		t.Errorf("reply calls = %d, want 1", plat.replyCalls)
	}
}

func TestHandleComment_NoRuleDrops(t *testing.T) {
	p, db, _, plat := testProcessor(t)
	seedTenant(t, db, activeCommentTenant())
	// no post rule at all: automation is off for this post

	ev := CommentEvent{CommentID: "c1", Text: "price?", SenderID: "u1", PostID: "p1"}
	if err := p.HandleComment(context.Background(), ev); !errors.Is(err, ErrNoActiveConfig) {
		t.Fatalf("err = %v, want ErrNoActiveConfig", err)
	}
	if plat.replyCalls != 0 {
		t.Errorf("reply calls = %d, want 0", plat.replyCalls)
	}
	if n := countRows(t, db, &models.ProcessedMessage{}); n != 0 {
		t.Errorf("processed messages = %d, want 0", n)
	}
}

func TestHandleComment_DisabledRuleDrops(t *testing.T) {
	p, db, _, plat := testProcessor(t)
	cfg := seedTenant(t, db, activeCommentTenant())

	rule := models.PostRule{TenantConfigID: cfg.ID, PostID: "p1", IsEnabled: false, ReplyToAllComments: true}
	if err := db.Create(&rule).Error; err != nil {
		t.Fatalf("seed disabled rule: %v", err)
	}

	ev := CommentEvent{CommentID: "c1", Text: "price?", SenderID: "u1", PostID: "p1"}
	if err := p.HandleComment(context.Background(), ev); !errors.Is(err, ErrNoActiveConfig) {
		t.Fatalf("err = %v, want ErrNoActiveConfig", err)
	}
	if plat.replyCalls != 0 {
		t.Errorf("reply calls = %d, want 0", plat.replyCalls)
	}
}

func TestHandleComment_TenantCommentRepliesDisabledDrops(t *testing.T) {
	p, db, _, plat := testProcessor(t)

	cfg := activeCommentTenant()
	cfg.CommentAutoReplyEnabled = false
	seeded := seedTenant(t, db, cfg)
	seedRule(t, db, seeded.ID, nil, true)

	ev := CommentEvent{CommentID: "c1", Text: "price?", SenderID: "u1", PostID: "p1"}
	if err := p.HandleComment(context.Background(), ev); !errors.Is(err, ErrNoActiveConfig) {
		t.Fatalf("err = %v, want ErrNoActiveConfig", err)
	}
	if plat.replyCalls != 0 {
		t.Errorf("reply calls = %d, want 0", plat.replyCalls)
	}
}

func TestHandleComment_DedupSecondDeliveryDrops(t *testing.T) {
	p, db, _, plat := testProcessor(t)
	cfg := seedTenant(t, db, activeCommentTenant())
	seedRule(t, db, cfg.ID, nil, true)

	ev := CommentEvent{CommentID: "c1", Text: "hello there", SenderID: "u1", PostID: "p1"}
	if err := p.HandleComment(context.Background(), ev); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	if err := p.HandleComment(context.Background(), ev); !errors.Is(err, ErrDuplicateEvent) {
		t.Fatalf("second delivery err = %v, want ErrDuplicateEvent", err)
	}

	if n := countRows(t, db, &models.ProcessedMessage{}); n != 1 {
		t.Errorf("processed messages = %d, want 1", n)
	}
	if plat.replyCalls != 1 {
		t.Errorf("reply calls = %d, want 1", plat.replyCalls)
	}
}
