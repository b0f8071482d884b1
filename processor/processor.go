package processor

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"directdm/instagram"
	"directdm/llm"
	"directdm/models"

	"github.com/jinzhu/gorm"
)

// Drop signals. These are routing outcomes, not operational failures: the
// event is skipped, a line is logged, and nothing lands in the dead-letter
// log.
var (
	ErrMalformedEvent  = errors.New("malformed event")
	ErrNoActiveConfig  = errors.New("no active automation config")
	ErrDuplicateEvent  = errors.New("event already processed")
	ErrKeywordMismatch = errors.New("comment does not match keywords")
)

// PlatformClient is the outbound surface the handlers dispatch through.
type PlatformClient interface {
	SendDirectMessage(ctx context.Context, conversationID, text string) (*instagram.SendResult, error)
	ReplyToComment(ctx context.Context, commentID, text string) (*instagram.SendResult, error)
}

// GenerateFunc runs one reply generation against the tenant's provider.
type GenerateFunc func(ctx context.Context, provider, model, apiKey string, req llm.Request) (*llm.Response, error)

// PlatformFunc builds a platform client for a tenant's access token.
type PlatformFunc func(accessToken string) PlatformClient

// Processor runs the inbound pipeline. The store handle and both outbound
// gateways are explicit dependencies so tests can swap in fakes.
type Processor struct {
	db       *gorm.DB
	generate GenerateFunc
	platform PlatformFunc
	now      func() time.Time
}

// Option customizes a Processor; used by tests to inject fakes.
type Option func(*Processor)

func WithGenerate(f GenerateFunc) Option {
	return func(p *Processor) { p.generate = f }
}

func WithPlatform(f PlatformFunc) Option {
	return func(p *Processor) { p.platform = f }
}

func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

func New(db *gorm.DB, opts ...Option) *Processor {
	p := &Processor{
		db:       db,
		generate: llm.GenerateReply,
		platform: func(token string) PlatformClient { return instagram.NewClient(token) },
		now:      time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// ProcessPayload handles every event of one delivery sequentially, in payload
// order. Per-event failures never propagate: the webhook already acked the
// delivery, so anything that goes wrong here is logged and dead-lettered.
func (p *Processor) ProcessPayload(ctx context.Context, payload WebhookPayload) {
	for _, ev := range Classify(payload) {
		var err error
		switch {
		case ev.DM != nil:
			err = p.HandleDM(ctx, *ev.DM)
		case ev.Comment != nil:
			err = p.HandleComment(ctx, *ev.Comment)
		}
		if err == nil {
			continue
		}
		if isDrop(err) {
			log.Printf("processor: event dropped: %v", err)
			continue
		}
		log.Printf("processor: event failed: %v", err)
	}
}

func isDrop(err error) bool {
	return errors.Is(err, ErrMalformedEvent) ||
		errors.Is(err, ErrNoActiveConfig) ||
		errors.Is(err, ErrDuplicateEvent) ||
		errors.Is(err, ErrKeywordMismatch)
}

// alreadyProcessed is the dedup fast path: any row with this external id
// means the platform redelivered an event we already handled.
func (p *Processor) alreadyProcessed(externalEventID string) (bool, error) {
	var count int64
	err := p.db.Model(&models.ProcessedMessage{}).
		Where("external_event_id = ?", externalEventID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// isUniqueViolation recognizes a duplicate-key insert across the sqlite3 and
// postgres dialects. The unique index on external_event_id is the
// authoritative dedup under concurrent deliveries.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}

// recordFailure appends to the dead-letter log, best effort.
func (p *Processor) recordFailure(tenantID int64, externalEventID, eventType, stage string, cause error) {
	rec := models.FailureRecord{
		TenantConfigID:  tenantID,
		ExternalEventID: externalEventID,
		EventType:       eventType,
		Stage:           stage,
		Reason:          cause.Error(),
	}
	if err := p.db.Create(&rec).Error; err != nil {
		log.Printf("processor: failed to record failure (stage=%s event=%s): %v", stage, externalEventID, err)
	}
}
