package processor

import (
	"context"
	"errors"
	"testing"

	dbpkg "directdm/db"
	"directdm/instagram"
	"directdm/llm"
	"directdm/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// one connection so every query sees the same in-memory database
	db.DB().SetMaxOpenConns(1)
	db.LogMode(false)
	dbpkg.AutoMigrate(db)

	t.Cleanup(func() { _ = db.Close() })
	return db
}

type stubPlatform struct {
	dmCalls     int
	replyCalls  int
	lastThread  string
	lastComment string
	lastText    string
	sendErr     error
}

func (s *stubPlatform) SendDirectMessage(ctx context.Context, conversationID, text string) (*instagram.SendResult, error) {
	s.dmCalls++
	s.lastThread = conversationID
	s.lastText = text
	if s.sendErr != nil {
		return nil, s.sendErr
	}
	return &instagram.SendResult{ID: "out1"}, nil
}

func (s *stubPlatform) ReplyToComment(ctx context.Context, commentID, text string) (*instagram.SendResult, error) {
	s.replyCalls++
	s.lastComment = commentID
	s.lastText = text
	if s.sendErr != nil {
		return nil, s.sendErr
	}
	return &instagram.SendResult{ID: "out2"}, nil
}

type stubGenerator struct {
	calls int
	text  string
	cost  float64
	err   error
}

func (s *stubGenerator) generate(ctx context.Context, provider, model, apiKey string, req llm.Request) (*llm.Response, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &llm.Response{
		Text:         s.text,
		InputTokens:  12,
		OutputTokens: 24,
		CostUsd:      s.cost,
		Model:        model,
		Provider:     provider,
	}, nil
}

// testProcessor wires a processor over an in-memory store with fake gateways.
func testProcessor(t *testing.T) (*Processor, *gorm.DB, *stubGenerator, *stubPlatform) {
	t.Helper()

	db := testDB(t)
	gen := &stubGenerator{text: "thanks for reaching out!"}
	plat := &stubPlatform{}
	p := New(db,
		WithGenerate(gen.generate),
		WithPlatform(func(token string) PlatformClient { return plat }),
	)
	return p, db, gen, plat
}

func seedTenant(t *testing.T, db *gorm.DB, cfg models.TenantConfig) models.TenantConfig {
	t.Helper()
	if err := db.Create(&cfg).Error; err != nil {
		t.Fatalf("seed tenant config: %v", err)
	}
	return cfg
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sqlite message", errors.New("UNIQUE constraint failed: processed_messages.external_event_id"), true},
		{"postgres message", errors.New(`pq: duplicate key value violates unique constraint "uix_processed_messages_external_event_id"`), true},
		{"other error", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUniqueViolation(tt.err); got != tt.want {
				t.Errorf("isUniqueViolation(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
