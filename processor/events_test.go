package processor

import (
	"encoding/json"
	"testing"
)

func TestClassify_MixedPayloadKeepsOrder(t *testing.T) {
	raw := `{
		"object": "instagram",
		"entry": [
			{
				"id": "acct1",
				"time": 1700000000,
				"messaging": [
					{"sender": {"id": "u1"}, "recipient": {"id": "acct1"}, "message": {"mid": "m1", "text": "hi"}},
					{"sender": {"id": "u2"}, "recipient": {"id": "acct1"}}
				],
				"changes": [
					{"field": "comments", "value": {"id": "c1", "text": "nice", "from": {"id": "u3", "username": "ann"}, "media": {"id": "p1"}}},
					{"field": "mentions", "value": {"id": "x1"}}
				]
			},
			{
				"id": "acct2",
				"messaging": [
					{"sender": {"id": "u4"}, "recipient": {"id": "acct2"}, "message": {"mid": "m2", "text": "yo"}}
				]
			}
		]
	}`

	var payload WebhookPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}

	events := Classify(payload)
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}

	if events[0].DM == nil || events[0].DM.MessageID != "m1" {
		t.Errorf("event 0 = %+v, want DM m1", events[0])
	}
	if events[1].Comment == nil || events[1].Comment.CommentID != "c1" {
		t.Errorf("event 1 = %+v, want comment c1", events[1])
	}
	if events[1].Comment != nil {
		if events[1].Comment.PostID != "p1" {
			t.Errorf("comment post id = %q, want p1", events[1].Comment.PostID)
		}
		if events[1].Comment.SenderUsername != "ann" {
			t.Errorf("comment username = %q, want ann", events[1].Comment.SenderUsername)
		}
	}
	if events[2].DM == nil || events[2].DM.MessageID != "m2" {
		t.Errorf("event 2 = %+v, want DM m2", events[2])
	}
}

func TestClassify_EmptyAndIrrelevantEntries(t *testing.T) {
	payload := WebhookPayload{
		Object: "instagram",
		Entry: []WebhookEntry{
			{ID: "acct1"},
			{ID: "acct2", Changes: []ChangeEvent{{Field: "story_insights"}}},
		},
	}

	if events := Classify(payload); len(events) != 0 {
		t.Errorf("got %d events, want 0", len(events))
	}
}
