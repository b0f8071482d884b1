package processor

// Webhook payload shape for Instagram Graph webhooks. One delivery carries a
// list of entries; each entry may mix messaging items (DMs) and change items
// (comments, among other fields we don't subscribe to).
type WebhookPayload struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

type WebhookEntry struct {
	ID        string           `json:"id"`
	Time      int64            `json:"time"`
	Messaging []MessagingEvent `json:"messaging,omitempty"`
	Changes   []ChangeEvent    `json:"changes,omitempty"`
}

type MessagingEvent struct {
	Sender struct {
		ID string `json:"id"`
	} `json:"sender"`
	Recipient struct {
		ID string `json:"id"`
	} `json:"recipient"`
	Timestamp int64 `json:"timestamp"`
	Message   *struct {
		Mid  string `json:"mid"`
		Text string `json:"text"`
	} `json:"message,omitempty"`
}

type ChangeEvent struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

type ChangeValue struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	From struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"from"`
	Media struct {
		ID string `json:"id"`
	} `json:"media"`
}

// DMEvent is one classified direct message.
type DMEvent struct {
	SenderID    string
	RecipientID string
	MessageID   string
	Text        string
}

// CommentEvent is one classified comment on a post.
type CommentEvent struct {
	CommentID      string
	Text           string
	SenderID       string
	SenderUsername string
	PostID         string
}

// ClassifiedEvent is either a DM or a comment, never both.
type ClassifiedEvent struct {
	DM      *DMEvent
	Comment *CommentEvent
}

// Classify flattens a delivery into an order-preserving event sequence.
// Messaging items without a message body and changes on fields other than
// "comments" are omitted; field-level validation stays with the handlers.
func Classify(payload WebhookPayload) []ClassifiedEvent {
	var out []ClassifiedEvent

	for _, entry := range payload.Entry {
		for _, m := range entry.Messaging {
			if m.Message == nil {
				continue
			}
			out = append(out, ClassifiedEvent{DM: &DMEvent{
				SenderID:    m.Sender.ID,
				RecipientID: m.Recipient.ID,
				MessageID:   m.Message.Mid,
				Text:        m.Message.Text,
			}})
		}

		for _, change := range entry.Changes {
			if change.Field != "comments" {
				continue
			}
			out = append(out, ClassifiedEvent{Comment: &CommentEvent{
				CommentID:      change.Value.ID,
				Text:           change.Value.Text,
				SenderID:       change.Value.From.ID,
				SenderUsername: change.Value.From.Username,
				PostID:         change.Value.Media.ID,
			}})
		}
	}

	return out
}
