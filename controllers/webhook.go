package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"directdm/middleware"
	"directdm/processor"

	"github.com/gin-gonic/gin"
)

// Webhook serves the Instagram webhook endpoint: the GET verification
// handshake and the POST event deliveries.
type Webhook struct {
	VerifyToken string
	AppSecret   string
	Processor   *processor.Processor
	Limiter     *middleware.KeyLimiter
}

// VerifySignature validates the X-Hub-Signature-256 header against the exact
// raw request bytes. The HMAC must be computed over the bytes as received;
// re-serializing the JSON can change the layout and break verification.
func VerifySignature(rawBody []byte, signatureHeader, secret string) bool {
	if secret == "" {
		return false
	}

	sig := strings.TrimSpace(signatureHeader)
	if !strings.HasPrefix(sig, "sha256=") {
		return false
	}
	provided, err := hex.DecodeString(strings.TrimPrefix(sig, "sha256="))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(rawBody)
	expected := mac.Sum(nil)

	return hmac.Equal(provided, expected)
}

// Verify handles the subscription handshake.
//
// GET /api/webhooks/instagram?hub.mode=subscribe&hub.verify_token=...&hub.challenge=...
func (w *Webhook) Verify(c *gin.Context) {
	if w.VerifyToken == "" {
		RespondError(c, "webhook verify token not configured", http.StatusInternalServerError)
		return
	}

	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && subtle.ConstantTimeCompare([]byte(token), []byte(w.VerifyToken)) == 1 {
		c.String(http.StatusOK, "%s", challenge)
		return
	}

	RespondError(c, "forbidden", http.StatusForbidden)
}

// Update handles an event delivery.
//
// POST /api/webhooks/instagram
// The ack is written before processing starts: the platform only needs the
// 200, and per-event failures must never turn into a redelivery storm.
func (w *Webhook) Update(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		RespondError(c, "failed to read body", http.StatusBadRequest)
		return
	}

	if !VerifySignature(raw, c.GetHeader("X-Hub-Signature-256"), w.AppSecret) {
		log.Printf("webhook: invalid signature")
		RespondError(c, "invalid signature", http.StatusForbidden)
		return
	}

	var payload processor.WebhookPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		RespondError(c, "invalid json", http.StatusBadRequest)
		return
	}

	if w.Limiter != nil && !w.allowed(payload) {
		// Over-limit deliveries are still acked; refusing the ack would only
		// make the platform redeliver them.
		log.Printf("webhook: rate limit exceeded, delivery dropped")
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})

	w.Processor.ProcessPayload(c.Request.Context(), payload)
}

// allowed checks the per-account rate limit against every entry's account id.
func (w *Webhook) allowed(payload processor.WebhookPayload) bool {
	for _, entry := range payload.Entry {
		if !w.Limiter.Allow(entry.ID) {
			return false
		}
	}
	return true
}
