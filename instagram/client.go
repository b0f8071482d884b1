package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	defaultAPIVersion = "v20.0"
	graphBaseURL      = "https://graph.instagram.com"
	facebookBaseURL   = "https://graph.facebook.com"
)

// APIError is a non-2xx Graph API response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e APIError) Error() string {
	return fmt.Sprintf("instagram api error: status=%d body=%s", e.StatusCode, e.Body)
}

// Client is a thin client for the Graph API operations the pipeline needs:
// sending a DM into a conversation and replying to a comment. Tokens are
// per-tenant, so one Client is built per event from the tenant config.
type Client struct {
	AccessToken string
	ApiVersion  string // e.g. v20.0

	// Base URL overrides for tests. Empty means the real Graph hosts.
	GraphBase    string
	FacebookBase string

	httpClient *retryablehttp.Client
}

// NewClient builds a client with retrying transport for transient Graph
// failures. Retries are safe here: Graph message sends are idempotent per
// conversation only at the platform's discretion, but a failed connect never
// reached the platform at all.
func NewClient(accessToken string) *Client {
	rc := retryablehttp.NewClient()
	rc.Logger = nil
	rc.RetryMax = 2
	return &Client{
		AccessToken: accessToken,
		ApiVersion:  defaultAPIVersion,
		httpClient:  rc,
	}
}

// SendResult is the id the platform assigns to an outbound message or reply.
type SendResult struct {
	ID string `json:"id"`
}

// SendDirectMessage posts a text message into a conversation.
func (c *Client) SendDirectMessage(ctx context.Context, conversationID, text string) (*SendResult, error) {
	base := c.FacebookBase
	if base == "" {
		base = facebookBaseURL
	}
	endpoint := fmt.Sprintf("%s/%s/%s/messages", base, c.version(), url.PathEscape(conversationID))
	return c.post(ctx, endpoint, text)
}

// ReplyToComment posts a reply under the given comment.
func (c *Client) ReplyToComment(ctx context.Context, commentID, text string) (*SendResult, error) {
	base := c.GraphBase
	if base == "" {
		base = graphBaseURL
	}
	endpoint := fmt.Sprintf("%s/%s/%s/replies", base, c.version(), url.PathEscape(commentID))
	return c.post(ctx, endpoint, text)
}

// post issues the Graph-style POST with message and token as query params.
func (c *Client) post(ctx context.Context, endpoint, message string) (*SendResult, error) {
	q := url.Values{}
	q.Set("message", message)
	q.Set("access_token", c.AccessToken)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	client := c.httpClient
	if client == nil {
		client = retryablehttp.NewClient()
		client.Logger = nil
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return nil, APIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out SendResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) version() string {
	v := strings.TrimSpace(c.ApiVersion)
	if v == "" {
		v = defaultAPIVersion
	}
	return v
}
