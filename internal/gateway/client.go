// Package gateway talks to the Evolution-style REST gateway that owns the actual WhatsApp sessions.
//
// Every call is normalized into a Result: a non-JSON reply, a JSON error status and a network failure all
// come back as Result.OK == false and are never returned as Go errors.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	// errorSnippetLen bounds the part of a non-JSON body copied into Result.Error.
	errorSnippetLen = 50
	// logSnippetLen bounds the part of a non-JSON body written to the log.
	logSnippetLen = 500
)

// WebhookEvents is the fixed event subscription registered for every webhook.
var WebhookEvents = []string{"MESSAGES_UPSERT", "MESSAGES_UPDATE", "SEND_MESSAGE"}

// Result is the uniform outcome of a gateway call.
type Result struct {
	OK     bool            `json:"ok"`
	Status int             `json:"status,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// ErrorText describes a failed result using the error, the body or the status, in that order.
func (r *Result) ErrorText() string {
	switch {
	case r == nil:
		return ""
	case r.Error != "":
		return r.Error
	case len(r.Data) > 0:
		return string(r.Data)
	case !r.OK:
		return fmt.Sprintf("gateway returned status %d", r.Status)
	default:
		return ""
	}
}

// Client performs calls against the gateway REST API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *zap.Logger
}

// NewClient creates a gateway client. A zero timeout leaves calls bounded only by their context.
func NewClient(baseURL, apiKey string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		log:     log.Named("gateway"),
	}
}

// URL joins the base URL and endpoint with exactly one slash between them.
func (c *Client) URL(endpoint string) string {
	return c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
}

// Do performs a call and normalizes the outcome. body, when non-nil, is sent as JSON.
func (c *Client) Do(ctx context.Context, method, endpoint string, body any) *Result {
	target := c.URL(endpoint)
	log := c.log.With(zap.String("method", method), zap.String("url", target))

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			log.Error("encode request body", zap.Error(err))
			return &Result{Error: fmt.Sprintf("encode request body: %v", err)}
		}
		log.Debug("gateway request body", zap.ByteString("body", payload))
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		log.Error("build gateway request", zap.Error(err))
		return &Result{Error: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Error("gateway network error", zap.Error(err), zap.Duration("dur", time.Since(start)))
		return &Result{Error: err.Error()}
	}
	defer resp.Body.Close()

	log = log.With(zap.Int("status", resp.StatusCode), zap.Duration("dur", time.Since(start)))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("read gateway response", zap.Error(err))
		return &Result{Status: resp.StatusCode, Error: err.Error()}
	}

	if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		text := string(raw)
		log.Error("gateway returned non-JSON", zap.String("body", truncate(text, logSnippetLen)))
		return &Result{
			Status: resp.StatusCode,
			Error:  "Invalid response format: " + truncate(text, errorSnippetLen),
		}
	}

	if !json.Valid(raw) {
		log.Error("gateway returned malformed JSON", zap.String("body", truncate(string(raw), logSnippetLen)))
		return &Result{Status: resp.StatusCode, Error: "Invalid JSON response: " + truncate(string(raw), errorSnippetLen)}
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if ok {
		log.Info("gateway call")
	} else {
		log.Warn("gateway error response", zap.ByteString("body", raw))
	}
	return &Result{OK: ok, Status: resp.StatusCode, Data: raw}
}

// Check probes connectivity by listing instances and returns the raw result.
func (c *Client) Check(ctx context.Context) *Result {
	return c.Do(ctx, http.MethodGet, "/instance/fetchInstances", nil)
}

// FetchInstances lists remote instances. The slice is nil whenever the returned result is not OK.
func (c *Client) FetchInstances(ctx context.Context) ([]RemoteInstance, *Result) {
	res := c.Check(ctx)
	if !res.OK {
		return nil, res
	}
	instances, err := ParseInstances(res.Data)
	if err != nil {
		return nil, &Result{Status: res.Status, Data: res.Data, Error: err.Error()}
	}
	return instances, res
}

// CreateInstance asks the gateway to create a QR-enabled instance.
func (c *Client) CreateInstance(ctx context.Context, name, token string) *Result {
	return c.Do(ctx, http.MethodPost, "/instance/create", map[string]any{
		"instanceName": name,
		"token":        token,
		"qrcode":       true,
	})
}

// SetWebhook registers webhookURL for the instance with the fixed WebhookEvents subscription.
func (c *Client) SetWebhook(ctx context.Context, name, webhookURL string) *Result {
	return c.Do(ctx, http.MethodPost, "/webhook/set/"+url.PathEscape(name), map[string]any{
		"webhook":         webhookURL,
		"webhookByEvents": false,
		"events":          WebhookEvents,
	})
}

// Connect requests a pairing QR code for the instance.
func (c *Client) Connect(ctx context.Context, name string) *Result {
	return c.Do(ctx, http.MethodGet, "/instance/connect/"+url.PathEscape(name), nil)
}

// Restart asks the gateway to restart the instance session.
func (c *Client) Restart(ctx context.Context, name string) *Result {
	return c.Do(ctx, http.MethodPost, "/instance/restart/"+url.PathEscape(name), nil)
}

// Logout ends the paired WhatsApp session of the instance.
func (c *Client) Logout(ctx context.Context, name string) *Result {
	return c.Do(ctx, http.MethodDelete, "/instance/logout/"+url.PathEscape(name), nil)
}

// Delete removes the instance from the gateway.
func (c *Client) Delete(ctx context.Context, name string) *Result {
	return c.Do(ctx, http.MethodDelete, "/instance/delete/"+url.PathEscape(name), nil)
}

// IsAlreadyExists reports whether a failed result means the instance name is already taken remotely.
func IsAlreadyExists(res *Result) bool {
	if res == nil || res.OK {
		return false
	}
	text := strings.ToLower(res.ErrorText())
	return strings.Contains(text, "already exists") || strings.Contains(text, "already in use")
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
