// Package moderation calls the external content classifier and turns its
// answer into a verdict.
package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"moralverse/internal/middleware"
	"moralverse/internal/models"
	"moralverse/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const defaultBaseURL = "https://openrouter.ai/api/v1"

// systemPrompt instructs the classifier to answer with strict JSON only.
// The classifier judges whether the text is positive, kind and constructive.
const systemPrompt = `You are a strict content moderator for a positivity-focused social platform.
Judge whether the user's text is positive, kind and constructive.
Respond with ONLY a JSON object, no prose, no markdown fences, in exactly this shape:
{"accepted": true|false, "reason": "<short explanation>"}
Reject hateful, harassing, violent, discouraging or negative content.`

// Config holds classifier connection settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient creates a classifier client from the given config.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Review classifies the given text. A returned verdict with Accepted=false
// is a successful classification, not an error; errors mean the classifier
// could not produce a verdict at all.
func (c *Client) Review(ctx context.Context, text string) (models.Verdict, error) {
	span, ctx := observability.NewSpan(ctx, "moderation.review",
		trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.AddAttributes(attribute.String("moderation.model", c.model))

	start := time.Now()
	verdict, err := c.review(ctx, text)
	observability.ModerationLatency.Observe(time.Since(start).Seconds())

	switch {
	case err == nil && verdict.Accepted:
		middleware.ModerationVerdicts.WithLabelValues("accepted").Inc()
	case err == nil:
		middleware.ModerationVerdicts.WithLabelValues("rejected").Inc()
	default:
		span.SetError(err)
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "MODERATION_PARSE_ERROR" {
			middleware.ModerationVerdicts.WithLabelValues("parse_error").Inc()
		} else {
			middleware.ModerationVerdicts.WithLabelValues("unavailable").Inc()
		}
	}
	return verdict, err
}

func (c *Client) review(ctx context.Context, text string) (models.Verdict, error) {
	payload, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
	})
	if err != nil {
		return models.Verdict{}, models.NewInternalError(err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return models.Verdict{}, models.NewInternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.Verdict{}, models.NewModerationUnavailableError(0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return models.Verdict{}, models.NewModerationUnavailableError(resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.Verdict{}, models.NewModerationUnavailableError(resp.StatusCode,
			fmt.Errorf("classifier returned status %d", resp.StatusCode))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return models.Verdict{}, models.NewModerationParseError(fmt.Errorf("invalid response envelope: %w", err))
	}
	if len(parsed.Choices) == 0 {
		return models.Verdict{}, models.NewModerationParseError(fmt.Errorf("response contained no choices"))
	}

	return ParseVerdict(parsed.Choices[0].Message.Content)
}

// ParseVerdict extracts the first balanced JSON object from the classifier's
// answer and decodes it. Classifier replies often wrap the object in prose or
// markdown fences, so everything outside the braces is ignored.
func ParseVerdict(content string) (models.Verdict, error) {
	raw, ok := firstJSONObject(content)
	if !ok {
		return models.Verdict{}, models.NewModerationParseError(
			fmt.Errorf("no JSON object in classifier reply"))
	}

	var verdict models.Verdict
	if err := json.Unmarshal([]byte(raw), &verdict); err != nil {
		return models.Verdict{}, models.NewModerationParseError(
			fmt.Errorf("malformed verdict object: %w", err))
	}
	return verdict, nil
}

// firstJSONObject scans for the first balanced {...} substring, tracking
// string literals and escapes so braces inside strings don't count.
func firstJSONObject(s string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}
	return "", false
}
