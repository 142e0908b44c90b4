// Package zeroshot scores article text against a set of candidate
// labels using the Anthropic API. It is transport only: the caller owns
// the labels, thresholds, and any fallback behavior.
package zeroshot

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultModel = "claude-haiku-4-5-20251001"

// Config holds connection settings for the zero-shot classifier.
type Config struct {
	APIKey string
	Model  string
	// RatePerSec caps outgoing requests. Defaults to 2.
	RatePerSec float64
}

// LabelScore is one label's relevance to the scored text, in [0, 1].
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classifier ranks text against candidate labels via the messages API.
type Classifier struct {
	client  sdk.Client
	model   string
	limiter *rate.Limiter
}

// New creates a Classifier. Extra request options are forwarded to the
// SDK client, which is how tests point it at a local server.
func New(cfg Config, opts ...option.RequestOption) (*Classifier, error) {
	if cfg.APIKey == "" {
		return nil, eris.New("zeroshot: api key required")
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	rps := cfg.RatePerSec
	if rps <= 0 {
		rps = 2
	}

	opts = append([]option.RequestOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	return &Classifier{
		client:  sdk.NewClient(opts...),
		model:   model,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}, nil
}

const systemPrompt = `You score how well a news article matches candidate category descriptions.
Respond with only a JSON array, one object per candidate label:
[{"label": "<label exactly as given>", "score": <0.0-1.0>}]
Score every label. Do not add commentary or code fences.`

// ClassifyZeroShot scores text against each label. The returned slice
// contains only labels that were in the request, scores clamped to
// [0, 1], in the order the model ranked them.
func (c *Classifier) ClassifyZeroShot(ctx context.Context, text string, labels []string) ([]LabelScore, error) {
	if len(labels) == 0 {
		return nil, eris.New("zeroshot: no labels")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "zeroshot: rate limit wait")
	}

	var prompt strings.Builder
	prompt.WriteString("Candidate labels:\n")
	for _, l := range labels {
		fmt.Fprintf(&prompt, "- %s\n", l)
	}
	prompt.WriteString("\nArticle text:\n")
	prompt.WriteString(text)

	msg, err := c.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:       sdk.Model(c.model),
		MaxTokens:   1024,
		Temperature: sdk.Float(0),
		System:      []sdk.TextBlockParam{{Text: systemPrompt}},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt.String())),
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "zeroshot: create message")
	}

	raw := firstText(msg)
	if raw == "" {
		return nil, eris.New("zeroshot: empty response")
	}

	scores, err := parseScores(raw, labels)
	if err != nil {
		return nil, err
	}

	zap.L().Debug("zeroshot: scored labels",
		zap.Int("labels", len(labels)),
		zap.Int("scored", len(scores)),
		zap.Int64("input_tokens", msg.Usage.InputTokens),
		zap.Int64("output_tokens", msg.Usage.OutputTokens),
	)
	return scores, nil
}

func firstText(msg *sdk.Message) string {
	for _, b := range msg.Content {
		if b.Type == "text" {
			return b.Text
		}
	}
	return ""
}

// parseScores unmarshals the model output, tolerating stray code
// fences, and drops labels the request never asked about.
func parseScores(raw string, labels []string) ([]LabelScore, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var scores []LabelScore
	if err := json.Unmarshal([]byte(raw), &scores); err != nil {
		return nil, eris.Wrap(err, "zeroshot: parse response")
	}

	known := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		known[l] = struct{}{}
	}

	out := make([]LabelScore, 0, len(scores))
	for _, s := range scores {
		if _, ok := known[s.Label]; !ok {
			continue
		}
		if s.Score < 0 {
			s.Score = 0
		}
		if s.Score > 1 {
			s.Score = 1
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, eris.New("zeroshot: no usable scores in response")
	}
	return out, nil
}
