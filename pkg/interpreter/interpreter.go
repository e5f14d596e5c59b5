// Package interpreter turns investigator questions into structured
// evidence filters and generates answers over the matched records.
// A remote OpenAI-compatible model does the heavy lifting when a
// token is configured; every failure path downgrades to a local
// keyword rule engine, never to an error the caller has to handle.
package interpreter

import (
	"context"
	"fmt"

	"github.com/caseboard/ufdr/backend/pkg/logger"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// ProviderRules labels interpretations produced by the local rule
// engine instead of a model.
const ProviderRules = "rules"

// DefaultModels is the ordered candidate list tried against the
// router. The first model that returns a parsable filter wins.
var DefaultModels = []string{
	"meta-llama/Llama-3.1-8B-Instruct",
	"Qwen/Qwen2.5-7B-Instruct",
	"mistralai/Mistral-7B-Instruct-v0.3",
}

// Filter is the structured form of a question, the contract both the
// model and the rule engine produce. Types and flags use the canonical
// record vocabulary; entities may carry X digit wildcards.
type Filter struct {
	Types    []string `json:"types,omitempty"`
	Flags    []string `json:"flags,omitempty"`
	AnyFlags []string `json:"anyFlags,omitempty"`
	Entities []string `json:"entities,omitempty"`
	From     string   `json:"from,omitempty"`
	To       string   `json:"to,omitempty"`
	LastDays int      `json:"lastDays,omitempty"`
}

// StrictPair reports whether the question pinned both conversation
// endpoints.
func (f Filter) StrictPair() bool {
	return f.From != "" && f.To != ""
}

// Interpretation is a filter plus its provenance: which provider
// produced it and, on a downgrade, why.
type Interpretation struct {
	Provider string `json:"provider"`
	Note     string `json:"note,omitempty"`
	Filter   Filter `json:"filter"`
}

// Client interprets questions and generates answers. The zero number
// of remote credentials is valid; such a client runs rules-only.
type Client struct {
	chat   *openai.Client
	models []string
}

// Params configures a Client. BaseURL points at any OpenAI-compatible
// chat completions endpoint; an empty APIKey disables the remote path
// entirely.
type Params struct {
	BaseURL string
	APIKey  string
	Models  []string
}

// New builds a Client. With no API key the remote client stays nil and
// every call takes the rule path.
func New(params Params) *Client {
	models := params.Models
	if len(models) == 0 {
		models = DefaultModels
	}
	return &Client{
		chat:   newChatClient(params.BaseURL, params.APIKey),
		models: models,
	}
}

func newChatClient(baseURL, apiKey string) *openai.Client {
	if apiKey == "" {
		return nil
	}
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}
	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)
	return &client
}

// InterpretQuestion maps a question to a filter. Model candidates are
// tried in order; when none succeeds the local rule engine takes over
// and the failure reason travels along as an advisory note.
func (c *Client) InterpretQuestion(ctx context.Context, question string) Interpretation {
	if c.chat == nil {
		return Interpretation{
			Provider: ProviderRules,
			Note:     "no interpreter token configured, applied local rules",
			Filter:   BuildRuleFilter(question),
		}
	}

	var lastErr error
	for _, model := range c.models {
		filter, err := c.interpretRemote(ctx, model, question)
		if err != nil {
			logger.Warn("[Interpreter] Model failed, trying next candidate", "model", model, "err", err)
			lastErr = err
			continue
		}
		return Interpretation{Provider: model, Filter: filter}
	}

	return Interpretation{
		Provider: ProviderRules,
		Note:     fmt.Sprintf("interpreter unavailable (%v), applied local rules", lastErr),
		Filter:   BuildRuleFilter(question),
	}
}

// AnswerQuestion generates a free-text answer from the matched
// evidence context and reports which model produced it, mirroring the
// provenance InterpretQuestion attaches to filters. It returns an
// error when no remote client is available or every candidate fails;
// callers fall back to LocalAnswer.
func (c *Client) AnswerQuestion(ctx context.Context, question string, contextLines []string) (string, string, error) {
	if c.chat == nil {
		return "", "", fmt.Errorf("no answer model configured")
	}

	var lastErr error
	for _, model := range c.models {
		answer, err := c.answerRemote(ctx, model, question, contextLines)
		if err != nil {
			logger.Warn("[Interpreter] Answer model failed, trying next candidate", "model", model, "err", err)
			lastErr = err
			continue
		}
		return answer, model, nil
	}
	return "", "", fmt.Errorf("all answer models failed: %w", lastErr)
}
