package interpreter

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
)

const interpretSystemPrompt = `You translate investigator questions about forensic phone
extractions into a JSON filter. Respond with a single JSON object and nothing else.
Fields (all optional): "types" (array of "chat","call","contact"), "flags" (array of
"CRYPTO","FOREIGN","LINK","LONG_CALL","PHONE_IN_TEXT" that must all be present),
"anyFlags" (array of the same vocabulary, any one sufficient), "entities" (phone numbers
or @handles mentioned, X may stand for an unknown digit), "from" and "to" (set both only
when the question pins the exact direction between two participants), "lastDays"
(integer when the question limits to a recent period, 7 for "last week").`

const answerSystemPrompt = `You are an assistant for a digital forensics investigator.
Answer the question using only the evidence records provided. Be concise and factual,
cite participants and counts from the records, and say so plainly when the evidence
does not answer the question.`

const answerContextLimit = 40

func (c *Client) interpretRemote(ctx context.Context, model, question string) (Filter, error) {
	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "evidence_filter",
		Description: openai.String("Structured filter over forensic evidence records"),
		Schema:      GenerateSchema(Filter{}),
		Strict:      openai.Bool(true),
	}

	body := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: schemaParam,
			},
		},
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(interpretSystemPrompt),
			openai.UserMessage(question),
		},
		Temperature: openai.Float(0.1),
	}

	response, err := c.chat.Chat.Completions.New(ctx, body)
	if err != nil {
		return Filter{}, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(response.Choices) == 0 {
		return Filter{}, fmt.Errorf("chat completion returned no choices")
	}

	var filter Filter
	if err := UnmarshalFlexible(response.Choices[0].Message.Content, &filter); err != nil {
		return Filter{}, fmt.Errorf("unparsable filter from model: %w", err)
	}
	return canonicalizeFilter(filter), nil
}

func (c *Client) answerRemote(ctx context.Context, model, question string, contextLines []string) (string, error) {
	if len(contextLines) > answerContextLimit {
		contextLines = contextLines[:answerContextLimit]
	}

	prompt := fmt.Sprintf("Evidence records:\n%s\n\nQuestion: %s",
		strings.Join(contextLines, "\n"), question)

	body := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(answerSystemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0.3),
	}

	response, err := c.chat.Chat.Completions.New(ctx, body)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	answer := strings.TrimSpace(response.Choices[0].Message.Content)
	if answer == "" {
		return "", fmt.Errorf("empty answer from model")
	}
	return answer, nil
}

// canonicalizeFilter normalizes model output into the vocabulary the
// store understands. Unknown types and flags are dropped rather than
// failed; a partially useful filter beats a downgrade.
func canonicalizeFilter(filter Filter) Filter {
	filter.Types = keepKnown(filter.Types, knownTypes, strings.ToLower)
	filter.Flags = keepKnown(filter.Flags, knownFlags, strings.ToUpper)
	filter.AnyFlags = keepKnown(filter.AnyFlags, knownFlags, strings.ToUpper)
	if filter.LastDays < 0 {
		filter.LastDays = 0
	}
	filter.From = strings.TrimSpace(filter.From)
	filter.To = strings.TrimSpace(filter.To)

	entities := make([]string, 0, len(filter.Entities))
	for _, entity := range filter.Entities {
		if trimmed := strings.TrimSpace(entity); trimmed != "" {
			entities = append(entities, trimmed)
		}
	}
	filter.Entities = entities
	return filter
}

func keepKnown(values []string, known map[string]bool, canon func(string) string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = canon(strings.TrimSpace(value))
		if known[value] && !containsString(out, value) {
			out = append(out, value)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func containsString(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
