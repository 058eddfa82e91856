package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	jsonrepair "github.com/kaptinlin/jsonrepair"
	"github.com/sashabaranov/go-openai"
)

// Translator turns a question into a Cypher query.
type Translator interface {
	Translate(ctx context.Context, question string, history []Message) (string, error)
}

// Answerer phrases query results as a short answer.
type Answerer interface {
	Answer(ctx context.Context, question, cypher string, rows []map[string]any) (string, error)
}

// DefaultHistoryTurns is how many prior messages are sent with a question.
const DefaultHistoryTurns = 10

// OpenAIConfig configures an OpenAITranslator.
type OpenAIConfig struct {
	Model       string
	BaseURL     string
	Temperature float32
	MaxTokens   int
	// Timeout bounds each completion request. Zero means no extra bound.
	Timeout time.Duration
	// HistoryTurns caps the prior messages sent. Defaults to DefaultHistoryTurns.
	HistoryTurns int
}

// OpenAITranslator translates questions with any OpenAI-compatible chat
// completion endpoint, including Gemini's.
type OpenAITranslator struct {
	client *openai.Client
	config OpenAIConfig
}

// NewOpenAITranslator creates a translator.
// Supports OpenAI-compatible services through custom BaseURL configuration.
func NewOpenAITranslator(apiKey string, config OpenAIConfig) (*OpenAITranslator, error) {
	var client *openai.Client

	if config.BaseURL != "" {
		if err := validateBaseURL(config.BaseURL); err != nil {
			return nil, fmt.Errorf("invalid base URL: %w", err)
		}

		// Some local services don't require authentication
		if apiKey == "" {
			apiKey = "dummy-key"
		}

		clientConfig := openai.DefaultConfig(apiKey)
		clientConfig.BaseURL = strings.TrimSuffix(config.BaseURL, "/")
		if !hasAPIPath(config.BaseURL) {
			clientConfig.BaseURL += "/v1"
		}
		client = openai.NewClientWithConfig(clientConfig)
	} else {
		client = openai.NewClient(apiKey)
	}

	if config.Model == "" {
		config.Model = openai.GPT4oMini
	}
	if config.HistoryTurns <= 0 {
		config.HistoryTurns = DefaultHistoryTurns
	}

	return &OpenAITranslator{client: client, config: config}, nil
}

// Translate asks the model for {"cypher": "..."} and extracts the query.
func (t *OpenAITranslator) Translate(ctx context.Context, question string, history []Message) (string, error) {
	messages := []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleSystem, Content: SchemaInstruction}}

	if len(history) > t.config.HistoryTurns {
		history = history[len(history)-t.config.HistoryTurns:]
	}
	for _, m := range history {
		content := m.Content
		if m.Role == RoleAssistant && m.Cypher != "" {
			content = fmt.Sprintf("%s\n(cypher: %s)", content, m.Cypher)
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: string(m.Role), Content: content})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: question})

	req := t.request(messages)
	req.ResponseFormat = &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONObject,
	}

	content, err := t.complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("cypher translation failed: %w", err)
	}
	return ParseCypher(content)
}

// Answer asks the model to phrase the rows as an answer to question.
func (t *OpenAITranslator) Answer(ctx context.Context, question, cypher string, rows []map[string]any) (string, error) {
	data, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("encoding rows: %w", err)
	}

	req := t.request([]openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: answerInstruction},
		{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Question: %s\nCypher: %s\nResults: %s", question, cypher, data)},
	})

	content, err := t.complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("answer generation failed: %w", err)
	}
	return strings.TrimSpace(content), nil
}

func (t *OpenAITranslator) request(messages []openai.ChatCompletionMessage) openai.ChatCompletionRequest {
	req := openai.ChatCompletionRequest{
		Model:       t.config.Model,
		Messages:    messages,
		Temperature: t.config.Temperature,
	}
	if t.config.MaxTokens > 0 {
		req.MaxTokens = t.config.MaxTokens
	}
	return req
}

func (t *OpenAITranslator) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	if t.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.config.Timeout)
		defer cancel()
	}

	resp, err := t.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from %s", t.config.Model)
	}
	return resp.Choices[0].Message.Content, nil
}

var (
	fencePattern = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)```")
	thinkPattern = regexp.MustCompile(`(?s)<think>.*?</think>`)
)

// ParseCypher extracts a query from a model reply. It accepts
// {"cypher": "..."} (repairing malformed JSON), fenced code blocks and bare
// Cypher.
func ParseCypher(content string) (string, error) {
	s := strings.TrimSpace(thinkPattern.ReplaceAllString(content, ""))
	if m := fencePattern.FindStringSubmatch(s); m != nil {
		s = strings.TrimSpace(m[1])
	}

	if strings.HasPrefix(s, "{") {
		repaired, err := jsonrepair.JSONRepair(s)
		if err != nil {
			return "", fmt.Errorf("unparseable translation %q: %w", s, err)
		}
		var out struct {
			Cypher string `json:"cypher"`
			Query  string `json:"query"`
		}
		if err := json.Unmarshal([]byte(repaired), &out); err != nil {
			return "", fmt.Errorf("unparseable translation %q: %w", s, err)
		}
		s = out.Cypher
		if s == "" {
			s = out.Query
		}
	}

	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), ";"))
	if s == "" {
		return "", ErrEmptyTranslation
	}
	return s, nil
}

// validateBaseURL validates the base URL format.
func validateBaseURL(baseURL string) error {
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid baseURL format: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("baseURL must use http:// or https:// scheme")
	}
	return nil
}

// hasAPIPath reports whether the base URL already carries a path, as
// "https://host/v1" or Gemini's "/v1beta/openai/" do.
func hasAPIPath(baseURL string) bool {
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return false
	}
	return strings.Trim(parsedURL.Path, "/") != ""
}
