package client

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"

	defaultOpenAIModel = "gpt-4o-mini"
	defaultClaudeModel = "claude-3-5-haiku-latest"
	defaultGeminiModel = "gemini-2.0-flash"

	claudeMaxTokens = 256
)

var ErrNoDescription = errors.New("model returned no description")

// LLMClient turns product photos into search queries using a chat model.
type LLMClient struct {
	ChatModel model.BaseChatModel
	Provider  string
	Model     string
	prompt    string
}

type OpenAIModelOptions struct {
	Model   string
	BaseURL string
}

type ClaudeModelOptions struct {
	Model string
}

type GeminiModelOptions struct {
	Model string
}

func NewOpenAIClient(ctx context.Context, key string, opts OpenAIModelOptions) (*LLMClient, error) {
	name := firstNonEmpty(opts.Model, defaultOpenAIModel)
	m, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  key,
		Model:   name,
		BaseURL: opts.BaseURL,
	})
	if err != nil {
		log.Printf("Error creating OpenAI client: %v", err)
		return nil, err
	}
	return newLLMClient(m, ProviderOpenAI, name), nil
}

func NewClaudeClient(ctx context.Context, key string, opts ClaudeModelOptions) (*LLMClient, error) {
	name := firstNonEmpty(opts.Model, defaultClaudeModel)
	m, err := claude.NewChatModel(ctx, &claude.Config{
		APIKey:    key,
		Model:     name,
		MaxTokens: claudeMaxTokens,
	})
	if err != nil {
		log.Printf("Error creating Claude client: %v", err)
		return nil, err
	}
	return newLLMClient(m, ProviderAnthropic, name), nil
}

func NewGeminiClient(ctx context.Context, key string, opts GeminiModelOptions) (*LLMClient, error) {
	name := firstNonEmpty(opts.Model, defaultGeminiModel)
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	m, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client: gc,
		Model:  name,
	})
	if err != nil {
		log.Printf("Error creating Gemini client: %v", err)
		return nil, err
	}
	return newLLMClient(m, ProviderGemini, name), nil
}

// NewClient builds a client for the named provider.
func NewClient(ctx context.Context, provider, key, modelName string) (*LLMClient, error) {
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("API key for %s is not configured", provider)
	}
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case ProviderOpenAI:
		return NewOpenAIClient(ctx, key, OpenAIModelOptions{Model: modelName})
	case ProviderAnthropic:
		return NewClaudeClient(ctx, key, ClaudeModelOptions{Model: modelName})
	case ProviderGemini:
		return NewGeminiClient(ctx, key, GeminiModelOptions{Model: modelName})
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// NewWithModel wraps an already constructed chat model.
func NewWithModel(m model.BaseChatModel, provider, modelName string) *LLMClient {
	return newLLMClient(m, provider, modelName)
}

func newLLMClient(m model.BaseChatModel, provider, modelName string) *LLMClient {
	return &LLMClient{
		ChatModel: m,
		Provider:  provider,
		Model:     modelName,
		prompt:    loadPrompt("describe_image.txt"),
	}
}

// DescribeImage asks the model for a short product query describing image.
func (c *LLMClient) DescribeImage(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("image is empty")
	}

	msg, err := c.ChatModel.Generate(ctx, []*schema.Message{imageMessage(c.prompt, image)})
	if err != nil {
		return "", fmt.Errorf("%s describe image: %w", c.Provider, err)
	}
	if msg == nil {
		return "", ErrNoDescription
	}
	text := strings.TrimSpace(msg.Content)
	text = strings.Trim(text, "\"'")
	if text == "" {
		return "", ErrNoDescription
	}
	return text, nil
}

func imageMessage(prompt string, image []byte) *schema.Message {
	dataURL := "data:" + http.DetectContentType(image) + ";base64," + base64.StdEncoding.EncodeToString(image)
	return &schema.Message{
		Role: schema.User,
		MultiContent: []schema.ChatMessagePart{
			{Type: schema.ChatMessagePartTypeText, Text: prompt},
			{
				Type: schema.ChatMessagePartTypeImageURL,
				ImageURL: &schema.ChatMessageImageURL{
					URL:    dataURL,
					Detail: schema.ImageURLDetailLow,
				},
			},
		},
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
