package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/horseradish/comparebot/internal/config"
	"github.com/horseradish/comparebot/pkg/logger"
	"github.com/ollama/ollama/api"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// AIService implements Generator against the configured LLM provider.
// Every call runs under a timeout; the generator is a hard dependency
// boundary and a hung call must not pin the request forever.
type AIService struct {
	cfg *config.LLMConfig
}

func NewAIService(cfg *config.LLMConfig) *AIService {
	return &AIService{cfg: cfg}
}

const systemPrompt = "You are an expert business analyst. Analyze weekly reports and provide clear, actionable insights."

// Generate dispatches to the provider-specific call based on config.
func (s *AIService) Generate(ctx context.Context, prompt string) (string, error) {
	timeout := time.Duration(s.cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	logger.Infof("[AI] Using provider: %s, model: %s", s.cfg.Provider, s.cfg.Model)

	switch s.cfg.Provider {
	case "anthropic":
		return s.callAnthropic(ctx, prompt)
	case "gemini":
		return s.callGemini(ctx, prompt)
	case "ollama":
		return s.callOllama(ctx, prompt)
	case "azure":
		return s.callAzure(ctx, prompt)
	default:
		// openai and other OpenAI-compatible services
		return s.callOpenAI(ctx, prompt)
	}
}

// callOpenAI handles OpenAI and OpenAI-compatible APIs (including custom endpoints)
func (s *AIService) callOpenAI(ctx context.Context, prompt string) (string, error) {
	clientConfig := openai.DefaultConfig(s.cfg.APIKey)
	if s.cfg.BaseURL != "" {
		clientConfig.BaseURL = s.cfg.BaseURL
	}
	client := openai.NewClientWithConfig(clientConfig)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.temperature(),
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	content := resp.Choices[0].Message.Content
	logger.Infof("[AI] OpenAI response length: %d chars", len(content))
	return content, nil
}

// callAzure handles Azure OpenAI, where Model is the deployment name and
// BaseURL must be https://{resource-name}.openai.azure.com
func (s *AIService) callAzure(ctx context.Context, prompt string) (string, error) {
	clientConfig := openai.DefaultAzureConfig(s.cfg.APIKey, s.cfg.BaseURL)
	client := openai.NewClientWithConfig(clientConfig)

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.temperature(),
	})
	if err != nil {
		return "", fmt.Errorf("Azure OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from Azure OpenAI")
	}

	return resp.Choices[0].Message.Content, nil
}

// callAnthropic handles the Anthropic API using the native SDK
func (s *AIService) callAnthropic(ctx context.Context, prompt string) (string, error) {
	client := anthropic.NewClient(
		option.WithAPIKey(s.cfg.APIKey),
	)

	maxTokens := int64(s.cfg.MaxTokens)
	if maxTokens == 0 {
		maxTokens = 1024
	}

	resp, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.cfg.Model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("Anthropic API error: %w", err)
	}

	var content strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}

	logger.Infof("[AI] Anthropic response length: %d chars", content.Len())
	return content.String(), nil
}

// callGemini handles the Google Gemini API using the native SDK
func (s *AIService) callGemini(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: s.cfg.APIKey,
	})
	if err != nil {
		return "", fmt.Errorf("Gemini client error: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, s.cfg.Model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	content := resp.Text()
	logger.Infof("[AI] Gemini response length: %d chars", len(content))
	return content, nil
}

// callOllama handles local models through the Ollama API
func (s *AIService) callOllama(ctx context.Context, prompt string) (string, error) {
	baseURL := s.cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid Ollama base URL: %w", err)
	}
	client := api.NewClient(u, http.DefaultClient)

	var content strings.Builder
	err = client.Chat(ctx, &api.ChatRequest{
		Model: s.cfg.Model,
		Messages: []api.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Options: map[string]interface{}{
			"temperature": s.cfg.Temperature,
		},
	}, func(resp api.ChatResponse) error {
		content.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("Ollama API error: %w", err)
	}

	logger.Infof("[AI] Ollama response length: %d chars", content.Len())
	return content.String(), nil
}

func (s *AIService) temperature() float32 {
	if s.cfg.Temperature > 0 {
		return float32(s.cfg.Temperature)
	}
	return 0.3
}
