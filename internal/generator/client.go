package generator

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"
	"github.com/estudai/backend/internal/models"
)

// LLMClient is the interface both generator implementations satisfy.
type LLMClient interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error)
}

// LLMResponse holds the raw response content and token usage.
type LLMResponse struct {
	Content      string
	PromptTokens int
	OutputTokens int
}

// Generator wraps an LLMClient and adds challenge/quiz content methods.
type Generator struct {
	llm   LLMClient
	model string
}

func NewGenerator() *Generator {
	var llm LLMClient
	model := "mock"

	if os.Getenv("MOCK_GENERATOR") == "true" {
		llm = NewMockClient()
		log.Println("Generator using mock data")
	} else {
		model = os.Getenv("ANTHROPIC_MODEL")
		if model == "" {
			model = "claude-sonnet-4-5-20250929"
		}
		llm = NewAPIClient(model)
		log.Println("Generator using Anthropic API:", model)
	}

	return &Generator{llm: llm, model: model}
}

func (g *Generator) ModelName() string {
	return g.model
}

// GenerateChallenge produces the item set for one daily challenge.
func (g *Generator) GenerateChallenge(ctx context.Context, challengeType string, count int) ([]models.Question, error) {
	systemPrompt := ChallengeSystemPrompt()
	userPrompt, err := BuildChallengeUserPrompt(challengeType, count)
	if err != nil {
		return nil, err
	}

	resp, err := g.llm.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("generate %s challenge: %w", challengeType, err)
	}

	items, err := ParseItems(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("parse %s challenge response: %w", challengeType, err)
	}
	return items, nil
}

// GenerateTopicQuiz produces questions for a custom quiz on a given topic.
func (g *Generator) GenerateTopicQuiz(ctx context.Context, subjectName, topicName string, count int) ([]models.Question, error) {
	systemPrompt := ChallengeSystemPrompt()
	userPrompt := BuildTopicQuizUserPrompt(subjectName, topicName, count)

	resp, err := g.llm.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("generate topic quiz: %w", err)
	}

	items, err := ParseItems(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("parse topic quiz response: %w", err)
	}
	return items, nil
}

// ── APIClient — Anthropic SDK (Production) ─────────────────

type APIClient struct {
	client *anthropic.Client
	model  string
}

func NewAPIClient(model string) *APIClient {
	client := anthropic.NewClient(
		option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")),
	)
	return &APIClient{client: &client, model: model}
}

func (c *APIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   4096,
		Temperature: param.NewOpt(0.7),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}

	message, err := c.callWithRetry(ctx, params)
	if err != nil {
		return nil, err
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}

	if responseText == "" {
		return nil, fmt.Errorf("no text content in API response")
	}

	return &LLMResponse{
		Content:      responseText,
		PromptTokens: int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}

func (c *APIClient) callWithRetry(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			sleepDuration := time.Duration(1<<uint(attempt)) * time.Second
			log.Printf("Retrying Anthropic API call in %v (attempt %d)", sleepDuration, attempt+1)
			time.Sleep(sleepDuration)
		}

		message, err := c.client.Messages.New(ctx, params)
		if err == nil {
			return message, nil
		}
		lastErr = err
		log.Printf("Anthropic API attempt %d failed: %v", attempt+1, err)
	}
	return nil, fmt.Errorf("anthropic API failed after retries: %w", lastErr)
}

// ── MockClient — Local Development ─────────────────────────

type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	return &LLMResponse{
		Content:      buildMockJSON(5),
		PromptTokens: 800,
		OutputTokens: 1200,
	}, nil
}
