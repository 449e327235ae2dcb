package enrich

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"luxatlas/backend/pkg/errors"
	"luxatlas/backend/pkg/logger"
)

// Client talks to the LLM gateway for POI description generation
type Client struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// POIContext is what the prompt gets to work with
type POIContext struct {
	ID          string
	Name        string
	Category    string
	Destination string
}

// NewClient creates an enrichment LLM client. The gateway accepts a dummy
// key when none is configured.
func NewClient(baseURL, apiKey, modelID string) *Client {
	if apiKey == "" {
		apiKey = "dummy-key"
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL + "/v1"

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  modelID,
		logger: logger.Get(),
	}
}

const systemPrompt = `You write concise, factual descriptions of luxury travel ` +
	`points of interest for a private travel catalog. Two to three sentences, ` +
	`no marketing superlatives, no invented details. If you do not know the ` +
	`place, describe only what the name and location imply.`

// GeneratePOIDescription asks the LLM for a catalog description.
func (c *Client) GeneratePOIDescription(ctx context.Context, p POIContext) (string, error) {
	var userMsg strings.Builder
	fmt.Fprintf(&userMsg, "Name: %s\n", p.Name)
	if p.Category != "" {
		fmt.Fprintf(&userMsg, "Category: %s\n", p.Category)
	}
	if p.Destination != "" {
		fmt.Fprintf(&userMsg, "Destination: %s\n", p.Destination)
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userMsg.String()},
		},
		Temperature: 0.3,
	}

	// Retry logic with exponential backoff
	var resp openai.ChatCompletionResponse
	var err error
	maxRetries := 3
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			c.logger.Warn("Retrying enrichment request",
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", backoff),
			)
			time.Sleep(backoff)
		}

		resp, err = c.client.CreateChatCompletion(ctx, req)
		if err == nil {
			break
		}

		c.logger.Error("Enrichment request failed",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
			zap.String("model", c.model),
		)
	}

	if err != nil {
		return "", errors.NewEnrichmentFailed(p.ID, maxRetries, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in LLM response")
	}

	description := strings.TrimSpace(resp.Choices[0].Message.Content)
	if description == "" {
		return "", fmt.Errorf("LLM returned empty description")
	}
	return description, nil
}
