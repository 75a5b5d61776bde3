// Package adapter wraps the hosted chat-completion provider behind the
// three call shapes the pipeline needs: conversational replies,
// conversation summaries and low-temperature structured extraction.
package adapter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"linguachat/internal/metrics"
	"linguachat/pkg/errors"
	"linguachat/pkg/logger"
)

const maxRetries = 3

// Client handles communication with the chat-completion provider
type Client struct {
	client  *openai.Client
	model   string
	metrics *metrics.Collector
	logger  *zap.Logger
}

// NewClient creates an LLM client for the given API key and model
func NewClient(apiKey, model string, collector *metrics.Collector) *Client {
	return &Client{
		client:  openai.NewClient(apiKey),
		model:   model,
		metrics: collector,
		logger:  logger.Get().Named("llm"),
	}
}

// Model returns the configured model identifier
func (c *Client) Model() string {
	return c.model
}

// complete runs one chat completion with retry and backoff
func (c *Client) complete(ctx context.Context, system, user string, temperature float32, maxTokens int) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	var resp openai.ChatCompletionResponse
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * time.Second
			c.logger.Warn("retrying LLM request",
				zap.Int("attempt", attempt+1),
				zap.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}

		c.metrics.LLMCall()
		resp, err = c.client.CreateChatCompletion(ctx, req)
		if err == nil {
			break
		}

		c.logger.Error("LLM request failed",
			zap.Error(err),
			zap.Int("attempt", attempt+1),
			zap.String("model", c.model),
		)
	}

	if err != nil {
		c.metrics.LLMFailure()
		return "", errors.NewLLMFailed(c.model, maxRetries, err)
	}
	if len(resp.Choices) == 0 {
		c.metrics.LLMFailure()
		return "", errors.ErrLLMEmptyResponse
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	c.logger.Debug("LLM response generated",
		zap.String("model", c.model),
		zap.Int("length", len(content)),
	)
	return content, nil
}

// Chat generates a conversational reply from a system prompt and the
// user's message.
func (c *Client) Chat(ctx context.Context, system, user string) (string, error) {
	return c.complete(ctx, system, user, 0.3, 150)
}

const summarySystemPrompt = "You are a helpful assistant that creates concise conversation summaries."

const summaryPromptTemplate = `Please create a concise bullet-point summary of this conversation between a language learner and AI tutor. Focus on:
- Key personal information shared by the user
- Topics discussed
- Language learning progress or challenges
- Important facts to remember for future conversations

Conversation:
%s

Provide the summary as bullet points:`

// Summarize produces a bullet-point digest of a conversation transcript
func (c *Client) Summarize(ctx context.Context, conversationText string) (string, error) {
	prompt := fmt.Sprintf(summaryPromptTemplate, conversationText)
	return c.complete(ctx, summarySystemPrompt, prompt, 0.3, 200)
}

// CompleteJSON runs a completion intended to return a strict JSON
// payload, at the caller's temperature. Parsing is left to the caller
// since malformed output is a degraded result, not an error, in the
// extraction pipeline.
func (c *Client) CompleteJSON(ctx context.Context, system, user string, temperature float32, maxTokens int) (string, error) {
	return c.complete(ctx, system, user, temperature, maxTokens)
}
