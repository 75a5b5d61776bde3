package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"linguachat/internal/model"
)

func TestPipelineEmptyExtractionSucceedsWithoutWrites(t *testing.T) {
	llm := &stubCompleter{response: `{"entities": [], "relationships": [], "reasoning": ""}`}
	p := NewPipeline(nil, llm, nil)

	result := p.ProcessConversation(context.Background(), "user-1", []model.Message{
		{Sender: model.SenderUser, Content: "hola"},
	})

	assert.True(t, result.Success)
	assert.Zero(t, result.Updates)
	assert.Equal(t, "No new information found", result.Reasoning)
}

func TestPipelineFailedExtractionStillSucceeds(t *testing.T) {
	llm := &stubCompleter{response: "not json at all"}
	p := NewPipeline(nil, llm, nil)

	result := p.ProcessPersonalization(context.Background(), "user-1", map[string]string{
		"favorite_food": "paella",
	})

	assert.True(t, result.Success)
	assert.Zero(t, result.Updates)
	assert.Equal(t, "Parse error", result.Reasoning)
}
