package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"linguachat/internal/model"
	"linguachat/pkg/logger"
)

// Completer is the slice of the LLM client the extractor needs
type Completer interface {
	CompleteJSON(ctx context.Context, system, user string, temperature float32, maxTokens int) (string, error)
}

const extractionSystemPrompt = "You are an expert at extracting structured information from conversations."

const extractionPromptTemplate = `You are a graph database analyst for a language learning app. Analyze this conversation between a user and language tutor to extract meaningful information about the user that should be stored in a knowledge graph.

FOCUS ON:
- Personal facts (family, pets, location, work, hobbies)
- Preferences (likes, dislikes, wants)
- Experiences (places visited, activities done)
- Relationships (knows people, has things)

EXTRACT ONLY information that is:
1. Explicitly stated by the USER (not the tutor)
2. Factual (not opinions about language learning)
3. Useful for future personalized conversations

USER ID: %s
CONVERSATION:
%s

Return ONLY a JSON object (no markdown, no code blocks, no explanatory text) with this exact structure:
{
  "entities": [
    {"text": "entity_name", "type": "Person|Place|Animal|Activity|Thing", "context": "brief context"}
  ],
  "relationships": [
    {"subject": "user", "predicate": "HAS|LIKES|LIVES_IN|WORKS_AS|KNOWS|VISITED|WANTS", "object": "entity_name", "confidence": "high|medium|low"}
  ],
  "reasoning": "Brief explanation of what you extracted and why"
}

If no meaningful information found, return empty arrays.`

// Extractor asks the model for structured facts about the user.
// Malformed responses degrade to an empty extraction, never an error.
type Extractor struct {
	llm    Completer
	logger *zap.Logger
}

// NewExtractor creates an extractor over the given LLM client
func NewExtractor(llm Completer) *Extractor {
	return &Extractor{
		llm:    llm,
		logger: logger.Get().Named("extractor"),
	}
}

// FromMessages extracts entities and relationships from a batch of
// conversation turns.
func (e *Extractor) FromMessages(ctx context.Context, userID string, msgs []model.Message) model.ExtractedInfo {
	lines := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		lines = append(lines, fmt.Sprintf("%s: %s", msg.Sender, msg.Content))
	}
	return e.extract(ctx, userID, strings.Join(lines, "\n"))
}

// FromForm converts a personalization form into synthetic first-person
// statements and reuses the message extraction path.
func (e *Extractor) FromForm(ctx context.Context, userID string, form map[string]string) model.ExtractedInfo {
	msgs := make([]model.Message, 0, len(form))
	for field, value := range form {
		if strings.TrimSpace(value) == "" {
			continue
		}
		field = strings.ReplaceAll(field, "_", " ")
		msgs = append(msgs, model.Message{
			Sender:  model.SenderUser,
			Content: fmt.Sprintf("My %s is %s", field, value),
		})
	}
	if len(msgs) == 0 {
		return model.ExtractedInfo{Reasoning: "No personalization data to process"}
	}
	return e.FromMessages(ctx, userID, msgs)
}

func (e *Extractor) extract(ctx context.Context, userID, text string) model.ExtractedInfo {
	prompt := fmt.Sprintf(extractionPromptTemplate, userID, text)

	// Low temperature for deterministic extraction
	raw, err := e.llm.CompleteJSON(ctx, extractionSystemPrompt, prompt, 0.1, 1000)
	if err != nil {
		e.logger.Error("extraction call failed", zap.String("user_id", userID), zap.Error(err))
		return model.ExtractedInfo{Reasoning: "Extraction failed"}
	}

	var info model.ExtractedInfo
	if err := json.Unmarshal([]byte(cleanResponse(raw)), &info); err != nil {
		e.logger.Error("extraction response was not valid JSON",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return model.ExtractedInfo{Reasoning: "Parse error"}
	}

	e.logger.Info("extraction completed",
		zap.String("user_id", userID),
		zap.Int("entities", len(info.Entities)),
		zap.Int("relationships", len(info.Relationships)),
	)
	return info
}

// cleanResponse strips markdown fences and any text outside the
// outermost JSON object.
func cleanResponse(response string) string {
	if idx := strings.Index(response, "```json"); idx >= 0 {
		response = response[idx+len("```json"):]
		if end := strings.Index(response, "```"); end >= 0 {
			response = response[:end]
		}
	} else if idx := strings.Index(response, "```"); idx >= 0 {
		response = response[idx+3:]
		if end := strings.Index(response, "```"); end >= 0 {
			response = response[:end]
		}
	}

	if start := strings.Index(response, "{"); start >= 0 {
		response = response[start:]
	}
	if end := strings.LastIndex(response, "}"); end >= 0 {
		response = response[:end+1]
	}
	return strings.TrimSpace(response)
}
