package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"linguachat/internal/metrics"
	"linguachat/internal/model"
	"linguachat/pkg/logger"
)

// Result summarizes one enrichment run. The pipeline never returns an
// error: the surrounding request must succeed regardless of outcome.
type Result struct {
	Success       bool   `json:"success"`
	Updates       int    `json:"updates"`
	Entities      int    `json:"entities"`
	Relationships int    `json:"relationships"`
	Reasoning     string `json:"reasoning"`
}

// UserContext is the model-narrated view of a user's graph data used
// to seed conversations.
type UserContext struct {
	ContextSummary       string   `json:"context_summary"`
	ConversationStarters []string `json:"conversation_starters"`
	RelevantVocabulary   []string `json:"relevant_vocabulary"`
}

const contextSystemPrompt = "You are a conversation context expert for language learning."

const contextPromptTemplate = `You are a conversation context generator for a language learning app.

TASK: Convert the user's graph data into natural language context for conversation prompts.

USER GRAPH DATA:
%s

Generate a brief, natural context summary that can be used in conversation prompts. Focus on:
- 2-3 most interesting/relevant facts
- Information that can drive engaging conversation
- Keep it conversational and personal

Return JSON:
{
  "context_summary": "brief natural language summary",
  "conversation_starters": ["suggestion 1", "suggestion 2"],
  "relevant_vocabulary": ["word1", "word2", "word3"]
}

If no meaningful data, return empty strings and arrays.`

// Pipeline is the best-effort knowledge-graph enrichment side channel
type Pipeline struct {
	repo      *Repository
	extractor *Extractor
	llm       Completer
	metrics   *metrics.Collector
	logger    *zap.Logger
}

// NewPipeline wires the extraction pipeline
func NewPipeline(repo *Repository, llm Completer, collector *metrics.Collector) *Pipeline {
	return &Pipeline{
		repo:      repo,
		extractor: NewExtractor(llm),
		llm:       llm,
		metrics:   collector,
		logger:    logger.Get().Named("graph"),
	}
}

// ProcessConversation extracts facts from conversation turns and
// merges them into the graph. All failures are absorbed.
func (p *Pipeline) ProcessConversation(ctx context.Context, userID string, msgs []model.Message) Result {
	info := p.extractor.FromMessages(ctx, userID, msgs)
	return p.store(ctx, userID, info)
}

// ProcessPersonalization runs the same path over a profile form
func (p *Pipeline) ProcessPersonalization(ctx context.Context, userID string, form map[string]string) Result {
	info := p.extractor.FromForm(ctx, userID, form)
	return p.store(ctx, userID, info)
}

// store merges each extracted entity and relationship. An empty
// extraction is a success with zero writes; per-item failures are
// logged and skipped.
func (p *Pipeline) store(ctx context.Context, userID string, info model.ExtractedInfo) Result {
	result := Result{
		Success:       true,
		Entities:      len(info.Entities),
		Relationships: len(info.Relationships),
		Reasoning:     info.Reasoning,
	}
	if info.Empty() {
		if result.Reasoning == "" {
			result.Reasoning = "No new information found"
		}
		return result
	}

	for _, entity := range info.Entities {
		if err := p.repo.UpsertEntity(ctx, userID, entity); err != nil {
			p.logger.Warn("entity upsert failed",
				zap.String("user_id", userID),
				zap.String("entity", entity.Text),
				zap.Error(err),
			)
			continue
		}
		result.Updates++
	}

	for _, rel := range info.Relationships {
		if err := p.repo.UpsertRelationship(ctx, userID, rel); err != nil {
			p.logger.Warn("relationship upsert failed",
				zap.String("user_id", userID),
				zap.String("predicate", rel.Predicate),
				zap.Error(err),
			)
			continue
		}
		result.Updates++
	}

	p.logger.Info("graph enrichment stored",
		zap.String("user_id", userID),
		zap.Int("updates", result.Updates),
	)
	return result
}

// EnsureUser merges the user node; used at signup, best-effort
func (p *Pipeline) EnsureUser(ctx context.Context, user *model.User) error {
	return p.repo.EnsureUser(ctx, user)
}

// UserContext reads the user's recent facts and asks the model to
// narrate them for conversation prompts. Malformed model output
// degrades to an empty context.
func (p *Pipeline) UserContext(ctx context.Context, userID string) (UserContext, error) {
	var empty UserContext

	facts, err := p.repo.UserFacts(ctx, userID, 20)
	if err != nil {
		return empty, err
	}
	if len(facts) == 0 {
		return empty, nil
	}

	lines := make([]string, 0, len(facts))
	for _, f := range facts {
		lines = append(lines, fmt.Sprintf("User %s %s (%s)", f.Predicate, f.Entity, f.EntityType))
	}

	raw, err := p.llm.CompleteJSON(ctx, contextSystemPrompt,
		fmt.Sprintf(contextPromptTemplate, strings.Join(lines, "\n")), 0.3, 300)
	if err != nil {
		return empty, err
	}

	var uc UserContext
	if err := json.Unmarshal([]byte(cleanResponse(raw)), &uc); err != nil {
		p.logger.Error("context response was not valid JSON", zap.Error(err))
		return empty, nil
	}
	return uc, nil
}

// Stats exposes basic graph counts for diagnostics
func (p *Pipeline) Stats(ctx context.Context) (Stats, error) {
	return p.repo.Count(ctx)
}
