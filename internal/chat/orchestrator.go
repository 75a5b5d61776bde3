// Package chat turns one inbound user message into one bot reply plus
// optional audio, absorbing every upstream failure behind a localized
// fallback.
package chat

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"linguachat/internal/conversation"
	"linguachat/internal/graph"
	"linguachat/internal/language"
	"linguachat/internal/metrics"
	"linguachat/internal/model"
	"linguachat/pkg/logger"
)

// extractionTimeout bounds the detached graph-enrichment goroutine
const extractionTimeout = 30 * time.Second

// UserGetter looks up a user profile by identifier
type UserGetter interface {
	Get(id string) (*model.User, error)
}

// HistoryManager is the slice of the conversation manager the
// orchestrator needs.
type HistoryManager interface {
	AddMessage(ctx context.Context, userID, content, sender, intent, audioLanguage string) error
	Context(userID string) (conversation.Context, error)
}

// Responder generates a conversational reply
type Responder interface {
	Chat(ctx context.Context, system, user string) (string, error)
}

// AudioSynthesizer converts text to a base64 audio payload
type AudioSynthesizer interface {
	Synthesize(ctx context.Context, text, lang string, speed float64) (string, error)
}

// FactSink ingests conversation turns into the knowledge graph
type FactSink interface {
	ProcessConversation(ctx context.Context, userID string, msgs []model.Message) graph.Result
}

// Reply is the outcome of one chat turn. Err is set when the pipeline
// fell back to the localized error response; the text fields are
// always populated.
type Reply struct {
	Response      string
	Intent        string
	AudioLanguage string
	AudioData     string
	Err           error
}

// Orchestrator is the top-level chat pipeline
type Orchestrator struct {
	users   UserGetter
	manager HistoryManager
	llm     Responder
	speech  AudioSynthesizer
	facts   FactSink // nil when the graph store is not configured
	metrics *metrics.Collector
	logger  *zap.Logger
}

// NewOrchestrator wires the chat pipeline
func NewOrchestrator(users UserGetter, manager HistoryManager, llm Responder, speech AudioSynthesizer, facts FactSink, collector *metrics.Collector) *Orchestrator {
	return &Orchestrator{
		users:   users,
		manager: manager,
		llm:     llm,
		speech:  speech,
		facts:   facts,
		metrics: collector,
		logger:  logger.Get().Named("chat"),
	}
}

// Respond executes the chat pipeline for one inbound message. It never
// returns an error to the transport: failures produce a localized
// apology with the error intent, and Reply.Err carries the cause for
// status-code mapping.
func (o *Orchestrator) Respond(ctx context.Context, userID, message string, audioSpeed float64) *Reply {
	start := time.Now()
	reply := o.respond(ctx, userID, message, audioSpeed)
	o.metrics.ChatRequest(reply.Intent)
	o.metrics.ObserveChatLatency(time.Since(start).Seconds())
	return reply
}

func (o *Orchestrator) respond(ctx context.Context, userID, message string, audioSpeed float64) *Reply {
	user, err := o.users.Get(userID)
	if err != nil {
		o.logger.Warn("chat for unknown user", zap.String("user_id", userID), zap.Error(err))
		return o.errorReply(ctx, nil, audioSpeed, err)
	}

	intent := DetectIntent(message)

	if intent == model.IntentTeaching {
		// Teaching mode is out of scope for this version; short-circuit
		// with a canned reply in the learning language, audio included.
		text := fmt.Sprintf("I detected you need help! For now, I'll continue chatting in %s. Teaching mode coming soon!", user.LearningLanguage)
		return &Reply{
			Response:      text,
			Intent:        model.IntentTeaching,
			AudioLanguage: user.LearningLanguage,
			AudioData:     o.synthesize(ctx, text, user.LearningLanguage, audioSpeed),
		}
	}

	if err := o.manager.AddMessage(ctx, userID, message, model.SenderUser, intent, user.LearningLanguage); err != nil {
		return o.errorReply(ctx, user, audioSpeed, err)
	}

	convCtx, err := o.manager.Context(userID)
	if err != nil {
		return o.errorReply(ctx, user, audioSpeed, err)
	}

	prompt := BuildSystemPrompt(user, convCtx)
	response, err := o.llm.Chat(ctx, prompt, message)
	if err != nil {
		return o.errorReply(ctx, user, audioSpeed, err)
	}

	if err := o.manager.AddMessage(ctx, userID, response, model.SenderBot, model.IntentChat, user.LearningLanguage); err != nil {
		return o.errorReply(ctx, user, audioSpeed, err)
	}

	audio := o.synthesize(ctx, response, user.LearningLanguage, audioSpeed)

	o.extractFacts(userID, message, response)

	return &Reply{
		Response:      response,
		Intent:        model.IntentChat,
		AudioLanguage: user.LearningLanguage,
		AudioData:     audio,
	}
}

// synthesize is best-effort: failures are logged inside the
// synthesizer and yield a text-only reply.
func (o *Orchestrator) synthesize(ctx context.Context, text, lang string, speed float64) string {
	audio, err := o.speech.Synthesize(ctx, text, lang, speed)
	if err != nil {
		o.logger.Debug("continuing without audio", zap.String("language", lang), zap.Error(err))
		return ""
	}
	return audio
}

// extractFacts feeds the turn into the graph pipeline on a detached
// goroutine. The primary response never waits on or fails with it.
func (o *Orchestrator) extractFacts(userID, userMessage, botResponse string) {
	if o.facts == nil {
		return
	}
	msgs := []model.Message{
		{Content: userMessage, Sender: model.SenderUser},
		{Content: botResponse, Sender: model.SenderBot},
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), extractionTimeout)
		defer cancel()

		result := o.facts.ProcessConversation(ctx, userID, msgs)
		if !result.Success {
			o.logger.Debug("graph enrichment skipped",
				zap.String("user_id", userID),
				zap.String("reason", result.Reasoning),
			)
		}
	}()
}

// errorReply builds the localized fallback and still attempts audio
// for it, swallowing any further failures.
func (o *Orchestrator) errorReply(ctx context.Context, user *model.User, audioSpeed float64, cause error) *Reply {
	lang := language.Default
	if user != nil && user.LearningLanguage != "" {
		lang = user.LearningLanguage
	}
	text := language.ErrorMessage(lang)

	o.logger.Error("chat pipeline failed, returning fallback",
		zap.String("language", lang),
		zap.Error(cause),
	)

	audio := ""
	if user != nil {
		audio = o.synthesize(ctx, text, lang, audioSpeed)
	}

	return &Reply{
		Response:      text,
		Intent:        model.IntentError,
		AudioLanguage: lang,
		AudioData:     audio,
		Err:           cause,
	}
}
