// Package conversation maintains per-user conversation history and
// produces the bounded context handed to prompt assembly.
package conversation

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"linguachat/internal/metrics"
	"linguachat/internal/model"
	"linguachat/internal/store"
	"linguachat/pkg/logger"
)

const (
	// summarizeEvery is the user-turn interval for the summary trigger
	summarizeEvery = 5
	// recentContextLimit bounds raw turns shown to the model
	recentContextLimit = 10
	// summaryContextLimit bounds prior-conversation summaries in context
	summaryContextLimit = 3
	// historyLimit bounds turns returned for display
	historyLimit = 50
	// defaultKeepCount is the per-user conversation retention count
	defaultKeepCount = 5
)

// Summarizer produces a digest of a conversation transcript
type Summarizer interface {
	Summarize(ctx context.Context, conversationText string) (string, error)
}

// Context is the material given to prompt assembly: recent raw turns of
// the current conversation plus summaries of older conversations.
// Older raw turns are never included, only their summaries.
type Context struct {
	RecentMessages []model.Message
	Summaries      []string
}

// Manager owns conversation persistence, summarization and retention
type Manager struct {
	store      *store.ConversationStore
	summarizer Summarizer
	keepCount  int
	metrics    *metrics.Collector
	logger     *zap.Logger
}

// NewManager creates a conversation manager with the default retention
func NewManager(cs *store.ConversationStore, summarizer Summarizer, collector *metrics.Collector) *Manager {
	return &Manager{
		store:      cs,
		summarizer: summarizer,
		keepCount:  defaultKeepCount,
		metrics:    collector,
		logger:     logger.Get().Named("conversation"),
	}
}

// AddMessage appends a message to the user's current conversation,
// creating one if none is active, and persists the full log. After a
// bot-authored message it evaluates the summarization trigger.
func (m *Manager) AddMessage(ctx context.Context, userID, content, sender, intent, audioLanguage string) error {
	log := m.store.Load(userID)
	msg := model.NewMessage(content, sender, intent, audioLanguage)
	conv := log.Append(msg)

	// A conversation is summarized at most once: once the field is set,
	// later trigger multiples are skipped.
	if sender == model.SenderBot && m.shouldSummarize(conv) && conv.Summary == "" {
		m.logger.Info("generating summary",
			zap.String("user_id", userID),
			zap.String("conversation_id", conv.ID),
		)
		conv.Summary = m.summarize(ctx, conv)
	}

	return m.store.Save(userID, log)
}

// shouldSummarize fires on every positive multiple of summarizeEvery
// user-authored turns.
func (m *Manager) shouldSummarize(conv *model.Conversation) bool {
	n := conv.UserMessageCount()
	return n > 0 && n%summarizeEvery == 0
}

func (m *Manager) summarize(ctx context.Context, conv *model.Conversation) string {
	lines := make([]string, 0, len(conv.Messages))
	for _, msg := range conv.Messages {
		lines = append(lines, fmt.Sprintf("%s: %s", msg.Sender, msg.Content))
	}

	summary, err := m.summarizer.Summarize(ctx, strings.Join(lines, "\n"))
	if err != nil {
		m.logger.Error("summary generation failed", zap.Error(err))
		return "Summary unavailable"
	}
	m.metrics.SummaryGenerated()
	return summary
}

// Context returns the most recent turns of the current conversation
// plus up to the last summaries of other conversations for the user.
func (m *Manager) Context(userID string) (Context, error) {
	log := m.store.Load(userID)

	result := Context{RecentMessages: []model.Message{}, Summaries: []string{}}
	if cur := log.Current(); cur != nil {
		result.RecentMessages = cur.RecentMessages(recentContextLimit)
	}

	var summaries []string
	for _, conv := range log.Conversations {
		if conv.ID != log.CurrentConversationID && conv.Summary != "" {
			summaries = append(summaries, conv.Summary)
		}
	}
	if len(summaries) > summaryContextLimit {
		summaries = summaries[len(summaries)-summaryContextLimit:]
	}
	result.Summaries = append(result.Summaries, summaries...)

	return result, nil
}

// History returns the most recent turns of the current conversation
// for display. No summaries are included.
func (m *Manager) History(userID string) ([]model.Message, error) {
	log := m.store.Load(userID)
	cur := log.Current()
	if cur == nil {
		return []model.Message{}, nil
	}
	return cur.RecentMessages(historyLimit), nil
}

// StartNewSession ends the current conversation by creating a fresh
// one, then applies retention cleanup.
func (m *Manager) StartNewSession(userID string) error {
	log := m.store.Load(userID)

	conv := model.NewConversation(userID)
	log.Conversations = append(log.Conversations, conv)
	log.CurrentConversationID = conv.ID

	m.cleanup(log)

	return m.store.Save(userID, log)
}

// cleanup keeps only the most recently created conversations and
// repairs the current pointer if its target was evicted.
func (m *Manager) cleanup(log *model.ConversationLog) {
	if len(log.Conversations) <= m.keepCount {
		return
	}

	sort.Slice(log.Conversations, func(i, j int) bool {
		return log.Conversations[i].CreatedAt.After(log.Conversations[j].CreatedAt)
	})
	dropped := len(log.Conversations) - m.keepCount
	log.Conversations = log.Conversations[:m.keepCount]

	if log.Current() == nil && len(log.Conversations) > 0 {
		log.CurrentConversationID = log.Conversations[0].ID
	}

	m.logger.Debug("retention cleanup",
		zap.String("user_id", log.UserID),
		zap.Int("dropped", dropped),
	)
}
