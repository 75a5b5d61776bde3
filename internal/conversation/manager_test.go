package conversation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linguachat/internal/model"
	"linguachat/internal/store"
)

type stubSummarizer struct {
	calls   int
	summary string
	err     error
}

func (s *stubSummarizer) Summarize(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.summary, s.err
}

func newTestManager(t *testing.T) (*Manager, *store.ConversationStore, *stubSummarizer) {
	t.Helper()
	cs, err := store.NewConversationStore(t.TempDir())
	require.NoError(t, err)
	sum := &stubSummarizer{summary: "talked about pets"}
	return NewManager(cs, sum, nil), cs, sum
}

// exchange adds one user turn and one bot turn
func exchange(t *testing.T, m *Manager, userID string, n int) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, m.AddMessage(ctx, userID, fmt.Sprintf("user turn %d", n), model.SenderUser, model.IntentChat, "Spanish"))
	require.NoError(t, m.AddMessage(ctx, userID, fmt.Sprintf("bot turn %d", n), model.SenderBot, model.IntentChat, "Spanish"))
}

func TestAddMessageCreatesConversation(t *testing.T) {
	m, cs, _ := newTestManager(t)

	exchange(t, m, "user-1", 1)

	log := cs.Load("user-1")
	require.Len(t, log.Conversations, 1)
	assert.Len(t, log.Conversations[0].Messages, 2)
	assert.Equal(t, log.Conversations[0].ID, log.CurrentConversationID)
}

// A conversation is summarized exactly once: the empty-summary guard
// skips every later trigger multiple.
func TestSummaryGeneratedOnlyOnce(t *testing.T) {
	m, cs, sum := newTestManager(t)

	for i := 1; i <= 4; i++ {
		exchange(t, m, "user-1", i)
	}
	assert.Equal(t, 0, sum.calls)

	exchange(t, m, "user-1", 5)
	assert.Equal(t, 1, sum.calls)
	assert.Equal(t, "talked about pets", cs.Load("user-1").Current().Summary)

	for i := 6; i <= 10; i++ {
		exchange(t, m, "user-1", i)
	}
	assert.Equal(t, 1, sum.calls, "tenth user turn must not re-summarize")
}

func TestSummaryFailureFallback(t *testing.T) {
	m, cs, sum := newTestManager(t)
	sum.err = fmt.Errorf("provider down")

	for i := 1; i <= 5; i++ {
		exchange(t, m, "user-1", i)
	}
	assert.Equal(t, "Summary unavailable", cs.Load("user-1").Current().Summary)
}

func TestContextBounds(t *testing.T) {
	m, cs, _ := newTestManager(t)

	// Five finished conversations with summaries, then a current one
	// with more turns than the recent window.
	log := cs.Load("user-1")
	for i := 0; i < 5; i++ {
		conv := model.NewConversation("user-1")
		conv.Summary = fmt.Sprintf("summary %d", i)
		conv.CreatedAt = time.Now().Add(time.Duration(i-10) * time.Minute)
		log.Conversations = append(log.Conversations, conv)
	}
	current := model.NewConversation("user-1")
	for i := 0; i < 12; i++ {
		current.Messages = append(current.Messages,
			model.NewMessage(fmt.Sprintf("turn %d", i), model.SenderUser, model.IntentChat, "Spanish"))
	}
	log.Conversations = append(log.Conversations, current)
	log.CurrentConversationID = current.ID
	require.NoError(t, cs.Save("user-1", log))

	ctx, err := m.Context("user-1")
	require.NoError(t, err)

	require.Len(t, ctx.RecentMessages, 10)
	assert.Equal(t, "turn 2", ctx.RecentMessages[0].Content)
	assert.Equal(t, "turn 11", ctx.RecentMessages[9].Content)

	require.Len(t, ctx.Summaries, 3)
	assert.Equal(t, []string{"summary 2", "summary 3", "summary 4"}, ctx.Summaries)
}

func TestHistoryLimit(t *testing.T) {
	m, _, _ := newTestManager(t)

	for i := 1; i <= 30; i++ {
		exchange(t, m, "user-1", i)
	}

	msgs, err := m.History("user-1")
	require.NoError(t, err)
	assert.Len(t, msgs, 50)
	assert.Equal(t, "bot turn 30", msgs[49].Content)
}

func TestHistoryEmptyForNewUser(t *testing.T) {
	m, _, _ := newTestManager(t)

	msgs, err := m.History("user-1")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestStartNewSessionRetention(t *testing.T) {
	m, cs, _ := newTestManager(t)

	for i := 0; i < 8; i++ {
		exchange(t, m, "user-1", i)
		require.NoError(t, m.StartNewSession("user-1"))
	}

	log := cs.Load("user-1")
	assert.Len(t, log.Conversations, 5)
	require.NotNil(t, log.Current())
	assert.Empty(t, log.Current().Messages, "new session starts empty")

	// The kept conversations are the most recently created ones
	for i := 1; i < len(log.Conversations); i++ {
		assert.True(t, !log.Conversations[i-1].CreatedAt.Before(log.Conversations[i].CreatedAt))
	}
}
