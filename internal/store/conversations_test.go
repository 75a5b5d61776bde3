package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linguachat/internal/model"
)

func newTestConversationStore(t *testing.T) *ConversationStore {
	t.Helper()
	s, err := NewConversationStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestConversationStoreMissingFileYieldsEmptyLog(t *testing.T) {
	s := newTestConversationStore(t)

	log := s.Load("user-1")
	require.NotNil(t, log)
	assert.Equal(t, "user-1", log.UserID)
	assert.Empty(t, log.Conversations)
}

func TestConversationStoreRoundTrip(t *testing.T) {
	s := newTestConversationStore(t)

	log := s.Load("user-1")
	log.Append(model.NewMessage("hola", model.SenderUser, model.IntentChat, "Spanish"))
	log.Append(model.NewMessage("¡Hola! ¿Cómo estás?", model.SenderBot, model.IntentChat, "Spanish"))
	require.NoError(t, s.Save("user-1", log))

	reloaded := s.Load("user-1")
	require.Len(t, reloaded.Conversations, 1)
	assert.Len(t, reloaded.Conversations[0].Messages, 2)
	assert.Equal(t, log.CurrentConversationID, reloaded.CurrentConversationID)
}

func TestConversationStoreCorruptFileYieldsEmptyLog(t *testing.T) {
	dir := t.TempDir()
	s, err := NewConversationStore(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "conversations", "user-1.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	log := s.Load("user-1")
	require.NotNil(t, log)
	assert.Empty(t, log.Conversations)
}
