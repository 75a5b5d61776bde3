package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"linguachat/internal/model"
	"linguachat/pkg/errors"
	"linguachat/pkg/logger"
)

// ConversationStore persists one conversation-log document per user
// under <dataDir>/conversations/<userID>.json.
type ConversationStore struct {
	dir    string
	mu     sync.Mutex
	logger *zap.Logger
}

// NewConversationStore creates the conversations directory if needed
func NewConversationStore(dataDir string) (*ConversationStore, error) {
	dir := filepath.Join(dataDir, "conversations")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.NewStoreWriteFailed(dir, err)
	}
	return &ConversationStore{
		dir:    dir,
		logger: logger.Get().Named("store"),
	}, nil
}

func (s *ConversationStore) filePath(userID string) string {
	return filepath.Join(s.dir, userID+".json")
}

// Load returns the conversation log for a user. A missing or corrupt
// file yields an empty log, never an error.
func (s *ConversationStore) Load(userID string) *model.ConversationLog {
	data, err := os.ReadFile(s.filePath(userID))
	if err != nil {
		return model.NewConversationLog(userID)
	}
	var log model.ConversationLog
	if err := json.Unmarshal(data, &log); err != nil {
		s.logger.Warn("conversation file corrupt, starting fresh",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return model.NewConversationLog(userID)
	}
	return &log
}

// Save writes the full conversation log for a user
func (s *ConversationStore) Save(userID string, log *model.ConversationLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return errors.NewStoreWriteFailed(s.filePath(userID), err)
	}
	if err := os.WriteFile(s.filePath(userID), data, 0o644); err != nil {
		s.logger.Error("failed to save conversations",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return errors.NewStoreWriteFailed(s.filePath(userID), err)
	}
	return nil
}
