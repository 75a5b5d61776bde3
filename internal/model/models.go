package model

import (
	"time"

	"github.com/google/uuid"
)

// Message senders
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// Message intents
const (
	IntentChat     = "chat"
	IntentTeaching = "teaching"
	IntentError    = "error"
)

// User is a registered learner. Field names follow the wire format used
// by the web client (camelCase language fields, snake_case elsewhere).
type User struct {
	ID               string            `json:"id"`
	Username         string            `json:"username"`
	Email            string            `json:"email"`
	PasswordHash     string            `json:"password_hash"`
	NativeLanguage   string            `json:"nativeLanguage"`
	LearningLanguage string            `json:"learningLanguage"`
	CreatedAt        time.Time         `json:"created_at"`
	Personalization  map[string]string `json:"personalization"`
}

// NewUser creates a user with a generated identifier
func NewUser(username, email, passwordHash, nativeLanguage, learningLanguage string) *User {
	return &User{
		ID:               uuid.NewString(),
		Username:         username,
		Email:            email,
		PasswordHash:     passwordHash,
		NativeLanguage:   nativeLanguage,
		LearningLanguage: learningLanguage,
		CreatedAt:        time.Now().UTC(),
		Personalization:  map[string]string{},
	}
}

// PublicUser is a User without sensitive fields
type PublicUser struct {
	ID               string            `json:"id"`
	Username         string            `json:"username"`
	Email            string            `json:"email"`
	NativeLanguage   string            `json:"nativeLanguage"`
	LearningLanguage string            `json:"learningLanguage"`
	CreatedAt        time.Time         `json:"created_at"`
	Personalization  map[string]string `json:"personalization"`
}

// Public returns the user view safe to return to clients
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:               u.ID,
		Username:         u.Username,
		Email:            u.Email,
		NativeLanguage:   u.NativeLanguage,
		LearningLanguage: u.LearningLanguage,
		CreatedAt:        u.CreatedAt,
		Personalization:  u.Personalization,
	}
}

// Message is one turn in a conversation. Immutable once appended.
type Message struct {
	ID            string    `json:"id"`
	Content       string    `json:"content"`
	Sender        string    `json:"sender"`
	Timestamp     time.Time `json:"timestamp"`
	Intent        string    `json:"intent,omitempty"`
	AudioLanguage string    `json:"audio_language,omitempty"`
}

// NewMessage creates a message with a generated identifier
func NewMessage(content, sender, intent, audioLanguage string) Message {
	return Message{
		ID:            uuid.NewString(),
		Content:       content,
		Sender:        sender,
		Timestamp:     time.Now().UTC(),
		Intent:        intent,
		AudioLanguage: audioLanguage,
	}
}

// Conversation is an ordered session of messages for one user
type Conversation struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	Messages     []Message `json:"messages"`
	Summary      string    `json:"summary"`
	CurrentTopic string    `json:"current_topic,omitempty"`
}

// NewConversation creates an empty conversation for a user
func NewConversation(userID string) Conversation {
	return Conversation{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
		Messages:  []Message{},
	}
}

// UserMessageCount returns the number of user-authored turns
func (c *Conversation) UserMessageCount() int {
	n := 0
	for _, m := range c.Messages {
		if m.Sender == SenderUser {
			n++
		}
	}
	return n
}

// RecentMessages returns up to limit of the most recent messages
func (c *Conversation) RecentMessages(limit int) []Message {
	if len(c.Messages) <= limit {
		return c.Messages
	}
	return c.Messages[len(c.Messages)-limit:]
}

// ConversationLog is the per-user conversation document. At most one
// conversation is current at a time.
type ConversationLog struct {
	UserID                string         `json:"user_id"`
	Conversations         []Conversation `json:"conversations"`
	CurrentConversationID string         `json:"current_conversation_id"`
}

// NewConversationLog creates an empty log for a user
func NewConversationLog(userID string) *ConversationLog {
	return &ConversationLog{
		UserID:        userID,
		Conversations: []Conversation{},
	}
}

// Current returns the current conversation, or nil if none is active
func (l *ConversationLog) Current() *Conversation {
	if l.CurrentConversationID == "" {
		return nil
	}
	for i := range l.Conversations {
		if l.Conversations[i].ID == l.CurrentConversationID {
			return &l.Conversations[i]
		}
	}
	return nil
}

// Append adds a message to the current conversation, creating one if
// none is active, and returns the conversation written to.
func (l *ConversationLog) Append(msg Message) *Conversation {
	if l.Current() == nil {
		conv := NewConversation(l.UserID)
		l.Conversations = append(l.Conversations, conv)
		l.CurrentConversationID = conv.ID
	}
	cur := l.Current()
	cur.Messages = append(cur.Messages, msg)
	return cur
}

// Entity is a fact subject extracted from free text
type Entity struct {
	Text    string `json:"text"`
	Type    string `json:"type"`
	Context string `json:"context"`
}

// Relationship links the user to an entity with a confidence label
type Relationship struct {
	Subject    string `json:"subject"`
	Predicate  string `json:"predicate"`
	Object     string `json:"object"`
	Confidence string `json:"confidence"`
}

// ExtractedInfo is a transient model-produced extraction result. It is
// consumed immediately to produce graph writes and never persisted.
type ExtractedInfo struct {
	Entities      []Entity       `json:"entities"`
	Relationships []Relationship `json:"relationships"`
	Reasoning     string         `json:"reasoning"`
}

// Empty reports whether the extraction yielded nothing to store
func (e ExtractedInfo) Empty() bool {
	return len(e.Entities) == 0 && len(e.Relationships) == 0
}
