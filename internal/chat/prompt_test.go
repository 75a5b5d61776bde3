package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"linguachat/internal/conversation"
	"linguachat/internal/model"
)

func TestBuildSystemPromptBasics(t *testing.T) {
	user := &model.User{
		Username:         "maria",
		NativeLanguage:   "Spanish",
		LearningLanguage: "English",
		Personalization:  map[string]string{},
	}

	prompt := BuildSystemPrompt(user, conversation.Context{})

	assert.Contains(t, prompt, "helping maria practice English")
	assert.Contains(t, prompt, "Native Language: Spanish")
	assert.Contains(t, prompt, "Always respond in English")
	assert.NotContains(t, prompt, "Location:")
	assert.NotContains(t, prompt, "Previous conversation highlights:")
	assert.NotContains(t, prompt, "Recent conversation:")
}

func TestBuildSystemPromptPersonalization(t *testing.T) {
	user := &model.User{
		Username:         "maria",
		NativeLanguage:   "Spanish",
		LearningLanguage: "English",
		Personalization: map[string]string{
			"currentLocation": "Madrid",
			"workStudy":       "nurse",
		},
	}

	prompt := BuildSystemPrompt(user, conversation.Context{})
	assert.Contains(t, prompt, "- Location: Madrid")
	assert.Contains(t, prompt, "- Work/Study: nurse")
}

func TestBuildSystemPromptContextOrdering(t *testing.T) {
	user := &model.User{
		Username:         "maria",
		NativeLanguage:   "Spanish",
		LearningLanguage: "English",
	}
	ctx := conversation.Context{
		Summaries: []string{"- user has a dog named Rex"},
		RecentMessages: []model.Message{
			{Sender: model.SenderUser, Content: "I walked Rex today"},
			{Sender: model.SenderBot, Content: "That sounds fun! Where did you go?"},
		},
	}

	prompt := BuildSystemPrompt(user, ctx)

	assert.Contains(t, prompt, "Previous conversation highlights:\n- user has a dog named Rex")
	assert.Contains(t, prompt, "Recent conversation:\nuser: I walked Rex today")

	// Summaries come before the raw turns, reminder comes last
	assert.Less(t,
		strings.Index(prompt, "Previous conversation highlights:"),
		strings.Index(prompt, "Recent conversation:"))
	assert.True(t, strings.HasSuffix(prompt,
		"Remember to always use English and keep your response brief. Ask a question at the end of each response."))
}
