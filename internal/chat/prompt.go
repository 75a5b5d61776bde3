package chat

import (
	"fmt"
	"strings"

	"linguachat/internal/conversation"
	"linguachat/internal/model"
)

// BuildSystemPrompt assembles the tutoring system prompt in a fixed
// order: persona, user details, personalization, guidelines, prior
// summaries, recent turns, closing reminder.
func BuildSystemPrompt(user *model.User, ctx conversation.Context) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are a friendly language exchange partner helping %s practice %s.

You are having a natural conversation to help them improve their language skills through practice.

User Details:
- Native Language: %s
- Learning: %s
- Name: %s`,
		user.Username, user.LearningLanguage,
		user.NativeLanguage, user.LearningLanguage, user.Username)

	if loc := user.Personalization["currentLocation"]; loc != "" {
		fmt.Fprintf(&b, "\n- Location: %s", loc)
	}
	if work := user.Personalization["workStudy"]; work != "" {
		fmt.Fprintf(&b, "\n- Work/Study: %s", work)
	}

	fmt.Fprintf(&b, `

Guidelines:
- Always respond in %s
- Keep responses brief and conversational (2-3 sentences max)
- ALWAYS ask a follow-up question at the end of each response to continue the conversation
- Be encouraging and patient
- Correct major errors gently by using the correct form in your response
- Show genuine interest in the user's responses
- Vary your questions to keep the conversation engaging`,
		user.LearningLanguage)

	if len(ctx.Summaries) > 0 {
		b.WriteString("\n\nPrevious conversation highlights:")
		for _, summary := range ctx.Summaries {
			b.WriteString("\n" + summary)
		}
	}

	if len(ctx.RecentMessages) > 0 {
		b.WriteString("\n\nRecent conversation:")
		for _, msg := range ctx.RecentMessages {
			fmt.Fprintf(&b, "\n%s: %s", msg.Sender, msg.Content)
		}
	}

	fmt.Fprintf(&b, "\n\nRemember to always use %s and keep your response brief. Ask a question at the end of each response.",
		user.LearningLanguage)

	return b.String()
}
