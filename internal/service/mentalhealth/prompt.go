package mentalhealth

import (
	"strings"

	"github.com/guardianlink/backend/internal/model/chat"
)

const systemPrompt = `You are a compassionate mental health support AI.
Use the following retrieved information to provide supportive, empathetic responses.
If the information doesn't address the user's concern, provide general supportive guidance.
Always be respectful, supportive, and non-judgmental.

Retrieved information:
{context}

Chat history:
{history}

Respond in the same language as the user's message.`

const userPrompt = "{message}"

// formatHistory renders the last prompt-window turns as "User:" / "Assistant:" lines.
func formatHistory(messages []chat.Message) string {
	var b strings.Builder
	for _, msg := range chat.Recent(messages, chat.PromptWindow) {
		if msg.Role == chat.RoleUser {
			b.WriteString("User: ")
		} else {
			b.WriteString("Assistant: ")
		}
		b.WriteString(msg.Content)
		b.WriteByte('\n')
	}
	return b.String()
}
