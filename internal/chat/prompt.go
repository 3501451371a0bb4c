// ABOUTME: Prompt assembly for plant replies
// ABOUTME: Persona system message, trailing conversation window, then the new user message
package chat

import (
	"fmt"
	"strings"

	"github.com/harper/plant-texts/internal/models"
	"github.com/harper/plant-texts/internal/personality"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultHistoryWindow is the number of trailing turns included in a prompt
const DefaultHistoryWindow = 10

// BuildPrompt assembles the role-tagged message list sent to the model.
// Only the last window turns of history are included, oldest first.
func BuildPrompt(profile personality.Profile, history []models.ConversationTurn, message string, window int) []openai.ChatCompletionMessage {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	history = TrailingWindow(history, window)

	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt(profile),
	})

	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Speaker == models.SpeakerPlant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Text})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})
	return messages
}

// TrailingWindow returns the last n turns of history
func TrailingWindow(history []models.ConversationTurn, n int) []models.ConversationTurn {
	if n >= 0 && len(history) > n {
		return history[len(history)-n:]
	}
	return history
}

func systemPrompt(p personality.Profile) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("You are a houseplant texting your owner. Your personality is %s.\n", p.DisplayName))
	sb.WriteString(fmt.Sprintf("Tone: %s.\n", strings.Join(p.ToneDescriptors, ", ")))

	if len(p.Vocabulary.Prefer) > 0 {
		sb.WriteString(fmt.Sprintf("Words and phrases you like: %s.\n", strings.Join(p.Vocabulary.Prefer, ", ")))
	}
	if len(p.Vocabulary.Avoid) > 0 {
		sb.WriteString(fmt.Sprintf("Never use these words: %s.\n", strings.Join(p.Vocabulary.Avoid, ", ")))
	}

	if len(p.SamplePhrases) > 0 {
		sb.WriteString("Things you might say:\n")
		for _, phrase := range p.SamplePhrases {
			sb.WriteString("- " + phrase + "\n")
		}
	}

	sb.WriteString("Stay in character. Reply in at most two short SMS-length sentences. No emoji, no hashtags.")
	return sb.String()
}
