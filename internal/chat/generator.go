// ABOUTME: ResponseGenerator turns a profile, history and message into a plant reply
// ABOUTME: Calls the model with bounded retries and falls back to a canned template
package chat

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/harper/plant-texts/internal/llm"
	"github.com/harper/plant-texts/internal/models"
	"github.com/harper/plant-texts/internal/personality"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	// FallbackMarker is appended to every template reply and never appears in model replies
	FallbackMarker = "🌱"
	// MaxReplyRunes bounds a reply to roughly 150 tokens
	MaxReplyRunes = 600
)

// Completer is the model call the generator depends on
type Completer interface {
	Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (llm.Completion, error)
}

// Result is a generated reply plus how it was produced
type Result struct {
	Text     string
	Fallback bool
	Intent   personality.Intent
	Attempts int
	// Err is the provider error that forced a fallback, if any
	Err error
}

// Generator produces personality-consistent replies
type Generator struct {
	model  Completer
	window int
	logger *zap.Logger
}

// NewGenerator creates a generator. A nil model means every reply is a fallback.
func NewGenerator(model Completer, window int, logger *zap.Logger) *Generator {
	if window <= 0 {
		window = DefaultHistoryWindow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{model: model, window: window, logger: logger}
}

// Generate always returns a reply. Provider failures are reported in
// Result.Err, never as a returned error.
func (g *Generator) Generate(ctx context.Context, profile personality.Profile, history []models.ConversationTurn, message string) Result {
	intent := personality.DetectIntent(message)

	if g.model == nil {
		return g.fallback(profile, intent, message, 0, nil)
	}

	completion, err := g.model.Complete(ctx, BuildPrompt(profile, history, message, g.window))
	if err != nil {
		return g.fallback(profile, intent, message, attemptsOf(err), err)
	}

	text := Clean(profile, completion.Text)
	if text == "" {
		return g.fallback(profile, intent, message, completion.Attempts, errors.New("model reply empty after cleanup"))
	}

	return Result{Text: text, Intent: intent, Attempts: completion.Attempts}
}

func (g *Generator) fallback(profile personality.Profile, intent personality.Intent, message string, attempts int, cause error) Result {
	if cause != nil {
		g.logger.Warn("using fallback reply",
			zap.Stringer("personality", profile.Type),
			zap.String("intent", string(intent)),
			zap.Int("attempts", attempts),
			zap.Error(cause))
	}
	return Result{
		Text:     FallbackText(profile, intent, message),
		Fallback: true,
		Intent:   intent,
		Attempts: attempts,
		Err:      cause,
	}
}

// FallbackText is the deterministic template reply for (profile, intent, seed)
func FallbackText(profile personality.Profile, intent personality.Intent, seed string) string {
	return profile.Template(intent, seed) + " " + FallbackMarker
}

// Clean post-processes model output: avoided words and the fallback marker
// are removed, whitespace is collapsed, and the reply is clamped to MaxReplyRunes.
func Clean(profile personality.Profile, text string) string {
	text = strings.ReplaceAll(text, FallbackMarker, "")
	for _, word := range profile.Vocabulary.Avoid {
		text = avoidPattern(word).ReplaceAllString(text, "")
	}
	text = strings.Join(strings.Fields(text), " ")
	text = spaceBeforePunct.ReplaceAllString(text, "$1")
	text = doubledPunct.ReplaceAllString(text, "$1")
	text = strings.TrimLeft(text, ",.;: ")
	return clamp(text, MaxReplyRunes)
}

var (
	spaceBeforePunct = regexp.MustCompile(`\s+([,.!?;:])`)
	doubledPunct     = regexp.MustCompile(`[,;:]+([,.!?;:])`)
)

func avoidPattern(word string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
}

// clamp cuts text to at most limit runes, preferring a word boundary
func clamp(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)[:limit]
	cut := string(runes)
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:-")
}

// TokenEstimate approximates tokens as runes/4
func TokenEstimate(text string) int {
	return (utf8.RuneCountInString(text) + 3) / 4
}

func attemptsOf(err error) int {
	var transient *llm.ProviderTransientError
	if errors.As(err, &transient) {
		return transient.Attempts
	}
	var fatal *llm.ProviderFatalError
	if errors.As(err, &fatal) {
		return fatal.Attempts
	}
	return 0
}
