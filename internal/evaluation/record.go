// ABOUTME: Evaluation record types sent to the external evaluation service
// ABOUTME: One record per chat exchange: input, output, personality, latency, timestamp
package evaluation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harper/plant-texts/internal/personality"
)

// TurnContext describes the exchange being recorded
type TurnContext struct {
	PlantID   string
	UserID    string
	TurnID    string
	Input     string
	Profile   personality.Profile
	HistoryN  int
	Timestamp time.Time
}

// Metadata is what the chat path knows about how the reply was produced
type Metadata struct {
	Latency  time.Duration
	Fallback bool
	Attempts int
	Model    string
	Intent   string
}

// Record is the wire format of one evaluation event
type Record struct {
	ID              string             `json:"id"`
	Input           string             `json:"input"`
	Output          string             `json:"output"`
	PersonalityType string             `json:"personality_type"`
	LatencyMS       int64              `json:"latency_ms"`
	Timestamp       time.Time          `json:"timestamp"`
	Scores          map[string]float64 `json:"scores,omitempty"`
	Metadata        map[string]any     `json:"metadata,omitempty"`
}

// NewRecord builds the record for an exchange, scoring the response
func NewRecord(tc TurnContext, response string, md Metadata) Record {
	ts := tc.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	id := tc.TurnID
	if id == "" {
		id = "eval_" + uuid.New().String()
	}
	return Record{
		ID:              id,
		Input:           tc.Input,
		Output:          response,
		PersonalityType: tc.Profile.Type.String(),
		LatencyMS:       md.Latency.Milliseconds(),
		Timestamp:       ts,
		Scores:          Score(tc.Profile, response),
		Metadata: map[string]any{
			"plant_id":     tc.PlantID,
			"user_id":      tc.UserID,
			"fallback":     md.Fallback,
			"attempts":     md.Attempts,
			"model":        md.Model,
			"intent":       md.Intent,
			"history_size": tc.HistoryN,
		},
	}
}

// LoggingError is a failure to deliver an evaluation record. It is only
// ever logged and counted, never returned to a chat caller.
type LoggingError struct {
	Sink string
	Err  error
}

func (e *LoggingError) Error() string {
	return fmt.Sprintf("evaluation logging via %s failed: %v", e.Sink, e.Err)
}

func (e *LoggingError) Unwrap() error { return e.Err }
