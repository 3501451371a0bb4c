// ABOUTME: ConversationTurn is one user- or plant-authored message in a plant's conversation
// ABOUTME: Append-only per plant; ordering is arrival order
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Speaker identifies who authored a turn
type Speaker string

const (
	SpeakerUser  Speaker = "user"
	SpeakerPlant Speaker = "plant"
)

// Valid reports whether s is a known speaker
func (s Speaker) Valid() bool {
	return s == SpeakerUser || s == SpeakerPlant
}

// ConversationTurn represents a single message in a plant conversation
type ConversationTurn struct {
	TurnID    string    `json:"turn_id"`
	PlantID   string    `json:"plant_id"`
	UserID    string    `json:"user_id"`
	Speaker   Speaker   `json:"speaker"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTurn creates a new ConversationTurn with validation
func NewTurn(plantID, userID string, speaker Speaker, text string) (*ConversationTurn, error) {
	if strings.TrimSpace(plantID) == "" {
		return nil, errors.New("plant id cannot be empty")
	}
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("user id cannot be empty")
	}
	if !speaker.Valid() {
		return nil, fmt.Errorf("unknown speaker %q", speaker)
	}
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("turn text cannot be empty")
	}
	return &ConversationTurn{
		TurnID:    generateTurnID(),
		PlantID:   plantID,
		UserID:    userID,
		Speaker:   speaker,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}, nil
}

// generateTurnID generates a unique turn identifier
func generateTurnID() string {
	return fmt.Sprintf("turn_%s_%s", time.Now().UTC().Format("20060102_150405"), uuid.New().String()[:8])
}
