// ABOUTME: Tests for ConversationTurn creation and validation
// ABOUTME: Verifies NewTurn constructor and field handling
package models

import (
	"strings"
	"testing"
)

func TestNewTurn(t *testing.T) {
	tests := []struct {
		name    string
		plantID string
		userID  string
		speaker Speaker
		text    string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "user turn",
			plantID: "plant_1",
			userID:  "user_1",
			speaker: SpeakerUser,
			text:    "did you need water?",
		},
		{
			name:    "plant turn",
			plantID: "plant_1",
			userID:  "user_1",
			speaker: SpeakerPlant,
			text:    "Oh, NOW you ask.",
		},
		{
			name:    "unicode text",
			plantID: "plant_1",
			userID:  "user_1",
			speaker: SpeakerUser,
			text:    "hola 世界 \U0001F331",
		},
		{
			name:    "empty text",
			plantID: "plant_1",
			userID:  "user_1",
			speaker: SpeakerUser,
			text:    "",
			wantErr: true,
			errMsg:  "turn text cannot be empty",
		},
		{
			name:    "whitespace-only text",
			plantID: "plant_1",
			userID:  "user_1",
			speaker: SpeakerUser,
			text:    "   \t\n  ",
			wantErr: true,
			errMsg:  "turn text cannot be empty",
		},
		{
			name:    "missing plant",
			userID:  "user_1",
			speaker: SpeakerUser,
			text:    "hi",
			wantErr: true,
			errMsg:  "plant id cannot be empty",
		},
		{
			name:    "missing user",
			plantID: "plant_1",
			speaker: SpeakerUser,
			text:    "hi",
			wantErr: true,
			errMsg:  "user id cannot be empty",
		},
		{
			name:    "unknown speaker",
			plantID: "plant_1",
			userID:  "user_1",
			speaker: Speaker("gardener"),
			text:    "hi",
			wantErr: true,
			errMsg:  "unknown speaker",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			turn, err := NewTurn(tt.plantID, tt.userID, tt.speaker, tt.text)

			if (err != nil) != tt.wantErr {
				t.Errorf("NewTurn() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if err != nil {
				if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("NewTurn() error = %q, want to contain %q", err.Error(), tt.errMsg)
				}
				return
			}

			if turn.Text != tt.text {
				t.Errorf("Text = %q, want %q", turn.Text, tt.text)
			}
			if turn.Speaker != tt.speaker {
				t.Errorf("Speaker = %q, want %q", turn.Speaker, tt.speaker)
			}
			if turn.PlantID != tt.plantID || turn.UserID != tt.userID {
				t.Errorf("owner = (%q, %q), want (%q, %q)", turn.PlantID, turn.UserID, tt.plantID, tt.userID)
			}
			if !strings.HasPrefix(turn.TurnID, "turn_") {
				t.Errorf("TurnID = %q, should start with 'turn_'", turn.TurnID)
			}
			if turn.Timestamp.IsZero() {
				t.Error("Timestamp should be set")
			}
		})
	}
}

func TestNewTurn_UniqueIDs(t *testing.T) {
	ids := make(map[string]bool)

	for i := 0; i < 10; i++ {
		turn, err := NewTurn("plant_1", "user_1", SpeakerUser, "message")
		if err != nil {
			t.Fatalf("NewTurn() error = %v", err)
		}

		if ids[turn.TurnID] {
			t.Errorf("Duplicate TurnID generated: %s", turn.TurnID)
		}
		ids[turn.TurnID] = true
	}
}

func TestTurn_TurnIDFormat(t *testing.T) {
	turn, err := NewTurn("plant_1", "user_1", SpeakerUser, "test")
	if err != nil {
		t.Fatalf("NewTurn() error = %v", err)
	}

	// TurnID format should be: turn_YYYYMMDD_HHMMSS_<uuid>
	parts := strings.Split(turn.TurnID, "_")
	if len(parts) != 4 {
		t.Fatalf("TurnID format unexpected: %s", turn.TurnID)
	}
	if len(parts[1]) != 8 {
		t.Errorf("TurnID date part should be 8 digits, got: %s", parts[1])
	}
	if len(parts[2]) != 6 {
		t.Errorf("TurnID time part should be 6 digits, got: %s", parts[2])
	}
}
