// ABOUTME: Tests for conversation turn storage operations
// ABOUTME: Verifies atomic appends, arrival ordering and append-only enforcement
package sqlite

import (
	"context"
	"fmt"
	"testing"

	"github.com/harper/plant-texts/internal/models"
)

func TestTurnAppendAndRecent(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	user, plant := seedPlant(t, store, "cheerful")

	for i := 0; i < 6; i++ {
		userTurn, _ := models.NewTurn(plant.PlantID, user.UserID, models.SpeakerUser, fmt.Sprintf("q%d", i))
		plantTurn, _ := models.NewTurn(plant.PlantID, user.UserID, models.SpeakerPlant, fmt.Sprintf("a%d", i))
		if err := store.AppendTurns(ctx, userTurn, plantTurn); err != nil {
			t.Fatalf("AppendTurns() error = %v", err)
		}
	}

	turns, err := store.RecentTurns(ctx, plant.PlantID, 4)
	if err != nil {
		t.Fatalf("RecentTurns() error = %v", err)
	}

	want := []string{"q4", "a4", "q5", "a5"}
	if len(turns) != len(want) {
		t.Fatalf("RecentTurns() returned %d turns, want %d", len(turns), len(want))
	}
	for i, turn := range turns {
		if turn.Text != want[i] {
			t.Errorf("turns[%d].Text = %v, want %v", i, turn.Text, want[i])
		}
	}
	if turns[0].Speaker != models.SpeakerUser || turns[1].Speaker != models.SpeakerPlant {
		t.Errorf("speakers = %v, %v", turns[0].Speaker, turns[1].Speaker)
	}

	n, err := store.CountTurns(ctx, plant.PlantID)
	if err != nil {
		t.Fatalf("CountTurns() error = %v", err)
	}
	if n != 12 {
		t.Errorf("CountTurns() = %d, want 12", n)
	}
}

func TestTurnAppendIsAtomic(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	user, plant := seedPlant(t, store, "grumpy")

	good, _ := models.NewTurn(plant.PlantID, user.UserID, models.SpeakerUser, "hello")
	dup := *good // same ID violates the unique constraint

	if err := store.AppendTurns(ctx, good, &dup); err == nil {
		t.Fatal("AppendTurns() should fail on duplicate IDs")
	}

	n, _ := store.CountTurns(ctx, plant.PlantID)
	if n != 0 {
		t.Errorf("CountTurns() = %d after failed append, want 0", n)
	}
}

func TestTurnsAreAppendOnly(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	user, plant := seedPlant(t, store, "wise")

	turn, _ := models.NewTurn(plant.PlantID, user.UserID, models.SpeakerUser, "original")
	if err := store.AppendTurns(ctx, turn); err != nil {
		t.Fatalf("AppendTurns() error = %v", err)
	}

	if _, err := store.db.Exec(ctx, `UPDATE conversation_turns SET text = 'edited' WHERE id = ?`, turn.TurnID); err == nil {
		t.Error("updating a turn should be rejected")
	}
}

func TestTurnsArePerPlant(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	user, plant := seedPlant(t, store, "chill")

	other, _ := models.NewPlant(user.UserID, "Spike", "cactus", "grumpy")
	if err := store.CreatePlant(ctx, other); err != nil {
		t.Fatalf("CreatePlant() error = %v", err)
	}

	a, _ := models.NewTurn(plant.PlantID, user.UserID, models.SpeakerUser, "to fern")
	b, _ := models.NewTurn(other.PlantID, user.UserID, models.SpeakerUser, "to cactus")
	if err := store.AppendTurns(ctx, a, b); err != nil {
		t.Fatalf("AppendTurns() error = %v", err)
	}

	turns, _ := store.RecentTurns(ctx, other.PlantID, 10)
	if len(turns) != 1 || turns[0].Text != "to cactus" {
		t.Errorf("RecentTurns(other) = %+v", turns)
	}
}

func TestAppendRejectsUnknownSpeaker(t *testing.T) {
	store := newTestStorage(t)
	user, plant := seedPlant(t, store, "chill")

	turn := &models.ConversationTurn{TurnID: "turn_x", PlantID: plant.PlantID, UserID: user.UserID, Speaker: "robot", Text: "beep"}
	if err := store.AppendTurns(context.Background(), turn); err == nil {
		t.Error("AppendTurns() should reject an unknown speaker")
	}
}
