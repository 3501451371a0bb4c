// ABOUTME: Conversation turn storage operations for SQLite
// ABOUTME: Append-only; reads come back in arrival order
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/harper/plant-texts/internal/models"
)

// TurnStore handles turn persistence
type TurnStore struct {
	db *DB
}

// NewTurnStore creates a new TurnStore
func NewTurnStore(db *DB) *TurnStore {
	return &TurnStore{db: db}
}

// Append inserts turns in one transaction, in the order given
func (s *TurnStore) Append(ctx context.Context, turns ...*models.ConversationTurn) error {
	if len(turns) == 0 {
		return nil
	}
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO conversation_turns (id, plant_id, user_id, speaker, text, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer func() { _ = stmt.Close() }()

		for _, turn := range turns {
			if !turn.Speaker.Valid() {
				return fmt.Errorf("turn %s has unknown speaker %q", turn.TurnID, turn.Speaker)
			}
			if _, err := stmt.ExecContext(ctx, turn.TurnID, turn.PlantID, turn.UserID,
				string(turn.Speaker), turn.Text, formatTime(turn.Timestamp)); err != nil {
				return fmt.Errorf("failed to insert turn %s: %w", turn.TurnID, err)
			}
		}
		return nil
	})
}

// Recent returns the last n turns for a plant, oldest first
func (s *TurnStore) Recent(ctx context.Context, plantID string, n int) ([]models.ConversationTurn, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, plant_id, user_id, speaker, text, created_at FROM (
			SELECT seq, id, plant_id, user_id, speaker, text, created_at
			FROM conversation_turns
			WHERE plant_id = ?
			ORDER BY seq DESC
			LIMIT ?
		) ORDER BY seq ASC
	`, plantID, n)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var turns []models.ConversationTurn
	for rows.Next() {
		var (
			turn      models.ConversationTurn
			speaker   string
			createdAt string
		)
		if err := rows.Scan(&turn.TurnID, &turn.PlantID, &turn.UserID, &speaker, &turn.Text, &createdAt); err != nil {
			return nil, err
		}
		turn.Speaker = models.Speaker(speaker)
		if turn.Timestamp, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		turns = append(turns, turn)
	}
	return turns, rows.Err()
}

// Count returns the number of turns stored for a plant
func (s *TurnStore) Count(ctx context.Context, plantID string) (int, error) {
	var n int
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM conversation_turns WHERE plant_id = ?`, plantID).Scan(&n)
	return n, err
}
