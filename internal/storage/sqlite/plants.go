// ABOUTME: Plant storage operations for SQLite
// ABOUTME: Plants belong to a user and carry their personality type
package sqlite

import (
	"context"
	"database/sql"

	"github.com/harper/plant-texts/internal/models"
)

// PlantStore handles plant persistence
type PlantStore struct {
	db *DB
}

// NewPlantStore creates a new PlantStore
func NewPlantStore(db *DB) *PlantStore {
	return &PlantStore{db: db}
}

const plantColumns = `id, user_id, name, species, personality_type, created_at`

const upsertPlant = `
	INSERT INTO plants (` + plantColumns + `)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		species = excluded.species,
		personality_type = excluded.personality_type
`

// Save inserts or updates a plant together with any initial care tasks.
// Either all rows are written or none are.
func (s *PlantStore) Save(ctx context.Context, plant *models.Plant, tasks ...*models.CareTask) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, upsertPlant,
			plant.PlantID, plant.UserID, plant.Name, plant.Species, plant.PersonalityType, formatTime(plant.CreatedAt)); err != nil {
			return err
		}
		for _, task := range tasks {
			if err := insertCareTask(ctx, tx, task); err != nil {
				return err
			}
		}
		return nil
	})
}

// Get retrieves a plant by ID, returning nil if not found
func (s *PlantStore) Get(ctx context.Context, plantID string) (*models.Plant, error) {
	row := s.db.QueryRow(ctx, `SELECT `+plantColumns+` FROM plants WHERE id = ?`, plantID)
	plant, err := scanPlant(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return plant, err
}

// ListByUser returns a user's plants, oldest first
func (s *PlantStore) ListByUser(ctx context.Context, userID string) ([]models.Plant, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+plantColumns+` FROM plants WHERE user_id = ? ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var plants []models.Plant
	for rows.Next() {
		plant, err := scanPlant(rows)
		if err != nil {
			return nil, err
		}
		plants = append(plants, *plant)
	}
	return plants, rows.Err()
}

// SetPersonality changes a plant's personality type
func (s *PlantStore) SetPersonality(ctx context.Context, plantID, personalityType string) error {
	res, err := s.db.Exec(ctx, `UPDATE plants SET personality_type = ? WHERE id = ?`, personalityType, plantID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPlant(row scanner) (*models.Plant, error) {
	var (
		plant     models.Plant
		species   sql.NullString
		createdAt string
	)
	if err := row.Scan(&plant.PlantID, &plant.UserID, &plant.Name, &species, &plant.PersonalityType, &createdAt); err != nil {
		return nil, err
	}
	plant.Species = species.String

	var err error
	if plant.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &plant, nil
}
