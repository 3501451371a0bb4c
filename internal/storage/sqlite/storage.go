// ABOUTME: Unified Storage layer that wraps all SQLite stores
// ABOUTME: Implements the store interfaces used by the chat, care and API layers
package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/harper/plant-texts/internal/models"
)

// Storage manages all persistent data for plant texts using SQLite
type Storage struct {
	db     *DB
	users  *UserStore
	plants *PlantStore
	turns  *TurnStore
	care   *CareStore
}

// NewStorageWithPath initializes storage with a custom database path
func NewStorageWithPath(dbPath string) (*Storage, error) {
	db, err := Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newStorage(db), nil
}

// NewStorageInMemory creates an in-memory storage (for testing)
func NewStorageInMemory() (*Storage, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	return newStorage(db), nil
}

func newStorage(db *DB) *Storage {
	return &Storage{
		db:     db,
		users:  NewUserStore(db),
		plants: NewPlantStore(db),
		turns:  NewTurnStore(db),
		care:   NewCareStore(db),
	}
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ping checks the database is reachable
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.Conn().PingContext(ctx)
}

// --- User operations ---

// CreateUser saves a new user
func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	return s.users.Save(ctx, user)
}

// GetUser retrieves a user, nil if not found
func (s *Storage) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.users.Get(ctx, userID)
}

// ListUsers lists every user
func (s *Storage) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

// --- Plant operations ---

// CreatePlant saves a new plant and its initial care tasks in one transaction
func (s *Storage) CreatePlant(ctx context.Context, plant *models.Plant, tasks ...*models.CareTask) error {
	return s.plants.Save(ctx, plant, tasks...)
}

// GetPlant retrieves a plant, nil if not found
func (s *Storage) GetPlant(ctx context.Context, plantID string) (*models.Plant, error) {
	return s.plants.Get(ctx, plantID)
}

// ListPlants lists a user's plants
func (s *Storage) ListPlants(ctx context.Context, userID string) ([]models.Plant, error) {
	return s.plants.ListByUser(ctx, userID)
}

// SetPlantPersonality reassigns a plant's personality
func (s *Storage) SetPlantPersonality(ctx context.Context, plantID, personalityType string) error {
	return s.plants.SetPersonality(ctx, plantID, personalityType)
}

// --- Turn operations ---

// AppendTurns appends turns atomically
func (s *Storage) AppendTurns(ctx context.Context, turns ...*models.ConversationTurn) error {
	return s.turns.Append(ctx, turns...)
}

// RecentTurns returns the trailing n turns, oldest first
func (s *Storage) RecentTurns(ctx context.Context, plantID string, n int) ([]models.ConversationTurn, error) {
	return s.turns.Recent(ctx, plantID, n)
}

// CountTurns returns the number of turns for a plant
func (s *Storage) CountTurns(ctx context.Context, plantID string) (int, error) {
	return s.turns.Count(ctx, plantID)
}

// --- Care task operations ---

// GetTask retrieves a care task, nil if not found
func (s *Storage) GetTask(ctx context.Context, taskID string) (*models.CareTask, error) {
	return s.care.Get(ctx, taskID)
}

// CompleteTask completes an open task and schedules next
func (s *Storage) CompleteTask(ctx context.Context, taskID string, at time.Time, next *models.CareTask) (bool, error) {
	return s.care.Complete(ctx, taskID, at, next)
}

// TasksForPlant lists a plant's care tasks
func (s *Storage) TasksForPlant(ctx context.Context, plantID string, includeCompleted bool) ([]models.CareTask, error) {
	return s.care.ForPlant(ctx, plantID, includeCompleted)
}

// DueTasksForUser lists a user's due tasks
func (s *Storage) DueTasksForUser(ctx context.Context, userID string, now time.Time) ([]models.CareTask, error) {
	return s.care.DueForUser(ctx, userID, now)
}
