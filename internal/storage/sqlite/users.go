// ABOUTME: User storage operations for SQLite
// ABOUTME: Create and look up account holders
package sqlite

import (
	"context"
	"database/sql"

	"github.com/harper/plant-texts/internal/models"
)

// UserStore handles user persistence
type UserStore struct {
	db *DB
}

// NewUserStore creates a new UserStore
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

// Save inserts or updates a user
func (s *UserStore) Save(ctx context.Context, user *models.User) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO users (id, name, phone, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			phone = excluded.phone
	`, user.UserID, user.Name, user.Phone, formatTime(user.CreatedAt))
	return err
}

// Get retrieves a user by ID, returning nil if not found
func (s *UserStore) Get(ctx context.Context, userID string) (*models.User, error) {
	var (
		user      models.User
		phone     sql.NullString
		createdAt string
	)
	err := s.db.QueryRow(ctx, `
		SELECT id, name, phone, created_at FROM users WHERE id = ?
	`, userID).Scan(&user.UserID, &user.Name, &phone, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	user.Phone = phone.String
	if user.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns all users, oldest first
func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name, phone, created_at FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var users []models.User
	for rows.Next() {
		var (
			user      models.User
			phone     sql.NullString
			createdAt string
		)
		if err := rows.Scan(&user.UserID, &user.Name, &phone, &createdAt); err != nil {
			return nil, err
		}
		user.Phone = phone.String
		if user.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
