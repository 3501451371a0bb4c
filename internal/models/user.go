// ABOUTME: User owns plants and receives their messages and reminders
package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is an account holder
type User struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUser creates a new User with validation
func NewUser(name, phone string) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("user name cannot be empty")
	}
	return &User{
		UserID:    "user_" + uuid.New().String(),
		Name:      name,
		Phone:     strings.TrimSpace(phone),
		CreatedAt: time.Now().UTC(),
	}, nil
}
