// ABOUTME: Plant is a houseplant on a user's account with an assigned personality
// ABOUTME: The personality type is stored as its canonical name
package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Plant represents a plant owned by a user
type Plant struct {
	PlantID         string    `json:"plant_id"`
	UserID          string    `json:"user_id"`
	Name            string    `json:"name"`
	Species         string    `json:"species"`
	PersonalityType string    `json:"personality_type"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewPlant creates a new Plant with validation.
// The personality type is kept as given; resolution to a profile happens at chat time.
func NewPlant(userID, name, species, personalityType string) (*Plant, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("user id cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("plant name cannot be empty")
	}
	return &Plant{
		PlantID:         "plant_" + uuid.New().String(),
		UserID:          userID,
		Name:            name,
		Species:         strings.ToLower(strings.TrimSpace(species)),
		PersonalityType: strings.ToLower(strings.TrimSpace(personalityType)),
		CreatedAt:       time.Now().UTC(),
	}, nil
}
