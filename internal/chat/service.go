// ABOUTME: Chat service handles one inbound message for a plant end to end
// ABOUTME: Load plant and history, generate a reply, persist both turns, dispatch evaluation
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/harper/plant-texts/internal/evaluation"
	"github.com/harper/plant-texts/internal/metrics"
	"github.com/harper/plant-texts/internal/models"
	"github.com/harper/plant-texts/internal/personality"
	"go.uber.org/zap"
)

// MaxMessageRunes bounds an inbound message
const MaxMessageRunes = 1000

var (
	ErrEmptyMessage   = errors.New("message cannot be empty")
	ErrMessageTooLong = fmt.Errorf("message exceeds %d characters", MaxMessageRunes)
	ErrPlantNotFound  = errors.New("plant not found")
)

// PlantStore looks plants up by ID. A missing plant is (nil, nil).
type PlantStore interface {
	GetPlant(ctx context.Context, plantID string) (*models.Plant, error)
}

// TurnStore is the durable, append-only conversation log
type TurnStore interface {
	RecentTurns(ctx context.Context, plantID string, n int) ([]models.ConversationTurn, error)
	AppendTurns(ctx context.Context, turns ...*models.ConversationTurn) error
}

// HistoryCache is an optional fast path in front of TurnStore. Warm takes
// the Generation observed before the store read so a stale snapshot never
// overwrites turns appended in between.
type HistoryCache interface {
	Recent(ctx context.Context, plantID string, n int) ([]models.ConversationTurn, bool, error)
	Generation(ctx context.Context, plantID string) (int64, error)
	Warm(ctx context.Context, plantID string, gen int64, turns []models.ConversationTurn) error
	Append(ctx context.Context, plantID string, turns ...models.ConversationTurn) error
	Invalidate(ctx context.Context, plantID string) error
}

// Recorder receives a record of every exchange. It must not block.
type Recorder interface {
	Record(tc evaluation.TurnContext, response string, md evaluation.Metadata)
}

// Reply is the result of a chat call
type Reply struct {
	ResponseText    string `json:"response_text"`
	PersonalityType string `json:"personality_type"`
	Fallback        bool   `json:"fallback"`
	TurnID          string `json:"turn_id"`
}

// Service wires the chat path together
type Service struct {
	Plants    PlantStore
	Turns     TurnStore
	Cache     HistoryCache // optional
	Resolver  *personality.Resolver
	Generator *Generator
	Recorder  Recorder // optional
	Metrics   *metrics.Metrics
	Window    int
	Model     string
	Logger    *zap.Logger
}

// Chat answers message as the plant's personality. Provider failures never
// surface here; only bad input, unknown plants and storage errors do.
func (s *Service) Chat(ctx context.Context, plantID, message string) (*Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(message) > MaxMessageRunes {
		return nil, ErrMessageTooLong
	}

	plant, err := s.Plants.GetPlant(ctx, plantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load plant: %w", err)
	}
	if plant == nil {
		return nil, ErrPlantNotFound
	}

	profile := s.Resolver.Resolve(plant.PersonalityType)

	history, err := s.history(ctx, plantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	start := time.Now()
	result := s.Generator.Generate(ctx, profile, history, message)
	latency := time.Since(start)

	userTurn, err := models.NewTurn(plant.PlantID, plant.UserID, models.SpeakerUser, message)
	if err != nil {
		return nil, err
	}
	plantTurn, err := models.NewTurn(plant.PlantID, plant.UserID, models.SpeakerPlant, result.Text)
	if err != nil {
		return nil, err
	}
	if err := s.Turns.AppendTurns(ctx, userTurn, plantTurn); err != nil {
		return nil, fmt.Errorf("failed to save turns: %w", err)
	}

	if s.Cache != nil {
		if err := s.Cache.Append(ctx, plantID, *userTurn, *plantTurn); err != nil {
			s.logger().Warn("history cache append failed", zap.String("plant_id", plantID), zap.Error(err))
			// a warm list without these turns would be served as the full history
			if err := s.Cache.Invalidate(ctx, plantID); err != nil {
				s.logger().Warn("history cache invalidate failed", zap.String("plant_id", plantID), zap.Error(err))
			}
		}
	}

	s.Metrics.ObserveReply(result.Fallback, result.Attempts)

	if s.Recorder != nil {
		s.Recorder.Record(evaluation.TurnContext{
			PlantID:   plant.PlantID,
			UserID:    plant.UserID,
			TurnID:    plantTurn.TurnID,
			Input:     message,
			Profile:   profile,
			HistoryN:  len(history),
			Timestamp: plantTurn.Timestamp,
		}, result.Text, evaluation.Metadata{
			Latency:  latency,
			Fallback: result.Fallback,
			Attempts: result.Attempts,
			Model:    s.Model,
			Intent:   string(result.Intent),
		})
	}

	s.logger().Info("plant replied",
		zap.String("plant_id", plantID),
		zap.Stringer("personality", profile.Type),
		zap.Bool("fallback", result.Fallback),
		zap.Int("attempts", result.Attempts),
		zap.Duration("latency", latency))

	return &Reply{
		ResponseText:    result.Text,
		PersonalityType: profile.Type.String(),
		Fallback:        result.Fallback,
		TurnID:          plantTurn.TurnID,
	}, nil
}

// history returns the trailing window, preferring the cache
func (s *Service) history(ctx context.Context, plantID string) ([]models.ConversationTurn, error) {
	window := s.window()

	warm := false
	var gen int64
	if s.Cache != nil {
		turns, ok, err := s.Cache.Recent(ctx, plantID, window)
		if err == nil && ok {
			return turns, nil
		}
		if err != nil {
			s.logger().Warn("history cache read failed", zap.String("plant_id", plantID), zap.Error(err))
		} else if gen, err = s.Cache.Generation(ctx, plantID); err != nil {
			s.logger().Warn("history cache generation read failed", zap.String("plant_id", plantID), zap.Error(err))
		} else {
			warm = true
		}
	}

	turns, err := s.Turns.RecentTurns(ctx, plantID, window)
	if err != nil {
		return nil, err
	}

	if warm {
		if err := s.Cache.Warm(ctx, plantID, gen, turns); err != nil {
			s.logger().Warn("history cache warm failed", zap.String("plant_id", plantID), zap.Error(err))
		}
	}
	return turns, nil
}

func (s *Service) window() int {
	if s.Window <= 0 {
		return DefaultHistoryWindow
	}
	return s.Window
}

func (s *Service) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
