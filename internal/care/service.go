// ABOUTME: Care task planning, completion and personality-voiced reminders
// ABOUTME: Tasks change only through Complete, which also schedules the next one
package care

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harper/plant-texts/internal/models"
	"github.com/harper/plant-texts/internal/personality"
	"go.uber.org/zap"
)

var (
	ErrTaskNotFound     = errors.New("care task not found")
	ErrAlreadyCompleted = errors.New("care task already completed")
)

// Store persists care tasks. Missing tasks are (nil, nil).
type Store interface {
	// CreatePlant saves a plant and its initial tasks in one transaction
	CreatePlant(ctx context.Context, plant *models.Plant, tasks ...*models.CareTask) error
	GetTask(ctx context.Context, taskID string) (*models.CareTask, error)
	// CompleteTask marks an open task done and inserts next (if non-nil) in
	// one transaction. It reports false if the task was already completed.
	CompleteTask(ctx context.Context, taskID string, at time.Time, next *models.CareTask) (bool, error)
	TasksForPlant(ctx context.Context, plantID string, includeCompleted bool) ([]models.CareTask, error)
	DueTasksForUser(ctx context.Context, userID string, now time.Time) ([]models.CareTask, error)
}

// PlantStore looks plants up by ID. A missing plant is (nil, nil).
type PlantStore interface {
	GetPlant(ctx context.Context, plantID string) (*models.Plant, error)
}

// Planner creates tasks from the catalog
type Planner struct {
	catalog *Catalog
}

// NewPlanner creates a planner over catalog
func NewPlanner(catalog *Catalog) *Planner {
	return &Planner{catalog: catalog}
}

// Plan returns one open task per task type the plant's species needs,
// each due one interval after now.
func (p *Planner) Plan(plant *models.Plant, now time.Time) []*models.CareTask {
	sp := p.catalog.Lookup(plant.Species)
	var tasks []*models.CareTask
	for _, tt := range models.TaskTypes() {
		if interval, ok := sp.Interval(tt); ok {
			tasks = append(tasks, models.NewCareTask(plant.PlantID, tt, now.Add(interval)))
		}
	}
	return tasks
}

// Next returns the follow-up task after completing task at the given time
func (p *Planner) Next(plant *models.Plant, task *models.CareTask, at time.Time) *models.CareTask {
	interval, ok := p.catalog.Lookup(plant.Species).Interval(task.TaskType)
	if !ok {
		return nil
	}
	return models.NewCareTask(task.PlantID, task.TaskType, at.Add(interval))
}

// Service is the care task API used by the HTTP, MCP and CLI surfaces
type Service struct {
	Store    Store
	Plants   PlantStore
	Planner  *Planner
	Resolver *personality.Resolver
	Logger   *zap.Logger
}

// AddPlant saves a new plant together with its initial care tasks. A
// failure leaves neither behind.
func (s *Service) AddPlant(ctx context.Context, plant *models.Plant, now time.Time) ([]*models.CareTask, error) {
	tasks := s.Planner.Plan(plant, now)
	if err := s.Store.CreatePlant(ctx, plant, tasks...); err != nil {
		return nil, fmt.Errorf("failed to save plant: %w", err)
	}
	if !s.KnownSpecies(plant.Species) {
		s.logger().Info("species not in care catalog, using default intervals",
			zap.String("plant_id", plant.PlantID), zap.String("species", plant.Species))
	}
	return tasks, nil
}

// KnownSpecies reports whether species has its own care schedule
func (s *Service) KnownSpecies(species string) bool {
	return s.Planner.catalog.Known(species)
}

// Species lists every catalog species with its own schedule, by name
func (s *Service) Species() []Species {
	names := s.Planner.catalog.Names()
	out := make([]Species, 0, len(names))
	for _, name := range names {
		out = append(out, s.Planner.catalog.Lookup(name))
	}
	return out
}

// Complete marks a task done at the given time and schedules the next one.
// It returns the new task, which is nil if the plant no longer exists.
func (s *Service) Complete(ctx context.Context, taskID string, at time.Time) (*models.CareTask, error) {
	task, err := s.Store.GetTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to load care task: %w", err)
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	if task.Completed() {
		return nil, ErrAlreadyCompleted
	}

	plant, err := s.Plants.GetPlant(ctx, task.PlantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load plant: %w", err)
	}

	var next *models.CareTask
	if plant != nil {
		next = s.Planner.Next(plant, task, at)
	}

	ok, err := s.Store.CompleteTask(ctx, taskID, at.UTC(), next)
	if err != nil {
		return nil, fmt.Errorf("failed to complete care task: %w", err)
	}
	if !ok {
		return nil, ErrAlreadyCompleted
	}

	s.logger().Info("care task completed",
		zap.String("task_id", taskID), zap.String("task_type", string(task.TaskType)))
	return next, nil
}

// ForPlant lists a plant's tasks, open ones only unless includeCompleted
func (s *Service) ForPlant(ctx context.Context, plantID string, includeCompleted bool) ([]models.CareTask, error) {
	return s.Store.TasksForPlant(ctx, plantID, includeCompleted)
}

// Due lists a user's open tasks due at or before now
func (s *Service) Due(ctx context.Context, userID string, now time.Time) ([]models.CareTask, error) {
	return s.Store.DueTasksForUser(ctx, userID, now)
}

// DueReminder is a due task with its reminder text
type DueReminder struct {
	Task      models.CareTask `json:"task"`
	PlantName string          `json:"plant_name"`
	Text      string          `json:"text"`
}

// Reminders builds a personality-voiced reminder for every due task
func (s *Service) Reminders(ctx context.Context, userID string, now time.Time) ([]DueReminder, error) {
	tasks, err := s.Due(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	plants := make(map[string]*models.Plant)
	var out []DueReminder
	for _, task := range tasks {
		plant, seen := plants[task.PlantID]
		if !seen {
			plant, err = s.Plants.GetPlant(ctx, task.PlantID)
			if err != nil {
				return nil, fmt.Errorf("failed to load plant: %w", err)
			}
			plants[task.PlantID] = plant
		}
		if plant == nil {
			continue
		}
		profile := s.Resolver.Resolve(plant.PersonalityType)
		out = append(out, DueReminder{
			Task:      task,
			PlantName: plant.Name,
			Text:      Reminder(profile, task, plant.Name),
		})
	}
	return out, nil
}

// Reminder voices a due task in the plant's personality
func Reminder(profile personality.Profile, task models.CareTask, plantName string) string {
	return fmt.Sprintf("%s: %s", plantName, profile.Template(personality.Intent(task.TaskType), task.TaskID))
}

func (s *Service) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
