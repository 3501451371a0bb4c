// ABOUTME: CareTask is a single due care action for a plant
// ABOUTME: Completed only by an explicit user action
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TaskType is the kind of care a task asks for
type TaskType string

const (
	TaskWatering    TaskType = "watering"
	TaskFertilizing TaskType = "fertilizing"
	TaskMisting     TaskType = "misting"
	TaskPruning     TaskType = "pruning"
	TaskRepotting   TaskType = "repotting"
)

// TaskTypes lists every task type in display order
func TaskTypes() []TaskType {
	return []TaskType{TaskWatering, TaskFertilizing, TaskMisting, TaskPruning, TaskRepotting}
}

// ParseTaskType validates a task type name
func ParseTaskType(s string) (TaskType, error) {
	for _, tt := range TaskTypes() {
		if string(tt) == s {
			return tt, nil
		}
	}
	return "", fmt.Errorf("unknown task type %q", s)
}

// CareTask represents a care action due for a plant
type CareTask struct {
	TaskID      string     `json:"task_id"`
	PlantID     string     `json:"plant_id"`
	TaskType    TaskType   `json:"task_type"`
	DueAt       time.Time  `json:"due_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewCareTask creates an open task due at dueAt
func NewCareTask(plantID string, taskType TaskType, dueAt time.Time) *CareTask {
	return &CareTask{
		TaskID:   "task_" + uuid.New().String(),
		PlantID:  plantID,
		TaskType: taskType,
		DueAt:    dueAt.UTC(),
	}
}

// Completed reports whether the task has been marked done
func (t *CareTask) Completed() bool {
	return t.CompletedAt != nil
}

// IsDue reports whether an open task is due at or before now
func (t *CareTask) IsDue(now time.Time) bool {
	return !t.Completed() && !t.DueAt.After(now)
}
