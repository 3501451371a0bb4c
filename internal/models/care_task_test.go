// ABOUTME: Tests for CareTask state helpers and task type parsing
package models

import (
	"testing"
	"time"
)

func TestParseTaskType(t *testing.T) {
	for _, tt := range TaskTypes() {
		got, err := ParseTaskType(string(tt))
		if err != nil {
			t.Errorf("ParseTaskType(%q) error = %v", tt, err)
		}
		if got != tt {
			t.Errorf("ParseTaskType(%q) = %q", tt, got)
		}
	}

	if _, err := ParseTaskType("dusting"); err == nil {
		t.Error("ParseTaskType() should reject unknown task types")
	}
}

func TestCareTask_IsDue(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		task *CareTask
		want bool
	}{
		{"overdue", NewCareTask("p", TaskWatering, now.Add(-time.Hour)), true},
		{"due exactly now", NewCareTask("p", TaskWatering, now), true},
		{"future", NewCareTask("p", TaskWatering, now.Add(time.Hour)), false},
		{"completed", func() *CareTask {
			task := NewCareTask("p", TaskWatering, now.Add(-time.Hour))
			done := now
			task.CompletedAt = &done
			return task
		}(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.IsDue(now); got != tt.want {
				t.Errorf("IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}
