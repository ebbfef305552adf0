package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLessonStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    LessonStatus
		to      LessonStatus
		allowed bool
	}{
		{"scheduled to in_progress", LessonStatusScheduled, LessonStatusInProgress, true},
		{"scheduled to canceled", LessonStatusScheduled, LessonStatusCanceled, true},
		{"scheduled to completed skips in_progress", LessonStatusScheduled, LessonStatusCompleted, false},
		{"in_progress to completed", LessonStatusInProgress, LessonStatusCompleted, true},
		{"in_progress to canceled", LessonStatusInProgress, LessonStatusCanceled, false},
		{"in_progress back to scheduled", LessonStatusInProgress, LessonStatusScheduled, false},
		{"completed is frozen", LessonStatusCompleted, LessonStatusInProgress, false},
		{"canceled is frozen", LessonStatusCanceled, LessonStatusScheduled, false},
		{"canceled cannot complete", LessonStatusCanceled, LessonStatusCompleted, false},
		{"no self transition", LessonStatusScheduled, LessonStatusScheduled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestLessonStatusIsTerminal(t *testing.T) {
	assert.False(t, LessonStatusScheduled.IsTerminal())
	assert.False(t, LessonStatusInProgress.IsTerminal())
	assert.True(t, LessonStatusCompleted.IsTerminal())
	assert.True(t, LessonStatusCanceled.IsTerminal())
}

func TestLessonStatusAllowedActions(t *testing.T) {
	assert.ElementsMatch(t,
		[]LessonAction{LessonActionEdit, LessonActionStart, LessonActionCancel},
		LessonStatusScheduled.AllowedActions())

	assert.ElementsMatch(t,
		[]LessonAction{LessonActionComplete},
		LessonStatusInProgress.AllowedActions())

	// Терминальные статусы не предлагают действий
	assert.Empty(t, LessonStatusCompleted.AllowedActions())
	assert.Empty(t, LessonStatusCanceled.AllowedActions())
}

func TestLessonCanEdit(t *testing.T) {
	lesson := &Lesson{Status: LessonStatusScheduled}
	assert.True(t, lesson.CanEdit())

	for _, status := range []LessonStatus{LessonStatusInProgress, LessonStatusCompleted, LessonStatusCanceled} {
		lesson.Status = status
		assert.False(t, lesson.CanEdit(), "status %s must not be editable", status)
	}
}

func TestLessonStartClock(t *testing.T) {
	lesson := &Lesson{
		StartTime: time.Date(2026, 9, 15, 9, 5, 0, 0, time.UTC),
	}
	assert.Equal(t, "09:05", lesson.StartClock())
}
