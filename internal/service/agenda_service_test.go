package service

import (
	"context"
	"testing"
	"time"

	"github.com/melodia/agenda_bot/internal/model"
	"github.com/melodia/agenda_bot/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAgendaFixture(t *testing.T) (*AgendaService, *memory.LessonRepository, *model.Lesson) {
	t.Helper()

	repo := memory.NewLessonRepository()
	svc := NewAgendaService(repo, zap.NewNop())

	lesson := &model.Lesson{
		CourseID:  1,
		StudentID: 20,
		TeacherID: 10,
		StartTime: time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 9, 15, 11, 0, 0, 0, time.UTC),
		Room:      "Зал 1",
		Status:    model.LessonStatusScheduled,
	}
	require.NoError(t, repo.Create(context.Background(), lesson))

	return svc, repo, lesson
}

func TestAgendaServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _, lesson := newAgendaFixture(t)

	require.NoError(t, svc.StartLesson(ctx, lesson.ID))

	current, err := svc.GetLesson(ctx, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LessonStatusInProgress, current.Status)

	require.NoError(t, svc.CompleteLesson(ctx, lesson.ID))

	current, err = svc.GetLesson(ctx, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LessonStatusCompleted, current.Status)
}

func TestAgendaServiceCancel(t *testing.T) {
	ctx := context.Background()
	svc, _, lesson := newAgendaFixture(t)

	canceled, err := svc.CancelLesson(ctx, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LessonStatusCanceled, canceled.Status)
	assert.Equal(t, lesson.ID, canceled.ID)

	// Отменённое занятие не предлагает действий и заморожено
	current, err := svc.GetLesson(ctx, lesson.ID)
	require.NoError(t, err)
	assert.Empty(t, current.Status.AllowedActions())

	err = svc.StartLesson(ctx, lesson.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAgendaServiceInvalidTransitions(t *testing.T) {
	ctx := context.Background()
	svc, _, lesson := newAgendaFixture(t)

	// Завершить можно только идущее занятие
	err := svc.CompleteLesson(ctx, lesson.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, svc.StartLesson(ctx, lesson.ID))

	// Идущее занятие нельзя отменить
	_, err = svc.CancelLesson(ctx, lesson.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, svc.CompleteLesson(ctx, lesson.ID))

	// Завершённое заморожено окончательно
	err = svc.StartLesson(ctx, lesson.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	err = svc.CompleteLesson(ctx, lesson.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAgendaServiceNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newAgendaFixture(t)

	_, err := svc.GetLesson(ctx, 404)
	assert.ErrorIs(t, err, ErrLessonNotFound)

	err = svc.StartLesson(ctx, 404)
	assert.ErrorIs(t, err, ErrLessonNotFound)

	_, err = svc.CancelLesson(ctx, 404)
	assert.ErrorIs(t, err, ErrLessonNotFound)
}

func TestAgendaServiceListOrder(t *testing.T) {
	ctx := context.Background()
	svc, repo, first := newAgendaFixture(t)

	earlier := &model.Lesson{
		CourseID:  1,
		StudentID: 21,
		TeacherID: 10,
		StartTime: first.StartTime.Add(-2 * time.Hour),
		EndTime:   first.StartTime.Add(-1 * time.Hour),
		Status:    model.LessonStatusScheduled,
	}
	require.NoError(t, repo.Create(ctx, earlier))

	lessons, err := svc.ListLessons(ctx)
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.Equal(t, earlier.ID, lessons[0].ID)
	assert.Equal(t, first.ID, lessons[1].ID)
}
