package memory

import (
	"context"
	"testing"
	"time"

	"github.com/melodia/agenda_bot/internal/model"
	"github.com/melodia/agenda_bot/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLesson(start time.Time) *model.Lesson {
	return &model.Lesson{
		CourseID:  1,
		StudentID: 20,
		TeacherID: 10,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Room:      "Зал 1",
		Status:    model.LessonStatusScheduled,
	}
}

func TestCreateAssignsIDs(t *testing.T) {
	ctx := context.Background()
	repo := NewLessonRepository()

	start := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)

	first := newLesson(start)
	second := newLesson(start.Add(2 * time.Hour))

	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.False(t, first.CreatedAt.IsZero())
}

func TestGetByIDReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewLessonRepository()

	lesson := newLesson(time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(ctx, lesson))

	loaded, err := repo.GetByID(ctx, lesson.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)

	// Мутация копии не трогает хранилище
	loaded.Room = "Другой зал"
	loaded.Status = model.LessonStatusCanceled

	fresh, err := repo.GetByID(ctx, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, "Зал 1", fresh.Room)
	assert.Equal(t, model.LessonStatusScheduled, fresh.Status)
}

func TestGetByIDMissing(t *testing.T) {
	repo := NewLessonRepository()

	lesson, err := repo.GetByID(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, lesson)
}

func TestListSortedByStartTime(t *testing.T) {
	ctx := context.Background()
	repo := NewLessonRepository()

	base := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)
	late := newLesson(base.Add(5 * time.Hour))
	early := newLesson(base)
	middle := newLesson(base.Add(2 * time.Hour))

	require.NoError(t, repo.Create(ctx, late))
	require.NoError(t, repo.Create(ctx, early))
	require.NoError(t, repo.Create(ctx, middle))

	lessons, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, lessons, 3)

	assert.Equal(t, early.ID, lessons[0].ID)
	assert.Equal(t, middle.ID, lessons[1].ID)
	assert.Equal(t, late.ID, lessons[2].ID)
}

func TestUpdateMissingLesson(t *testing.T) {
	repo := NewLessonRepository()

	err := repo.Update(context.Background(), &model.Lesson{ID: 404})
	assert.ErrorIs(t, err, repository.ErrLessonNotFound)

	err = repo.UpdateStatus(context.Background(), 404, model.LessonStatusCanceled)
	assert.ErrorIs(t, err, repository.ErrLessonNotFound)
}

func TestUpdatePreservesCreatedAt(t *testing.T) {
	ctx := context.Background()
	repo := NewLessonRepository()

	lesson := newLesson(time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Create(ctx, lesson))
	created := lesson.CreatedAt

	lesson.Room = "Зал 2"
	require.NoError(t, repo.Update(ctx, lesson))

	updated, err := repo.GetByID(ctx, lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, "Зал 2", updated.Room)
	assert.Equal(t, created, updated.CreatedAt)
	assert.False(t, updated.UpdatedAt.Before(created))
}

func TestListUpcomingForReminder(t *testing.T) {
	ctx := context.Background()
	repo := NewLessonRepository()

	soon := newLesson(time.Now().Add(2 * time.Hour))
	far := newLesson(time.Now().Add(72 * time.Hour))
	past := newLesson(time.Now().Add(-2 * time.Hour))
	canceled := newLesson(time.Now().Add(3 * time.Hour))
	canceled.Status = model.LessonStatusCanceled

	for _, lesson := range []*model.Lesson{soon, far, past, canceled} {
		require.NoError(t, repo.Create(ctx, lesson))
	}

	due, err := repo.ListUpcomingForReminder(ctx, 24)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, soon.ID, due[0].ID)

	// После отметки занятие больше не попадает в выборку
	require.NoError(t, repo.MarkReminderSent(ctx, soon.ID))

	due, err = repo.ListUpcomingForReminder(ctx, 24)
	require.NoError(t, err)
	assert.Empty(t, due)
}
