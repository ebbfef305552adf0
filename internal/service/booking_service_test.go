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

func validDraft() *LessonDraft {
	return &LessonDraft{
		CourseID:  1,
		StudentID: 20,
		TeacherID: 10,
		Room:      "Зал 1",
		Date:      "2026-09-15",
		StartTime: "10:00",
		EndTime:   "11:00",
	}
}

func TestValidateEmail(t *testing.T) {
	// Пустой email допустим — поле опциональное
	assert.True(t, ValidateEmail(""))
	assert.True(t, ValidateEmail("a@b.com"))
	assert.True(t, ValidateEmail("anna.petrova@school.ru"))

	assert.False(t, ValidateEmail("not-an-email"))
	assert.False(t, ValidateEmail("a@b"))
	assert.False(t, ValidateEmail("a b@c.com"))
	assert.False(t, ValidateEmail("@b.com"))
}

func TestValidateRequiredFields(t *testing.T) {
	svc := NewBookingService(memory.NewLessonRepository(), zap.NewNop())

	result := svc.Validate(&LessonDraft{})
	assert.False(t, result.Valid())

	for _, field := range []string{FieldCourse, FieldStudent, FieldTeacher, FieldRoom, FieldDate, FieldStartTime, FieldEndTime} {
		assert.NotEmpty(t, result.ErrorFor(field), "field %s must be required", field)
	}

	// Email пустой — ошибки по нему нет
	assert.Empty(t, result.ErrorFor(FieldStudentEmail))
}

func TestValidateEndBeforeStart(t *testing.T) {
	svc := NewBookingService(memory.NewLessonRepository(), zap.NewNop())

	draft := validDraft()
	draft.StartTime = "10:00"
	draft.EndTime = "09:30"

	result := svc.Validate(draft)
	assert.False(t, result.Valid())
	assert.NotEmpty(t, result.ErrorFor(FieldEndTime))

	// Равенство тоже отклоняется: окончание строго позже начала
	draft.EndTime = "10:00"
	result = svc.Validate(draft)
	assert.NotEmpty(t, result.ErrorFor(FieldEndTime))
}

func TestScheduleRejectsInvalidDraft(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLessonRepository()
	svc := NewBookingService(repo, zap.NewNop())

	draft := validDraft()
	draft.EndTime = "09:30"

	_, err := svc.Schedule(ctx, draft)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.NotEmpty(t, validationErr.Result.ErrorFor(FieldEndTime))

	// Невалидный черновик не дошёл до хранилища
	lessons, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, lessons)
}

func TestScheduleEmailFixAndRetry(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLessonRepository()
	svc := NewBookingService(repo, zap.NewNop())

	draft := validDraft()
	draft.StudentEmail = "bad-email"

	_, err := svc.Schedule(ctx, draft)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.NotEmpty(t, validationErr.Result.ErrorFor(FieldStudentEmail))

	draft.StudentEmail = "a@b.com"
	lesson, err := svc.Schedule(ctx, draft)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", lesson.StudentEmail)
}

func TestScheduleCreatesScheduledLesson(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLessonRepository()
	svc := NewBookingService(repo, zap.NewNop())

	draft := validDraft()
	draft.Notes = "Разбор гамм"

	lesson, err := svc.Schedule(ctx, draft)
	require.NoError(t, err)

	assert.NotZero(t, lesson.ID)
	assert.Equal(t, model.LessonStatusScheduled, lesson.Status)
	assert.Equal(t, "Зал 1", lesson.Room)
	assert.Equal(t, "Разбор гамм", lesson.Notes)
	assert.Equal(t, 10, lesson.StartTime.Hour())
	assert.Equal(t, 11, lesson.EndTime.Hour())
	assert.Equal(t, time.Hour, lesson.EndTime.Sub(lesson.StartTime))
}

func TestBuildLessonPreservesIdentity(t *testing.T) {
	svc := NewBookingService(memory.NewLessonRepository(), zap.NewNop())

	existing := &model.Lesson{
		ID:           42,
		Status:       model.LessonStatusScheduled,
		ReminderSent: true,
	}

	lesson, err := svc.BuildLesson(validDraft(), existing)
	require.NoError(t, err)

	assert.Equal(t, int64(42), lesson.ID)
	assert.Equal(t, model.LessonStatusScheduled, lesson.Status)
	assert.True(t, lesson.ReminderSent)
}

func TestRescheduleOnlyWhileScheduled(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewLessonRepository()
	svc := NewBookingService(repo, zap.NewNop())

	lesson, err := svc.Schedule(ctx, validDraft())
	require.NoError(t, err)

	updated := validDraft()
	updated.Room = "Зал 2"

	result, err := svc.Reschedule(ctx, lesson.ID, updated)
	require.NoError(t, err)
	assert.Equal(t, "Зал 2", result.Room)
	assert.Equal(t, lesson.ID, result.ID)

	// После начала занятия правка запрещена
	require.NoError(t, repo.UpdateStatus(ctx, lesson.ID, model.LessonStatusInProgress))

	_, err = svc.Reschedule(ctx, lesson.ID, updated)
	assert.ErrorIs(t, err, ErrLessonNotEditable)
}

func TestRescheduleNotFound(t *testing.T) {
	svc := NewBookingService(memory.NewLessonRepository(), zap.NewNop())

	_, err := svc.Reschedule(context.Background(), 404, validDraft())
	assert.ErrorIs(t, err, ErrLessonNotFound)
}
