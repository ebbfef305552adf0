package service

import (
	"testing"
	"time"

	"github.com/melodia/agenda_bot/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectionFixtures() ([]*model.Lesson, map[int64]*model.Course) {
	day := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	lessons := []*model.Lesson{
		{ID: 1, CourseID: 1, Status: model.LessonStatusScheduled, StartTime: day.Add(9 * time.Hour), EndTime: day.Add(10 * time.Hour)},
		{ID: 2, CourseID: 1, Status: model.LessonStatusInProgress, StartTime: day.Add(11 * time.Hour), EndTime: day.Add(12 * time.Hour)},
		{ID: 3, CourseID: 2, Status: model.LessonStatusCanceled, StartTime: day.Add(14 * time.Hour), EndTime: day.Add(15 * time.Hour)},
		{ID: 4, CourseID: 99, Status: model.LessonStatusScheduled, StartTime: day.Add(16 * time.Hour), EndTime: day.Add(17 * time.Hour)},
	}

	courses := map[int64]*model.Course{
		1: {ID: 1, Name: "Фортепиано", Color: "#8b5cf6"},
		2: {ID: 2, Name: "Вокал", Color: "#ec4899"},
	}

	return lessons, courses
}

func TestProjectLessonsColors(t *testing.T) {
	lessons, courses := projectionFixtures()

	events := ProjectLessons(lessons, courses)
	require.Len(t, events, 4)

	// Запланированное занятие получает цвет курса
	assert.Equal(t, "#8b5cf6", events[0].Color)
	assert.Equal(t, model.CalendarTextColor, events[0].TextColor)
	assert.False(t, events[0].Struck)

	// Идущее занятие перекрашивается в янтарный, цвет курса игнорируется
	assert.Equal(t, model.CalendarInProgressColor, events[1].Color)
	assert.Equal(t, model.CalendarTextColor, events[1].TextColor)
	assert.False(t, events[1].Struck)

	// Отменённое занятие: серый фон, приглушённый зачёркнутый заголовок
	assert.Equal(t, model.CalendarCanceledColor, events[2].Color)
	assert.Equal(t, model.CalendarDimmedTextColor, events[2].TextColor)
	assert.True(t, events[2].Struck)
}

func TestProjectLessonsUnknownCourse(t *testing.T) {
	lessons, courses := projectionFixtures()

	events := ProjectLessons(lessons, courses)

	// Нет курса в справочнике — заглушка заголовка и цвет по умолчанию
	assert.Equal(t, "Занятие", events[3].Title)
	assert.Equal(t, model.CalendarDefaultColor, events[3].Color)
}

func TestProjectLessonsBackReference(t *testing.T) {
	lessons, courses := projectionFixtures()

	events := ProjectLessons(lessons, courses)

	for i, event := range events {
		assert.Same(t, lessons[i], event.Lesson)
		assert.Equal(t, lessons[i].ID, event.ID)
		assert.Equal(t, lessons[i].StartTime, event.Start)
		assert.Equal(t, lessons[i].EndTime, event.End)
	}
}

func TestProjectLessonsDeterministic(t *testing.T) {
	lessons, courses := projectionFixtures()

	first := ProjectLessons(lessons, courses)
	second := ProjectLessons(lessons, courses)

	assert.Equal(t, first, second)
}

func TestProjectLessonsEmptyDirectory(t *testing.T) {
	lessons, _ := projectionFixtures()

	// Недоступный справочник не мешает проекции
	events := ProjectLessons(lessons, nil)
	require.Len(t, events, len(lessons))
	for _, event := range events {
		assert.Equal(t, "Занятие", event.Title)
	}
}
