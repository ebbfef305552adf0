package service

import (
	"testing"
	"time"

	"github.com/melodia/agenda_bot/internal/model"
	"github.com/stretchr/testify/assert"
)

func lessonAt(id int64, teacherID, studentID int64, status model.LessonStatus, clock string) *model.Lesson {
	start, _ := time.Parse("15:04", clock)
	day := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	return &model.Lesson{
		ID:        id,
		TeacherID: teacherID,
		StudentID: studentID,
		Status:    status,
		StartTime: day.Add(time.Duration(start.Hour())*time.Hour + time.Duration(start.Minute())*time.Minute),
	}
}

func TestFilterCriteriaMatches(t *testing.T) {
	lesson := lessonAt(1, 10, 20, model.LessonStatusScheduled, "10:30")

	tests := []struct {
		name     string
		criteria FilterCriteria
		want     bool
	}{
		{"empty criteria match everything", FilterCriteria{}, true},
		{"teacher match", FilterCriteria{TeacherID: 10}, true},
		{"teacher mismatch", FilterCriteria{TeacherID: 11}, false},
		{"student match", FilterCriteria{StudentID: 20}, true},
		{"student mismatch", FilterCriteria{StudentID: 21}, false},
		{"status match", FilterCriteria{Status: model.LessonStatusScheduled}, true},
		{"status mismatch", FilterCriteria{Status: model.LessonStatusCanceled}, false},
		{"window contains start", FilterCriteria{TimeFrom: "09:00", TimeTo: "12:00"}, true},
		{"lower bound inclusive", FilterCriteria{TimeFrom: "10:30"}, true},
		{"upper bound inclusive", FilterCriteria{TimeTo: "10:30"}, true},
		{"below window", FilterCriteria{TimeFrom: "10:31"}, false},
		{"above window", FilterCriteria{TimeTo: "10:29"}, false},
		{"only lower bound", FilterCriteria{TimeFrom: "08:00"}, true},
		{"only upper bound", FilterCriteria{TimeTo: "23:59"}, true},
		{"all together", FilterCriteria{TeacherID: 10, StudentID: 20, Status: model.LessonStatusScheduled, TimeFrom: "10:00", TimeTo: "11:00"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.criteria.Matches(lesson))
		})
	}
}

func TestFilterWindowIgnoresDate(t *testing.T) {
	// Окно сравнивает только время суток, дата не участвует
	morning := lessonAt(1, 10, 20, model.LessonStatusScheduled, "09:00")
	morning.StartTime = morning.StartTime.AddDate(1, 0, 0)

	criteria := FilterCriteria{TimeFrom: "08:00", TimeTo: "10:00"}
	assert.True(t, criteria.Matches(morning))
}

func TestApplyFilterComposition(t *testing.T) {
	lessons := []*model.Lesson{
		lessonAt(1, 10, 20, model.LessonStatusScheduled, "09:00"),
		lessonAt(2, 10, 21, model.LessonStatusCanceled, "10:00"),
		lessonAt(3, 11, 20, model.LessonStatusScheduled, "11:00"),
		lessonAt(4, 10, 20, model.LessonStatusScheduled, "18:00"),
	}

	byTeacher := FilterCriteria{TeacherID: 10}
	byWindow := FilterCriteria{TimeFrom: "08:00", TimeTo: "12:00"}

	// Последовательное применение эквивалентно объединённым критериям
	sequential := ApplyFilter(ApplyFilter(lessons, byTeacher), byWindow)
	combined := ApplyFilter(lessons, byTeacher.And(byWindow))
	reversed := ApplyFilter(lessons, byWindow.And(byTeacher))

	ids := func(result []*model.Lesson) []int64 {
		out := make([]int64, 0, len(result))
		for _, lesson := range result {
			out = append(out, lesson.ID)
		}
		return out
	}

	assert.Equal(t, []int64{1, 2}, ids(sequential))
	assert.Equal(t, ids(sequential), ids(combined))
	assert.Equal(t, ids(sequential), ids(reversed))
}

func TestFilterAndConflicts(t *testing.T) {
	lessons := []*model.Lesson{
		lessonAt(1, 10, 20, model.LessonStatusScheduled, "09:00"),
		lessonAt(2, 11, 20, model.LessonStatusScheduled, "10:00"),
	}

	// Два разных точных фильтра по преподавателю несовместимы
	conflicting := FilterCriteria{TeacherID: 10}.And(FilterCriteria{TeacherID: 11})
	assert.Empty(t, ApplyFilter(lessons, conflicting))

	// Окна пересекаются
	window := FilterCriteria{TimeFrom: "08:00", TimeTo: "12:00"}.
		And(FilterCriteria{TimeFrom: "09:30", TimeTo: "15:00"})
	assert.Equal(t, "09:30", window.TimeFrom)
	assert.Equal(t, "12:00", window.TimeTo)
}

func TestApplyFilterDoesNotMutateInput(t *testing.T) {
	lessons := []*model.Lesson{
		lessonAt(1, 10, 20, model.LessonStatusScheduled, "09:00"),
		lessonAt(2, 11, 20, model.LessonStatusScheduled, "10:00"),
	}

	_ = ApplyFilter(lessons, FilterCriteria{TeacherID: 10})

	assert.Len(t, lessons, 2)
	assert.Equal(t, int64(1), lessons[0].ID)
	assert.Equal(t, int64(2), lessons[1].ID)
}
