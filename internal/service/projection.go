package service

import "github.com/melodia/agenda_bot/internal/model"

// Заголовок события, когда курс не найден в справочнике
const fallbackEventTitle = "Занятие"

// ProjectLessons — чистая проекция занятий в события календаря.
// Повторный вызов на неизменном наборе даёт идентичный результат.
//
// Правила цвета: базовый цвет курса; отменённое занятие — серое,
// с приглушённым зачёркнутым заголовком; идущее занятие — янтарное.
// Отмена имеет приоритет над остальными переопределениями.
// Каждое событие хранит ссылку на исходное занятие, чтобы детальный
// просмотр и действия работали с актуальной записью.
func ProjectLessons(lessons []*model.Lesson, courses map[int64]*model.Course) []model.CalendarEvent {
	events := make([]model.CalendarEvent, 0, len(lessons))

	for _, lesson := range lessons {
		title := fallbackEventTitle
		color := model.CalendarDefaultColor
		if course := courses[lesson.CourseID]; course != nil {
			title = course.Name
			if course.Color != "" {
				color = course.Color
			}
		}

		textColor := model.CalendarTextColor
		struck := false

		switch lesson.Status {
		case model.LessonStatusCanceled:
			color = model.CalendarCanceledColor
			textColor = model.CalendarDimmedTextColor
			struck = true
		case model.LessonStatusInProgress:
			color = model.CalendarInProgressColor
		}

		events = append(events, model.CalendarEvent{
			ID:        lesson.ID,
			Title:     title,
			Start:     lesson.StartTime,
			End:       lesson.EndTime,
			Color:     color,
			TextColor: textColor,
			Struck:    struck,
			Lesson:    lesson,
		})
	}

	return events
}
