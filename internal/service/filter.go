package service

import "github.com/melodia/agenda_bot/internal/model"

// FilterCriteria — критерии отбора занятий перед проекцией в календарь.
// Нулевое значение поля означает "все". Критерии независимы и
// комбинируются через логическое И, порядок применения не влияет
// на результат.
type FilterCriteria struct {
	TeacherID int64              // 0 = все преподаватели
	StudentID int64              // 0 = все ученики
	Status    model.LessonStatus // "" = все статусы
	TimeFrom  string             // "ЧЧ:ММ", "" = без нижней границы
	TimeTo    string             // "ЧЧ:ММ", "" = без верхней границы

	// Выставляется при слиянии противоречащих критериев
	matchNone bool
}

// IsEmpty сообщает что ни один критерий не задан
func (c FilterCriteria) IsEmpty() bool {
	return c.TeacherID == 0 && c.StudentID == 0 && c.Status == "" &&
		c.TimeFrom == "" && c.TimeTo == "" && !c.matchNone
}

// Matches проверяет занятие по всем заданным критериям.
// Окно времени сравнивает только время суток начала занятия —
// строки "ЧЧ:ММ" сравниваются лексикографически, границы включительны.
func (c FilterCriteria) Matches(lesson *model.Lesson) bool {
	if c.matchNone {
		return false
	}
	if c.TeacherID != 0 && lesson.TeacherID != c.TeacherID {
		return false
	}
	if c.StudentID != 0 && lesson.StudentID != c.StudentID {
		return false
	}
	if c.Status != "" && lesson.Status != c.Status {
		return false
	}
	if c.TimeFrom != "" || c.TimeTo != "" {
		clock := lesson.StartClock()
		if c.TimeFrom != "" && clock < c.TimeFrom {
			return false
		}
		if c.TimeTo != "" && clock > c.TimeTo {
			return false
		}
	}
	return true
}

// And возвращает критерии, эквивалентные последовательному применению
// обоих наборов. Противоречащие точные фильтры дают критерии, которым
// не соответствует ни одно занятие.
func (c FilterCriteria) And(other FilterCriteria) FilterCriteria {
	merged := c
	merged.matchNone = c.matchNone || other.matchNone

	switch {
	case merged.TeacherID == 0:
		merged.TeacherID = other.TeacherID
	case other.TeacherID != 0 && other.TeacherID != merged.TeacherID:
		merged.matchNone = true
	}

	switch {
	case merged.StudentID == 0:
		merged.StudentID = other.StudentID
	case other.StudentID != 0 && other.StudentID != merged.StudentID:
		merged.matchNone = true
	}

	switch {
	case merged.Status == "":
		merged.Status = other.Status
	case other.Status != "" && other.Status != merged.Status:
		merged.matchNone = true
	}

	// Для окна берётся пересечение
	if other.TimeFrom != "" && (merged.TimeFrom == "" || other.TimeFrom > merged.TimeFrom) {
		merged.TimeFrom = other.TimeFrom
	}
	if other.TimeTo != "" && (merged.TimeTo == "" || other.TimeTo < merged.TimeTo) {
		merged.TimeTo = other.TimeTo
	}

	return merged
}

// ApplyFilter отбирает занятия по критериям, не меняя исходный срез
func ApplyFilter(lessons []*model.Lesson, criteria FilterCriteria) []*model.Lesson {
	filtered := make([]*model.Lesson, 0, len(lessons))
	for _, lesson := range lessons {
		if criteria.Matches(lesson) {
			filtered = append(filtered, lesson)
		}
	}
	return filtered
}
