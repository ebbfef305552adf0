package model

import "time"

type LessonStatus string

const (
	LessonStatusScheduled  LessonStatus = "scheduled"   // Запланировано
	LessonStatusInProgress LessonStatus = "in_progress" // Идёт занятие
	LessonStatusCompleted  LessonStatus = "completed"   // Завершено
	LessonStatusCanceled   LessonStatus = "canceled"    // Отменено
)

// LessonAction представляет действие, доступное над занятием
type LessonAction string

const (
	LessonActionStart    LessonAction = "start"
	LessonActionComplete LessonAction = "complete"
	LessonActionCancel   LessonAction = "cancel"
	LessonActionEdit     LessonAction = "edit"
)

// Допустимые переходы статусов. Завершённое или отменённое занятие
// больше не меняется.
var lessonTransitions = map[LessonStatus][]LessonStatus{
	LessonStatusScheduled:  {LessonStatusInProgress, LessonStatusCanceled},
	LessonStatusInProgress: {LessonStatusCompleted},
	LessonStatusCompleted:  {},
	LessonStatusCanceled:   {},
}

// Действия, доступные из каждого статуса. Редактирование разрешено
// только пока занятие запланировано.
var lessonActions = map[LessonStatus][]LessonAction{
	LessonStatusScheduled:  {LessonActionEdit, LessonActionStart, LessonActionCancel},
	LessonStatusInProgress: {LessonActionComplete},
	LessonStatusCompleted:  {},
	LessonStatusCanceled:   {},
}

// CanTransitionTo проверяет допустим ли переход в указанный статус
func (s LessonStatus) CanTransitionTo(target LessonStatus) bool {
	for _, next := range lessonTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// AllowedActions возвращает действия, доступные из текущего статуса
func (s LessonStatus) AllowedActions() []LessonAction {
	return lessonActions[s]
}

// IsTerminal проверяет является ли статус терминальным
func (s LessonStatus) IsTerminal() bool {
	return len(lessonTransitions[s]) == 0
}

type Lesson struct {
	ID           int64        `json:"id"`
	CourseID     int64        `json:"course_id"`
	StudentID    int64        `json:"student_id"`
	TeacherID    int64        `json:"teacher_id"`
	StartTime    time.Time    `json:"start_time"`
	EndTime      time.Time    `json:"end_time"`
	Room         string       `json:"room"` // свободный текст, не обязательно из справочника залов
	Status       LessonStatus `json:"status"`
	Notes        string       `json:"notes"`
	StudentEmail string       `json:"student_email"` // опциональный контакт, пустая строка = не указан
	ReminderSent bool         `json:"reminder_sent"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// CanEdit проверяет можно ли редактировать занятие целиком
func (l *Lesson) CanEdit() bool {
	return l.Status == LessonStatusScheduled
}

// StartClock возвращает время начала как строку HH:MM.
// Фильтры по времени суток сравнивают такие строки лексикографически.
func (l *Lesson) StartClock() string {
	return l.StartTime.Format("15:04")
}
