package common

import (
	"errors"

	"github.com/melodia/agenda_bot/internal/service"
)

// Общие ошибки для обработчиков
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrNoAccess        = errors.New("user has no access to the agenda")
	ErrNoMessage       = errors.New("no message in callback")
	ErrInvalidFormat   = errors.New("invalid callback format")
	ErrStaleConfirm    = errors.New("stale cancellation confirmation")
	ErrCourseNotFound  = errors.New("course not found")
	ErrStudentNotFound = errors.New("student not found")
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return "❌ Пользователь не найден. Используйте /start"
	case errors.Is(err, ErrNoAccess):
		return "❌ Эта функция доступна только сотрудникам школы"
	case errors.Is(err, service.ErrLessonNotFound):
		return "❌ Занятие больше недоступно. Список обновлён"
	case errors.Is(err, service.ErrInvalidTransition):
		return "❌ Это действие недоступно для текущего статуса занятия"
	case errors.Is(err, service.ErrLessonNotEditable):
		return "❌ Редактировать можно только запланированное занятие"
	case errors.Is(err, ErrStaleConfirm):
		return "❌ Подтверждение устарело. Откройте занятие заново"
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	case errors.Is(err, ErrCourseNotFound):
		return "❌ Курс не найден"
	case errors.Is(err, ErrStudentNotFound):
		return "❌ Ученик не найден"
	default:
		return "❌ Произошла ошибка"
	}
}
