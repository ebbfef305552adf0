package formatting

import "github.com/melodia/agenda_bot/internal/model"

// LessonStatusDisplay представляет отображение статуса занятия
type LessonStatusDisplay struct {
	Emoji string
	Text  string
}

// GetLessonStatusDisplay возвращает emoji и текст для статуса занятия
func GetLessonStatusDisplay(status model.LessonStatus) LessonStatusDisplay {
	displays := map[model.LessonStatus]LessonStatusDisplay{
		model.LessonStatusScheduled:  {"📘", "Запланировано"},
		model.LessonStatusInProgress: {"▶️", "Идёт занятие"},
		model.LessonStatusCompleted:  {"✅", "Завершено"},
		model.LessonStatusCanceled:   {"❌", "Отменено"},
	}

	if display, ok := displays[status]; ok {
		return display
	}

	return LessonStatusDisplay{"❓", "Неизвестно"}
}

// GetActionDisplay возвращает подпись кнопки для действия над занятием
func GetActionDisplay(action model.LessonAction) string {
	displays := map[model.LessonAction]string{
		model.LessonActionStart:    "▶️ Начать занятие",
		model.LessonActionComplete: "✅ Завершить занятие",
		model.LessonActionCancel:   "❌ Отменить занятие",
		model.LessonActionEdit:     "✏️ Редактировать",
	}

	if display, ok := displays[action]; ok {
		return display
	}

	return string(action)
}
