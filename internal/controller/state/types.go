package state

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Шаги формы записи на занятие (свободный ввод)
	StateBookStudentEmail UserState = "book_student_email"
	StateBookRoom         UserState = "book_room"
	StateBookDate         UserState = "book_date"
	StateBookStartTime    UserState = "book_start_time"
	StateBookEndTime      UserState = "book_end_time"
	StateBookNotes        UserState = "book_notes"

	// Пошаговое редактирование запланированного занятия
	StateEditDate      UserState = "edit_date"
	StateEditStartTime UserState = "edit_start_time"
	StateEditEndTime   UserState = "edit_end_time"
	StateEditRoom      UserState = "edit_room"
	StateEditNotes     UserState = "edit_notes"
	StateEditEmail     UserState = "edit_email"

	// Ввод окна времени для фильтра агенды
	StateFilterTimeFrom UserState = "filter_time_from"
	StateFilterTimeTo   UserState = "filter_time_to"
)

// Ключи временных данных диалога
const (
	DataDraft        = "draft"          // *service.LessonDraft
	DataEditLessonID = "edit_lesson_id" // int64
	DataCancelLesson = "cancel_lesson"  // int64 — занятие, ожидающее подтверждения отмены
	DataCancelToken  = "cancel_token"   // string — одноразовый токен подтверждения
	DataCriteria     = "criteria"       // service.FilterCriteria
)

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State UserState
	Data  map[string]interface{} // Временные данные для текущего диалога
}
