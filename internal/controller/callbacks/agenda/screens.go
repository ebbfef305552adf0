package agenda

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot/models"
	"github.com/melodia/agenda_bot/internal/controller/callbacks/common/formatting"
	"github.com/melodia/agenda_bot/internal/controller/callbacks/common/keyboard"
	"github.com/melodia/agenda_bot/internal/model"
	"github.com/melodia/agenda_bot/internal/service"
)

// Подпись на случай недоступного справочника — экран деградирует,
// а не падает
const unknownLabel = "Неизвестно"

// Callback data для экранов агенды
const (
	CallbackAgendaRefresh = "agenda_refresh"
	CallbackAgendaImage   = "agenda_image"
	CallbackBackToAgenda  = "back_to_agenda"

	CallbackLessonView     = "lesson_view:"     // lesson_view:123
	CallbackLessonStart    = "lesson_start:"    // lesson_start:123
	CallbackLessonComplete = "lesson_complete:" // lesson_complete:123
	CallbackLessonCancel   = "lesson_cancel:"   // lesson_cancel:123
	CallbackConfirmCancel  = "confirm_cancel:"  // confirm_cancel:123:<token>
	CallbackAbortCancel    = "abort_cancel:"    // abort_cancel:123
	CallbackLessonEdit     = "lesson_edit:"     // lesson_edit:123

	CallbackEditDate  = "edit_date:"  // edit_date:123
	CallbackEditTime  = "edit_time:"  // edit_time:123
	CallbackEditRoom  = "edit_room:"  // edit_room:123
	CallbackEditNotes = "edit_notes:" // edit_notes:123
	CallbackEditEmail = "edit_email:" // edit_email:123
	CallbackEditSave  = "edit_save:"  // edit_save:123
	CallbackEditAbort = "edit_abort:" // edit_abort:123

	CallbackRoomPick = "room_pick:" // room_pick:<название зала>

	CallbackBookCourse    = "book_course:"  // book_course:123
	CallbackBookStudent   = "book_student:" // book_student:123
	CallbackBookTeacher   = "book_teacher:" // book_teacher:123
	CallbackBookSkipEmail = "book_skip_email"
	CallbackBookSkipNotes = "book_skip_notes"
	CallbackBookConfirm   = "book_confirm"
	CallbackBookAbort     = "book_abort"

	CallbackFilters       = "agenda_filters"
	CallbackFilterTeacher = "filter_teacher:" // filter_teacher:123, 0 = все
	CallbackFilterStudent = "filter_student:" // filter_student:123, 0 = все
	CallbackFilterStatus  = "filter_status:"  // filter_status:scheduled|all
	CallbackFilterTime    = "filter_time"
	CallbackFilterClear   = "filter_clear"

	CallbackPickTeacher = "pick_teacher"
	CallbackPickStudent = "pick_student"
	CallbackPickStatus  = "pick_status"
)

// ViewerCriteria накладывает ролевое ограничение поверх выбранных
// фильтров: преподаватель всегда видит только свои занятия, ученик —
// только свои. Это бизнес-правило, его нельзя снять через UI.
func ViewerCriteria(viewer *model.User, stored service.FilterCriteria) service.FilterCriteria {
	criteria := stored
	switch viewer.Role {
	case model.RoleTeacher:
		criteria.TeacherID = viewer.ID
	case model.RoleStudent:
		criteria.StudentID = viewer.ID
	}
	return criteria
}

// BuildAgendaScreen строит экран агенды: заново читает занятия,
// применяет фильтры и проекцию, отдаёт текст и клавиатуру событий.
// Любое изменение данных приводит к полному перестроению — никаких
// инкрементальных правок списка.
func BuildAgendaScreen(
	ctx context.Context,
	agendaService *service.AgendaService,
	directoryService *service.DirectoryService,
	viewer *model.User,
	criteria service.FilterCriteria,
) (string, *models.InlineKeyboardMarkup, error) {
	lessons, err := agendaService.ListLessons(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("list lessons: %w", err)
	}

	courses, err := directoryService.CoursesByID(ctx)
	if err != nil {
		// Справочник недоступен — показываем агенду с заглушками
		courses = map[int64]*model.Course{}
	}

	effective := ViewerCriteria(viewer, criteria)
	filtered := service.ApplyFilter(lessons, effective)
	events := service.ProjectLessons(filtered, courses)

	var text strings.Builder
	text.WriteString("📅 <b>Агенда школы</b>\n\n")
	if effective.IsEmpty() {
		text.WriteString("Показаны все занятия.\n")
	} else {
		text.WriteString(describeCriteria(effective))
	}
	text.WriteString(fmt.Sprintf("\nЗанятий: %d\n", len(events)))

	kb := keyboard.NewBuilder()
	for _, event := range events {
		display := formatting.GetLessonStatusDisplay(event.Lesson.Status)
		label := fmt.Sprintf("%s %s %s %s",
			display.Emoji,
			formatting.FormatDate(event.Start),
			formatting.FormatTimeRange(event.Start, event.End),
			event.Title,
		)
		kb.Row(keyboard.Button(label, fmt.Sprintf("%s%d", CallbackLessonView, event.ID)))
	}

	kb.Row(
		keyboard.Button("🔄 Обновить", CallbackAgendaRefresh),
		keyboard.Button("🖼 Неделя", CallbackAgendaImage),
	)
	kb.Row(keyboard.Button("⚙️ Фильтры", CallbackFilters))

	return text.String(), kb.Build(), nil
}

// describeCriteria описывает активные фильтры для заголовка экрана
func describeCriteria(criteria service.FilterCriteria) string {
	var parts []string
	if criteria.TeacherID != 0 {
		parts = append(parts, "преподаватель")
	}
	if criteria.StudentID != 0 {
		parts = append(parts, "ученик")
	}
	if criteria.Status != "" {
		display := formatting.GetLessonStatusDisplay(criteria.Status)
		parts = append(parts, "статус: "+display.Text)
	}
	if criteria.TimeFrom != "" || criteria.TimeTo != "" {
		window := criteria.TimeFrom
		if window == "" {
			window = "…"
		}
		to := criteria.TimeTo
		if to == "" {
			to = "…"
		}
		parts = append(parts, "время: "+window+"-"+to)
	}
	return "Фильтры: " + strings.Join(parts, ", ") + "\n"
}

// BuildDetailScreen строит детальный экран занятия. Кнопки действий —
// ровно те, что допустимы из текущего статуса.
func BuildDetailScreen(
	ctx context.Context,
	directoryService *service.DirectoryService,
	userService *service.UserService,
	lesson *model.Lesson,
) (string, *models.InlineKeyboardMarkup) {
	courseName := unknownLabel
	if course, err := directoryService.GetCourse(ctx, lesson.CourseID); err == nil && course != nil {
		courseName = course.Name
	}

	studentName := unknownLabel
	if student, err := userService.GetByID(ctx, lesson.StudentID); err == nil && student != nil {
		studentName = student.DisplayName()
	}

	teacherName := unknownLabel
	if teacher, err := userService.GetByID(ctx, lesson.TeacherID); err == nil && teacher != nil {
		teacherName = teacher.DisplayName()
	}

	display := formatting.GetLessonStatusDisplay(lesson.Status)

	title := courseName
	if lesson.Status == model.LessonStatusCanceled {
		title = "<s>" + courseName + "</s>"
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("📖 <b>%s</b>\n\n", title))
	text.WriteString(fmt.Sprintf("👩‍🎓 Ученик: %s\n", studentName))
	if lesson.StudentEmail != "" {
		text.WriteString(fmt.Sprintf("✉️ Email ученика: %s\n", lesson.StudentEmail))
	}
	text.WriteString(fmt.Sprintf("👨‍🏫 Преподаватель: %s\n", teacherName))
	text.WriteString(fmt.Sprintf("🕐 %s, %s\n",
		formatting.FormatDate(lesson.StartTime),
		formatting.FormatTimeRange(lesson.StartTime, lesson.EndTime)))
	text.WriteString(fmt.Sprintf("🚪 Зал: %s\n", lesson.Room))
	if lesson.Notes != "" {
		text.WriteString(fmt.Sprintf("📝 Примечания: %s\n", lesson.Notes))
	}
	text.WriteString(fmt.Sprintf("📊 Статус: %s %s\n", display.Emoji, display.Text))

	kb := keyboard.NewBuilder()
	for _, action := range lesson.Status.AllowedActions() {
		var data string
		switch action {
		case model.LessonActionEdit:
			data = fmt.Sprintf("%s%d", CallbackLessonEdit, lesson.ID)
		case model.LessonActionStart:
			data = fmt.Sprintf("%s%d", CallbackLessonStart, lesson.ID)
		case model.LessonActionComplete:
			data = fmt.Sprintf("%s%d", CallbackLessonComplete, lesson.ID)
		case model.LessonActionCancel:
			data = fmt.Sprintf("%s%d", CallbackLessonCancel, lesson.ID)
		}
		kb.Row(keyboard.Button(formatting.GetActionDisplay(action), data))
	}
	kb.Row(keyboard.BackButton(CallbackBackToAgenda))

	return text.String(), kb.Build()
}

// BuildEditScreen строит меню пошагового редактирования черновика
func BuildEditScreen(lessonID int64, draft *service.LessonDraft) (string, *models.InlineKeyboardMarkup) {
	email := draft.StudentEmail
	if email == "" {
		email = "не указан"
	}
	notes := draft.Notes
	if notes == "" {
		notes = "нет"
	}

	text := fmt.Sprintf(
		"✏️ <b>Редактирование занятия</b>\n\n"+
			"📆 Дата: %s\n"+
			"🕐 Время: %s — %s\n"+
			"🚪 Зал: %s\n"+
			"✉️ Email ученика: %s\n"+
			"📝 Примечания: %s\n\n"+
			"Выберите поле для изменения и сохраните изменения.",
		draft.Date, draft.StartTime, draft.EndTime, draft.Room, email, notes,
	)

	kb := keyboard.NewBuilder().
		Row(
			keyboard.Button("📆 Дата", fmt.Sprintf("%s%d", CallbackEditDate, lessonID)),
			keyboard.Button("🕐 Время", fmt.Sprintf("%s%d", CallbackEditTime, lessonID)),
		).
		Row(
			keyboard.Button("🚪 Зал", fmt.Sprintf("%s%d", CallbackEditRoom, lessonID)),
			keyboard.Button("✉️ Email", fmt.Sprintf("%s%d", CallbackEditEmail, lessonID)),
		).
		Row(keyboard.Button("📝 Примечания", fmt.Sprintf("%s%d", CallbackEditNotes, lessonID))).
		Row(keyboard.ConfirmCancelRow(
			fmt.Sprintf("%s%d", CallbackEditSave, lessonID),
			fmt.Sprintf("%s%d", CallbackEditAbort, lessonID),
		)...)

	return text, kb.Build()
}
