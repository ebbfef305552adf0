package agenda

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/melodia/agenda_bot/internal/controller/callbacks/callbacktypes"
	"github.com/melodia/agenda_bot/internal/controller/callbacks/common"
	"github.com/melodia/agenda_bot/internal/controller/callbacks/common/keyboard"
	"github.com/melodia/agenda_bot/internal/controller/state"
	"github.com/melodia/agenda_bot/internal/service"
	"go.uber.org/zap"
)

// StartBooking начинает диалог записи на занятие: создаёт пустой
// черновик и отправляет выбор курса новым сообщением
func StartBooking(ctx context.Context, b *bot.Bot, chatID int64, telegramID int64, h *callbacktypes.Handler) error {
	h.StateManager.ClearDialog(telegramID)
	h.StateManager.SetData(telegramID, state.DataDraft, &service.LessonDraft{})

	text, kb, err := buildCourseScreen(ctx, h)
	if err != nil {
		return err
	}

	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   models.ParseModeHTML,
		ReplyMarkup: kb,
	})
	return err
}

func buildCourseScreen(ctx context.Context, h *callbacktypes.Handler) (string, *models.InlineKeyboardMarkup, error) {
	courses, err := h.DirectoryService.ListCourses(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("list courses: %w", err)
	}

	kb := keyboard.NewBuilder()
	for _, course := range courses {
		kb.Row(keyboard.Button("🎵 "+course.Name, fmt.Sprintf("%s%d", CallbackBookCourse, course.ID)))
	}
	kb.Row(keyboard.CancelButton(CallbackBookAbort))

	return "📝 <b>Новое занятие</b>\n\nВыберите курс:", kb.Build(), nil
}

// HandleBookCourse записывает курс в черновик и предлагает выбрать ученика
func HandleBookCourse(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	if err := hc.RequireAgendaAccess(); err != nil {
		hc.AnswerError(err)
		return
	}

	courseID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		hc.AnswerError(common.ErrInvalidFormat)
		return
	}

	draft, ok := CurrentDraft(h, hc.TelegramID)
	if !ok {
		hc.AnswerError(common.ErrStaleConfirm)
		return
	}
	draft.CourseID = courseID

	students, err := h.UserService.ListStudents(ctx)
	if err != nil {
		h.Logger.Error("Failed to list students", zap.Error(err))
		hc.AnswerAlert("❌ Не удалось загрузить учеников")
		return
	}
	if len(students) == 0 {
		hc.AnswerAlert("❌ В школе пока нет учеников")
		return
	}

	kb := keyboard.NewBuilder()
	for _, student := range students {
		kb.Row(keyboard.Button("👩‍🎓 "+student.DisplayName(), fmt.Sprintf("%s%d", CallbackBookStudent, student.ID)))
	}
	kb.Row(keyboard.CancelButton(CallbackBookAbort))

	if err := hc.EditMessage("👩‍🎓 Выберите ученика:", kb.Build()); err != nil {
		h.Logger.Error("Failed to show student selection", zap.Error(err))
		hc.AnswerAlert("❌ Не удалось показать учеников")
		return
	}

	hc.Answer("")
}

// HandleBookStudent записывает ученика и предлагает выбрать преподавателя
func HandleBookStudent(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	if err := hc.RequireAgendaAccess(); err != nil {
		hc.AnswerError(err)
		return
	}

	studentID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		hc.AnswerError(common.ErrInvalidFormat)
		return
	}

	draft, ok := CurrentDraft(h, hc.TelegramID)
	if !ok {
		hc.AnswerError(common.ErrStaleConfirm)
		return
	}
	draft.StudentID = studentID

	teachers, err := h.UserService.ListTeachers(ctx)
	if err != nil {
		h.Logger.Error("Failed to list teachers", zap.Error(err))
		hc.AnswerAlert("❌ Не удалось загрузить преподавателей")
		return
	}
	if len(teachers) == 0 {
		hc.AnswerAlert("❌ В школе пока нет преподавателей")
		return
	}

	kb := keyboard.NewBuilder()
	for _, teacher := range teachers {
		kb.Row(keyboard.Button("👨‍🏫 "+teacher.DisplayName(), fmt.Sprintf("%s%d", CallbackBookTeacher, teacher.ID)))
	}
	kb.Row(keyboard.CancelButton(CallbackBookAbort))

	if err := hc.EditMessage("👨‍🏫 Выберите преподавателя:", kb.Build()); err != nil {
		h.Logger.Error("Failed to show teacher selection", zap.Error(err))
		hc.AnswerAlert("❌ Не удалось показать преподавателей")
		return
	}

	hc.Answer("")
}

// HandleBookTeacher записывает преподавателя и переходит к вводу email
func HandleBookTeacher(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	if err := hc.RequireAgendaAccess(); err != nil {
		hc.AnswerError(err)
		return
	}

	teacherID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		hc.AnswerError(common.ErrInvalidFormat)
		return
	}

	draft, ok := CurrentDraft(h, hc.TelegramID)
	if !ok {
		hc.AnswerError(common.ErrStaleConfirm)
		return
	}
	draft.TeacherID = teacherID

	h.StateManager.SetState(hc.TelegramID, state.StateBookStudentEmail)

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("⏭ Без email", CallbackBookSkipEmail)).
		Row(keyboard.CancelButton(CallbackBookAbort))

	if err := hc.EditMessage("✉️ Введите email ученика для уведомлений:", kb.Build()); err != nil {
		h.Logger.Error("Failed to show email prompt", zap.Error(err))
		hc.AnswerAlert("❌ Не удалось показать подсказку")
		return
	}

	hc.Answer("")
}

// HandleBookSkipEmail пропускает необязательный email
func HandleBookSkipEmail(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	if err := hc.RequireAgendaAccess(); err != nil {
		hc.AnswerError(err)
		return
	}

	draft, ok := CurrentDraft(h, hc.TelegramID)
	if !ok {
		hc.AnswerError(common.ErrStaleConfirm)
		return
	}
	draft.StudentEmail = ""

	hc.Answer("")
	ShowBookingRoomStep(hc)
}

// ShowBookingRoomStep показывает шаг выбора зала
func ShowBookingRoomStep(hc *common.HandlerContext) {
	hc.Handler.StateManager.SetState(hc.TelegramID, state.StateBookRoom)

	text, kb := BuildRoomPrompt(hc.Ctx, hc.Handler, "")
	if err := hc.EditMessage(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to show room step", zap.Error(err))
	}
}

// HandleBookSkipNotes пропускает примечания и показывает сводку
func HandleBookSkipNotes(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	if err := hc.RequireAgendaAccess(); err != nil {
		hc.AnswerError(err)
		return
	}

	draft, ok := CurrentDraft(h, hc.TelegramID)
	if !ok {
		hc.AnswerError(common.ErrStaleConfirm)
		return
	}
	draft.Notes = ""

	hc.Answer("")
	ShowBookingSummary(hc)
}

// ShowBookingSummary показывает собранный черновик перед созданием
func ShowBookingSummary(hc *common.HandlerContext) {
	text, kb, ok := BuildBookingSummary(hc.Ctx, hc.Handler, hc.TelegramID)
	if !ok {
		hc.AnswerError(common.ErrStaleConfirm)
		return
	}

	if err := hc.EditMessage(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to show booking summary", zap.Error(err))
	}
}

// BuildBookingSummary строит экран сводки из текущего черновика
func BuildBookingSummary(ctx context.Context, h *callbacktypes.Handler, telegramID int64) (string, *models.InlineKeyboardMarkup, bool) {
	h.StateManager.SetState(telegramID, state.StateNone)

	draft, ok := CurrentDraft(h, telegramID)
	if !ok {
		return "", nil, false
	}

	courseName := unknownLabel
	if course, err := h.DirectoryService.GetCourse(ctx, draft.CourseID); err == nil && course != nil {
		courseName = course.Name
	}
	studentName := unknownLabel
	if student, err := h.UserService.GetByID(ctx, draft.StudentID); err == nil && student != nil {
		studentName = student.DisplayName()
	}
	teacherName := unknownLabel
	if teacher, err := h.UserService.GetByID(ctx, draft.TeacherID); err == nil && teacher != nil {
		teacherName = teacher.DisplayName()
	}

	email := draft.StudentEmail
	if email == "" {
		email = "не указан"
	}
	notes := draft.Notes
	if notes == "" {
		notes = "нет"
	}

	text := fmt.Sprintf(
		"📋 <b>Проверьте занятие</b>\n\n"+
			"🎵 Курс: %s\n"+
			"👩‍🎓 Ученик: %s\n"+
			"👨‍🏫 Преподаватель: %s\n"+
			"📆 Дата: %s\n"+
			"🕐 Время: %s — %s\n"+
			"🚪 Зал: %s\n"+
			"✉️ Email: %s\n"+
			"📝 Примечания: %s",
		courseName, studentName, teacherName,
		draft.Date, draft.StartTime, draft.EndTime,
		draft.Room, email, notes,
	)

	kb := keyboard.NewBuilder().
		Row(keyboard.ConfirmCancelRow(CallbackBookConfirm, CallbackBookAbort)...)

	return text, kb.Build(), true
}

// HandleBookConfirm создаёт занятие из собранного черновика
func HandleBookConfirm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	if err := hc.RequireAgendaAccess(); err != nil {
		hc.AnswerError(err)
		return
	}

	draft, ok := CurrentDraft(h, hc.TelegramID)
	if !ok {
		hc.AnswerError(common.ErrStaleConfirm)
		return
	}

	lesson, err := h.BookingService.Schedule(ctx, draft)
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			hc.AnswerAlert(FormatValidationErrors(validationErr.Result))
			return
		}
		hc.AnswerError(err)
		return
	}

	h.StateManager.ClearDialog(hc.TelegramID)

	hc.Answer("✅ Занятие создано")
	h.Logger.Info("Lesson booked via dialog",
		zap.Int64("lesson_id", lesson.ID),
		zap.Int64("telegram_id", hc.TelegramID),
	)

	if err := ShowAgenda(hc); err != nil {
		h.Logger.Error("Failed to show agenda after booking", zap.Error(err))
	}
}

// HandleBookAbort прерывает диалог записи
func HandleBookAbort(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	if err := hc.RequireUser(); err != nil {
		hc.AnswerError(err)
		return
	}

	h.StateManager.ClearDialog(hc.TelegramID)

	hc.Answer("Запись отменена")
	if err := ShowAgenda(hc); err != nil {
		h.Logger.Error("Failed to show agenda after abort", zap.Error(err))
	}
}

// ResumeDialog продолжает текущий диалог после выбора зала кнопкой:
// редактирование возвращается в меню, запись идёт к следующему шагу
func ResumeDialog(hc *common.HandlerContext) {
	h := hc.Handler

	if raw, ok := h.StateManager.GetData(hc.TelegramID, state.DataEditLessonID); ok {
		lessonID, _ := raw.(int64)
		draft, ok := CurrentDraft(h, hc.TelegramID)
		if !ok {
			hc.AnswerError(common.ErrStaleConfirm)
			return
		}

		h.StateManager.SetState(hc.TelegramID, state.StateNone)
		text, kb := BuildEditScreen(lessonID, draft)
		if err := hc.EditMessage(text, kb); err != nil {
			h.Logger.Error("Failed to return to edit menu", zap.Error(err))
		}
		return
	}

	// Диалог записи: после зала вводится дата
	h.StateManager.SetState(hc.TelegramID, state.StateBookDate)

	kb := keyboard.NewBuilder().
		Row(keyboard.CancelButton(CallbackBookAbort))

	if err := hc.EditMessage("📆 Введите дату занятия в формате ГГГГ-ММ-ДД:", kb.Build()); err != nil {
		h.Logger.Error("Failed to show date step", zap.Error(err))
	}
}
