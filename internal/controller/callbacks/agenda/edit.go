package agenda

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/melodia/agenda_bot/internal/controller/callbacks/callbacktypes"
	"github.com/melodia/agenda_bot/internal/controller/callbacks/common"
	"github.com/melodia/agenda_bot/internal/controller/callbacks/common/keyboard"
	"github.com/melodia/agenda_bot/internal/controller/state"
	"github.com/melodia/agenda_bot/internal/model"
	"github.com/melodia/agenda_bot/internal/service"
	"go.uber.org/zap"
)

// draftFromLesson раскладывает занятие обратно в черновик формы
func draftFromLesson(lesson *model.Lesson) *service.LessonDraft {
	return &service.LessonDraft{
		CourseID:     lesson.CourseID,
		StudentID:    lesson.StudentID,
		TeacherID:    lesson.TeacherID,
		Room:         lesson.Room,
		Date:         lesson.StartTime.Format("2006-01-02"),
		StartTime:    lesson.StartTime.Format("15:04"),
		EndTime:      lesson.EndTime.Format("15:04"),
		Notes:        lesson.Notes,
		StudentEmail: lesson.StudentEmail,
	}
}

// CurrentDraft достаёт черновик из данных диалога
func CurrentDraft(h *callbacktypes.Handler, telegramID int64) (*service.LessonDraft, bool) {
	raw, ok := h.StateManager.GetData(telegramID, state.DataDraft)
	if !ok {
		return nil, false
	}
	draft, ok := raw.(*service.LessonDraft)
	return draft, ok
}

// HandleLessonEdit открывает меню редактирования запланированного занятия.
// Если диалог уже идёт, продолжается текущий черновик.
func HandleLessonEdit(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	if err := hc.RequireAgendaAccess(); err != nil {
		hc.AnswerError(err)
		return
	}

	lessonID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		hc.AnswerError(common.ErrInvalidFormat)
		return
	}

	lesson, err := h.AgendaService.GetLesson(ctx, lessonID)
	if err != nil {
		hc.AnswerError(err)
		return
	}
	if !lesson.CanEdit() {
		hc.AnswerError(service.ErrLessonNotEditable)
		return
	}

	draft, ok := CurrentDraft(h, hc.TelegramID)
	if !ok || !editingLesson(h, hc.TelegramID, lessonID) {
		draft = draftFromLesson(lesson)
		h.StateManager.SetData(hc.TelegramID, state.DataDraft, draft)
		h.StateManager.SetData(hc.TelegramID, state.DataEditLessonID, lessonID)
	}
	h.StateManager.SetState(hc.TelegramID, state.StateNone)

	text, kb := BuildEditScreen(lessonID, draft)
	if err := hc.EditMessage(text, kb); err != nil {
		h.Logger.Error("Failed to show edit menu",
			zap.Int64("lesson_id", lessonID),
			zap.Error(err),
		)
		hc.AnswerAlert("❌ Не удалось открыть редактирование")
		return
	}

	hc.Answer("")
}

// editingLesson проверяет что текущий диалог редактирует именно это занятие
func editingLesson(h *callbacktypes.Handler, telegramID, lessonID int64) bool {
	raw, ok := h.StateManager.GetData(telegramID, state.DataEditLessonID)
	if !ok {
		return false
	}
	id, ok := raw.(int64)
	return ok && id == lessonID
}

// fieldPrompt описывает шаг ввода для кнопки меню редактирования
type fieldPrompt struct {
	state  state.UserState
	prompt string
}

var editPrompts = map[string]fieldPrompt{
	CallbackEditDate:  {state.StateEditDate, "📆 Введите новую дату в формате ГГГГ-ММ-ДД:"},
	CallbackEditTime:  {state.StateEditStartTime, "🕐 Введите время начала в формате ЧЧ:ММ:"},
	CallbackEditNotes: {state.StateEditNotes, "📝 Введите примечания (или «-», чтобы очистить):"},
	CallbackEditEmail: {state.StateEditEmail, "✉️ Введите email ученика (или «-», чтобы очистить):"},
}

// HandleEditField переключает диалог на ввод выбранного поля
func HandleEditField(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler, prefix string) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	if err := hc.RequireAgendaAccess(); err != nil {
		hc.AnswerError(err)
		return
	}

	lessonID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		hc.AnswerError(common.ErrInvalidFormat)
		return
	}

	if _, ok := CurrentDraft(h, hc.TelegramID); !ok || !editingLesson(h, hc.TelegramID, lessonID) {
		hc.AnswerError(common.ErrStaleConfirm)
		return
	}

	step, ok := editPrompts[prefix]
	if !ok {
		hc.AnswerError(common.ErrInvalidFormat)
		return
	}

	h.StateManager.SetState(hc.TelegramID, step.state)

	kb := keyboard.NewBuilder().
		Row(keyboard.BackButton(fmt.Sprintf("%s%d", CallbackLessonEdit, lessonID)))

	if err := hc.EditMessage(step.prompt, kb.Build()); err != nil {
		h.Logger.Error("Failed to show edit prompt", zap.Error(err))
		hc.AnswerAlert("❌ Не удалось показать подсказку")
		return
	}

	hc.Answer("")
}

// HandleEditRoom запрашивает зал: подсказки кнопками, свободный ввод текстом
func HandleEditRoom(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	if err := hc.RequireAgendaAccess(); err != nil {
		hc.AnswerError(err)
		return
	}

	lessonID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		hc.AnswerError(common.ErrInvalidFormat)
		return
	}

	if _, ok := CurrentDraft(h, hc.TelegramID); !ok || !editingLesson(h, hc.TelegramID, lessonID) {
		hc.AnswerError(common.ErrStaleConfirm)
		return
	}

	h.StateManager.SetState(hc.TelegramID, state.StateEditRoom)

	text, kb := BuildRoomPrompt(ctx, h, fmt.Sprintf("%s%d", CallbackLessonEdit, lessonID))
	if err := hc.EditMessage(text, kb); err != nil {
		h.Logger.Error("Failed to show room prompt", zap.Error(err))
		hc.AnswerAlert("❌ Не удалось показать подсказку")
		return
	}

	hc.Answer("")
}

// BuildRoomPrompt собирает экран выбора зала. Список залов — только
// подсказки, любой другой зал вводится текстом.
func BuildRoomPrompt(ctx context.Context, h *callbacktypes.Handler, backData string) (string, *models.InlineKeyboardMarkup) {
	kb := keyboard.NewBuilder()

	rooms, _ := h.DirectoryService.ListRooms(ctx)
	for _, room := range rooms {
		kb.Row(keyboard.Button("🚪 "+room.Name, CallbackRoomPick+room.Name))
	}
	if backData != "" {
		kb.Row(keyboard.BackButton(backData))
	}

	return "🚪 Выберите зал из списка или введите название текстом:", kb.Build()
}

// HandleRoomPick подставляет выбранный зал в черновик
func HandleRoomPick(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	if err := hc.RequireAgendaAccess(); err != nil {
		hc.AnswerError(err)
		return
	}

	name := strings.TrimPrefix(callback.Data, CallbackRoomPick)
	if name == "" {
		hc.AnswerError(common.ErrInvalidFormat)
		return
	}

	draft, ok := CurrentDraft(h, hc.TelegramID)
	if !ok {
		hc.AnswerError(common.ErrStaleConfirm)
		return
	}
	draft.Room = name

	hc.Answer("🚪 " + name)
	ResumeDialog(hc)
}

// HandleEditSave проверяет черновик и перезаписывает занятие
func HandleEditSave(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	if err := hc.RequireAgendaAccess(); err != nil {
		hc.AnswerError(err)
		return
	}

	lessonID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		hc.AnswerError(common.ErrInvalidFormat)
		return
	}

	draft, ok := CurrentDraft(h, hc.TelegramID)
	if !ok || !editingLesson(h, hc.TelegramID, lessonID) {
		hc.AnswerError(common.ErrStaleConfirm)
		return
	}

	if _, err := h.BookingService.Reschedule(ctx, lessonID, draft); err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			hc.AnswerAlert(FormatValidationErrors(validationErr.Result))
			return
		}
		hc.AnswerError(err)
		return
	}

	h.StateManager.ClearDialog(hc.TelegramID)

	hc.Answer("💾 Занятие сохранено")
	showFreshDetails(hc, lessonID)
}

// HandleEditAbort выходит из редактирования без сохранения
func HandleEditAbort(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	if err := hc.RequireUser(); err != nil {
		hc.AnswerError(err)
		return
	}

	lessonID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		hc.AnswerError(common.ErrInvalidFormat)
		return
	}

	h.StateManager.ClearDialog(hc.TelegramID)

	hc.Answer("Изменения отменены")
	showFreshDetails(hc, lessonID)
}

// FormatValidationErrors собирает ошибки полей в одно сообщение
func FormatValidationErrors(result *service.ValidationResult) string {
	order := []string{
		service.FieldCourse, service.FieldStudent, service.FieldTeacher,
		service.FieldRoom, service.FieldDate,
		service.FieldStartTime, service.FieldEndTime,
		service.FieldStudentEmail,
	}

	var lines []string
	for _, field := range order {
		if message := result.ErrorFor(field); message != "" {
			lines = append(lines, message)
		}
	}
	return "❌ " + strings.Join(lines, "\n")
}
