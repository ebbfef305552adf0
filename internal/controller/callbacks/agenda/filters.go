package agenda

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/melodia/agenda_bot/internal/controller/callbacks/callbacktypes"
	"github.com/melodia/agenda_bot/internal/controller/callbacks/common"
	"github.com/melodia/agenda_bot/internal/controller/callbacks/common/formatting"
	"github.com/melodia/agenda_bot/internal/controller/callbacks/common/keyboard"
	"github.com/melodia/agenda_bot/internal/controller/state"
	"github.com/melodia/agenda_bot/internal/model"
	"github.com/melodia/agenda_bot/internal/service"
	"go.uber.org/zap"
)

// Значение "все" в callback data фильтра статуса
const filterStatusAll = "all"

// SaveCriteria сохраняет фильтры пользователя. Фильтры переживают
// остальные данные диалога.
func SaveCriteria(h *callbacktypes.Handler, telegramID int64, criteria service.FilterCriteria) {
	h.StateManager.SetData(telegramID, state.DataCriteria, criteria)
}

// HandleFilters показывает экран управления фильтрами агенды.
// Преподаватель не может снять фильтр по себе, ученик — по себе,
// поэтому соответствующие кнопки им не показываются.
func HandleFilters(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	if err := hc.RequireUser(); err != nil {
		hc.AnswerError(err)
		return
	}

	criteria := ViewerCriteria(hc.User, StoredCriteria(h, hc.TelegramID))

	var text strings.Builder
	text.WriteString("⚙️ <b>Фильтры агенды</b>\n\n")
	if criteria.IsEmpty() {
		text.WriteString("Фильтры не заданы — показаны все занятия.")
	} else {
		text.WriteString(describeCriteria(criteria))
	}

	kb := keyboard.NewBuilder()
	if hc.User.Role != model.RoleTeacher {
		kb.Row(keyboard.Button("👨‍🏫 Преподаватель", CallbackPickTeacher))
	}
	if hc.User.Role != model.RoleStudent {
		kb.Row(keyboard.Button("👩‍🎓 Ученик", CallbackPickStudent))
	}
	kb.Row(keyboard.Button("📊 Статус", CallbackPickStatus)).
		Row(keyboard.Button("🕐 Окно времени", CallbackFilterTime)).
		Row(keyboard.Button("🧹 Сбросить фильтры", CallbackFilterClear)).
		Row(keyboard.BackButton(CallbackBackToAgenda))

	if err := hc.EditMessage(text.String(), kb.Build()); err != nil {
		h.Logger.Error("Failed to show filters screen", zap.Error(err))
		hc.AnswerAlert("❌ Не удалось открыть фильтры")
		return
	}

	hc.Answer("")
}

// HandlePickTeacher показывает выбор преподавателя для фильтра
func HandlePickTeacher(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	if err := hc.RequireUser(); err != nil {
		hc.AnswerError(err)
		return
	}

	teachers, err := h.UserService.ListTeachers(ctx)
	if err != nil {
		h.Logger.Error("Failed to list teachers for filter", zap.Error(err))
		hc.AnswerAlert("❌ Не удалось загрузить преподавателей")
		return
	}

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("Все преподаватели", CallbackFilterTeacher+"0"))
	for _, teacher := range teachers {
		kb.Row(keyboard.Button("👨‍🏫 "+teacher.DisplayName(), fmt.Sprintf("%s%d", CallbackFilterTeacher, teacher.ID)))
	}
	kb.Row(keyboard.BackButton(CallbackFilters))

	if err := hc.EditMessage("👨‍🏫 Показывать занятия преподавателя:", kb.Build()); err != nil {
		h.Logger.Error("Failed to show teacher filter", zap.Error(err))
		hc.AnswerAlert("❌ Не удалось показать список")
		return
	}

	hc.Answer("")
}

// HandleFilterTeacher применяет фильтр по преподавателю, 0 снимает его
func HandleFilterTeacher(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	if err := hc.RequireUser(); err != nil {
		hc.AnswerError(err)
		return
	}

	teacherID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		hc.AnswerError(common.ErrInvalidFormat)
		return
	}

	criteria := StoredCriteria(h, hc.TelegramID)
	criteria.TeacherID = teacherID
	SaveCriteria(h, hc.TelegramID, criteria)

	hc.Answer("⚙️ Фильтр применён")
	if err := ShowAgenda(hc); err != nil {
		h.Logger.Error("Failed to show filtered agenda", zap.Error(err))
	}
}

// HandlePickStudent показывает выбор ученика для фильтра
func HandlePickStudent(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	if err := hc.RequireUser(); err != nil {
		hc.AnswerError(err)
		return
	}

	students, err := h.UserService.ListStudents(ctx)
	if err != nil {
		h.Logger.Error("Failed to list students for filter", zap.Error(err))
		hc.AnswerAlert("❌ Не удалось загрузить учеников")
		return
	}

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("Все ученики", CallbackFilterStudent+"0"))
	for _, student := range students {
		kb.Row(keyboard.Button("👩‍🎓 "+student.DisplayName(), fmt.Sprintf("%s%d", CallbackFilterStudent, student.ID)))
	}
	kb.Row(keyboard.BackButton(CallbackFilters))

	if err := hc.EditMessage("👩‍🎓 Показывать занятия ученика:", kb.Build()); err != nil {
		h.Logger.Error("Failed to show student filter", zap.Error(err))
		hc.AnswerAlert("❌ Не удалось показать список")
		return
	}

	hc.Answer("")
}

// HandleFilterStudent применяет фильтр по ученику, 0 снимает его
func HandleFilterStudent(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	if err := hc.RequireUser(); err != nil {
		hc.AnswerError(err)
		return
	}

	studentID, err := common.ParseIDFromCallback(callback.Data)
	if err != nil {
		hc.AnswerError(common.ErrInvalidFormat)
		return
	}

	criteria := StoredCriteria(h, hc.TelegramID)
	criteria.StudentID = studentID
	SaveCriteria(h, hc.TelegramID, criteria)

	hc.Answer("⚙️ Фильтр применён")
	if err := ShowAgenda(hc); err != nil {
		h.Logger.Error("Failed to show filtered agenda", zap.Error(err))
	}
}

// HandlePickStatus показывает выбор статуса для фильтра
func HandlePickStatus(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	if err := hc.RequireUser(); err != nil {
		hc.AnswerError(err)
		return
	}

	statuses := []model.LessonStatus{
		model.LessonStatusScheduled,
		model.LessonStatusInProgress,
		model.LessonStatusCompleted,
		model.LessonStatusCanceled,
	}

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("Все статусы", CallbackFilterStatus+filterStatusAll))
	for _, status := range statuses {
		display := formatting.GetLessonStatusDisplay(status)
		kb.Row(keyboard.Button(
			display.Emoji+" "+display.Text,
			CallbackFilterStatus+string(status),
		))
	}
	kb.Row(keyboard.BackButton(CallbackFilters))

	if err := hc.EditMessage("📊 Показывать занятия со статусом:", kb.Build()); err != nil {
		h.Logger.Error("Failed to show status filter", zap.Error(err))
		hc.AnswerAlert("❌ Не удалось показать список")
		return
	}

	hc.Answer("")
}

// HandleFilterStatus применяет фильтр по статусу, "all" снимает его
func HandleFilterStatus(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	if err := hc.RequireUser(); err != nil {
		hc.AnswerError(err)
		return
	}

	value := strings.TrimPrefix(callback.Data, CallbackFilterStatus)

	criteria := StoredCriteria(h, hc.TelegramID)
	if value == filterStatusAll {
		criteria.Status = ""
	} else {
		criteria.Status = model.LessonStatus(value)
	}
	SaveCriteria(h, hc.TelegramID, criteria)

	hc.Answer("⚙️ Фильтр применён")
	if err := ShowAgenda(hc); err != nil {
		h.Logger.Error("Failed to show filtered agenda", zap.Error(err))
	}
}

// HandleFilterTime запрашивает окно времени суток. Границы вводятся
// по очереди, «-» оставляет границу пустой.
func HandleFilterTime(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	if err := hc.RequireUser(); err != nil {
		hc.AnswerError(err)
		return
	}

	h.StateManager.SetState(hc.TelegramID, state.StateFilterTimeFrom)

	kb := keyboard.NewBuilder().
		Row(keyboard.BackButton(CallbackFilters))

	prompt := "🕐 Введите начало окна в формате ЧЧ:ММ (или «-», чтобы не ограничивать снизу):"
	if err := hc.EditMessage(prompt, kb.Build()); err != nil {
		h.Logger.Error("Failed to show time window prompt", zap.Error(err))
		hc.AnswerAlert("❌ Не удалось показать подсказку")
		return
	}

	hc.Answer("")
}

// HandleFilterClear сбрасывает все фильтры. Ролевое ограничение при
// этом остаётся — его накладывает ViewerCriteria при каждом показе.
func HandleFilterClear(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	if err := hc.RequireUser(); err != nil {
		hc.AnswerError(err)
		return
	}

	SaveCriteria(h, hc.TelegramID, service.FilterCriteria{})

	hc.Answer("🧹 Фильтры сброшены")
	if err := ShowAgenda(hc); err != nil {
		h.Logger.Error("Failed to show agenda after filter reset", zap.Error(err))
	}
}
