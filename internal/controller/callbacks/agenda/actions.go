package agenda

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/uuid"
	"github.com/melodia/agenda_bot/internal/controller/callbacks/callbacktypes"
	"github.com/melodia/agenda_bot/internal/controller/callbacks/common"
	"github.com/melodia/agenda_bot/internal/controller/callbacks/common/formatting"
	"github.com/melodia/agenda_bot/internal/controller/callbacks/common/keyboard"
	"github.com/melodia/agenda_bot/internal/controller/state"
	"go.uber.org/zap"
)

// HandleLessonStart переводит запланированное занятие в "идёт занятие"
func HandleLessonStart(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
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

	if err := h.AgendaService.StartLesson(ctx, lessonID); err != nil {
		hc.AnswerError(err)
		return
	}

	hc.Answer("▶️ Занятие началось")
	showFreshDetails(hc, lessonID)
}

// HandleLessonComplete завершает идущее занятие
func HandleLessonComplete(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
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

	if err := h.AgendaService.CompleteLesson(ctx, lessonID); err != nil {
		hc.AnswerError(err)
		return
	}

	hc.Answer("✅ Занятие завершено")
	showFreshDetails(hc, lessonID)
}

// HandleLessonCancel показывает экран подтверждения отмены.
// Сама отмена происходит только по кнопке подтверждения — с одноразовым
// токеном, чтобы устаревший экран не отменил занятие повторно.
func HandleLessonCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
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

	token := uuid.NewString()
	h.StateManager.SetData(hc.TelegramID, state.DataCancelLesson, lessonID)
	h.StateManager.SetData(hc.TelegramID, state.DataCancelToken, token)

	text := fmt.Sprintf(
		"⚠️ <b>Отменить занятие?</b>\n\n"+
			"🕐 %s, %s\n"+
			"🚪 Зал: %s\n\n"+
			"Занятие будет помечено отменённым. Действие необратимо.",
		formatting.FormatDate(lesson.StartTime),
		formatting.FormatTimeRange(lesson.StartTime, lesson.EndTime),
		lesson.Room,
	)

	kb := keyboard.NewBuilder().
		Row(keyboard.ConfirmCancelRow(
			fmt.Sprintf("%s%d:%s", CallbackConfirmCancel, lessonID, token),
			fmt.Sprintf("%s%d", CallbackAbortCancel, lessonID),
		)...)

	if err := hc.EditMessage(text, kb.Build()); err != nil {
		h.Logger.Error("Failed to show cancel confirmation",
			zap.Int64("lesson_id", lessonID),
			zap.Error(err),
		)
		hc.AnswerAlert("❌ Не удалось показать подтверждение")
		return
	}

	hc.Answer("")
}

// HandleConfirmCancel выполняет отмену после подтверждения
func HandleConfirmCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	if err := hc.RequireAgendaAccess(); err != nil {
		hc.AnswerError(err)
		return
	}

	// confirm_cancel:<id>:<token>
	parts, err := common.ParseCallbackParts(callback.Data, 3)
	if err != nil {
		hc.AnswerError(common.ErrInvalidFormat)
		return
	}

	lessonID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		hc.AnswerError(common.ErrInvalidFormat)
		return
	}
	token := parts[2]

	if !cancelTokenValid(h, hc.TelegramID, lessonID, token) {
		hc.AnswerError(common.ErrStaleConfirm)
		return
	}

	lesson, err := h.AgendaService.CancelLesson(ctx, lessonID)
	if err != nil {
		hc.AnswerError(err)
		return
	}

	// Токен одноразовый
	h.StateManager.DeleteData(hc.TelegramID, state.DataCancelLesson)
	h.StateManager.DeleteData(hc.TelegramID, state.DataCancelToken)

	courseName := unknownLabel
	if course, cErr := h.DirectoryService.GetCourse(ctx, lesson.CourseID); cErr == nil && course != nil {
		courseName = course.Name
	}
	h.NotificationService.NotifyLessonCanceled(ctx, lesson, courseName)

	hc.Answer("❌ Занятие отменено")
	showFreshDetails(hc, lessonID)
}

// HandleAbortCancel закрывает подтверждение без отмены занятия
func HandleAbortCancel(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
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

	h.StateManager.DeleteData(hc.TelegramID, state.DataCancelLesson)
	h.StateManager.DeleteData(hc.TelegramID, state.DataCancelToken)

	hc.Answer("Занятие не отменено")
	showFreshDetails(hc, lessonID)
}

// cancelTokenValid сверяет токен подтверждения с выданным ранее
func cancelTokenValid(h *callbacktypes.Handler, telegramID, lessonID int64, token string) bool {
	storedLesson, ok := h.StateManager.GetData(telegramID, state.DataCancelLesson)
	if !ok {
		return false
	}
	storedToken, ok := h.StateManager.GetData(telegramID, state.DataCancelToken)
	if !ok {
		return false
	}

	id, ok := storedLesson.(int64)
	if !ok || id != lessonID {
		return false
	}
	value, ok := storedToken.(string)
	return ok && value == token
}

// showFreshDetails перечитывает занятие и перерисовывает детальный экран.
// После смены статуса кнопки пересобираются от нового состояния.
func showFreshDetails(hc *common.HandlerContext, lessonID int64) {
	lesson, err := hc.Handler.AgendaService.GetLesson(hc.Ctx, lessonID)
	if err != nil {
		hc.Handler.Logger.Error("Failed to reload lesson after action",
			zap.Int64("lesson_id", lessonID),
			zap.Error(err),
		)
		return
	}

	text, kb := BuildDetailScreen(hc.Ctx, hc.Handler.DirectoryService, hc.Handler.UserService, lesson)
	if err := hc.EditMessage(text, kb); err != nil {
		hc.Handler.Logger.Error("Failed to redraw lesson details",
			zap.Int64("lesson_id", lessonID),
			zap.Error(err),
		)
	}
}
