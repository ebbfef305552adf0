package agenda

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/melodia/agenda_bot/internal/controller/callbacks/callbacktypes"
	"github.com/melodia/agenda_bot/internal/controller/callbacks/common"
	"github.com/melodia/agenda_bot/internal/controller/state"
	"github.com/melodia/agenda_bot/internal/service"
	"go.uber.org/zap"
)

// StoredCriteria достаёт сохранённые фильтры пользователя.
// Отсутствие данных означает пустые критерии — показать всё.
func StoredCriteria(h *callbacktypes.Handler, telegramID int64) service.FilterCriteria {
	raw, ok := h.StateManager.GetData(telegramID, state.DataCriteria)
	if !ok {
		return service.FilterCriteria{}
	}
	criteria, ok := raw.(service.FilterCriteria)
	if !ok {
		return service.FilterCriteria{}
	}
	return criteria
}

// ShowAgenda перерисовывает экран агенды в текущем сообщении
func ShowAgenda(hc *common.HandlerContext) error {
	criteria := StoredCriteria(hc.Handler, hc.TelegramID)
	text, kb, err := BuildAgendaScreen(hc.Ctx, hc.Handler.AgendaService, hc.Handler.DirectoryService, hc.User, criteria)
	if err != nil {
		return err
	}
	return hc.EditMessage(text, kb)
}

// HandleAgendaRefresh заново читает занятия и перестраивает экран
func HandleAgendaRefresh(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	if err := hc.RequireUser(); err != nil {
		hc.AnswerError(err)
		return
	}

	if err := ShowAgenda(hc); err != nil {
		h.Logger.Error("Failed to refresh agenda", zap.Error(err))
		hc.AnswerAlert("❌ Не удалось обновить агенду")
		return
	}

	hc.Answer("🔄 Агенда обновлена")
}

// HandleBackToAgenda возвращает с детального экрана к списку занятий
func HandleBackToAgenda(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	if err := hc.RequireUser(); err != nil {
		hc.AnswerError(err)
		return
	}

	// Брошенные диалоги (редактирование, подтверждение отмены) сбрасываются
	h.StateManager.ClearDialog(hc.TelegramID)

	if err := ShowAgenda(hc); err != nil {
		h.Logger.Error("Failed to show agenda", zap.Error(err))
		hc.AnswerAlert("❌ Не удалось открыть агенду")
		return
	}

	hc.Answer("")
}

// HandleLessonView показывает детальный экран занятия. Данные всегда
// читаются заново — кнопка могла остаться от устаревшего списка.
func HandleLessonView(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
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

	lesson, err := h.AgendaService.GetLesson(ctx, lessonID)
	if err != nil {
		hc.AnswerError(err)
		return
	}

	text, kb := BuildDetailScreen(ctx, h.DirectoryService, h.UserService, lesson)
	if err := hc.EditMessage(text, kb); err != nil {
		h.Logger.Error("Failed to show lesson details",
			zap.Int64("lesson_id", lessonID),
			zap.Error(err),
		)
		hc.AnswerAlert("❌ Не удалось открыть занятие")
		return
	}

	hc.Answer("")
}

// HandleAgendaImage рисует недельную сетку занятий и отправляет картинкой
func HandleAgendaImage(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	hc := common.NewHandlerContext(ctx, b, callback, h)

	if err := hc.RequireUser(); err != nil {
		hc.AnswerError(err)
		return
	}

	lessons, err := h.AgendaService.ListLessons(ctx)
	if err != nil {
		h.Logger.Error("Failed to list lessons for agenda image", zap.Error(err))
		hc.AnswerAlert("❌ Не удалось построить картинку")
		return
	}

	courses, err := h.DirectoryService.CoursesByID(ctx)
	if err != nil {
		courses = nil
	}

	criteria := ViewerCriteria(hc.User, StoredCriteria(h, hc.TelegramID))
	filtered := service.ApplyFilter(lessons, criteria)
	events := service.ProjectLessons(filtered, courses)

	image, err := common.GenerateAgendaImage(time.Now(), events, h.AgendaFontPath)
	if err != nil {
		h.Logger.Error("Failed to render agenda image", zap.Error(err))
		hc.AnswerAlert("❌ Не удалось построить картинку")
		return
	}

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID: hc.ChatID,
		Photo: &models.InputFileUpload{
			Filename: "agenda.png",
			Data:     bytes.NewReader(image),
		},
		Caption: fmt.Sprintf("🖼 Неделя, занятий: %d", len(events)),
	})
	if err != nil {
		h.Logger.Error("Failed to send agenda image", zap.Error(err))
		hc.AnswerAlert("❌ Не удалось отправить картинку")
		return
	}

	hc.Answer("")
}
