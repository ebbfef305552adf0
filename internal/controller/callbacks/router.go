package callbacks

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	agendacb "github.com/melodia/agenda_bot/internal/controller/callbacks/agenda"
	"github.com/melodia/agenda_bot/internal/controller/callbacks/callbacktypes"
	"github.com/melodia/agenda_bot/internal/controller/callbacks/common"
	"go.uber.org/zap"
)

// Route распределяет callback query по соответствующим обработчикам
func Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, h *callbacktypes.Handler) {
	data := callback.Data

	h.Logger.Info("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID),
		zap.String("user_name", callback.From.FirstName))

	switch {
	// ===== Агенда: список и детали =====
	case data == agendacb.CallbackAgendaRefresh:
		agendacb.HandleAgendaRefresh(ctx, b, callback, h)
	case data == agendacb.CallbackAgendaImage:
		agendacb.HandleAgendaImage(ctx, b, callback, h)
	case data == agendacb.CallbackBackToAgenda:
		agendacb.HandleBackToAgenda(ctx, b, callback, h)
	case strings.HasPrefix(data, agendacb.CallbackLessonView):
		agendacb.HandleLessonView(ctx, b, callback, h)

	// ===== Агенда: смена статусов =====
	case strings.HasPrefix(data, agendacb.CallbackLessonStart):
		agendacb.HandleLessonStart(ctx, b, callback, h)
	case strings.HasPrefix(data, agendacb.CallbackLessonComplete):
		agendacb.HandleLessonComplete(ctx, b, callback, h)
	case strings.HasPrefix(data, agendacb.CallbackConfirmCancel):
		agendacb.HandleConfirmCancel(ctx, b, callback, h)
	case strings.HasPrefix(data, agendacb.CallbackAbortCancel):
		agendacb.HandleAbortCancel(ctx, b, callback, h)
	case strings.HasPrefix(data, agendacb.CallbackLessonCancel):
		agendacb.HandleLessonCancel(ctx, b, callback, h)

	// ===== Агенда: редактирование занятия =====
	case strings.HasPrefix(data, agendacb.CallbackLessonEdit):
		agendacb.HandleLessonEdit(ctx, b, callback, h)
	case strings.HasPrefix(data, agendacb.CallbackEditDate):
		agendacb.HandleEditField(ctx, b, callback, h, agendacb.CallbackEditDate)
	case strings.HasPrefix(data, agendacb.CallbackEditTime):
		agendacb.HandleEditField(ctx, b, callback, h, agendacb.CallbackEditTime)
	case strings.HasPrefix(data, agendacb.CallbackEditNotes):
		agendacb.HandleEditField(ctx, b, callback, h, agendacb.CallbackEditNotes)
	case strings.HasPrefix(data, agendacb.CallbackEditEmail):
		agendacb.HandleEditField(ctx, b, callback, h, agendacb.CallbackEditEmail)
	case strings.HasPrefix(data, agendacb.CallbackEditRoom):
		agendacb.HandleEditRoom(ctx, b, callback, h)
	case strings.HasPrefix(data, agendacb.CallbackEditSave):
		agendacb.HandleEditSave(ctx, b, callback, h)
	case strings.HasPrefix(data, agendacb.CallbackEditAbort):
		agendacb.HandleEditAbort(ctx, b, callback, h)

	// ===== Запись на занятие =====
	case strings.HasPrefix(data, agendacb.CallbackBookCourse):
		agendacb.HandleBookCourse(ctx, b, callback, h)
	case strings.HasPrefix(data, agendacb.CallbackBookStudent):
		agendacb.HandleBookStudent(ctx, b, callback, h)
	case strings.HasPrefix(data, agendacb.CallbackBookTeacher):
		agendacb.HandleBookTeacher(ctx, b, callback, h)
	case data == agendacb.CallbackBookSkipEmail:
		agendacb.HandleBookSkipEmail(ctx, b, callback, h)
	case data == agendacb.CallbackBookSkipNotes:
		agendacb.HandleBookSkipNotes(ctx, b, callback, h)
	case data == agendacb.CallbackBookConfirm:
		agendacb.HandleBookConfirm(ctx, b, callback, h)
	case data == agendacb.CallbackBookAbort:
		agendacb.HandleBookAbort(ctx, b, callback, h)
	case strings.HasPrefix(data, agendacb.CallbackRoomPick):
		agendacb.HandleRoomPick(ctx, b, callback, h)

	// ===== Фильтры =====
	case data == agendacb.CallbackFilters:
		agendacb.HandleFilters(ctx, b, callback, h)
	case data == agendacb.CallbackPickTeacher:
		agendacb.HandlePickTeacher(ctx, b, callback, h)
	case data == agendacb.CallbackPickStudent:
		agendacb.HandlePickStudent(ctx, b, callback, h)
	case data == agendacb.CallbackPickStatus:
		agendacb.HandlePickStatus(ctx, b, callback, h)
	case strings.HasPrefix(data, agendacb.CallbackFilterTeacher):
		agendacb.HandleFilterTeacher(ctx, b, callback, h)
	case strings.HasPrefix(data, agendacb.CallbackFilterStudent):
		agendacb.HandleFilterStudent(ctx, b, callback, h)
	case strings.HasPrefix(data, agendacb.CallbackFilterStatus):
		agendacb.HandleFilterStatus(ctx, b, callback, h)
	case data == agendacb.CallbackFilterTime:
		agendacb.HandleFilterTime(ctx, b, callback, h)
	case data == agendacb.CallbackFilterClear:
		agendacb.HandleFilterClear(ctx, b, callback, h)

	case data == "noop":
		common.AnswerCallback(ctx, b, callback.ID, "")

	default:
		h.Logger.Warn("Unknown callback data", zap.String("data", data))
		common.AnswerCallbackAlert(ctx, b, callback.ID, "❌ Неизвестная команда")
	}
}
