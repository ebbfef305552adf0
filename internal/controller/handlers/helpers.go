package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/melodia/agenda_bot/internal/model"
	"go.uber.org/zap"
)

// sendMessage отправляет сообщение с HTML разметкой
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string, kb *models.InlineKeyboardMarkup) {
	params := &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	}
	if kb != nil {
		params.ReplyMarkup = kb
	}

	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}

// sendError отправляет сообщение об ошибке
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	h.sendMessage(ctx, b, chatID, text, nil)
}

// loadUser получает зарегистрированного пользователя, nil если его нет
func (h *Handlers) loadUser(ctx context.Context, b *bot.Bot, update *models.Update) *model.User {
	telegramID := update.Message.From.ID

	user, err := h.deps.UserService.GetByTelegramID(ctx, telegramID)
	if err != nil {
		h.logger.Error("Failed to load user",
			zap.Int64("telegram_id", telegramID),
			zap.Error(err),
		)
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка. Попробуйте позже.")
		return nil
	}
	if user == nil {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Вы не зарегистрированы. Используйте /start")
		return nil
	}

	return user
}

// requireAgendaAccess получает пользователя и проверяет право управлять
// занятиями. Ученикам доступен только просмотр.
func (h *Handlers) requireAgendaAccess(ctx context.Context, b *bot.Bot, update *models.Update) (*model.User, bool) {
	user := h.loadUser(ctx, b, update)
	if user == nil {
		return nil, false
	}

	if !user.IsStaff() && user.Role != model.RoleTeacher {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Эта функция доступна только сотрудникам школы")
		return nil, false
	}

	return user, true
}
