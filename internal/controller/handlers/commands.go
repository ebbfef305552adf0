package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	agendacb "github.com/melodia/agenda_bot/internal/controller/callbacks/agenda"
	"github.com/melodia/agenda_bot/internal/controller/state"
	"github.com/melodia/agenda_bot/internal/model"
	"go.uber.org/zap"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	from := update.Message.From

	registeredUser, err := h.deps.UserService.RegisterUser(
		ctx,
		from.ID,
		from.Username,
		from.FirstName,
		from.LastName,
		from.LanguageCode,
	)
	if err != nil {
		h.logger.Error("Failed to register user", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка при регистрации. Попробуйте позже.")
		return
	}

	welcomeText := fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Это бот музыкальной школы «Мелодия» — агенда занятий и запись.\n\n"+
			"Доступные команды:\n"+
			"/agenda - Агенда занятий\n"+
			"/myagenda - Только мои занятия\n"+
			"/help - Справка\n\n"+
			"Для сотрудников:\n"+
			"/newlesson - Записать на занятие",
		registeredUser.FirstName,
	)

	h.sendMessage(ctx, b, update.Message.Chat.ID, welcomeText, nil)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "📚 Справка по командам:\n\n" +
		"/start - Начать работу с ботом\n" +
		"/agenda - Агенда занятий школы\n" +
		"/myagenda - Показать только мои занятия\n" +
		"/cancel - Прервать текущий диалог\n" +
		"/help - Показать эту справку\n\n" +
		"Для сотрудников и преподавателей:\n" +
		"/newlesson - Записать ученика на занятие\n\n" +
		"Управление занятием — через кнопки в агенде."

	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText, nil)
}

// HandleAgenda обрабатывает команду /agenda — присылает агенду школы
func (h *Handlers) HandleAgenda(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	user := h.loadUser(ctx, b, update)
	if user == nil {
		return
	}

	criteria := agendacb.StoredCriteria(h.deps, user.TelegramID)
	text, kb, err := agendacb.BuildAgendaScreen(ctx, h.deps.AgendaService, h.deps.DirectoryService, user, criteria)
	if err != nil {
		h.logger.Error("Failed to build agenda", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Не удалось загрузить агенду")
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleMyAgenda обрабатывает команду /myagenda — агенда с фильтром по себе
func (h *Handlers) HandleMyAgenda(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	user := h.loadUser(ctx, b, update)
	if user == nil {
		return
	}

	criteria := agendacb.StoredCriteria(h.deps, user.TelegramID)
	switch user.Role {
	case model.RoleTeacher:
		criteria.TeacherID = user.ID
	case model.RoleStudent:
		criteria.StudentID = user.ID
	default:
		h.sendError(ctx, b, update.Message.Chat.ID,
			"Персоналу показывается вся агенда — используйте /agenda и фильтры.")
		return
	}
	agendacb.SaveCriteria(h.deps, user.TelegramID, criteria)

	text, kb, err := agendacb.BuildAgendaScreen(ctx, h.deps.AgendaService, h.deps.DirectoryService, user, criteria)
	if err != nil {
		h.logger.Error("Failed to build personal agenda", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Не удалось загрузить агенду")
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, text, kb)
}

// HandleNewLesson обрабатывает команду /newlesson — начинает запись
func (h *Handlers) HandleNewLesson(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	user, ok := h.requireAgendaAccess(ctx, b, update)
	if !ok {
		return
	}

	h.logger.Info("Starting lesson booking dialog",
		zap.Int64("telegram_id", user.TelegramID),
		zap.Int64("user_id", user.ID),
	)

	if err := agendacb.StartBooking(ctx, b, update.Message.Chat.ID, user.TelegramID, h.deps); err != nil {
		h.logger.Error("Failed to start booking dialog", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Не удалось начать запись. Попробуйте позже.")
	}
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID

	if h.deps.StateManager.GetState(telegramID) == state.StateNone {
		if _, hasDraft := h.deps.StateManager.GetData(telegramID, state.DataDraft); !hasDraft {
			h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Нет активных операций для отмены.", nil)
			return
		}
	}

	h.deps.StateManager.ClearDialog(telegramID)

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"✅ Операция отменена.\n\nИспользуйте /help для просмотра доступных команд.", nil)
}
