package controller

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/melodia/agenda_bot/internal/controller/callbacks"
	"github.com/melodia/agenda_bot/internal/controller/handlers"
	"github.com/melodia/agenda_bot/internal/controller/state"
	"github.com/melodia/agenda_bot/internal/service"
	"go.uber.org/zap"
)

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	userService *service.UserService,
	agendaService *service.AgendaService,
	bookingService *service.BookingService,
	directoryService *service.DirectoryService,
	notificationService *service.NotificationService,
	logger *zap.Logger,
	agendaFontPath string,
) *BotController {
	// Создаём менеджер состояний
	stateManager := state.NewManager()

	// Создаём callback handler с зависимостями
	callbackHandler := callbacks.NewHandler(
		userService,
		agendaService,
		bookingService,
		directoryService,
		notificationService,
		stateManager,
		logger,
		agendaFontPath,
	)

	// Обработчики команд работают с теми же зависимостями
	cmdHandlers := handlers.NewHandlers(callbackHandler.Handler)

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/agenda", bot.MatchTypeExact, c.handlers.HandleAgenda)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/myagenda", bot.MatchTypeExact, c.handlers.HandleMyAgenda)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/newlesson", bot.MatchTypeExact, c.handlers.HandleNewLesson)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "agenda", Description: "📅 Агенда занятий школы"},
		{Command: "myagenda", Description: "🗓 Только мои занятия"},
		{Command: "newlesson", Description: "➕ Записать на занятие"},
		{Command: "cancel", Description: "🚫 Прервать текущий диалог"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}

// TelegramSender доставляет уведомления в Telegram чаты.
// Реализует service.MessageSender.
type TelegramSender struct {
	bot *bot.Bot
}

func NewTelegramSender(botInstance *bot.Bot) *TelegramSender {
	return &TelegramSender{bot: botInstance}
}

// SendMessage отправляет текстовое сообщение в чат
func (s *TelegramSender) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := s.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	return err
}
