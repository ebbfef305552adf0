package callbacks

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/melodia/agenda_bot/internal/controller/callbacks/callbacktypes"
	"github.com/melodia/agenda_bot/internal/service"
	"go.uber.org/zap"
)

// Handler обёртка для callbacktypes.Handler с методами
type Handler struct {
	*callbacktypes.Handler
}

// StateManager интерфейс для управления состоянием пользователей
type StateManager = callbacktypes.StateManager

// NewHandler создаёт новый обработчик callbacks с зависимостями
func NewHandler(
	userService *service.UserService,
	agendaService *service.AgendaService,
	bookingService *service.BookingService,
	directoryService *service.DirectoryService,
	notificationService *service.NotificationService,
	stateManager callbacktypes.StateManager,
	logger *zap.Logger,
	agendaFontPath string,
) *Handler {
	inner := &callbacktypes.Handler{
		UserService:         userService,
		AgendaService:       agendaService,
		BookingService:      bookingService,
		DirectoryService:    directoryService,
		NotificationService: notificationService,
		StateManager:        stateManager,
		Logger:              logger,
		AgendaFontPath:      agendaFontPath,
	}
	return &Handler{Handler: inner}
}

// HandleCallbackQuery - главный обработчик callback queries
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	callback := update.CallbackQuery

	h.Logger.Info("Callback received",
		zap.String("data", callback.Data),
		zap.Int64("user_id", callback.From.ID),
	)

	Route(ctx, b, callback, h.Handler)
}
