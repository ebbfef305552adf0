package callbacktypes

import (
	"github.com/melodia/agenda_bot/internal/controller/state"
	"github.com/melodia/agenda_bot/internal/service"
	"go.uber.org/zap"
)

// StateManager интерфейс для управления состоянием пользователей
type StateManager interface {
	ClearState(telegramID int64)
	ClearDialog(telegramID int64)
	GetState(telegramID int64) state.UserState
	SetState(telegramID int64, s state.UserState)
	SetData(telegramID int64, key string, value interface{})
	GetData(telegramID int64, key string) (interface{}, bool)
	DeleteData(telegramID int64, key string)
}

// Handler содержит общие зависимости для всех callback handlers
type Handler struct {
	UserService         *service.UserService
	AgendaService       *service.AgendaService
	BookingService      *service.BookingService
	DirectoryService    *service.DirectoryService
	NotificationService *service.NotificationService
	StateManager        StateManager
	Logger              *zap.Logger

	// Путь к TTF для отрисовки картинки агенды ("" = встроенный шрифт)
	AgendaFontPath string
}
