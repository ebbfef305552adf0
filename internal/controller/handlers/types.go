package handlers

import (
	"github.com/melodia/agenda_bot/internal/controller/callbacks/callbacktypes"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд и текстовых
// шагов диалогов. Экранные построители общие с callback-обработчиками,
// поэтому зависимости те же.
type Handlers struct {
	deps   *callbacktypes.Handler
	logger *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(deps *callbacktypes.Handler) *Handlers {
	return &Handlers{
		deps:   deps,
		logger: deps.Logger,
	}
}
