package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	agendacb "github.com/melodia/agenda_bot/internal/controller/callbacks/agenda"
	"github.com/melodia/agenda_bot/internal/controller/callbacks/common/keyboard"
	"github.com/melodia/agenda_bot/internal/controller/state"
	"github.com/melodia/agenda_bot/internal/service"
	"go.uber.org/zap"
)

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от
// состояния пользователя. Невалидный ввод не двигает диалог — шаг
// повторяется с подсказкой об ошибке.
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	// Команды обрабатываются своими handlers
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.deps.StateManager.GetState(telegramID)

	if currentState == state.StateNone {
		return
	}

	h.logger.Info("Processing dialog step",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(currentState)),
	)

	switch currentState {
	// Запись на занятие
	case state.StateBookStudentEmail:
		h.handleBookEmailStep(ctx, b, update)
	case state.StateBookRoom:
		h.handleBookRoomStep(ctx, b, update)
	case state.StateBookDate:
		h.handleBookDateStep(ctx, b, update)
	case state.StateBookStartTime:
		h.handleBookStartTimeStep(ctx, b, update)
	case state.StateBookEndTime:
		h.handleBookEndTimeStep(ctx, b, update)
	case state.StateBookNotes:
		h.handleBookNotesStep(ctx, b, update)

	// Редактирование занятия
	case state.StateEditDate:
		h.handleEditDateStep(ctx, b, update)
	case state.StateEditStartTime:
		h.handleEditStartTimeStep(ctx, b, update)
	case state.StateEditEndTime:
		h.handleEditEndTimeStep(ctx, b, update)
	case state.StateEditRoom:
		h.handleEditRoomStep(ctx, b, update)
	case state.StateEditNotes:
		h.handleEditNotesStep(ctx, b, update)
	case state.StateEditEmail:
		h.handleEditEmailStep(ctx, b, update)

	// Окно времени фильтра
	case state.StateFilterTimeFrom:
		h.handleFilterTimeFromStep(ctx, b, update)
	case state.StateFilterTimeTo:
		h.handleFilterTimeToStep(ctx, b, update)
	}
}

// currentDraft достаёт черновик диалога, при его отсутствии прерывает диалог
func (h *Handlers) currentDraft(ctx context.Context, b *bot.Bot, update *models.Update) (*service.LessonDraft, bool) {
	telegramID := update.Message.From.ID

	draft, ok := agendacb.CurrentDraft(h.deps, telegramID)
	if !ok {
		h.deps.StateManager.ClearDialog(telegramID)
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Диалог устарел. Начните заново.")
		return nil, false
	}
	return draft, true
}

// ===== Запись на занятие =====

func (h *Handlers) handleBookEmailStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	draft, ok := h.currentDraft(ctx, b, update)
	if !ok {
		return
	}

	input := strings.TrimSpace(update.Message.Text)
	if input == emptyFieldInput {
		input = ""
	}

	if !service.ValidateEmail(input) {
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Укажите корректный email (или «-», чтобы пропустить):")
		return
	}

	draft.StudentEmail = input
	h.showBookRoomStep(ctx, b, update.Message.Chat.ID, update.Message.From.ID)
}

func (h *Handlers) showBookRoomStep(ctx context.Context, b *bot.Bot, chatID, telegramID int64) {
	h.deps.StateManager.SetState(telegramID, state.StateBookRoom)
	text, kb := agendacb.BuildRoomPrompt(ctx, h.deps, "")
	h.sendMessage(ctx, b, chatID, text, kb)
}

func (h *Handlers) handleBookRoomStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	draft, ok := h.currentDraft(ctx, b, update)
	if !ok {
		return
	}

	room := strings.TrimSpace(update.Message.Text)
	if room == "" {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Укажите зал:")
		return
	}
	if len(room) > RoomNameMaxLength {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Название зала слишком длинное. Попробуйте ещё раз:")
		return
	}

	draft.Room = room
	h.showBookDateStep(ctx, b, update.Message.Chat.ID, update.Message.From.ID)
}

func (h *Handlers) showBookDateStep(ctx context.Context, b *bot.Bot, chatID, telegramID int64) {
	h.deps.StateManager.SetState(telegramID, state.StateBookDate)

	kb := keyboard.NewBuilder().
		Row(keyboard.CancelButton(agendacb.CallbackBookAbort)).
		Build()
	h.sendMessage(ctx, b, chatID, "📆 Введите дату занятия в формате ГГГГ-ММ-ДД:", kb)
}

func (h *Handlers) handleBookDateStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	draft, ok := h.currentDraft(ctx, b, update)
	if !ok {
		return
	}

	input := strings.TrimSpace(update.Message.Text)
	if _, err := time.Parse("2006-01-02", input); err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Дата должна быть в формате ГГГГ-ММ-ДД, например 2026-09-15. Попробуйте ещё раз:")
		return
	}

	draft.Date = input
	h.deps.StateManager.SetState(update.Message.From.ID, state.StateBookStartTime)
	h.sendMessage(ctx, b, update.Message.Chat.ID, "🕐 Введите время начала в формате ЧЧ:ММ:", nil)
}

func (h *Handlers) handleBookStartTimeStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	draft, ok := h.currentDraft(ctx, b, update)
	if !ok {
		return
	}

	input := strings.TrimSpace(update.Message.Text)
	if _, err := time.Parse("15:04", input); err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Время должно быть в формате ЧЧ:ММ, например 14:30. Попробуйте ещё раз:")
		return
	}

	draft.StartTime = input
	h.deps.StateManager.SetState(update.Message.From.ID, state.StateBookEndTime)
	h.sendMessage(ctx, b, update.Message.Chat.ID, "🕐 Введите время окончания в формате ЧЧ:ММ:", nil)
}

func (h *Handlers) handleBookEndTimeStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	draft, ok := h.currentDraft(ctx, b, update)
	if !ok {
		return
	}

	input := strings.TrimSpace(update.Message.Text)
	if _, err := time.Parse("15:04", input); err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Время должно быть в формате ЧЧ:ММ, например 15:30. Попробуйте ещё раз:")
		return
	}
	if input <= draft.StartTime {
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Время окончания должно быть позже времени начала. Попробуйте ещё раз:")
		return
	}

	draft.EndTime = input

	h.deps.StateManager.SetState(update.Message.From.ID, state.StateBookNotes)
	kb := keyboard.NewBuilder().
		Row(keyboard.Button("⏭ Без примечаний", agendacb.CallbackBookSkipNotes)).
		Row(keyboard.CancelButton(agendacb.CallbackBookAbort)).
		Build()
	h.sendMessage(ctx, b, update.Message.Chat.ID, "📝 Введите примечания к занятию:", kb)
}

func (h *Handlers) handleBookNotesStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	draft, ok := h.currentDraft(ctx, b, update)
	if !ok {
		return
	}

	notes := strings.TrimSpace(update.Message.Text)
	if notes == emptyFieldInput {
		notes = ""
	}
	if len(notes) > NotesMaxLength {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Примечания слишком длинные. Попробуйте ещё раз:")
		return
	}

	draft.Notes = notes

	text, kb, ok := agendacb.BuildBookingSummary(ctx, h.deps, update.Message.From.ID)
	if !ok {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Диалог устарел. Начните заново.")
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, text, kb)
}

// ===== Редактирование занятия =====

// showEditMenu возвращает пользователя в меню редактирования
func (h *Handlers) showEditMenu(ctx context.Context, b *bot.Bot, chatID, telegramID int64, draft *service.LessonDraft) {
	raw, ok := h.deps.StateManager.GetData(telegramID, state.DataEditLessonID)
	if !ok {
		h.deps.StateManager.ClearDialog(telegramID)
		h.sendError(ctx, b, chatID, "❌ Диалог устарел. Откройте занятие заново.")
		return
	}
	lessonID, _ := raw.(int64)

	h.deps.StateManager.SetState(telegramID, state.StateNone)
	text, kb := agendacb.BuildEditScreen(lessonID, draft)
	h.sendMessage(ctx, b, chatID, text, kb)
}

func (h *Handlers) handleEditDateStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	draft, ok := h.currentDraft(ctx, b, update)
	if !ok {
		return
	}

	input := strings.TrimSpace(update.Message.Text)
	if _, err := time.Parse("2006-01-02", input); err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Дата должна быть в формате ГГГГ-ММ-ДД. Попробуйте ещё раз:")
		return
	}

	draft.Date = input
	h.showEditMenu(ctx, b, update.Message.Chat.ID, update.Message.From.ID, draft)
}

func (h *Handlers) handleEditStartTimeStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	draft, ok := h.currentDraft(ctx, b, update)
	if !ok {
		return
	}

	input := strings.TrimSpace(update.Message.Text)
	if _, err := time.Parse("15:04", input); err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Время должно быть в формате ЧЧ:ММ. Попробуйте ещё раз:")
		return
	}

	draft.StartTime = input
	h.deps.StateManager.SetState(update.Message.From.ID, state.StateEditEndTime)
	h.sendMessage(ctx, b, update.Message.Chat.ID, "🕐 Введите время окончания в формате ЧЧ:ММ:", nil)
}

func (h *Handlers) handleEditEndTimeStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	draft, ok := h.currentDraft(ctx, b, update)
	if !ok {
		return
	}

	input := strings.TrimSpace(update.Message.Text)
	if _, err := time.Parse("15:04", input); err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Время должно быть в формате ЧЧ:ММ. Попробуйте ещё раз:")
		return
	}
	if input <= draft.StartTime {
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Время окончания должно быть позже времени начала. Попробуйте ещё раз:")
		return
	}

	draft.EndTime = input
	h.showEditMenu(ctx, b, update.Message.Chat.ID, update.Message.From.ID, draft)
}

func (h *Handlers) handleEditRoomStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	draft, ok := h.currentDraft(ctx, b, update)
	if !ok {
		return
	}

	room := strings.TrimSpace(update.Message.Text)
	if room == "" || len(room) > RoomNameMaxLength {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Укажите зал:")
		return
	}

	draft.Room = room
	h.showEditMenu(ctx, b, update.Message.Chat.ID, update.Message.From.ID, draft)
}

func (h *Handlers) handleEditNotesStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	draft, ok := h.currentDraft(ctx, b, update)
	if !ok {
		return
	}

	notes := strings.TrimSpace(update.Message.Text)
	if notes == emptyFieldInput {
		notes = ""
	}
	if len(notes) > NotesMaxLength {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Примечания слишком длинные. Попробуйте ещё раз:")
		return
	}

	draft.Notes = notes
	h.showEditMenu(ctx, b, update.Message.Chat.ID, update.Message.From.ID, draft)
}

func (h *Handlers) handleEditEmailStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	draft, ok := h.currentDraft(ctx, b, update)
	if !ok {
		return
	}

	input := strings.TrimSpace(update.Message.Text)
	if input == emptyFieldInput {
		input = ""
	}

	if !service.ValidateEmail(input) {
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Укажите корректный email (или «-», чтобы очистить):")
		return
	}

	draft.StudentEmail = input
	h.showEditMenu(ctx, b, update.Message.Chat.ID, update.Message.From.ID, draft)
}

// ===== Окно времени фильтра =====

// parseWindowBound разбирает границу окна: «-» оставляет границу пустой
func parseWindowBound(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == emptyFieldInput {
		return "", true
	}
	if _, err := time.Parse("15:04", input); err != nil {
		return "", false
	}
	return input, true
}

func (h *Handlers) handleFilterTimeFromStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID

	bound, ok := parseWindowBound(update.Message.Text)
	if !ok {
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Время должно быть в формате ЧЧ:ММ (или «-»). Попробуйте ещё раз:")
		return
	}

	criteria := agendacb.StoredCriteria(h.deps, telegramID)
	criteria.TimeFrom = bound
	agendacb.SaveCriteria(h.deps, telegramID, criteria)

	h.deps.StateManager.SetState(telegramID, state.StateFilterTimeTo)
	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"🕐 Введите конец окна в формате ЧЧ:ММ (или «-», чтобы не ограничивать сверху):", nil)
}

func (h *Handlers) handleFilterTimeToStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID

	bound, ok := parseWindowBound(update.Message.Text)
	if !ok {
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Время должно быть в формате ЧЧ:ММ (или «-»). Попробуйте ещё раз:")
		return
	}

	criteria := agendacb.StoredCriteria(h.deps, telegramID)
	criteria.TimeTo = bound
	agendacb.SaveCriteria(h.deps, telegramID, criteria)

	h.deps.StateManager.SetState(telegramID, state.StateNone)

	user := h.loadUser(ctx, b, update)
	if user == nil {
		return
	}

	text, kb, err := agendacb.BuildAgendaScreen(ctx, h.deps.AgendaService, h.deps.DirectoryService, user, criteria)
	if err != nil {
		h.logger.Error("Failed to build agenda after filter", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Не удалось загрузить агенду")
		return
	}
	h.sendMessage(ctx, b, update.Message.Chat.ID, text, kb)
}
