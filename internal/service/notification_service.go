package service

import (
	"context"
	"fmt"

	"github.com/melodia/agenda_bot/internal/model"
	"github.com/melodia/agenda_bot/internal/repository"
	"go.uber.org/zap"
)

// MessageSender доставляет сообщение в чат пользователя.
// Реализуется контроллером бота.
type MessageSender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// NotificationService создаёт записи уведомлений и доставляет их в
// Telegram, если у пользователя привязан чат. Ошибка доставки не
// откатывает запись — уведомление останется в разделе непрочитанных.
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	userRepo         *repository.UserRepository
	sender           MessageSender
	logger           *zap.Logger
}

func NewNotificationService(
	notificationRepo *repository.NotificationRepository,
	userRepo *repository.UserRepository,
	sender MessageSender,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		sender:           sender,
		logger:           logger,
	}
}

// Notify создаёт уведомление для пользователя и пытается доставить его
func (s *NotificationService) Notify(ctx context.Context, userID int64, message, link string) error {
	notification := &model.Notification{
		UserID:  userID,
		Message: message,
		Link:    link,
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	if user == nil || user.TelegramID == 0 {
		// Чат не привязан — уведомление останется в базе
		return nil
	}

	if err := s.sender.SendMessage(ctx, user.TelegramID, message); err != nil {
		s.logger.Warn("Failed to deliver notification",
			zap.Int64("user_id", userID),
			zap.Int64("notification_id", notification.ID),
			zap.Error(err),
		)
	}

	return nil
}

// NotifyLessonCanceled уведомляет ученика и преподавателя об отмене занятия
func (s *NotificationService) NotifyLessonCanceled(ctx context.Context, lesson *model.Lesson, courseName string) {
	message := fmt.Sprintf("❌ Занятие «%s» %s отменено.",
		courseName, lesson.StartTime.Format("02.01.2006 15:04"))

	for _, userID := range []int64{lesson.StudentID, lesson.TeacherID} {
		if err := s.Notify(ctx, userID, message, "agenda"); err != nil {
			s.logger.Error("Failed to create cancellation notification",
				zap.Int64("lesson_id", lesson.ID),
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
		}
	}
}

// NotifyLessonReminder напоминает ученику и преподавателю о занятии
func (s *NotificationService) NotifyLessonReminder(ctx context.Context, lesson *model.Lesson, courseName string) error {
	message := fmt.Sprintf("🔔 Напоминание: занятие «%s» %s, зал %s.",
		courseName, lesson.StartTime.Format("02.01.2006 15:04"), lesson.Room)

	for _, userID := range []int64{lesson.StudentID, lesson.TeacherID} {
		if err := s.Notify(ctx, userID, message, "agenda"); err != nil {
			return err
		}
	}

	return nil
}
