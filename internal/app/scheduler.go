package app

import (
	"context"
	"time"

	"github.com/melodia/agenda_bot/internal/model"
	"github.com/melodia/agenda_bot/internal/service"
	"go.uber.org/zap"
)

// ReminderStore — занятия, требующие напоминания
type ReminderStore interface {
	ListUpcomingForReminder(ctx context.Context, leadHours int) ([]*model.Lesson, error)
	MarkReminderSent(ctx context.Context, id int64) error
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	lessons       ReminderStore
	notifications *service.NotificationService
	directory     *service.DirectoryService
	leadHours     int
	logger        *zap.Logger
	stopChan      chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(
	lessons ReminderStore,
	notifications *service.NotificationService,
	directory *service.DirectoryService,
	leadHours int,
	logger *zap.Logger,
) *Scheduler {
	return &Scheduler{
		lessons:       lessons,
		notifications: notifications,
		directory:     directory,
		leadHours:     leadHours,
		logger:        logger,
		stopChan:      make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")

	go s.runReminderTask(ctx)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runReminderTask периодически рассылает напоминания о занятиях
func (s *Scheduler) runReminderTask(ctx context.Context) {
	// Первый запуск сразу при старте
	s.sendReminders(ctx)

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sendReminders(ctx)
		case <-s.stopChan:
			s.logger.Info("Reminder task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Reminder task cancelled")
			return
		}
	}
}

// sendReminders напоминает о занятиях, начинающихся в ближайшие часы
func (s *Scheduler) sendReminders(ctx context.Context) {
	lessons, err := s.lessons.ListUpcomingForReminder(ctx, s.leadHours)
	if err != nil {
		s.logger.Error("Failed to list upcoming lessons", zap.Error(err))
		return
	}

	if len(lessons) == 0 {
		return
	}

	courses, err := s.directory.CoursesByID(ctx)
	if err != nil {
		s.logger.Error("Failed to load courses for reminders", zap.Error(err))
		return
	}

	for _, lesson := range lessons {
		courseName := "Занятие"
		if course := courses[lesson.CourseID]; course != nil {
			courseName = course.Name
		}

		if err := s.notifications.NotifyLessonReminder(ctx, lesson, courseName); err != nil {
			s.logger.Error("Failed to send lesson reminder",
				zap.Int64("lesson_id", lesson.ID),
				zap.Error(err),
			)
			continue
		}

		if err := s.lessons.MarkReminderSent(ctx, lesson.ID); err != nil {
			s.logger.Error("Failed to mark reminder sent",
				zap.Int64("lesson_id", lesson.ID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("Lesson reminders processed", zap.Int("count", len(lessons)))
}
