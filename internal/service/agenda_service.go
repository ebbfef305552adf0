package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/melodia/agenda_bot/internal/model"
	"github.com/melodia/agenda_bot/internal/repository"
	"go.uber.org/zap"
)

// LessonStore — контракт хранилища занятий. Реализации: pgx-репозиторий
// и in-memory хранилище для тестов.
type LessonStore interface {
	Create(ctx context.Context, lesson *model.Lesson) error
	GetByID(ctx context.Context, id int64) (*model.Lesson, error)
	List(ctx context.Context) ([]*model.Lesson, error)
	Update(ctx context.Context, lesson *model.Lesson) error
	UpdateStatus(ctx context.Context, id int64, status model.LessonStatus) error
}

// AgendaService управляет жизненным циклом занятий: список, детали,
// переходы статусов. Занятия не удаляются физически — отмена это
// терминальный статус.
type AgendaService struct {
	lessons LessonStore
	logger  *zap.Logger
}

func NewAgendaService(lessons LessonStore, logger *zap.Logger) *AgendaService {
	return &AgendaService{
		lessons: lessons,
		logger:  logger,
	}
}

// ListLessons получает все занятия
func (s *AgendaService) ListLessons(ctx context.Context) ([]*model.Lesson, error) {
	return s.lessons.List(ctx)
}

// GetLesson получает занятие по ID
func (s *AgendaService) GetLesson(ctx context.Context, id int64) (*model.Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if lesson == nil {
		return nil, ErrLessonNotFound
	}
	return lesson, nil
}

// StartLesson переводит занятие в статус "идёт занятие"
func (s *AgendaService) StartLesson(ctx context.Context, id int64) error {
	return s.transition(ctx, id, model.LessonStatusInProgress)
}

// CompleteLesson завершает идущее занятие
func (s *AgendaService) CompleteLesson(ctx context.Context, id int64) error {
	return s.transition(ctx, id, model.LessonStatusCompleted)
}

// CancelLesson отменяет запланированное занятие. Подтверждение у
// пользователя запрашивает слой представления — здесь отмена уже
// окончательна.
func (s *AgendaService) CancelLesson(ctx context.Context, id int64) (*model.Lesson, error) {
	lesson, err := s.GetLesson(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.transition(ctx, id, model.LessonStatusCanceled); err != nil {
		return nil, err
	}

	lesson.Status = model.LessonStatusCanceled
	return lesson, nil
}

// transition выполняет переход статуса с проверкой допустимости
func (s *AgendaService) transition(ctx context.Context, id int64, target model.LessonStatus) error {
	lesson, err := s.lessons.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get lesson: %w", err)
	}

	if lesson == nil {
		return ErrLessonNotFound
	}

	if !lesson.Status.CanTransitionTo(target) {
		s.logger.Warn("Rejected lesson status transition",
			zap.Int64("lesson_id", id),
			zap.String("from", string(lesson.Status)),
			zap.String("to", string(target)),
		)
		return ErrInvalidTransition
	}

	err = s.lessons.UpdateStatus(ctx, id, target)
	if err != nil {
		if errors.Is(err, repository.ErrLessonNotFound) {
			return ErrLessonNotFound
		}
		return fmt.Errorf("update lesson status: %w", err)
	}

	s.logger.Info("Lesson status changed",
		zap.Int64("lesson_id", id),
		zap.String("from", string(lesson.Status)),
		zap.String("to", string(target)),
	)

	return nil
}
