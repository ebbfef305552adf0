package service

import (
	"context"
	"fmt"

	"github.com/melodia/agenda_bot/internal/model"
	"github.com/melodia/agenda_bot/internal/repository"
	"go.uber.org/zap"
)

// DirectoryService — справочники курсов и залов. Ядро агенды их не
// меняет, только читает для отображения и подсказок.
type DirectoryService struct {
	courseRepo *repository.CourseRepository
	roomRepo   *repository.RoomRepository
	logger     *zap.Logger
}

func NewDirectoryService(
	courseRepo *repository.CourseRepository,
	roomRepo *repository.RoomRepository,
	logger *zap.Logger,
) *DirectoryService {
	return &DirectoryService{
		courseRepo: courseRepo,
		roomRepo:   roomRepo,
		logger:     logger,
	}
}

// CoursesByID получает активные курсы, проиндексированные по ID —
// в таком виде их ждёт проекция календаря
func (s *DirectoryService) CoursesByID(ctx context.Context) (map[int64]*model.Course, error) {
	courses, err := s.courseRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	byID := make(map[int64]*model.Course, len(courses))
	for _, course := range courses {
		byID[course.ID] = course
	}
	return byID, nil
}

// ListCourses получает активные курсы
func (s *DirectoryService) ListCourses(ctx context.Context) ([]*model.Course, error) {
	return s.courseRepo.ListActive(ctx)
}

// GetCourse получает курс по ID, nil если не найден.
// Отсутствие курса не ошибка — отображение деградирует до заглушки.
func (s *DirectoryService) GetCourse(ctx context.Context, id int64) (*model.Course, error) {
	return s.courseRepo.GetByID(ctx, id)
}

// ListRooms получает зарегистрированные залы для подсказок формы.
// Список не является закрытым перечнем — зал можно ввести вручную.
func (s *DirectoryService) ListRooms(ctx context.Context) ([]*model.Room, error) {
	rooms, err := s.roomRepo.List(ctx)
	if err != nil {
		// Подсказки не критичны для формы
		s.logger.Warn("Failed to load room suggestions", zap.Error(err))
		return nil, nil
	}
	return rooms, nil
}
