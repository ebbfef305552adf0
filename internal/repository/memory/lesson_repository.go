package memory

import (
	"context"
	"sync"
	"time"

	"github.com/melodia/agenda_bot/internal/model"
	"github.com/melodia/agenda_bot/internal/repository"
)

// LessonRepository — хранилище занятий в памяти. Повторяет контракт
// pgx-репозитория: наружу отдаются только глубокие копии, поэтому
// мутация полученного занятия не меняет хранилище — любая запись идёт
// через Create/Update.
type LessonRepository struct {
	mu      sync.RWMutex
	lessons map[int64]*model.Lesson
	nextID  int64
}

func NewLessonRepository() *LessonRepository {
	return &LessonRepository{
		lessons: make(map[int64]*model.Lesson),
		nextID:  1,
	}
}

func cloneLesson(lesson *model.Lesson) *model.Lesson {
	clone := *lesson
	return &clone
}

// Create создаёт новое занятие и присваивает ему ID
func (r *LessonRepository) Create(ctx context.Context, lesson *model.Lesson) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	lesson.ID = r.nextID
	r.nextID++
	lesson.CreatedAt = time.Now()
	lesson.UpdatedAt = lesson.CreatedAt

	r.lessons[lesson.ID] = cloneLesson(lesson)
	return nil
}

// GetByID получает занятие по ID, nil если не найдено
func (r *LessonRepository) GetByID(ctx context.Context, id int64) (*model.Lesson, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lesson, ok := r.lessons[id]
	if !ok {
		return nil, nil
	}
	return cloneLesson(lesson), nil
}

// List получает все занятия, отсортированные по времени начала
func (r *LessonRepository) List(ctx context.Context) ([]*model.Lesson, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lessons := make([]*model.Lesson, 0, len(r.lessons))
	for _, lesson := range r.lessons {
		lessons = append(lessons, cloneLesson(lesson))
	}

	// Стабильный порядок как у SQL-репозитория (ORDER BY start_time)
	for i := 1; i < len(lessons); i++ {
		for j := i; j > 0 && lessons[j].StartTime.Before(lessons[j-1].StartTime); j-- {
			lessons[j], lessons[j-1] = lessons[j-1], lessons[j]
		}
	}

	return lessons, nil
}

// Update обновляет занятие целиком
func (r *LessonRepository) Update(ctx context.Context, lesson *model.Lesson) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.lessons[lesson.ID]
	if !ok {
		return repository.ErrLessonNotFound
	}

	updated := cloneLesson(lesson)
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now()
	r.lessons[lesson.ID] = updated

	return nil
}

// UpdateStatus обновляет статус занятия
func (r *LessonRepository) UpdateStatus(ctx context.Context, id int64, status model.LessonStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	lesson, ok := r.lessons[id]
	if !ok {
		return repository.ErrLessonNotFound
	}

	lesson.Status = status
	lesson.UpdatedAt = time.Now()
	return nil
}

// ListUpcomingForReminder получает запланированные занятия ближайших
// leadHours часов без отправленного напоминания
func (r *LessonRepository) ListUpcomingForReminder(ctx context.Context, leadHours int) ([]*model.Lesson, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := time.Now()
	horizon := now.Add(time.Duration(leadHours) * time.Hour)

	var lessons []*model.Lesson
	for _, lesson := range r.lessons {
		if lesson.Status != model.LessonStatusScheduled || lesson.ReminderSent {
			continue
		}
		if lesson.StartTime.After(now) && !lesson.StartTime.After(horizon) {
			lessons = append(lessons, cloneLesson(lesson))
		}
	}

	return lessons, nil
}

// MarkReminderSent помечает занятие как обработанное напоминанием
func (r *LessonRepository) MarkReminderSent(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	lesson, ok := r.lessons[id]
	if !ok {
		return repository.ErrLessonNotFound
	}

	lesson.ReminderSent = true
	return nil
}
