package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/melodia/agenda_bot/internal/model"
	"github.com/melodia/agenda_bot/internal/repository"
	"go.uber.org/zap"
)

// Поля формы записи на занятие
const (
	FieldCourse       = "course"
	FieldStudent      = "student"
	FieldTeacher      = "teacher"
	FieldRoom         = "room"
	FieldDate         = "date"
	FieldStartTime    = "start_time"
	FieldEndTime      = "end_time"
	FieldStudentEmail = "student_email"
)

// Та же форма email, что и в веб-форме: один @, непустая локальная
// часть, домен с точкой
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// LessonDraft — черновик занятия, собираемый формой. Дата и время
// хранятся строками в том виде, в котором их вводит пользователь.
type LessonDraft struct {
	CourseID     int64
	StudentID    int64
	TeacherID    int64
	Room         string
	Date         string // "2006-01-02"
	StartTime    string // "15:04"
	EndTime      string // "15:04"
	Notes        string
	StudentEmail string // пустая строка = не указан
}

// ValidationResult — результат проверки черновика: ошибки по полям
type ValidationResult struct {
	FieldErrors map[string]string
}

func newValidationResult() *ValidationResult {
	return &ValidationResult{FieldErrors: make(map[string]string)}
}

// Valid сообщает прошла ли проверка
func (v *ValidationResult) Valid() bool {
	return len(v.FieldErrors) == 0
}

// ErrorFor возвращает текст ошибки для поля, пустая строка если ошибки нет
func (v *ValidationResult) ErrorFor(field string) string {
	return v.FieldErrors[field]
}

// ValidationError оборачивает неуспешный результат проверки в error
type ValidationError struct {
	Result *ValidationResult
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Result.FieldErrors))
	for field := range e.Result.FieldErrors {
		fields = append(fields, field)
	}
	return "lesson draft validation failed: " + strings.Join(fields, ", ")
}

// ValidateEmail проверяет форму email. Пустая строка допустима —
// поле опциональное.
func ValidateEmail(email string) bool {
	if email == "" {
		return true
	}
	return emailPattern.MatchString(email)
}

// BookingService собирает занятие из черновика формы и записывает его
// в хранилище. Никаких побочных эффектов кроме Create/Update —
// обновление списка и закрытие формы остаются за вызывающей стороной.
type BookingService struct {
	lessons LessonStore
	logger  *zap.Logger
}

func NewBookingService(lessons LessonStore, logger *zap.Logger) *BookingService {
	return &BookingService{
		lessons: lessons,
		logger:  logger,
	}
}

// Validate проверяет черновик. Все ошибки привязаны к полям.
func (s *BookingService) Validate(draft *LessonDraft) *ValidationResult {
	result := newValidationResult()

	if draft.CourseID == 0 {
		result.FieldErrors[FieldCourse] = "Выберите курс"
	}
	if draft.StudentID == 0 {
		result.FieldErrors[FieldStudent] = "Выберите ученика"
	}
	if draft.TeacherID == 0 {
		result.FieldErrors[FieldTeacher] = "Выберите преподавателя"
	}
	if strings.TrimSpace(draft.Room) == "" {
		result.FieldErrors[FieldRoom] = "Укажите зал"
	}

	if draft.Date == "" {
		result.FieldErrors[FieldDate] = "Укажите дату"
	} else if _, err := time.Parse("2006-01-02", draft.Date); err != nil {
		result.FieldErrors[FieldDate] = "Дата должна быть в формате ГГГГ-ММ-ДД"
	}

	if draft.StartTime == "" {
		result.FieldErrors[FieldStartTime] = "Укажите время начала"
	} else if _, err := time.Parse("15:04", draft.StartTime); err != nil {
		result.FieldErrors[FieldStartTime] = "Время должно быть в формате ЧЧ:ММ"
	}

	if draft.EndTime == "" {
		result.FieldErrors[FieldEndTime] = "Укажите время окончания"
	} else if _, err := time.Parse("15:04", draft.EndTime); err != nil {
		result.FieldErrors[FieldEndTime] = "Время должно быть в формате ЧЧ:ММ"
	}

	// Окончание строго позже начала. Ошибка привязана к полям времени,
	// а не к форме целиком.
	if result.ErrorFor(FieldStartTime) == "" && result.ErrorFor(FieldEndTime) == "" &&
		draft.StartTime != "" && draft.EndTime != "" && draft.EndTime <= draft.StartTime {
		result.FieldErrors[FieldEndTime] = "Время окончания должно быть позже времени начала"
	}

	if !ValidateEmail(draft.StudentEmail) {
		result.FieldErrors[FieldStudentEmail] = "Укажите корректный email"
	}

	return result
}

// BuildLesson собирает занятие из черновика. При редактировании existing
// сохраняет его ID и статус, новое занятие всегда создаётся запланированным.
func (s *BookingService) BuildLesson(draft *LessonDraft, existing *model.Lesson) (*model.Lesson, error) {
	day, err := time.ParseInLocation("2006-01-02", draft.Date, time.Local)
	if err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}

	start, err := time.Parse("15:04", draft.StartTime)
	if err != nil {
		return nil, fmt.Errorf("parse start time: %w", err)
	}

	end, err := time.Parse("15:04", draft.EndTime)
	if err != nil {
		return nil, fmt.Errorf("parse end time: %w", err)
	}

	lesson := &model.Lesson{
		CourseID:     draft.CourseID,
		StudentID:    draft.StudentID,
		TeacherID:    draft.TeacherID,
		StartTime:    day.Add(time.Duration(start.Hour())*time.Hour + time.Duration(start.Minute())*time.Minute),
		EndTime:      day.Add(time.Duration(end.Hour())*time.Hour + time.Duration(end.Minute())*time.Minute),
		Room:         strings.TrimSpace(draft.Room),
		Status:       model.LessonStatusScheduled,
		Notes:        draft.Notes,
		StudentEmail: draft.StudentEmail,
	}

	if existing != nil {
		lesson.ID = existing.ID
		lesson.Status = existing.Status
		lesson.ReminderSent = existing.ReminderSent
	}

	return lesson, nil
}

// Schedule проверяет черновик и создаёт новое занятие.
// Невалидный черновик не доходит до хранилища.
func (s *BookingService) Schedule(ctx context.Context, draft *LessonDraft) (*model.Lesson, error) {
	if result := s.Validate(draft); !result.Valid() {
		return nil, &ValidationError{Result: result}
	}

	lesson, err := s.BuildLesson(draft, nil)
	if err != nil {
		return nil, err
	}

	if err := s.lessons.Create(ctx, lesson); err != nil {
		return nil, fmt.Errorf("create lesson: %w", err)
	}

	s.logger.Info("Lesson scheduled",
		zap.Int64("lesson_id", lesson.ID),
		zap.Int64("course_id", lesson.CourseID),
		zap.Int64("student_id", lesson.StudentID),
		zap.Int64("teacher_id", lesson.TeacherID),
		zap.Time("start_time", lesson.StartTime),
	)

	return lesson, nil
}

// Reschedule проверяет черновик и перезаписывает существующее занятие.
// Разрешено только пока занятие запланировано.
func (s *BookingService) Reschedule(ctx context.Context, lessonID int64, draft *LessonDraft) (*model.Lesson, error) {
	existing, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if existing == nil {
		return nil, ErrLessonNotFound
	}
	if !existing.CanEdit() {
		return nil, ErrLessonNotEditable
	}

	if result := s.Validate(draft); !result.Valid() {
		return nil, &ValidationError{Result: result}
	}

	lesson, err := s.BuildLesson(draft, existing)
	if err != nil {
		return nil, err
	}

	if err := s.lessons.Update(ctx, lesson); err != nil {
		if errors.Is(err, repository.ErrLessonNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("update lesson: %w", err)
	}

	s.logger.Info("Lesson rescheduled",
		zap.Int64("lesson_id", lesson.ID),
		zap.Time("start_time", lesson.StartTime),
	)

	return lesson, nil
}
