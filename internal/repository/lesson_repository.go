package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/melodia/agenda_bot/internal/model"
	"github.com/melodia/agenda_bot/internal/repository/base"
)

const lessonColumns = `id, course_id, student_id, teacher_id, start_time, end_time,
		room, status, notes, student_email, reminder_sent, created_at, updated_at`

type LessonRepository struct {
	*base.Repository
}

func NewLessonRepository(pool *pgxpool.Pool) *LessonRepository {
	return &LessonRepository{Repository: base.NewRepository(pool)}
}

func scanLesson(row pgx.Row) (*model.Lesson, error) {
	var lesson model.Lesson
	err := row.Scan(
		&lesson.ID,
		&lesson.CourseID,
		&lesson.StudentID,
		&lesson.TeacherID,
		&lesson.StartTime,
		&lesson.EndTime,
		&lesson.Room,
		&lesson.Status,
		&lesson.Notes,
		&lesson.StudentEmail,
		&lesson.ReminderSent,
		&lesson.CreatedAt,
		&lesson.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

// Create создаёт новое занятие
func (r *LessonRepository) Create(ctx context.Context, lesson *model.Lesson) error {
	query := `
		INSERT INTO lessons (course_id, student_id, teacher_id, start_time, end_time,
			room, status, notes, student_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		lesson.CourseID,
		lesson.StudentID,
		lesson.TeacherID,
		lesson.StartTime,
		lesson.EndTime,
		lesson.Room,
		lesson.Status,
		lesson.Notes,
		lesson.StudentEmail,
	).Scan(&lesson.ID, &lesson.CreatedAt, &lesson.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create lesson: %w", err)
	}

	return nil
}

// GetByID получает занятие по ID
func (r *LessonRepository) GetByID(ctx context.Context, id int64) (*model.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE id = $1`

	lesson, err := scanLesson(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lesson by id: %w", err)
	}

	return lesson, nil
}

// List получает все занятия
func (r *LessonRepository) List(ctx context.Context) ([]*model.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons ORDER BY start_time ASC`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	defer rows.Close()

	var lessons []*model.Lesson
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		lessons = append(lessons, lesson)
	}

	return lessons, nil
}

// Update обновляет занятие целиком
func (r *LessonRepository) Update(ctx context.Context, lesson *model.Lesson) error {
	query := `
		UPDATE lessons
		SET course_id = $1, student_id = $2, teacher_id = $3, start_time = $4,
			end_time = $5, room = $6, status = $7, notes = $8, student_email = $9,
			updated_at = now()
		WHERE id = $10
	`

	affected, err := r.ExecAffected(
		ctx, query,
		lesson.CourseID,
		lesson.StudentID,
		lesson.TeacherID,
		lesson.StartTime,
		lesson.EndTime,
		lesson.Room,
		lesson.Status,
		lesson.Notes,
		lesson.StudentEmail,
		lesson.ID,
	)
	if err != nil {
		return fmt.Errorf("update lesson: %w", err)
	}

	if affected == 0 {
		return ErrLessonNotFound
	}

	return nil
}

// UpdateStatus обновляет статус занятия
func (r *LessonRepository) UpdateStatus(ctx context.Context, id int64, status model.LessonStatus) error {
	query := `
		UPDATE lessons
		SET status = $1, updated_at = now()
		WHERE id = $2
	`

	affected, err := r.ExecAffected(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update lesson status: %w", err)
	}

	if affected == 0 {
		return ErrLessonNotFound
	}

	return nil
}

// ListUpcomingForReminder получает запланированные занятия, начинающиеся в
// ближайшие leadHours часов, по которым ещё не отправлено напоминание
func (r *LessonRepository) ListUpcomingForReminder(ctx context.Context, leadHours int) ([]*model.Lesson, error) {
	query := `SELECT ` + lessonColumns + `
		FROM lessons
		WHERE status = 'scheduled'
		  AND reminder_sent = false
		  AND start_time > now()
		  AND start_time <= now() + make_interval(hours => $1)
		ORDER BY start_time ASC`

	rows, err := r.Query(ctx, query, leadHours)
	if err != nil {
		return nil, fmt.Errorf("list upcoming lessons: %w", err)
	}
	defer rows.Close()

	var lessons []*model.Lesson
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		lessons = append(lessons, lesson)
	}

	return lessons, nil
}

// MarkReminderSent помечает занятие как обработанное напоминанием
func (r *LessonRepository) MarkReminderSent(ctx context.Context, id int64) error {
	query := `UPDATE lessons SET reminder_sent = true WHERE id = $1`

	affected, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}

	if affected == 0 {
		return ErrLessonNotFound
	}

	return nil
}
