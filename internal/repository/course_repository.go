package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/melodia/agenda_bot/internal/model"
	"github.com/melodia/agenda_bot/internal/repository/base"
)

type CourseRepository struct {
	*base.Repository
}

func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{Repository: base.NewRepository(pool)}
}

// GetByID получает курс по ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*model.Course, error) {
	query := `
		SELECT id, name, instrument, teacher_id, color, is_active, created_at
		FROM courses
		WHERE id = $1
	`

	var course model.Course
	err := r.QueryRow(ctx, query, id).Scan(
		&course.ID,
		&course.Name,
		&course.Instrument,
		&course.TeacherID,
		&course.Color,
		&course.IsActive,
		&course.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get course by id: %w", err)
	}

	return &course, nil
}

// ListActive получает все активные курсы
func (r *CourseRepository) ListActive(ctx context.Context) ([]*model.Course, error) {
	query := `
		SELECT id, name, instrument, teacher_id, color, is_active, created_at
		FROM courses
		WHERE is_active = true
		ORDER BY name ASC
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []*model.Course
	for rows.Next() {
		var course model.Course
		err := rows.Scan(
			&course.ID,
			&course.Name,
			&course.Instrument,
			&course.TeacherID,
			&course.Color,
			&course.IsActive,
			&course.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, &course)
	}

	return courses, nil
}
