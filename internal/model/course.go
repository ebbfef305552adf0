package model

import "time"

type Course struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Instrument string    `json:"instrument"`
	TeacherID  int64     `json:"teacher_id"`
	Color      string    `json:"color"` // hex-цвет для отображения в календаре
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}
