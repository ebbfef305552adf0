package service

import "errors"

var (
	// ErrLessonNotFound — занятие исчезло из хранилища к моменту операции.
	// Ошибка восстановимая: вызывающая сторона перечитывает список.
	ErrLessonNotFound = errors.New("lesson not found")

	// ErrInvalidTransition — запрошенный переход статуса недопустим
	ErrInvalidTransition = errors.New("invalid lesson status transition")

	// ErrLessonNotEditable — редактировать можно только запланированное занятие
	ErrLessonNotEditable = errors.New("lesson is not editable")
)
