package repository

import "errors"

// ErrLessonNotFound возвращается при обновлении или переводе статуса
// занятия, которого больше нет в хранилище
var ErrLessonNotFound = errors.New("lesson not found")
