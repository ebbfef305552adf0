package model

import "time"

// Цвета календаря
const (
	CalendarDefaultColor    = "#3788d8" // курс не найден
	CalendarCanceledColor   = "#6b7280"
	CalendarInProgressColor = "#f59e0b"
	CalendarTextColor       = "#ffffff"
	CalendarDimmedTextColor = "#d1d5db" // текст отменённого занятия
)

// CalendarEvent — производное представление занятия для отрисовки в
// календаре. Никогда не мутируется: при любом изменении занятий или
// фильтров набор событий строится заново.
type CalendarEvent struct {
	ID        int64     `json:"id"` // совпадает с ID занятия
	Title     string    `json:"title"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Color     string    `json:"color"`
	TextColor string    `json:"text_color"`
	Struck    bool      `json:"struck"` // зачёркнутый заголовок (отменено)

	// Ссылка на исходное занятие для детального просмотра.
	// Должна указывать на актуальную запись, а не на устаревшую копию.
	Lesson *Lesson `json:"-"`
}
