package model

// Room представляет зарегистрированный зал школы. Список залов используется
// только как подсказка при заполнении формы — занятие может ссылаться на
// произвольное название зала.
type Room struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
