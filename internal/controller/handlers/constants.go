package handlers

// Ограничения свободного ввода
const (
	RoomNameMaxLength = 100
	NotesMaxLength    = 500
)

// Ввод «-» очищает необязательное поле
const emptyFieldInput = "-"
