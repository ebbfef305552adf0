package model

import "time"

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleSecretary Role = "secretary"
	RoleTeacher   Role = "teacher"
	RoleStudent   Role = "student"
)

type User struct {
	ID           int64     `json:"id"`
	TelegramID   int64     `json:"telegram_id"` // 0 = аккаунт не привязан к Telegram
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	LanguageCode string    `json:"language_code"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsStaff проверяет, может ли пользователь управлять агендой целиком
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleSecretary
}

// DisplayName возвращает имя для отображения
func (u *User) DisplayName() string {
	if u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	return u.FirstName
}
