package models

import (
	"time"

	"github.com/google/uuid"
)

// Роли пользователей.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User описывает зарегистрированного пользователя сервиса.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	Phone        *string   `db:"phone" json:"phone,omitempty"`
	Verified     bool      `db:"verified" json:"verified"`
	Avatar       *string   `db:"avatar" json:"avatar,omitempty"`
	Rewards      float64   `db:"rewards" json:"rewards"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Reporter содержит публичные поля пользователя, подавшего заявку.
// Телефон отдаётся только в детальной карточке предмета.
type Reporter struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Phone *string   `json:"phone,omitempty"`
}
