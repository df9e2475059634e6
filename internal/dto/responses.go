package dto

import (
	"github.com/ignatzorin/lostfound-backend/internal/models"
)

// ErrorResponse — стандартный ответ с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse — стандартный успешный ответ.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// AuthResponse возвращает аутентифицированного пользователя вместе с JWT.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// ItemResponse оборачивает созданный или запрошенный предмет.
type ItemResponse struct {
	Item *models.Item `json:"item"`
}

// ItemListResponse оборачивает результаты поиска и списков.
type ItemListResponse struct {
	Items []models.Item `json:"items"`
	Count int           `json:"count"`
}
