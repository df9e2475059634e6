package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/lostfound-backend/internal/logger"
	"github.com/ignatzorin/lostfound-backend/internal/repository"
	"github.com/ignatzorin/lostfound-backend/internal/service"
	"github.com/ignatzorin/lostfound-backend/internal/validation"
)

// ErrorHandler обрабатывает ошибки централизованно.
// Маскирует внутренние ошибки и возвращает понятные сообщения клиенту.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last()

		statusCode := http.StatusInternalServerError
		message := "внутренняя ошибка сервера"

		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"error":  err.Error(),
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Error("Request error")
		}

		var validationErr *validation.Error

		switch {
		case errors.As(err.Err, &validationErr):
			statusCode = http.StatusBadRequest
			message = validationErr.Error()
		case errors.Is(err.Err, service.ErrInvalidCredentials):
			statusCode = http.StatusUnauthorized
			message = service.ErrInvalidCredentials.Error()
		case errors.Is(err.Err, repository.ErrUserNotFound):
			statusCode = http.StatusNotFound
			message = "пользователь не найден"
		case errors.Is(err.Err, repository.ErrItemNotFound):
			statusCode = http.StatusNotFound
			message = "предмет не найден"
		case errors.Is(err.Err, repository.ErrNotificationNotFound):
			statusCode = http.StatusNotFound
			message = "уведомление не найдено"
		case errors.Is(err.Err, repository.ErrEmailTaken):
			statusCode = http.StatusBadRequest
			message = "пользователь с таким email уже существует"
		case errors.Is(err.Err, service.ErrForbidden):
			statusCode = http.StatusForbidden
			message = "недостаточно прав"
		case errors.Is(err.Err, service.ErrInvalidTransition):
			statusCode = http.StatusBadRequest
			message = "недопустимый переход статуса"
		default:
			// Неклассифицированные ошибки остаются 500. Сообщение отдаём
			// только когда оно не похоже на внутреннее.
			errStr := err.Error()
			if errStr != "" && !containsInternalKeywords(errStr) {
				message = errStr
			}
		}

		c.JSON(statusCode, gin.H{"error": message})
	}
}

// containsInternalKeywords проверяет, содержит ли строка ключевые слова внутренних ошибок.
func containsInternalKeywords(s string) bool {
	keywords := []string{
		"sql:",
		"database",
		"connection",
		"timeout",
		"internal",
		"panic",
		"runtime",
	}

	for _, keyword := range keywords {
		if contains(s, keyword) {
			return true
		}
	}
	return false
}

// contains проверяет, содержит ли строка подстроку (case-insensitive).
func contains(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
