package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/lostfound-backend/internal/repository"
	"github.com/ignatzorin/lostfound-backend/internal/service"
	"github.com/ignatzorin/lostfound-backend/internal/validation"
)

func errorRouter(err error) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.POST("/fail", func(c *gin.Context) {
		_ = c.Error(err)
	})
	return r
}

func doPost(r *gin.Engine) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", "/fail", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestErrorHandler_ValidationErrorIs400(t *testing.T) {
	err := fmt.Errorf("item service: %w", validation.Errorf("title не может быть пустым"))
	w := doPost(errorRouter(err))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"title не может быть пустым"}`, w.Body.String())
}

func TestErrorHandler_InvalidCredentialsIs401(t *testing.T) {
	err := fmt.Errorf("auth service: %w", service.ErrInvalidCredentials)
	w := doPost(errorRouter(err))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestErrorHandler_SentinelNotFoundIs404(t *testing.T) {
	err := fmt.Errorf("item repository: get %w", repository.ErrItemNotFound)
	w := doPost(errorRouter(err))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestErrorHandler_InternalErrorIsMasked(t *testing.T) {
	err := fmt.Errorf("item repository: create: sql: connection is already closed")
	w := doPost(errorRouter(err))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"внутренняя ошибка сервера"}`, w.Body.String())
}
