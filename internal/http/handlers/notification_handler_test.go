package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNotificationHandler_List_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &NotificationHandler{}
	r.GET("/notifications", handler.List)

	req, _ := http.NewRequest("GET", "/notifications", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNotificationHandler_UnreadCount_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &NotificationHandler{}
	r.GET("/notifications/unread-count", handler.UnreadCount)

	req, _ := http.NewRequest("GET", "/notifications/unread-count", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNotificationHandler_MarkAsRead_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &NotificationHandler{}
	r.PUT("/notifications/:id/read", handler.MarkAsRead)

	req, _ := http.NewRequest("PUT", "/notifications/9e1a4f0e-8f2b-4c33-9a51-0f2b6f7f6a10/read", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecognitionHandler_MissingFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &RecognitionHandler{}
	r.POST("/image-recognition", handler.Recognize)

	req, _ := http.NewRequest("POST", "/image-recognition", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
