package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ignatzorin/lostfound-backend/internal/dto"
	"github.com/ignatzorin/lostfound-backend/internal/http/middleware"
	"github.com/ignatzorin/lostfound-backend/internal/models"
	"github.com/ignatzorin/lostfound-backend/internal/repository"
	"github.com/ignatzorin/lostfound-backend/internal/service"
)

func TestItemHandler_ReportLost_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ItemHandler{}
	r.POST("/items/report-lost", handler.ReportLost)

	req, _ := http.NewRequest("POST", "/items/report-lost", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestItemHandler_ReportFound_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ItemHandler{}
	r.POST("/items/report-found", handler.ReportFound)

	req, _ := http.NewRequest("POST", "/items/report-found", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestItemHandler_GetByID_InvalidUUID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ItemHandler{}
	r.GET("/items/:id", handler.GetByID)

	req, _ := http.NewRequest("GET", "/items/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestItemHandler_UpdateStatus_Unauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := &ItemHandler{}
	r.PATCH("/items/:id/status", handler.UpdateStatus)

	req, _ := http.NewRequest("PATCH", "/items/9e1a4f0e-8f2b-4c33-9a51-0f2b6f7f6a10/status", strings.NewReader(`{"status":"matched"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// stubItemStore — минимальное хранилище для тестов создания через HTTP слой.
type stubItemStore struct{}

func (s *stubItemStore) Create(ctx context.Context, item *models.Item) error {
	item.ID = uuid.New()
	return nil
}

func (s *stubItemStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	return nil, repository.ErrItemNotFound
}

func (s *stubItemStore) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ItemStatus) error {
	return nil
}

func createItemRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc := service.NewItemService(&stubItemStore{}, nil, nil)
	handler := NewItemHandler(svc, nil)
	r.POST("/items/report-lost", func(c *gin.Context) {
		c.Set(middleware.ContextUserIDKey, uuid.New())
		c.Set(middleware.ContextRoleKey, models.RoleUser)
	}, handler.ReportLost)
	return r
}

func postItemJSON(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", "/items/report-lost", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestItemHandler_Create_LocationObject(t *testing.T) {
	r := createItemRouter()

	body := `{
		"title": "Кожаный кошелёк",
		"description": "Чёрный, с монограммой",
		"category": "bags",
		"location": {"address": "Невский 1", "city": "Санкт-Петербург", "state": "СПб"}
	}`
	w := postItemJSON(r, body)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp dto.ItemResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Санкт-Петербург", resp.Item.Location.City)
	assert.Equal(t, "Невский 1", resp.Item.Location.Address)
}

func TestItemHandler_Create_LocationJSONString(t *testing.T) {
	r := createItemRouter()

	body := `{
		"title": "Кожаный кошелёк",
		"description": "Чёрный, с монограммой",
		"category": "bags",
		"location": "{\"address\":\"Невский 1\",\"city\":\"Санкт-Петербург\",\"state\":\"СПб\"}"
	}`
	w := postItemJSON(r, body)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp dto.ItemResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Санкт-Петербург", resp.Item.Location.City)
}

func TestItemHandler_Create_MalformedBodyDoesNotEchoDecoder(t *testing.T) {
	r := createItemRouter()

	w := postItemJSON(r, `{"title": 42}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"некорректное тело запроса"}`, w.Body.String())
}
