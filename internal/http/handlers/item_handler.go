package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/h2non/filetype"

	"github.com/ignatzorin/lostfound-backend/internal/dto"
	"github.com/ignatzorin/lostfound-backend/internal/http/handlers/common"
	"github.com/ignatzorin/lostfound-backend/internal/models"
	"github.com/ignatzorin/lostfound-backend/internal/service"
)

const maxUploadBytes = 10 << 20 // 10 MB на файл

func errTooLarge(filename string) error {
	return fmt.Errorf("файл %s слишком большой, максимум 10 МБ", filename)
}

func errNotImage(filename string) error {
	return fmt.Errorf("файл %s не является изображением", filename)
}

var errBadBody = errors.New("некорректное тело запроса")

// locationToString приводит поле location к строке для сервиса:
// клиент шлёт либо JSON-строку, либо структурированный объект.
func locationToString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	return string(raw)
}

// ItemHandler предоставляет HTTP слой для заявок о потерянных и найденных вещах.
type ItemHandler struct {
	items  *service.ItemService
	search *service.SearchService
}

// NewItemHandler создаёт хэндлер.
func NewItemHandler(items *service.ItemService, search *service.SearchService) *ItemHandler {
	return &ItemHandler{items: items, search: search}
}

// ReportLost обрабатывает POST /api/items/report-lost.
func (h *ItemHandler) ReportLost(c *gin.Context) {
	h.create(c, models.StatusLost, "image")
}

// ReportFound обрабатывает POST /api/items/report-found.
func (h *ItemHandler) ReportFound(c *gin.Context) {
	h.create(c, models.StatusFound, "image")
}

// Create обрабатывает POST /api/items. Статус по умолчанию — lost.
func (h *ItemHandler) Create(c *gin.Context) {
	h.create(c, models.StatusLost, "image")
}

// CreateMulti обрабатывает POST /api/items/multi: до пяти файлов в поле images.
func (h *ItemHandler) CreateMulti(c *gin.Context) {
	h.create(c, models.StatusLost, "images")
}

func (h *ItemHandler) create(c *gin.Context, defaultStatus models.ItemStatus, imageField string) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	in, uploads, err := h.readCreateRequest(c, imageField)
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	item, err := h.items.Create(c.Request.Context(), in, uploads, defaultStatus, &userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusCreated, dto.ItemResponse{Item: item})
}

// readCreateRequest разбирает тело заявки: multipart-форму с файлами
// или обычный JSON без изображений.
func (h *ItemHandler) readCreateRequest(c *gin.Context, imageField string) (service.CreateItemInput, []service.Upload, error) {
	contentType := c.GetHeader("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		var req struct {
			Title               string          `json:"title"`
			Description         string          `json:"description"`
			Category            string          `json:"category"`
			Status              string          `json:"status"`
			DateLostFound       string          `json:"dateLostFound"`
			ContactPreference   string          `json:"contactPreference"`
			DistinctiveFeatures string          `json:"distinctiveFeatures"`
			RewardAmount        string          `json:"rewardAmount"`
			Location            json.RawMessage `json:"location"`
			Address             string          `json:"address"`
			City                string          `json:"city"`
			State               string          `json:"state"`
			Latitude            string          `json:"latitude"`
			Longitude           string          `json:"longitude"`
			Color               string          `json:"color"`
			Brand               string          `json:"brand"`
			Model               string          `json:"model"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			return service.CreateItemInput{}, nil, errBadBody
		}

		in := service.CreateItemInput{
			Title:               req.Title,
			Description:         req.Description,
			Category:            req.Category,
			Status:              req.Status,
			DateLostFound:       req.DateLostFound,
			ContactPreference:   req.ContactPreference,
			DistinctiveFeatures: req.DistinctiveFeatures,
			RewardAmount:        req.RewardAmount,
			Location:            locationToString(req.Location),
			Address:             req.Address,
			City:                req.City,
			State:               req.State,
			Latitude:            req.Latitude,
			Longitude:           req.Longitude,
			Color:               req.Color,
			Brand:               req.Brand,
			Model:               req.Model,
		}
		return in, nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return service.CreateItemInput{}, nil, errBadBody
	}

	in := service.CreateItemInput{
		Title:               c.PostForm("title"),
		Description:         c.PostForm("description"),
		Category:            c.PostForm("category"),
		Status:              c.PostForm("status"),
		DateLostFound:       c.PostForm("dateLostFound"),
		ContactPreference:   c.PostForm("contactPreference"),
		DistinctiveFeatures: c.PostForm("distinctiveFeatures"),
		RewardAmount:        c.PostForm("rewardAmount"),
		Location:            c.PostForm("location"),
		Address:             c.PostForm("address"),
		City:                c.PostForm("city"),
		State:               c.PostForm("state"),
		Latitude:            c.PostForm("latitude"),
		Longitude:           c.PostForm("longitude"),
		Color:               c.PostForm("color"),
		Brand:               c.PostForm("brand"),
		Model:               c.PostForm("model"),
	}

	uploads, err := readImages(form.File[imageField])
	if err != nil {
		return service.CreateItemInput{}, nil, err
	}

	return in, uploads, nil
}

// readImages читает загруженные файлы и проверяет по magic bytes,
// что каждый из них действительно изображение.
func readImages(files []*multipart.FileHeader) ([]service.Upload, error) {
	if len(files) > service.MaxImagesPerItem {
		files = files[:service.MaxImagesPerItem]
	}

	uploads := make([]service.Upload, 0, len(files))
	for _, fh := range files {
		if fh.Size > maxUploadBytes {
			return nil, errTooLarge(fh.Filename)
		}

		f, err := fh.Open()
		if err != nil {
			return nil, err
		}

		data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
		f.Close()
		if err != nil {
			return nil, err
		}
		if len(data) > maxUploadBytes {
			return nil, errTooLarge(fh.Filename)
		}

		if !filetype.IsImage(data) {
			return nil, errNotImage(fh.Filename)
		}

		kind, _ := filetype.Match(data)
		contentType := fh.Header.Get("Content-Type")
		if kind != filetype.Unknown {
			contentType = kind.MIME.Value
		}

		uploads = append(uploads, service.Upload{
			Name:        fh.Filename,
			ContentType: contentType,
			Data:        data,
		})
	}

	return uploads, nil
}

// GetByID обрабатывает GET /api/items/:id.
func (h *ItemHandler) GetByID(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	item, err := h.items.GetByID(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.ItemResponse{Item: item})
}

// Search обрабатывает GET /api/items/search.
func (h *ItemHandler) Search(c *gin.Context) {
	items, err := h.search.Search(c.Request.Context(), service.SearchQuery{
		Text:     c.Query("q"),
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Near:     c.Query("near"),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	result := make([]models.Item, 0, len(items))
	for _, item := range items {
		result = append(result, *item)
	}

	common.RespondJSON(c, http.StatusOK, dto.ItemListResponse{
		Items: result,
		Count: len(result),
	})
}

// UpdateStatus обрабатывает PATCH /api/items/:id/status.
func (h *ItemHandler) UpdateStatus(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}
	role, err := common.CurrentUserRole(c)
	if err != nil {
		common.RespondUnauthorized(c, "")
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, "некорректное тело запроса")
		return
	}

	item, err := h.items.UpdateStatus(c.Request.Context(), id, req.Status, userID, role)
	if err != nil {
		_ = c.Error(err)
		return
	}

	common.RespondJSON(c, http.StatusOK, dto.ItemResponse{Item: item})
}
