package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/lostfound-backend/internal/goroutine"
	"github.com/ignatzorin/lostfound-backend/internal/logger"
	"github.com/ignatzorin/lostfound-backend/internal/models"
	"github.com/ignatzorin/lostfound-backend/internal/validation"
)

// MaxImagesPerItem ограничивает количество изображений в одной заявке.
const MaxImagesPerItem = 5

// Ошибки уровня сервиса предметов.
var (
	// ErrForbidden возвращается, когда у пользователя нет прав на операцию.
	ErrForbidden = errors.New("недостаточно прав")
	// ErrInvalidTransition возвращается при недопустимом переходе статуса.
	ErrInvalidTransition = errors.New("недопустимый переход статуса")
)

// ItemStore описывает зависимости сервиса от хранилища предметов.
type ItemStore interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ItemStatus) error
}

// ObjectStorage — внешнее объектное хранилище для изображений.
type ObjectStorage interface {
	Upload(ctx context.Context, reader io.Reader, filename, contentType string, size int64) (key string, url string, err error)
}

// StatusNotifier уведомляет репортёра о смене статуса его заявки.
type StatusNotifier interface {
	ItemStatusChanged(ctx context.Context, item *models.Item, next models.ItemStatus) error
}

// Upload — содержимое одного загруженного файла.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

// CreateItemInput содержит поля заявки в том виде, в каком их шлёт форма:
// часть полей может прийти строками ("50", "55.75") или JSON-строкой (location).
type CreateItemInput struct {
	Title               string
	Description         string
	Category            string
	Status              string
	DateLostFound       string
	ContactPreference   string
	DistinctiveFeatures string
	RewardAmount        string

	// Location либо JSON-строка целиком, либо отдельные поля ниже.
	Location  string
	Address   string
	City      string
	State     string
	Latitude  string
	Longitude string

	Color string
	Brand string
	Model string
}

// ItemService реализует жизненный цикл предмета: нормализацию полей,
// прикрепление изображений и валидированные переходы статуса.
type ItemService struct {
	store    ItemStore
	storage  ObjectStorage
	notifier StatusNotifier
}

// NewItemService создаёт сервис. storage и notifier могут быть nil:
// без storage заявки создаются без изображений.
func NewItemService(store ItemStore, storage ObjectStorage, notifier StatusNotifier) *ItemService {
	return &ItemService{
		store:    store,
		storage:  storage,
		notifier: notifier,
	}
}

// Create нормализует заявку, загружает изображения и сохраняет предмет.
// defaultStatus определяется точкой входа (report-found -> found, иначе lost)
// и может быть переопределён явным полем status.
func (s *ItemService) Create(ctx context.Context, in CreateItemInput, uploads []Upload, defaultStatus models.ItemStatus, reporterID *uuid.UUID) (*models.Item, error) {
	// Валидация обязательных полей до любых обращений к хранилищу.
	if err := validation.ValidateNonEmpty("title", in.Title); err != nil {
		return nil, fmt.Errorf("item service: %w", err)
	}
	if err := validation.ValidateLength("title", in.Title, validation.MinTitleLength, validation.MaxTitleLength); err != nil {
		return nil, fmt.Errorf("item service: %w", err)
	}
	if err := validation.ValidateNonEmpty("description", in.Description); err != nil {
		return nil, fmt.Errorf("item service: %w", err)
	}
	if err := validation.ValidateLength("description", in.Description, validation.MinDescriptionLength, validation.MaxDescriptionLength); err != nil {
		return nil, fmt.Errorf("item service: %w", err)
	}
	if err := validation.ValidateNonEmpty("category", in.Category); err != nil {
		return nil, fmt.Errorf("item service: %w", err)
	}
	if !models.ValidCategory(in.Category) {
		return nil, fmt.Errorf("item service: %w", validation.Errorf("категория должна быть одной из: %s", strings.Join(models.ItemCategories, ", ")))
	}

	status := defaultStatus
	if status == "" {
		status = models.StatusLost
	}
	if in.Status != "" {
		parsed, err := models.ParseItemStatus(in.Status)
		if err != nil {
			return nil, fmt.Errorf("item service: %w", validation.Errorf("%v", err))
		}
		status = parsed
	}

	reward, err := parseReward(in.RewardAmount)
	if err != nil {
		return nil, fmt.Errorf("item service: %w", err)
	}

	contactPreference := in.ContactPreference
	if contactPreference == "" {
		contactPreference = "email"
	}

	item := &models.Item{
		Title:               strings.TrimSpace(in.Title),
		Description:         strings.TrimSpace(in.Description),
		Category:            in.Category,
		Status:              status,
		Location:            normalizeLocation(in),
		Features:            models.Features{Color: in.Color, Brand: in.Brand, Model: in.Model},
		Reward:              reward,
		Images:              []models.ItemImage{},
		ContactPreference:   contactPreference,
		DistinctiveFeatures: in.DistinctiveFeatures,
		ReporterID:          reporterID,
		DateLostFound:       parseDateLostFound(in.DateLostFound),
	}

	// Изображения загружаются по одному; сбой отдельной загрузки
	// логируется и пропускается, заявка создаётся без этого файла.
	if len(uploads) > MaxImagesPerItem {
		uploads = uploads[:MaxImagesPerItem]
	}
	for _, upload := range uploads {
		if s.storage == nil {
			if logger.Log != nil {
				logger.Log.WithField("filename", upload.Name).
					Warn("item service: объектное хранилище не настроено, изображение пропущено")
			}
			continue
		}

		key, url, err := s.storage.Upload(ctx, bytes.NewReader(upload.Data), upload.Name, upload.ContentType, int64(len(upload.Data)))
		if err != nil {
			if logger.Log != nil {
				logger.Log.WithField("filename", upload.Name).
					WithError(err).
					Warn("item service: не удалось загрузить изображение, пропускаем")
			}
			continue
		}

		item.Images = append(item.Images, models.ItemImage{URL: url, StorageID: key})
	}

	if err := s.store.Create(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// GetByID возвращает предмет с контактами репортёра.
func (s *ItemService) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	return s.store.GetByID(ctx, id)
}

// UpdateStatus переводит предмет в новый статус по конечному автомату
// lost|found -> matched -> claimed. Операция доступна репортёру и админу.
func (s *ItemService) UpdateStatus(ctx context.Context, id uuid.UUID, rawStatus string, actorID uuid.UUID, actorRole string) (*models.Item, error) {
	next, err := models.ParseItemStatus(rawStatus)
	if err != nil {
		return nil, fmt.Errorf("item service: %w", validation.Errorf("%v", err))
	}

	item, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if actorRole != models.RoleAdmin && (item.ReporterID == nil || *item.ReporterID != actorID) {
		return nil, fmt.Errorf("item service: %w", ErrForbidden)
	}

	if !item.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("item service: %w: %s -> %s", ErrInvalidTransition, item.Status, next)
	}

	if err := s.store.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	item.Status = next

	// Уведомление о переходе не критично для самой операции.
	if s.notifier != nil && item.ReporterID != nil {
		notified := *item
		goroutine.SafeGo(func() {
			if err := s.notifier.ItemStatusChanged(context.Background(), &notified, next); err != nil {
				if logger.Log != nil {
					logger.Log.WithField("item_id", notified.ID).
						WithError(err).
						Warn("item service: не удалось отправить уведомление о смене статуса")
				}
			}
		})
	}

	return item, nil
}

// parseReward конвертирует строку rewardAmount в неотрицательную сумму.
// Пустая строка означает отсутствие вознаграждения.
func parseReward(raw string) (models.Reward, error) {
	if strings.TrimSpace(raw) == "" {
		return models.Reward{Amount: 0}, nil
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return models.Reward{}, validation.Errorf("rewardAmount должен быть числом")
	}
	// ParseFloat принимает "NaN" и "Inf", в сумме вознаграждения они не имеют смысла.
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return models.Reward{}, validation.Errorf("rewardAmount должен быть конечным числом")
	}
	if amount < 0 {
		return models.Reward{}, validation.Errorf("rewardAmount не может быть отрицательным")
	}

	return models.Reward{Amount: amount}, nil
}

// normalizeLocation собирает структурированное место из любой из двух
// входных форм: JSON-строки или отдельных полей формы. Невалидный JSON
// не ломает запрос, а даёт пустой адрес.
func normalizeLocation(in CreateItemInput) models.Location {
	if strings.TrimSpace(in.Location) != "" {
		var loc models.Location
		if err := json.Unmarshal([]byte(in.Location), &loc); err != nil {
			return models.Location{}
		}
		return loc
	}

	loc := models.Location{
		Address: in.Address,
		City:    in.City,
		State:   in.State,
	}

	// Координаты попадают в модель только когда обе компоненты валидны.
	if in.Latitude != "" && in.Longitude != "" {
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(in.Latitude), 64)
		lng, lngErr := strconv.ParseFloat(strings.TrimSpace(in.Longitude), 64)
		if latErr == nil && lngErr == nil {
			loc.Coordinates = &models.Coordinates{Latitude: lat, Longitude: lng}
		}
	}

	return loc
}

// parseDateLostFound принимает дату события в ISO формате,
// при отсутствии или ошибке разбора использует текущее время.
func parseDateLostFound(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now()
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t
	}

	return time.Now()
}
