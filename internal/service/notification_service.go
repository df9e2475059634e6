package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/lostfound-backend/internal/logger"
	"github.com/ignatzorin/lostfound-backend/internal/models"
)

// NotificationRepository описывает взаимодействие сервиса с хранилищем уведомлений.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}

// NotificationPusher доставляет уведомление в реальном времени
// (WebSocket hub). Отсутствие подключённых клиентов — не ошибка.
type NotificationPusher interface {
	Push(userID uuid.UUID, event string, data interface{}) error
}

// NotificationService содержит бизнес-логику работы с уведомлениями.
type NotificationService struct {
	repo   NotificationRepository
	pusher NotificationPusher
}

// NewNotificationService создаёт новый сервис уведомлений.
func NewNotificationService(repo NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

// SetPusher подключает доставку уведомлений в реальном времени.
func (s *NotificationService) SetPusher(pusher NotificationPusher) {
	s.pusher = pusher
}

// Create сохраняет уведомление и пытается доставить его онлайн-клиентам.
func (s *NotificationService) Create(ctx context.Context, notification *models.Notification) error {
	if notification.Priority == "" {
		notification.Priority = models.NotificationPriorityMedium
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}

	// Онлайн-доставка не критична: сбой логируем и продолжаем.
	if s.pusher != nil {
		if err := s.pusher.Push(notification.UserID, notification.Type, notification); err != nil {
			if logger.Log != nil {
				logger.Log.WithField("user_id", notification.UserID).
					WithError(err).
					Warn("notification service: не удалось доставить уведомление по websocket")
			}
		}
	}

	return nil
}

// Welcome отправляет приветственное уведомление новому пользователю.
func (s *NotificationService) Welcome(ctx context.Context, userID uuid.UUID, name string) error {
	return s.Create(ctx, &models.Notification{
		UserID:   userID,
		Type:     models.NotificationTypeSystem,
		Title:    "Добро пожаловать",
		Message:  fmt.Sprintf("%s, ваш аккаунт создан. Теперь вы можете сообщать о потерянных и найденных вещах.", name),
		Priority: models.NotificationPriorityLow,
	})
}

// ItemStatusChanged уведомляет репортёра о переходе его заявки
// в статус matched или claimed.
func (s *ItemStatusNotifier) ItemStatusChanged(ctx context.Context, item *models.Item, next models.ItemStatus) error {
	if item.ReporterID == nil {
		return nil
	}

	var (
		notifType string
		title     string
		message   string
	)

	switch next {
	case models.StatusMatched:
		notifType = models.NotificationTypeMatch
		title = "Найдено возможное совпадение"
		message = fmt.Sprintf("Для вашей заявки «%s» найдено возможное совпадение.", item.Title)
	case models.StatusClaimed:
		notifType = models.NotificationTypeClaim
		title = "Предмет возвращён владельцу"
		message = fmt.Sprintf("Заявка «%s» закрыта: предмет возвращён владельцу.", item.Title)
	default:
		// Остальные переходы уведомлений не порождают.
		return nil
	}

	data, err := json.Marshal(map[string]interface{}{
		"item_id": item.ID,
		"status":  next,
	})
	if err != nil {
		return fmt.Errorf("notification service: marshal data %w", err)
	}

	itemID := item.ID
	return s.notifications.Create(ctx, &models.Notification{
		UserID:      *item.ReporterID,
		Type:        notifType,
		Title:       title,
		Message:     message,
		Data:        data,
		RelatedItem: &itemID,
		Priority:    models.NotificationPriorityHigh,
	})
}

// ItemStatusNotifier адаптирует NotificationService под StatusNotifier.
type ItemStatusNotifier struct {
	notifications *NotificationService
}

// NewItemStatusNotifier создаёт адаптер уведомлений о смене статуса.
func NewItemStatusNotifier(notifications *NotificationService) *ItemStatusNotifier {
	return &ItemStatusNotifier{notifications: notifications}
}

// List возвращает уведомления пользователя.
func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.List(ctx, userID, limit, offset, unreadOnly)
}

// MarkAsRead отмечает уведомление как прочитанное.
func (s *NotificationService) MarkAsRead(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if notification.UserID != userID {
		return ErrForbidden
	}

	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead отмечает все уведомления пользователя как прочитанные.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// Delete удаляет уведомление пользователя.
func (s *NotificationService) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	notification, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if notification.UserID != userID {
		return ErrForbidden
	}

	return s.repo.Delete(ctx, id)
}

// CountUnread возвращает количество непрочитанных уведомлений.
func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}
