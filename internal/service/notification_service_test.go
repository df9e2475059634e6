package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/ignatzorin/lostfound-backend/internal/models"
	"github.com/ignatzorin/lostfound-backend/internal/repository"
)

// mockNotificationRepository реализует NotificationRepository для тестов.
type mockNotificationRepository struct {
	byID map[uuid.UUID]*models.Notification
}

func newMockNotificationRepository() *mockNotificationRepository {
	return &mockNotificationRepository{byID: make(map[uuid.UUID]*models.Notification)}
}

func (m *mockNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	n.ID = uuid.New()
	m.byID[n.ID] = n
	return nil
}

func (m *mockNotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	if n, ok := m.byID[id]; ok {
		return n, nil
	}
	return nil, repository.ErrNotificationNotFound
}

func (m *mockNotificationRepository) List(ctx context.Context, userID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range m.byID {
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (m *mockNotificationRepository) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	n, ok := m.byID[id]
	if !ok {
		return repository.ErrNotificationNotFound
	}
	n.IsRead = true
	return nil
}

func (m *mockNotificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	for _, n := range m.byID {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return nil
}

func (m *mockNotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotificationNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *mockNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, n := range m.byID {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func firstNotification(m *mockNotificationRepository) *models.Notification {
	for _, n := range m.byID {
		return n
	}
	return nil
}

func TestNotificationService_Welcome(t *testing.T) {
	repo := newMockNotificationRepository()
	service := NewNotificationService(repo)
	userID := uuid.New()

	if err := service.Welcome(context.Background(), userID, "Иван"); err != nil {
		t.Fatalf("welcome вернул ошибку: %v", err)
	}

	n := firstNotification(repo)
	if n == nil {
		t.Fatalf("уведомление должно быть создано")
	}
	if n.Type != models.NotificationTypeSystem {
		t.Fatalf("ожидался тип system, получили %q", n.Type)
	}
	if n.UserID != userID {
		t.Fatalf("уведомление адресовано не тому пользователю")
	}
}

func TestItemStatusNotifier_MatchAndClaim(t *testing.T) {
	repo := newMockNotificationRepository()
	notifier := NewItemStatusNotifier(NewNotificationService(repo))
	reporter := uuid.New()
	item := &models.Item{ID: uuid.New(), Title: "Зонт", ReporterID: &reporter}

	if err := notifier.ItemStatusChanged(context.Background(), item, models.StatusMatched); err != nil {
		t.Fatalf("уведомление о matched вернуло ошибку: %v", err)
	}
	if err := notifier.ItemStatusChanged(context.Background(), item, models.StatusClaimed); err != nil {
		t.Fatalf("уведомление о claimed вернуло ошибку: %v", err)
	}
	if len(repo.byID) != 2 {
		t.Fatalf("ожидались 2 уведомления, получили %d", len(repo.byID))
	}

	types := map[string]bool{}
	for _, n := range repo.byID {
		types[n.Type] = true
		if n.RelatedItem == nil || *n.RelatedItem != item.ID {
			t.Fatalf("уведомление должно ссылаться на предмет")
		}
	}
	if !types[models.NotificationTypeMatch] || !types[models.NotificationTypeClaim] {
		t.Fatalf("ожидались типы match и claim, получили %v", types)
	}
}

func TestItemStatusNotifier_SkipsWithoutReporter(t *testing.T) {
	repo := newMockNotificationRepository()
	notifier := NewItemStatusNotifier(NewNotificationService(repo))
	item := &models.Item{ID: uuid.New(), Title: "Зонт"}

	if err := notifier.ItemStatusChanged(context.Background(), item, models.StatusMatched); err != nil {
		t.Fatalf("без репортёра не должно быть ошибки: %v", err)
	}
	if len(repo.byID) != 0 {
		t.Fatalf("без репортёра уведомления не создаются")
	}
}

func TestNotificationService_OwnershipChecks(t *testing.T) {
	repo := newMockNotificationRepository()
	service := NewNotificationService(repo)
	ctx := context.Background()

	owner := uuid.New()
	stranger := uuid.New()

	n := &models.Notification{UserID: owner, Type: models.NotificationTypeSystem, Title: "t", Message: "m"}
	if err := service.Create(ctx, n); err != nil {
		t.Fatalf("create вернул ошибку: %v", err)
	}

	if err := service.MarkAsRead(ctx, n.ID, stranger); !errors.Is(err, ErrForbidden) {
		t.Fatalf("ожидалась ErrForbidden, получили %v", err)
	}
	if err := service.Delete(ctx, n.ID, stranger); !errors.Is(err, ErrForbidden) {
		t.Fatalf("ожидалась ErrForbidden, получили %v", err)
	}

	if err := service.MarkAsRead(ctx, n.ID, owner); err != nil {
		t.Fatalf("владелец должен отмечать уведомление: %v", err)
	}

	count, err := service.CountUnread(ctx, owner)
	if err != nil {
		t.Fatalf("count вернул ошибку: %v", err)
	}
	if count != 0 {
		t.Fatalf("после прочтения непрочитанных быть не должно, получили %d", count)
	}
}
