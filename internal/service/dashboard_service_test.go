package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/lostfound-backend/internal/models"
)

// mockDashboardItemStore отдаёт фиксированные счётчики и заявки.
type mockDashboardItemStore struct {
	counts    map[models.ItemStatus]int
	recent    []*models.Item
	lastLimit int
}

func (m *mockDashboardItemStore) Count(ctx context.Context, status models.ItemStatus, reporterID *uuid.UUID) (int, error) {
	return m.counts[status], nil
}

func (m *mockDashboardItemStore) Recent(ctx context.Context, limit int, reporterID *uuid.UUID) ([]*models.Item, error) {
	m.lastLimit = limit
	if len(m.recent) > limit {
		return m.recent[:limit], nil
	}
	return m.recent, nil
}

type mockDashboardUserStore struct {
	total int
}

func (m *mockDashboardUserStore) Count(ctx context.Context) (int, error) {
	return m.total, nil
}

func itemWithStatus(status models.ItemStatus) *models.Item {
	return &models.Item{
		ID:        uuid.New(),
		Title:     "Зонт",
		Status:    status,
		CreatedAt: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}
}

func TestDashboardService_GlobalSummary(t *testing.T) {
	items := &mockDashboardItemStore{
		counts: map[models.ItemStatus]int{
			"":                   42,
			models.StatusLost:    20,
			models.StatusFound:   15,
			models.StatusMatched: 5,
			models.StatusClaimed: 2,
		},
		recent: []*models.Item{itemWithStatus(models.StatusLost)},
	}
	users := &mockDashboardUserStore{total: 100}
	service := NewDashboardService(items, users)

	summary, err := service.GlobalSummary(context.Background())
	if err != nil {
		t.Fatalf("summary вернул ошибку: %v", err)
	}

	if summary.TotalUsers != 100 {
		t.Fatalf("ожидалось 100 пользователей, получили %d", summary.TotalUsers)
	}
	if summary.TotalItems != 42 || summary.LostItems != 20 || summary.FoundItems != 15 {
		t.Fatalf("неверные счётчики: %+v", summary)
	}
	if len(summary.RecentActivity) != 1 {
		t.Fatalf("ожидалась одна запись активности, получили %d", len(summary.RecentActivity))
	}
	if items.lastLimit != RecentActivityLimit {
		t.Fatalf("лента должна запрашивать %d записей, получили %d", RecentActivityLimit, items.lastLimit)
	}
}

func TestDashboardService_PublicSummaryMatches(t *testing.T) {
	items := &mockDashboardItemStore{
		counts: map[models.ItemStatus]int{
			"":                 35,
			models.StatusLost:  20,
			models.StatusFound: 15,
		},
	}
	service := NewDashboardService(items, &mockDashboardUserStore{})

	summary, err := service.PublicSummary(context.Background())
	if err != nil {
		t.Fatalf("summary вернул ошибку: %v", err)
	}

	// matchesCount = min(потеряно, найдено).
	if summary.MatchesCount != 15 {
		t.Fatalf("ожидалось 15 совпадений, получили %d", summary.MatchesCount)
	}
}

func TestDashboardService_RecentItemsLimit(t *testing.T) {
	items := &mockDashboardItemStore{}
	service := NewDashboardService(items, &mockDashboardUserStore{})
	ctx := context.Background()

	if _, err := service.RecentItems(ctx, 0); err != nil {
		t.Fatalf("recent вернул ошибку: %v", err)
	}
	if items.lastLimit != RecentItemsDefaultLimit {
		t.Fatalf("нулевой limit должен давать %d, получили %d", RecentItemsDefaultLimit, items.lastLimit)
	}

	if _, err := service.RecentItems(ctx, 500); err != nil {
		t.Fatalf("recent вернул ошибку: %v", err)
	}
	if items.lastLimit != RecentItemsMaxLimit {
		t.Fatalf("limit должен обрезаться до %d, получили %d", RecentItemsMaxLimit, items.lastLimit)
	}

	if _, err := service.RecentItems(ctx, -3); err != nil {
		t.Fatalf("recent вернул ошибку: %v", err)
	}
	if items.lastLimit != RecentItemsDefaultLimit {
		t.Fatalf("отрицательный limit должен давать %d, получили %d", RecentItemsDefaultLimit, items.lastLimit)
	}
}

func TestMapActivity(t *testing.T) {
	lost := mapActivity(itemWithStatus(models.StatusLost))
	if lost.Type != "lost" || lost.Status != "active" {
		t.Fatalf("неверная запись для lost: %+v", lost)
	}
	if lost.Date != "2026-03-14" {
		t.Fatalf("дата должна быть в формате YYYY-MM-DD, получили %q", lost.Date)
	}

	found := mapActivity(itemWithStatus(models.StatusFound))
	if found.Type != "found" || found.Status != "active" {
		t.Fatalf("неверная запись для found: %+v", found)
	}

	matched := mapActivity(itemWithStatus(models.StatusMatched))
	if matched.Status != "matched" {
		t.Fatalf("ожидался статус matched, получили %q", matched.Status)
	}

	claimed := mapActivity(itemWithStatus(models.StatusClaimed))
	if claimed.Status != "completed" {
		t.Fatalf("claimed должен отображаться как completed, получили %q", claimed.Status)
	}
}
