package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/lostfound-backend/internal/models"
)

// RecentActivityLimit — фиксированный размер ленты последних событий.
const RecentActivityLimit = 5

// RecentItemsDefaultLimit и RecentItemsMaxLimit ограничивают публичную ленту.
const (
	RecentItemsDefaultLimit = 10
	RecentItemsMaxLimit     = 50
)

// DashboardItemStore описывает счётчики и выборки по предметам.
type DashboardItemStore interface {
	Count(ctx context.Context, status models.ItemStatus, reporterID *uuid.UUID) (int, error)
	Recent(ctx context.Context, limit int, reporterID *uuid.UUID) ([]*models.Item, error)
}

// DashboardUserStore описывает счётчики по пользователям.
type DashboardUserStore interface {
	Count(ctx context.Context) (int, error)
}

// Activity — запись ленты последних событий дашборда.
type Activity struct {
	ID     uuid.UUID `json:"id"`
	Type   string    `json:"type"`
	Item   string    `json:"item"`
	Date   string    `json:"date"`
	Status string    `json:"status"`
}

// GlobalSummary — сводка по всему сервису для админского дашборда.
type GlobalSummary struct {
	TotalUsers     int        `json:"totalUsers"`
	TotalItems     int        `json:"totalItems"`
	LostItems      int        `json:"lostItems"`
	FoundItems     int        `json:"foundItems"`
	MatchedCount   int        `json:"matchedCount"`
	ClaimedCount   int        `json:"claimedCount"`
	RecentActivity []Activity `json:"recentActivity"`
}

// UserSummary — сводка по заявкам одного пользователя.
type UserSummary struct {
	LostItems      int        `json:"lostItems"`
	FoundItems     int        `json:"foundItems"`
	MatchedCount   int        `json:"matchedCount"`
	ClaimedCount   int        `json:"claimedCount"`
	RecentActivity []Activity `json:"recentActivity"`
}

// PublicSummary — облегчённая публичная статистика.
type PublicSummary struct {
	TotalLost    int `json:"totalLost"`
	TotalFound   int `json:"totalFound"`
	TotalItems   int `json:"totalItems"`
	MatchesCount int `json:"matchesCount"`
}

// RecentItem — нормализованная запись публичной ленты последних заявок.
type RecentItem struct {
	ID        uuid.UUID        `json:"id"`
	Title     string           `json:"title"`
	Type      string           `json:"type"`
	Status    string           `json:"status"`
	Reporter  *models.Reporter `json:"reporter,omitempty"`
	CreatedAt string           `json:"createdAt"`
}

// DashboardService считает точные сводки по хранилищу без какого-либо кеша:
// каждый вызов пересчитывает значения заново.
type DashboardService struct {
	items DashboardItemStore
	users DashboardUserStore
}

// NewDashboardService создаёт агрегатор дашбордов.
func NewDashboardService(items DashboardItemStore, users DashboardUserStore) *DashboardService {
	return &DashboardService{items: items, users: users}
}

// GlobalSummary возвращает сводку по всему сервису.
// Счётчики читаются конкурентно и не образуют согласованный снимок.
func (s *DashboardService) GlobalSummary(ctx context.Context) (*GlobalSummary, error) {
	summary := &GlobalSummary{}

	counts := []countTask{
		{dst: &summary.TotalUsers, run: func(ctx context.Context) (int, error) { return s.users.Count(ctx) }},
		{dst: &summary.TotalItems, run: s.itemCounter("", nil)},
		{dst: &summary.LostItems, run: s.itemCounter(models.StatusLost, nil)},
		{dst: &summary.FoundItems, run: s.itemCounter(models.StatusFound, nil)},
		{dst: &summary.MatchedCount, run: s.itemCounter(models.StatusMatched, nil)},
		{dst: &summary.ClaimedCount, run: s.itemCounter(models.StatusClaimed, nil)},
	}
	if err := runCounts(ctx, counts); err != nil {
		return nil, err
	}

	activity, err := s.recentActivity(ctx, nil)
	if err != nil {
		return nil, err
	}
	summary.RecentActivity = activity

	return summary, nil
}

// UserSummary возвращает сводку по заявкам пользователя.
func (s *DashboardService) UserSummary(ctx context.Context, userID uuid.UUID) (*UserSummary, error) {
	summary := &UserSummary{}

	counts := []countTask{
		{dst: &summary.LostItems, run: s.itemCounter(models.StatusLost, &userID)},
		{dst: &summary.FoundItems, run: s.itemCounter(models.StatusFound, &userID)},
		{dst: &summary.MatchedCount, run: s.itemCounter(models.StatusMatched, &userID)},
		{dst: &summary.ClaimedCount, run: s.itemCounter(models.StatusClaimed, &userID)},
	}
	if err := runCounts(ctx, counts); err != nil {
		return nil, err
	}

	activity, err := s.recentActivity(ctx, &userID)
	if err != nil {
		return nil, err
	}
	summary.RecentActivity = activity

	return summary, nil
}

// PublicSummary возвращает публичную статистику.
// matchesCount — оценка возможных совпадений: min(потеряно, найдено).
func (s *DashboardService) PublicSummary(ctx context.Context) (*PublicSummary, error) {
	summary := &PublicSummary{}

	counts := []countTask{
		{dst: &summary.TotalLost, run: s.itemCounter(models.StatusLost, nil)},
		{dst: &summary.TotalFound, run: s.itemCounter(models.StatusFound, nil)},
		{dst: &summary.TotalItems, run: s.itemCounter("", nil)},
	}
	if err := runCounts(ctx, counts); err != nil {
		return nil, err
	}

	summary.MatchesCount = summary.TotalLost
	if summary.TotalFound < summary.MatchesCount {
		summary.MatchesCount = summary.TotalFound
	}

	return summary, nil
}

// RecentItems возвращает публичную ленту последних заявок.
// limit ограничен диапазоном 1..50, по умолчанию 10.
func (s *DashboardService) RecentItems(ctx context.Context, limit int) ([]RecentItem, error) {
	if limit <= 0 {
		limit = RecentItemsDefaultLimit
	}
	if limit > RecentItemsMaxLimit {
		limit = RecentItemsMaxLimit
	}

	items, err := s.items.Recent(ctx, limit, nil)
	if err != nil {
		return nil, err
	}

	recent := make([]RecentItem, 0, len(items))
	for _, item := range items {
		recent = append(recent, RecentItem{
			ID:        item.ID,
			Title:     item.Title,
			Type:      activityType(item.Status),
			Status:    item.Status.String(),
			Reporter:  item.Reporter,
			CreatedAt: item.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	return recent, nil
}

// recentActivity строит ленту из 5 последних заявок.
func (s *DashboardService) recentActivity(ctx context.Context, userID *uuid.UUID) ([]Activity, error) {
	items, err := s.items.Recent(ctx, RecentActivityLimit, userID)
	if err != nil {
		return nil, err
	}

	activity := make([]Activity, 0, len(items))
	for _, item := range items {
		activity = append(activity, mapActivity(item))
	}

	return activity, nil
}

// mapActivity приводит заявку к формату ленты событий дашборда.
func mapActivity(item *models.Item) Activity {
	return Activity{
		ID:     item.ID,
		Type:   activityType(item.Status),
		Item:   item.Title,
		Date:   item.CreatedAt.Format("2006-01-02"),
		Status: activityStatus(item.Status),
	}
}

// activityType различает только lost и found: matched/claimed заявки
// считаются изначально найденными.
func activityType(status models.ItemStatus) string {
	if status == models.StatusLost {
		return "lost"
	}
	return "found"
}

func activityStatus(status models.ItemStatus) string {
	switch status {
	case models.StatusClaimed:
		return "completed"
	case models.StatusMatched:
		return "matched"
	default:
		return "active"
	}
}

// countTask связывает счётчик с полем назначения.
type countTask struct {
	dst *int
	run func(ctx context.Context) (int, error)
}

// runCounts выполняет счётчики конкурентно и возвращает первую ошибку.
func runCounts(ctx context.Context, tasks []countTask) error {
	type result struct {
		index int
		value int
		err   error
	}

	results := make(chan result, len(tasks))
	for i, task := range tasks {
		go func(i int, task countTask) {
			value, err := task.run(ctx)
			results <- result{index: i, value: value, err: err}
		}(i, task)
	}

	var firstErr error
	for range tasks {
		res := <-results
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		*tasks[res.index].dst = res.value
	}

	return firstErr
}

// itemCounter возвращает замыкание-счётчик для конкретного статуса/репортёра.
func (s *DashboardService) itemCounter(status models.ItemStatus, reporterID *uuid.UUID) func(ctx context.Context) (int, error) {
	return func(ctx context.Context) (int, error) {
		return s.items.Count(ctx, status, reporterID)
	}
}
