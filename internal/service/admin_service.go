package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ignatzorin/lostfound-backend/internal/models"
	"github.com/ignatzorin/lostfound-backend/internal/repository"
	"github.com/ignatzorin/lostfound-backend/internal/validation"
)

// AdminStore описывает зависимости административных отчётов от хранилища.
type AdminStore interface {
	AdminList(ctx context.Context, filter repository.AdminFilter) ([]*models.Item, error)
}

// ReportsQuery — сырые параметры фильтрации отчётов из query string.
type ReportsQuery struct {
	Status    string
	Category  string
	StartDate string
	EndDate   string
}

// AdminService собирает административные отчёты по заявкам.
type AdminService struct {
	store AdminStore
}

// NewAdminService создаёт сервис.
func NewAdminService(store AdminStore) *AdminService {
	return &AdminService{store: store}
}

// Reports возвращает заявки по фильтру статуса, категории и диапазона дат.
func (s *AdminService) Reports(ctx context.Context, q ReportsQuery) ([]*models.Item, error) {
	filter := repository.AdminFilter{}

	if q.Status != "" {
		status, err := models.ParseItemStatus(q.Status)
		if err != nil {
			return nil, fmt.Errorf("admin service: %w", validation.Errorf("%v", err))
		}
		filter.Status = status
	}

	if q.Category != "" {
		if !models.ValidCategory(q.Category) {
			return nil, fmt.Errorf("admin service: %w", validation.Errorf("неизвестная категория %q", q.Category))
		}
		filter.Category = q.Category
	}

	start, err := parseReportDate(q.StartDate)
	if err != nil {
		return nil, fmt.Errorf("admin service: %w", validation.Errorf("неверная начальная дата %q", q.StartDate))
	}
	filter.StartDate = start

	end, err := parseReportDate(q.EndDate)
	if err != nil {
		return nil, fmt.Errorf("admin service: %w", validation.Errorf("неверная конечная дата %q", q.EndDate))
	}
	if end != nil {
		// Конечная дата включительно: сдвигаем на конец суток.
		inclusive := end.Add(24*time.Hour - time.Nanosecond)
		filter.EndDate = &inclusive
	}

	return s.store.AdminList(ctx, filter)
}

func parseReportDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
