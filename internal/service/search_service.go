package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/ignatzorin/lostfound-backend/internal/models"
	"github.com/ignatzorin/lostfound-backend/internal/repository"
)

// SearchStore описывает зависимости поиска от хранилища предметов.
type SearchStore interface {
	Search(ctx context.Context, params repository.SearchParams) ([]*models.Item, error)
}

// SearchQuery — параметры поиска в сыром виде из query string.
type SearchQuery struct {
	Text     string
	Category string
	Status   string
	Near     string
}

// SearchService выполняет фильтрованные, полнотекстовые и радиусные запросы.
type SearchService struct {
	store SearchStore
}

// NewSearchService создаёт сервис поиска.
func NewSearchService(store SearchStore) *SearchService {
	return &SearchService{store: store}
}

// Search возвращает не более 50 предметов, свежие первыми.
// Невалидный параметр near молча игнорируется: запрос выполняется без геофильтра.
func (s *SearchService) Search(ctx context.Context, q SearchQuery) ([]*models.Item, error) {
	params := repository.SearchParams{
		Text:     strings.TrimSpace(q.Text),
		Category: q.Category,
		Status:   q.Status,
		Near:     parseNear(q.Near),
	}

	return s.store.Search(ctx, params)
}

// parseNear разбирает пару "latitude,longitude".
// Любая невалидная компонента отключает геофильтр целиком.
func parseNear(raw string) *repository.GeoPoint {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return nil
	}

	lat, latErr := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, lngErr := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if latErr != nil || lngErr != nil {
		return nil
	}

	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil
	}

	return &repository.GeoPoint{Latitude: lat, Longitude: lng}
}
