package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/lostfound-backend/internal/models"
)

// ErrItemNotFound возвращается, когда предмет не найден.
var ErrItemNotFound = errors.New("item not found")

// SearchRadiusKm — фиксированный радиус геопоиска.
const SearchRadiusKm = 50.0

// SearchLimit — максимальное количество результатов поиска.
const SearchLimit = 50

// GeoPoint задаёт центр радиусного поиска.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// SearchParams описывает фильтры поиска. Все фильтры конъюнктивны.
type SearchParams struct {
	Text     string
	Category string
	Status   string
	Near     *GeoPoint
}

// AdminFilter описывает фильтры админской выборки заявок.
type AdminFilter struct {
	Status    models.ItemStatus
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
}

// ItemRepository отвечает за работу с таблицами items и item_images.
type ItemRepository struct {
	db *sqlx.DB
}

// NewItemRepository создаёт экземпляр репозитория.
func NewItemRepository(db *sqlx.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// itemRow — плоская проекция строки items с публичными полями репортёра.
type itemRow struct {
	ID                  uuid.UUID         `db:"id"`
	Title               string            `db:"title"`
	Description         string            `db:"description"`
	Category            string            `db:"category"`
	Status              models.ItemStatus `db:"status"`
	Address             string            `db:"address"`
	City                string            `db:"city"`
	State               string            `db:"state"`
	Latitude            *float64          `db:"latitude"`
	Longitude           *float64          `db:"longitude"`
	Color               string            `db:"color"`
	Brand               string            `db:"brand"`
	Model               string            `db:"model"`
	RewardAmount        float64           `db:"reward_amount"`
	ContactPreference   string            `db:"contact_preference"`
	DistinctiveFeatures string            `db:"distinctive_features"`
	ReporterID          *uuid.UUID        `db:"reporter_id"`
	ReporterName        *string           `db:"reporter_name"`
	ReporterEmail       *string           `db:"reporter_email"`
	ReporterPhone       *string           `db:"reporter_phone"`
	DateLostFound       time.Time         `db:"date_lost_found"`
	CreatedAt           time.Time         `db:"created_at"`
	UpdatedAt           time.Time         `db:"updated_at"`
}

// selectColumns перечисляет колонки выборки вместе с JOIN на users.
const selectColumns = `
	i.id, i.title, i.description, i.category, i.status,
	i.address, i.city, i.state, i.latitude, i.longitude,
	i.color, i.brand, i.model, i.reward_amount,
	i.contact_preference, i.distinctive_features,
	i.reporter_id, u.name AS reporter_name, u.email AS reporter_email, u.phone AS reporter_phone,
	i.date_lost_found, i.created_at, i.updated_at
`

// toModel собирает доменную модель из плоской строки.
// includePhone управляет выдачей телефона репортёра (только детальная карточка).
func (row *itemRow) toModel(includePhone bool) *models.Item {
	item := &models.Item{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Category:    row.Category,
		Status:      row.Status,
		Location: models.Location{
			Address: row.Address,
			City:    row.City,
			State:   row.State,
		},
		Features: models.Features{
			Color: row.Color,
			Brand: row.Brand,
			Model: row.Model,
		},
		Reward:              models.Reward{Amount: row.RewardAmount},
		Images:              []models.ItemImage{},
		ContactPreference:   row.ContactPreference,
		DistinctiveFeatures: row.DistinctiveFeatures,
		ReporterID:          row.ReporterID,
		DateLostFound:       row.DateLostFound,
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
	}

	if row.Latitude != nil && row.Longitude != nil {
		item.Location.Coordinates = &models.Coordinates{
			Latitude:  *row.Latitude,
			Longitude: *row.Longitude,
		}
	}

	if row.ReporterID != nil && row.ReporterName != nil && row.ReporterEmail != nil {
		item.Reporter = &models.Reporter{
			ID:    *row.ReporterID,
			Name:  *row.ReporterName,
			Email: *row.ReporterEmail,
		}
		if includePhone {
			item.Reporter.Phone = row.ReporterPhone
		}
	}

	return item
}

// Create сохраняет новый предмет вместе с изображениями.
func (r *ItemRepository) Create(ctx context.Context, item *models.Item) error {
	query := `
		INSERT INTO items (
			title, description, category, status,
			address, city, state, latitude, longitude,
			color, brand, model, reward_amount,
			contact_preference, distinctive_features,
			reporter_id, date_lost_found
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at, updated_at
	`

	var lat, lng *float64
	if item.Location.Coordinates != nil {
		lat = &item.Location.Coordinates.Latitude
		lng = &item.Location.Coordinates.Longitude
	}

	if err := r.db.QueryRowxContext(
		ctx, query,
		item.Title, item.Description, item.Category, item.Status,
		item.Location.Address, item.Location.City, item.Location.State, lat, lng,
		item.Features.Color, item.Features.Brand, item.Features.Model, item.Reward.Amount,
		item.ContactPreference, item.DistinctiveFeatures,
		item.ReporterID, item.DateLostFound,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return fmt.Errorf("item repository: create %w", err)
	}

	for i := range item.Images {
		img := &item.Images[i]
		img.ItemID = item.ID
		img.Position = i
		if err := r.db.QueryRowxContext(
			ctx,
			`INSERT INTO item_images (item_id, url, storage_id, position) VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
			img.ItemID, img.URL, img.StorageID, img.Position,
		).Scan(&img.ID, &img.CreatedAt); err != nil {
			return fmt.Errorf("item repository: create image %w", err)
		}
	}

	return nil
}

// GetByID возвращает предмет с изображениями и контактами репортёра.
func (r *ItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var row itemRow
	query := `SELECT ` + selectColumns + ` FROM items i LEFT JOIN users u ON u.id = i.reporter_id WHERE i.id = $1`

	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("item repository: get by id %w", err)
	}

	item := row.toModel(true)
	if err := r.attachImages(ctx, []*models.Item{item}); err != nil {
		return nil, err
	}

	return item, nil
}

// Search выполняет фильтрованный, полнотекстовый и радиусный поиск.
// Результат отсортирован по убыванию даты создания и ограничен SearchLimit.
func (r *ItemRepository) Search(ctx context.Context, params SearchParams) ([]*models.Item, error) {
	var (
		conditions []string
		args       []interface{}
	)

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if params.Text != "" {
		conditions = append(conditions, fmt.Sprintf("i.search_vector @@ plainto_tsquery('english', %s)", arg(params.Text)))
	}
	if params.Category != "" {
		conditions = append(conditions, fmt.Sprintf("i.category = %s", arg(params.Category)))
	}
	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("i.status = %s", arg(params.Status)))
	}
	if params.Near != nil {
		// Сферическая (haversine) дистанция в километрах.
		// Предметы без координат из радиусного поиска исключаются.
		latArg := arg(params.Near.Latitude)
		lngArg := arg(params.Near.Longitude)
		conditions = append(conditions, fmt.Sprintf(`
			i.latitude IS NOT NULL AND i.longitude IS NOT NULL AND
			6371 * acos(least(1.0, greatest(-1.0,
				cos(radians(%[1]s)) * cos(radians(i.latitude)) * cos(radians(i.longitude) - radians(%[2]s)) +
				sin(radians(%[1]s)) * sin(radians(i.latitude))
			))) <= %[3]s`, latArg, lngArg, arg(SearchRadiusKm)))
	}

	query := `SELECT ` + selectColumns + ` FROM items i LEFT JOIN users u ON u.id = i.reporter_id`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY i.created_at DESC LIMIT %s", arg(SearchLimit))

	return r.selectItems(ctx, query, args...)
}

// Recent возвращает последние заявки, опционально — только одного репортёра.
func (r *ItemRepository) Recent(ctx context.Context, limit int, reporterID *uuid.UUID) ([]*models.Item, error) {
	query := `SELECT ` + selectColumns + ` FROM items i LEFT JOIN users u ON u.id = i.reporter_id`
	args := []interface{}{}

	if reporterID != nil {
		query += " WHERE i.reporter_id = $1"
		args = append(args, *reporterID)
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY i.created_at DESC LIMIT $%d", len(args))

	return r.selectItems(ctx, query, args...)
}

// AdminList возвращает заявки по админским фильтрам, максимум 100 записей.
func (r *ItemRepository) AdminList(ctx context.Context, filter AdminFilter) ([]*models.Item, error) {
	var (
		conditions []string
		args       []interface{}
	)

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("i.status = %s", arg(filter.Status)))
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("i.category = %s", arg(filter.Category)))
	}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("i.created_at >= %s", arg(*filter.StartDate)))
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("i.created_at <= %s", arg(*filter.EndDate)))
	}

	query := `SELECT ` + selectColumns + ` FROM items i LEFT JOIN users u ON u.id = i.reporter_id`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY i.created_at DESC LIMIT %s", arg(100))

	return r.selectItems(ctx, query, args...)
}

// UpdateStatus переводит предмет в новый статус.
// Проверка допустимости перехода выполняется на уровне сервиса.
func (r *ItemRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ItemStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE items SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("item repository: update status %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("item repository: update status rows affected %w", err)
	}
	if affected == 0 {
		return ErrItemNotFound
	}

	return nil
}

// Count возвращает количество предметов, опционально по статусу и репортёру.
func (r *ItemRepository) Count(ctx context.Context, status models.ItemStatus, reporterID *uuid.UUID) (int, error) {
	var (
		conditions []string
		args       []interface{}
	)

	if status != "" {
		args = append(args, status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if reporterID != nil {
		args = append(args, *reporterID)
		conditions = append(conditions, fmt.Sprintf("reporter_id = $%d", len(args)))
	}

	query := `SELECT COUNT(*) FROM items`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("item repository: count %w", err)
	}

	return count, nil
}

// selectItems выполняет выборку и дозагружает изображения.
func (r *ItemRepository) selectItems(ctx context.Context, query string, args ...interface{}) ([]*models.Item, error) {
	var rows []itemRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("item repository: select %w", err)
	}

	items := make([]*models.Item, 0, len(rows))
	for i := range rows {
		items = append(items, rows[i].toModel(false))
	}

	if err := r.attachImages(ctx, items); err != nil {
		return nil, err
	}

	return items, nil
}

// attachImages загружает изображения одним запросом и раскладывает по предметам.
func (r *ItemRepository) attachImages(ctx context.Context, items []*models.Item) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(items))
	byID := make(map[uuid.UUID]*models.Item, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
		byID[item.ID] = item
	}

	query, args, err := sqlx.In(
		`SELECT id, item_id, url, storage_id, position, created_at FROM item_images WHERE item_id IN (?) ORDER BY item_id, position`,
		ids,
	)
	if err != nil {
		return fmt.Errorf("item repository: attach images query %w", err)
	}

	var images []models.ItemImage
	if err := r.db.SelectContext(ctx, &images, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("item repository: attach images %w", err)
	}

	for _, img := range images {
		if item, ok := byID[img.ItemID]; ok {
			item.Images = append(item.Images, img)
		}
	}

	return nil
}
