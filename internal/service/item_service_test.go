package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"

	"github.com/ignatzorin/lostfound-backend/internal/models"
	"github.com/ignatzorin/lostfound-backend/internal/repository"
	"github.com/ignatzorin/lostfound-backend/internal/validation"
)

// mockItemStore реализует ItemStore для тестов.
type mockItemStore struct {
	items map[uuid.UUID]*models.Item
}

func newMockItemStore() *mockItemStore {
	return &mockItemStore{items: make(map[uuid.UUID]*models.Item)}
}

func (m *mockItemStore) Create(ctx context.Context, item *models.Item) error {
	item.ID = uuid.New()
	m.items[item.ID] = item
	return nil
}

func (m *mockItemStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	if item, ok := m.items[id]; ok {
		copied := *item
		return &copied, nil
	}
	return nil, repository.ErrItemNotFound
}

func (m *mockItemStore) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ItemStatus) error {
	item, ok := m.items[id]
	if !ok {
		return repository.ErrItemNotFound
	}
	item.Status = status
	return nil
}

// mockObjectStorage возвращает детерминированные ключи и может
// падать на заданных именах файлов.
type mockObjectStorage struct {
	failOn map[string]bool
	calls  int
}

func (m *mockObjectStorage) Upload(ctx context.Context, reader io.Reader, filename, contentType string, size int64) (string, string, error) {
	m.calls++
	if m.failOn[filename] {
		return "", "", errors.New("storage unavailable")
	}
	key := fmt.Sprintf("items/%s", filename)
	return key, "http://storage.local/" + key, nil
}

func validInput() CreateItemInput {
	return CreateItemInput{
		Title:       "Чёрный кошелёк",
		Description: "Кожаный кошелёк с картами",
		Category:    models.CategoryOther,
	}
}

func TestItemService_CreateDefaultStatus(t *testing.T) {
	store := newMockItemStore()
	service := NewItemService(store, nil, nil)
	ctx := context.Background()
	reporter := uuid.New()

	lost, err := service.Create(ctx, validInput(), nil, models.StatusLost, &reporter)
	if err != nil {
		t.Fatalf("create вернул ошибку: %v", err)
	}
	if lost.Status != models.StatusLost {
		t.Fatalf("ожидался статус lost, получили %s", lost.Status)
	}
	if lost.Reward.Amount != 0 {
		t.Fatalf("без rewardAmount сумма должна быть 0, получили %v", lost.Reward.Amount)
	}
	if lost.Images == nil || len(lost.Images) != 0 {
		t.Fatalf("ожидался пустой slice изображений, получили %v", lost.Images)
	}

	found, err := service.Create(ctx, validInput(), nil, models.StatusFound, &reporter)
	if err != nil {
		t.Fatalf("create вернул ошибку: %v", err)
	}
	if found.Status != models.StatusFound {
		t.Fatalf("ожидался статус found, получили %s", found.Status)
	}
}

func TestItemService_CreateStatusOverride(t *testing.T) {
	store := newMockItemStore()
	service := NewItemService(store, nil, nil)
	reporter := uuid.New()

	in := validInput()
	in.Status = "found"

	item, err := service.Create(context.Background(), in, nil, models.StatusLost, &reporter)
	if err != nil {
		t.Fatalf("create вернул ошибку: %v", err)
	}
	if item.Status != models.StatusFound {
		t.Fatalf("явный статус должен перекрывать статус точки входа, получили %s", item.Status)
	}

	in.Status = "stolen"
	if _, err := service.Create(context.Background(), in, nil, models.StatusLost, &reporter); err == nil {
		t.Fatalf("ожидалась ошибка для неизвестного статуса")
	}
}

func TestItemService_CreateRewardParsing(t *testing.T) {
	store := newMockItemStore()
	service := NewItemService(store, nil, nil)
	reporter := uuid.New()

	in := validInput()
	in.RewardAmount = "50.5"
	item, err := service.Create(context.Background(), in, nil, models.StatusLost, &reporter)
	if err != nil {
		t.Fatalf("create вернул ошибку: %v", err)
	}
	if item.Reward.Amount != 50.5 {
		t.Fatalf("ожидалась сумма 50.5, получили %v", item.Reward.Amount)
	}

	in.RewardAmount = "not-a-number"
	if _, err := service.Create(context.Background(), in, nil, models.StatusLost, &reporter); err == nil {
		t.Fatalf("ожидалась ошибка для нечисловой суммы")
	}

	in.RewardAmount = "-10"
	if _, err := service.Create(context.Background(), in, nil, models.StatusLost, &reporter); err == nil {
		t.Fatalf("ожидалась ошибка для отрицательной суммы")
	}

	// ParseFloat пропускает "NaN" и "Inf", сумма обязана быть конечной.
	for _, raw := range []string{"NaN", "+Inf", "-Inf", "Inf"} {
		in.RewardAmount = raw
		if _, err := service.Create(context.Background(), in, nil, models.StatusLost, &reporter); err == nil {
			t.Fatalf("ожидалась ошибка для суммы %q", raw)
		}
	}
}

func TestItemService_ValidationErrorsAreTyped(t *testing.T) {
	store := newMockItemStore()
	service := NewItemService(store, nil, nil)
	reporter := uuid.New()

	in := validInput()
	in.Title = ""
	_, err := service.Create(context.Background(), in, nil, models.StatusLost, &reporter)
	if err == nil {
		t.Fatalf("ожидалась ошибка для пустого title")
	}
	var validationErr *validation.Error
	if !errors.As(err, &validationErr) {
		t.Fatalf("ожидалась ошибка валидации, получили %T: %v", err, err)
	}

	in = validInput()
	in.RewardAmount = "NaN"
	if _, err := service.Create(context.Background(), in, nil, models.StatusLost, &reporter); !errors.As(err, &validationErr) {
		t.Fatalf("ожидалась ошибка валидации для NaN, получили %v", err)
	}
}

func TestItemService_CreateLocationFromJSON(t *testing.T) {
	store := newMockItemStore()
	service := NewItemService(store, nil, nil)
	reporter := uuid.New()

	in := validInput()
	in.Location = `{"address":"Тверская 1","city":"Москва","state":"Московская область","coordinates":{"latitude":55.75,"longitude":37.61}}`

	item, err := service.Create(context.Background(), in, nil, models.StatusLost, &reporter)
	if err != nil {
		t.Fatalf("create вернул ошибку: %v", err)
	}
	if item.Location.City != "Москва" {
		t.Fatalf("ожидался город Москва, получили %q", item.Location.City)
	}
	if item.Location.Coordinates == nil || item.Location.Coordinates.Latitude != 55.75 {
		t.Fatalf("координаты должны быть разобраны, получили %+v", item.Location.Coordinates)
	}

	// Невалидный JSON не ломает запрос, а даёт пустой адрес.
	in.Location = `{broken json`
	item, err = service.Create(context.Background(), in, nil, models.StatusLost, &reporter)
	if err != nil {
		t.Fatalf("create вернул ошибку: %v", err)
	}
	if item.Location.Address != "" || item.Location.Coordinates != nil {
		t.Fatalf("при невалидном JSON ожидалось пустое место, получили %+v", item.Location)
	}
}

func TestItemService_CreateLocationFromFields(t *testing.T) {
	store := newMockItemStore()
	service := NewItemService(store, nil, nil)
	reporter := uuid.New()

	in := validInput()
	in.Address = "Невский проспект 10"
	in.City = "Санкт-Петербург"
	in.Latitude = "59.93"
	in.Longitude = "30.36"

	item, err := service.Create(context.Background(), in, nil, models.StatusLost, &reporter)
	if err != nil {
		t.Fatalf("create вернул ошибку: %v", err)
	}
	if item.Location.Coordinates == nil {
		t.Fatalf("координаты должны быть установлены")
	}
	if item.Location.Coordinates.Longitude != 30.36 {
		t.Fatalf("ожидалась долгота 30.36, получили %v", item.Location.Coordinates.Longitude)
	}

	// Одной компоненты недостаточно.
	in.Longitude = ""
	item, err = service.Create(context.Background(), in, nil, models.StatusLost, &reporter)
	if err != nil {
		t.Fatalf("create вернул ошибку: %v", err)
	}
	if item.Location.Coordinates != nil {
		t.Fatalf("без долготы координат быть не должно, получили %+v", item.Location.Coordinates)
	}
	if item.Location.Address != "Невский проспект 10" {
		t.Fatalf("адрес должен сохраниться, получили %q", item.Location.Address)
	}
}

func TestItemService_CreatePartialImageFailure(t *testing.T) {
	store := newMockItemStore()
	storage := &mockObjectStorage{failOn: map[string]bool{"bad.jpg": true}}
	service := NewItemService(store, storage, nil)
	reporter := uuid.New()

	uploads := []Upload{
		{Name: "good.jpg", ContentType: "image/jpeg", Data: []byte("jpeg")},
		{Name: "bad.jpg", ContentType: "image/jpeg", Data: []byte("jpeg")},
		{Name: "also-good.png", ContentType: "image/png", Data: []byte("png")},
	}

	item, err := service.Create(context.Background(), validInput(), uploads, models.StatusLost, &reporter)
	if err != nil {
		t.Fatalf("заявка должна создаваться несмотря на сбой одной загрузки: %v", err)
	}
	if len(item.Images) != 2 {
		t.Fatalf("ожидались 2 изображения, получили %d", len(item.Images))
	}
	if storage.calls != 3 {
		t.Fatalf("ожидались 3 обращения к хранилищу, получили %d", storage.calls)
	}
}

func TestItemService_UpdateStatus(t *testing.T) {
	store := newMockItemStore()
	service := NewItemService(store, nil, nil)
	ctx := context.Background()
	reporter := uuid.New()

	item, err := service.Create(ctx, validInput(), nil, models.StatusLost, &reporter)
	if err != nil {
		t.Fatalf("create вернул ошибку: %v", err)
	}

	// Чужой пользователь не может менять статус.
	stranger := uuid.New()
	if _, err := service.UpdateStatus(ctx, item.ID, "matched", stranger, models.RoleUser); !errors.Is(err, ErrForbidden) {
		t.Fatalf("ожидалась ErrForbidden, получили %v", err)
	}

	// Репортёр может.
	updated, err := service.UpdateStatus(ctx, item.ID, "matched", reporter, models.RoleUser)
	if err != nil {
		t.Fatalf("update вернул ошибку: %v", err)
	}
	if updated.Status != models.StatusMatched {
		t.Fatalf("ожидался статус matched, получили %s", updated.Status)
	}

	// Перепрыгнуть через matched нельзя было с lost.
	if _, err := service.UpdateStatus(ctx, item.ID, "lost", reporter, models.RoleUser); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("ожидалась ErrInvalidTransition, получили %v", err)
	}

	// Админ завершает цикл.
	updated, err = service.UpdateStatus(ctx, item.ID, "claimed", stranger, models.RoleAdmin)
	if err != nil {
		t.Fatalf("update от админа вернул ошибку: %v", err)
	}
	if updated.Status != models.StatusClaimed {
		t.Fatalf("ожидался статус claimed, получили %s", updated.Status)
	}

	// Из терминального статуса выхода нет.
	if _, err := service.UpdateStatus(ctx, item.ID, "matched", stranger, models.RoleAdmin); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("ожидалась ErrInvalidTransition из claimed, получили %v", err)
	}
}

func TestItemService_CreateValidation(t *testing.T) {
	store := newMockItemStore()
	service := NewItemService(store, nil, nil)
	reporter := uuid.New()
	ctx := context.Background()

	in := validInput()
	in.Title = ""
	if _, err := service.Create(ctx, in, nil, models.StatusLost, &reporter); err == nil {
		t.Fatalf("ожидалась ошибка для пустого title")
	}

	in = validInput()
	in.Category = "unknown-category"
	if _, err := service.Create(ctx, in, nil, models.StatusLost, &reporter); err == nil {
		t.Fatalf("ожидалась ошибка для неизвестной категории")
	}

	if len(store.items) != 0 {
		t.Fatalf("невалидные заявки не должны сохраняться, получили %d", len(store.items))
	}
}
