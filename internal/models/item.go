package models

import (
	"time"

	"github.com/google/uuid"
)

// Категории предметов.
const (
	CategoryElectronics = "electronics"
	CategoryDocuments   = "documents"
	CategoryClothing    = "clothing"
	CategoryJewelry     = "jewelry"
	CategoryBags        = "bags"
	CategoryKeys        = "keys"
	CategoryPets        = "pets"
	CategoryOther       = "other"
)

// ItemCategories перечисляет все допустимые категории.
var ItemCategories = []string{
	CategoryElectronics,
	CategoryDocuments,
	CategoryClothing,
	CategoryJewelry,
	CategoryBags,
	CategoryKeys,
	CategoryPets,
	CategoryOther,
}

// ValidCategory проверяет, входит ли категория в перечисление.
func ValidCategory(category string) bool {
	for _, c := range ItemCategories {
		if c == category {
			return true
		}
	}
	return false
}

// Coordinates содержит географические координаты места.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location описывает место, где предмет был потерян или найден.
// Координаты опциональны; при наличии используются для радиусного поиска.
type Location struct {
	Address     string       `json:"address"`
	City        string       `json:"city"`
	State       string       `json:"state"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// Features содержит отличительные признаки предмета.
type Features struct {
	Color string `json:"color"`
	Brand string `json:"brand"`
	Model string `json:"model"`
}

// Reward описывает вознаграждение за возврат предмета.
type Reward struct {
	Amount float64 `json:"amount"`
}

// ItemImage — загруженное изображение предмета в объектном хранилище.
type ItemImage struct {
	ID        uuid.UUID `db:"id" json:"id"`
	ItemID    uuid.UUID `db:"item_id" json:"-"`
	URL       string    `db:"url" json:"url"`
	StorageID string    `db:"storage_id" json:"storage_id"`
	Position  int       `db:"position" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}

// Item описывает заявку о потерянном или найденном предмете.
type Item struct {
	ID                  uuid.UUID   `json:"id"`
	Title               string      `json:"title"`
	Description         string      `json:"description"`
	Category            string      `json:"category"`
	Status              ItemStatus  `json:"status"`
	Location            Location    `json:"location"`
	Features            Features    `json:"features"`
	Reward              Reward      `json:"reward"`
	Images              []ItemImage `json:"images"`
	ContactPreference   string      `json:"contact_preference"`
	DistinctiveFeatures string      `json:"distinctive_features,omitempty"`
	ReporterID          *uuid.UUID  `json:"-"`
	Reporter            *Reporter   `json:"reporter,omitempty"`
	DateLostFound       time.Time   `json:"date_lost_found"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}
