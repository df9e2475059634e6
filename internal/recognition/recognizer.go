package recognition

import (
	"context"
	"time"
)

// Label — один распознанный класс с вероятностью.
type Label struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Features — извлечённые признаки изображения.
type Features struct {
	Colors     []string `json:"colors"`
	Categories []string `json:"categories"`
	Brand      string   `json:"brand,omitempty"`
	Model      string   `json:"model,omitempty"`
	Confidence float64  `json:"confidence"`
}

// Result — итог анализа изображения.
type Result struct {
	Labels         []Label  `json:"labels"`
	Features       Features `json:"features"`
	DominantColors []string `json:"dominantColors"`
}

// Recognizer анализирует изображение и возвращает распознанные признаки.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte, contentType string) (*Result, error)
}

// MockRecognizer возвращает фиксированный ответ с имитацией задержки
// внешнего сервиса. Используется, пока не подключена реальная модель.
type MockRecognizer struct {
	Delay time.Duration
}

// NewMockRecognizer создаёт заглушку с задержкой по умолчанию.
func NewMockRecognizer() *MockRecognizer {
	return &MockRecognizer{Delay: 500 * time.Millisecond}
}

// Recognize игнорирует содержимое изображения и возвращает
// заранее заданный набор меток.
func (r *MockRecognizer) Recognize(ctx context.Context, _ []byte, _ string) (*Result, error) {
	if r.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.Delay):
		}
	}

	return &Result{
		Labels: []Label{
			{Name: "smartphone", Confidence: 0.92},
			{Name: "electronics", Confidence: 0.88},
			{Name: "phone", Confidence: 0.85},
			{Name: "mobile device", Confidence: 0.80},
		},
		Features: Features{
			Colors:     []string{"black", "silver"},
			Categories: []string{"electronics", "mobile"},
			Brand:      "Apple",
			Model:      "iPhone 13",
			Confidence: 0.87,
		},
		DominantColors: []string{"#1a1a1a", "#c0c0c0"},
	}, nil
}
