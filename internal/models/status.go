package models

import "fmt"

// ItemStatus описывает стадию жизненного цикла предмета.
// Допустимые переходы: lost|found -> matched -> claimed.
type ItemStatus string

const (
	StatusLost    ItemStatus = "lost"
	StatusFound   ItemStatus = "found"
	StatusMatched ItemStatus = "matched"
	StatusClaimed ItemStatus = "claimed"
)

// allowedTransitions задаёт конечный автомат статусов.
var allowedTransitions = map[ItemStatus][]ItemStatus{
	StatusLost:    {StatusMatched},
	StatusFound:   {StatusMatched},
	StatusMatched: {StatusClaimed},
	StatusClaimed: {},
}

// ParseItemStatus проверяет строку и возвращает статус.
func ParseItemStatus(raw string) (ItemStatus, error) {
	switch status := ItemStatus(raw); status {
	case StatusLost, StatusFound, StatusMatched, StatusClaimed:
		return status, nil
	default:
		return "", fmt.Errorf("неизвестный статус предмета: %q", raw)
	}
}

// IsValid сообщает, входит ли статус в фиксированное перечисление.
func (s ItemStatus) IsValid() bool {
	_, err := ParseItemStatus(string(s))
	return err == nil
}

// CanTransitionTo проверяет, допустим ли переход в статус next.
func (s ItemStatus) CanTransitionTo(next ItemStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal сообщает, что из статуса нет исходящих переходов.
func (s ItemStatus) Terminal() bool {
	return len(allowedTransitions[s]) == 0
}

func (s ItemStatus) String() string {
	return string(s)
}
