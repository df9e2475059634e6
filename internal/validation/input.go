package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinPasswordLength    = 6
	MinTitleLength       = 1
	MaxTitleLength       = 200
	MinDescriptionLength = 1
	MaxDescriptionLength = 5000
	MaxNameLength        = 100
	MaxAddressLength     = 300
)

var (
	localPartRegex = regexp.MustCompile(`^[a-z0-9._+-]+$`)
	domainRegex    = regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
)

// Error — ошибка валидации входных данных. Центральный обработчик
// ошибок отдаёт её клиенту как 400 с исходным сообщением.
type Error struct {
	msg string
}

func (e *Error) Error() string {
	return e.msg
}

// Errorf создаёт ошибку валидации, формат как у fmt.Errorf.
func Errorf(format string, args ...interface{}) error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return Errorf("email обязателен")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return Errorf("некорректный формат email")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return Errorf("локальная часть email должна быть от 1 до 64 символов")
	}
	if len(domainPart) == 0 || len(domainPart) > 255 {
		return Errorf("доменная часть email должна быть от 1 до 255 символов")
	}
	if !localPartRegex.MatchString(localPart) {
		return Errorf("локальная часть email содержит недопустимые символы")
	}
	if !domainRegex.MatchString(domainPart) {
		return Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidatePassword проверяет минимальную длину пароля.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return Errorf("пароль должен быть не менее %d символов", MinPasswordLength)
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateLength проверяет длину строки в рунах.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}
