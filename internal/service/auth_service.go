package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"

	"github.com/ignatzorin/lostfound-backend/internal/goroutine"
	"github.com/ignatzorin/lostfound-backend/internal/logger"
	"github.com/ignatzorin/lostfound-backend/internal/models"
	"github.com/ignatzorin/lostfound-backend/internal/repository"
	"github.com/ignatzorin/lostfound-backend/internal/validation"
)

// AuthRepository описывает зависимости AuthService от слоя хранилища.
type AuthRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, name, phone, avatar *string) (*models.User, error)
}

// WelcomeNotifier отправляет приветственное уведомление новому пользователю.
// Сбой отправки не должен ломать регистрацию.
type WelcomeNotifier interface {
	Welcome(ctx context.Context, userID uuid.UUID, name string) error
}

// ErrInvalidCredentials возвращается при неверной паре email/пароль.
// Сообщение одно для обоих случаев, чтобы не раскрывать существование email.
var ErrInvalidCredentials = errors.New("неверный email или пароль")

// AuthService инкапсулирует бизнес-логику регистрации и аутентификации.
type AuthService struct {
	repo         AuthRepository
	tokenManager *TokenManager
	notifier     WelcomeNotifier
}

// RegisterInput содержит данные пользователя при регистрации.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// LoginInput содержит данные для входа.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult возвращает итог регистрации или авторизации.
type AuthResult struct {
	User  *models.User
	Token string
}

// UpdateProfileInput содержит изменяемые поля профиля.
type UpdateProfileInput struct {
	Name   *string
	Phone  *string
	Avatar *string
}

// NewAuthService создаёт сервис аутентификации.
// notifier может быть nil — тогда приветственные уведомления не отправляются.
func NewAuthService(repo AuthRepository, tokenManager *TokenManager, notifier WelcomeNotifier) *AuthService {
	return &AuthService{
		repo:         repo,
		tokenManager: tokenManager,
		notifier:     notifier,
	}
}

// Register создаёт нового пользователя и выпускает токен.
// Email хранится в нижнем регистре без крайних пробелов.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := validation.ValidateNonEmpty("имя", in.Name); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth service: не удалось захешировать пароль: %w", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		PasswordHash: string(passHash),
		Role:         models.RoleUser,
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		user.Phone = &phone
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, fmt.Errorf("auth service: %w", repository.ErrEmailTaken)
		}
		return nil, err
	}

	// Приветственное уведомление не критично: сбой логируем и продолжаем.
	if s.notifier != nil {
		userID, name := user.ID, user.Name
		goroutine.SafeGo(func() {
			if err := s.notifier.Welcome(context.Background(), userID, name); err != nil {
				if logger.Log != nil {
					logger.Log.WithField("user_id", userID).
						WithError(err).
						Warn("auth service: не удалось отправить приветственное уведомление")
				}
			}
		})
	}

	token, _, err := s.tokenManager.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("auth service: не удалось выпустить токен: %w", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login проверяет учётные данные и возвращает токен.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, fmt.Errorf("auth service: %w", ErrInvalidCredentials)
	}

	token, _, err := s.tokenManager.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("auth service: не удалось выпустить токен: %w", err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Me возвращает профиль текущего пользователя.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.repo.GetByID(ctx, userID)
}

// UpdateProfile обновляет собственный профиль пользователя.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*models.User, error) {
	if in.Name != nil {
		if err := validation.ValidateNonEmpty("имя", *in.Name); err != nil {
			return nil, fmt.Errorf("auth service: %w", err)
		}
		if err := validation.ValidateLength("имя", *in.Name, 0, validation.MaxNameLength); err != nil {
			return nil, fmt.Errorf("auth service: %w", err)
		}
	}

	return s.repo.UpdateProfile(ctx, userID, in.Name, in.Phone, in.Avatar)
}

// normalizeEmail приводит email к канонической форме хранения.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
