package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/lostfound-backend/internal/models"
)

// ErrUserNotFound возвращается, когда запись пользователя не найдена.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailTaken возвращается при попытке зарегистрировать занятый email.
var ErrEmailTaken = errors.New("email already taken")

// Код ошибки PostgreSQL для нарушения уникального ограничения.
const pqUniqueViolation = "23505"

// UserRepository отвечает за работу с таблицей users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository создаёт экземпляр репозитория.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create создаёт нового пользователя.
// Конфликт по уникальному email транслируется в ErrEmailTaken.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, verified, rewards, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		user.Name, user.Email, user.PasswordHash, user.Role, user.Phone,
	).Scan(&user.ID, &user.Verified, &user.Rewards, &user.CreatedAt, &user.UpdatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == pqUniqueViolation {
			return ErrEmailTaken
		}
		return fmt.Errorf("user repository: create %w", err)
	}

	return nil
}

// GetByEmail возвращает пользователя по email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, name, email, password_hash, role, phone, verified, avatar, rewards, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by email %w", err)
	}

	return &user, nil
}

// GetByID возвращает пользователя по идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, name, email, password_hash, role, phone, verified, avatar, rewards, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: get by id %w", err)
	}

	return &user, nil
}

// UpdateProfile обновляет изменяемые поля профиля. Nil поля не трогаются.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID uuid.UUID, name, phone, avatar *string) (*models.User, error) {
	var user models.User
	query := `
		UPDATE users
		SET name = COALESCE($2, name),
			phone = COALESCE($3, phone),
			avatar = COALESCE($4, avatar),
			updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, email, password_hash, role, phone, verified, avatar, rewards, created_at, updated_at
	`
	if err := r.db.GetContext(ctx, &user, query, userID, name, phone, avatar); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("user repository: update profile %w", err)
	}

	return &user, nil
}

// Count возвращает общее количество пользователей.
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("user repository: count %w", err)
	}
	return count, nil
}
