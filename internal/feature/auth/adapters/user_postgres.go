// Package adapters provides the repository implementations for the auth
// feature.
package adapters

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"trading_backend/internal/feature/auth/domain/entity"
	"trading_backend/internal/feature/auth/usecase"
)

// userPostgres implements usecase.UserRepository on GORM.
type userPostgres struct {
	db *gorm.DB
}

// Compile-time check that userPostgres satisfies the repository contract.
var _ usecase.UserRepository = (*userPostgres)(nil)

// NewUserPostgres creates the repository with the given gorm.DB handle.
func NewUserPostgres(db *gorm.DB) *userPostgres {
	return &userPostgres{db: db}
}

// Create persists a user. The folded email/username uniqueness is checked
// up front for deterministic errors, with the unique indexes as the
// backstop against concurrent signups.
func (r *userPostgres) Create(ctx context.Context, u *entity.User) error {
	var existing entity.User
	err := r.db.WithContext(ctx).
		Where("email = ? OR username = ?", u.Email, u.Username).
		First(&existing).Error
	if err == nil {
		if existing.Email == u.Email {
			return usecase.ErrEmailTaken
		}
		return usecase.ErrUsernameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			if strings.Contains(err.Error(), "username") {
				return usecase.ErrUsernameTaken
			}
			return usecase.ErrEmailTaken
		}
		return err
	}
	return nil
}

// FindByEmail retrieves a user by lower-cased email.
func (r *userPostgres) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByID retrieves a user by id.
func (r *userPostgres) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var u entity.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// UpdateLastLogin stamps last_login for the user.
func (r *userPostgres) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", id).
		Update("last_login", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

// Deactivate flips is_active to false. The row is kept.
func (r *userPostgres) Deactivate(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

// isUniqueViolation reports whether err is a unique-constraint failure.
// Postgres raises SQLSTATE 23505; the sqlite driver used in tests reports
// a plain error string.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
