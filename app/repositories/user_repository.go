// Package repositories contains the data-access layer. Each repository
// holds an injected gorm handle and translates gorm errors into domain
// sentinels.
package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/bazaar/app/apperr"
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/orm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := orm.New(r.db).WithCtx(ctx).Where("id = ?", id).First(&user)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &user, err
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := orm.New(r.db).WithCtx(ctx).Where("username = ?", username).First(&user)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &user, err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := orm.New(r.db).WithCtx(ctx).Where("email = ?", email).First(&user)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	return &user, err
}

// ExistsByUsernameOrEmail reports whether an account already claims either
// identifier.
func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Save(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// SetOTP stores the encrypted passcode and its expiry on the user row.
func (r *UserRepository) SetOTP(ctx context.Context, userID uint, encrypted string, expiresAt interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"otp_code":       encrypted,
			"otp_expires_at": expiresAt,
		}).Error
}

// MarkVerified flags the account verified and clears the passcode.
func (r *UserRepository) MarkVerified(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"verified":       true,
			"otp_code":       "",
			"otp_expires_at": nil,
		}).Error
}

// PurgeExpiredOTPs clears passcodes whose expiry has passed. Returns the
// number of rows cleaned.
func (r *UserRepository) PurgeExpiredOTPs(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("otp_code <> '' AND otp_expires_at IS NOT NULL AND otp_expires_at < CURRENT_TIMESTAMP").
		Updates(map[string]interface{}{
			"otp_code":       "",
			"otp_expires_at": nil,
		})
	return res.RowsAffected, res.Error
}
