package repository

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/lnuais/member_service/internal/domain"
	"gorm.io/gorm"
)

type UserRepository interface {
	CreateUser(user *domain.User) (*domain.User, error)
	FindUserByEmail(email string) (*domain.User, error)
	FindUserById(userID uint) (*domain.User, error)
	FindUserByGoogleSub(sub string) (*domain.User, error)
	ListUsers(limit, offset int) ([]domain.User, int64, error)
	SaveUser(user *domain.User) error
	DeleteUser(userID uint) error

	SetVerificationCode(userID uint, code string, expiresAt time.Time) error
	MarkVerified(userID uint, code string) (bool, error)
	SetResetCode(userID uint, code string, expiresAt time.Time) error
	RedeemResetCode(userID uint, code string, passwordHash string, now time.Time) (bool, error)
	AttachGoogleSub(userID uint, sub string) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("nil user")
	}

	if err := r.db.Create(user).Error; err != nil {
		log.Printf("create user error: %v", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (r *userRepository) FindUserByEmail(email string) (*domain.User, error) {
	user := &domain.User{}

	if err := r.db.First(user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		log.Printf("find user by email error: %v", err)
		return nil, errors.New("failed to find user by email")
	}

	return user, nil
}

func (r *userRepository) FindUserById(userID uint) (*domain.User, error) {
	user := &domain.User{}

	if err := r.db.First(user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		log.Printf("find user by id error: %v", err)
		return nil, errors.New("failed to find user by ID")
	}

	return user, nil
}

func (r *userRepository) FindUserByGoogleSub(sub string) (*domain.User, error) {
	user := &domain.User{}

	if err := r.db.First(user, "google_sub = ?", sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		log.Printf("find user by google sub error: %v", err)
		return nil, errors.New("failed to find user by google sub")
	}

	return user, nil
}

func (r *userRepository) ListUsers(limit, offset int) ([]domain.User, int64, error) {
	var users []domain.User
	var total int64

	if err := r.db.Model(&domain.User{}).Count(&total).Error; err != nil {
		log.Printf("count users error: %v", err)
		return nil, 0, errors.New("failed to count users")
	}

	if err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		log.Printf("list users error: %v", err)
		return nil, 0, errors.New("failed to list users")
	}

	return users, total, nil
}

func (r *userRepository) SaveUser(user *domain.User) error {
	if user == nil {
		return errors.New("nil user")
	}

	if err := r.db.Save(user).Error; err != nil {
		log.Printf("save user error: %v", err)
		return errors.New("failed to save user")
	}
	return nil
}

func (r *userRepository) DeleteUser(userID uint) error {
	res := r.db.Delete(&domain.User{}, userID)
	if res.Error != nil {
		log.Printf("delete user error: %v", res.Error)
		return errors.New("failed to delete user")
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) SetVerificationCode(userID uint, code string, expiresAt time.Time) error {
	err := r.db.Model(&domain.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"verification_code":            code,
			"verification_code_expires_at": expiresAt,
		}).Error
	if err != nil {
		log.Printf("set verification code error: %v", err)
		return errors.New("failed to store verification code")
	}
	return nil
}

// MarkVerified commits the unverified -> verified transition. The WHERE
// guard makes concurrent attempts with the same code race safely: exactly
// one caller sees rowsAffected == 1.
func (r *userRepository) MarkVerified(userID uint, code string) (bool, error) {
	res := r.db.Model(&domain.User{}).
		Where("id = ? AND verified = ? AND verification_code = ?", userID, false, code).
		Updates(map[string]interface{}{
			"verified":                     true,
			"verification_code":            nil,
			"verification_code_expires_at": nil,
		})
	if res.Error != nil {
		log.Printf("mark verified error: %v", res.Error)
		return false, errors.New("failed to mark user verified")
	}
	return res.RowsAffected == 1, nil
}

func (r *userRepository) SetResetCode(userID uint, code string, expiresAt time.Time) error {
	err := r.db.Model(&domain.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"reset_code":            code,
			"reset_code_expires_at": expiresAt,
		}).Error
	if err != nil {
		log.Printf("set reset code error: %v", err)
		return errors.New("failed to store reset code")
	}
	return nil
}

// RedeemResetCode stores the new hash and clears the code in one guarded
// update; the code cannot be redeemed twice.
func (r *userRepository) RedeemResetCode(userID uint, code string, passwordHash string, now time.Time) (bool, error) {
	res := r.db.Model(&domain.User{}).
		Where("id = ? AND reset_code = ? AND reset_code_expires_at > ?", userID, code, now).
		Updates(map[string]interface{}{
			"password_hash":         passwordHash,
			"reset_code":            nil,
			"reset_code_expires_at": nil,
		})
	if res.Error != nil {
		log.Printf("redeem reset code error: %v", res.Error)
		return false, errors.New("failed to reset password")
	}
	return res.RowsAffected == 1, nil
}

// AttachGoogleSub links an external identity to an existing account, but only
// if no identity is linked yet.
func (r *userRepository) AttachGoogleSub(userID uint, sub string) (bool, error) {
	res := r.db.Model(&domain.User{}).
		Where("id = ? AND google_sub IS NULL", userID).
		Update("google_sub", sub)
	if res.Error != nil {
		log.Printf("attach google sub error: %v", res.Error)
		return false, fmt.Errorf("failed to attach google sub: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}
