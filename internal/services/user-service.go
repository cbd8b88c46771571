package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lnuais/member_service/internal/domain"
	"github.com/lnuais/member_service/internal/dto"
	"github.com/lnuais/member_service/internal/helper"
	"github.com/lnuais/member_service/internal/helper/utils"
	"github.com/lnuais/member_service/internal/interfaces"
	"github.com/lnuais/member_service/internal/repository"
	pkgutils "github.com/lnuais/member_service/pkg/utils"
	"golang.org/x/crypto/bcrypt"
)

const codeTTL = 15 * time.Minute

type UserService interface {
	// Auth
	Register(input dto.RegisterRequest) (*domain.User, error)
	Login(email, password string) (*domain.User, error)
	VerifyEmail(email, code string) (*domain.User, error)
	ResendVerification(email string) error
	RequestPasswordReset(email string) error
	ResetPassword(email, code, newPassword string) error
	SetPassword(userID uint, newPassword string) error

	// External identity
	LinkGoogleAccount(sub, email, name, picture string) (*domain.User, error)

	// Profile
	GetProfile(userID uint) (*domain.User, error)
	ListUsers(page, limit int) (*dto.UserListResponse, error)
	UpdateProfile(userID uint, input dto.UpdateUserProfile) (*domain.User, error)
	UpdateAvatar(ctx context.Context, userID uint, filename string, data []byte) (*domain.User, error)
	DeleteUser(userID uint) error
}

type userService struct {
	repo     repository.UserRepository
	producer interfaces.ProducerHandler
	uploader interfaces.Uploader
}

func NewUserService(
	repo repository.UserRepository,
	producer interfaces.ProducerHandler,
	uploader interfaces.Uploader,
) UserService {
	return &userService{
		repo:     repo,
		producer: producer,
		uploader: uploader,
	}
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// publish dispatches a mail event off the request path. Delivery failure is
// logged, never surfaced to the caller.
func (u *userService) publish(kind string, ev dto.MailEvent) {
	if u.producer == nil {
		log.Println("mail producer not configured - skip publish")
		return
	}

	ev.ID = uuid.NewString()
	ev.Kind = kind

	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("mail event marshal failed kind=%s: %v", kind, err)
		return
	}

	go func() {
		if err := u.producer.PublishMessage([]byte(kind), payload); err != nil {
			log.Printf("mail event publish failed kind=%s: %v", kind, err)
		}
	}()
}

// AUTH

func (u *userService) Register(input dto.RegisterRequest) (*domain.User, error) {
	email := normalizeEmail(input.Email)
	fullName := strings.TrimSpace(input.FullName)
	programme := strings.TrimSpace(input.Programme)
	level := strings.TrimSpace(input.ExperienceLevel)

	if email == "" || fullName == "" || programme == "" {
		return nil, fmt.Errorf("%w: full_name, email and programme are required", domain.ErrValidation)
	}
	if !domain.ValidExperienceLevel(level) {
		return nil, fmt.Errorf("%w: invalid experience level", domain.ErrValidation)
	}

	existing, err := u.repo.FindUserByEmail(email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil && existing.ID != 0 {
		return nil, domain.ErrEmailTaken
	}

	newUser := &domain.User{
		FullName:        fullName,
		Email:           email,
		Programme:       &programme,
		ExperienceLevel: &level,
		Enabled:         true,
	}

	// Password is optional here; the signup page registers without one and
	// the account picks one up via the reset flow or SetPassword.
	if pw := strings.TrimSpace(input.Password); pw != "" {
		if len(pw) < 6 {
			return nil, fmt.Errorf("%w: password must be at least 6 characters", domain.ErrValidation)
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		if err != nil {
			return nil, errors.New("failed to hash password")
		}
		h := string(hashed)
		newUser.PasswordHash = &h
	}

	usr, err := u.repo.CreateUser(newUser)
	if err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, err
	}

	u.publish(dto.EventWelcome, dto.MailEvent{Email: usr.Email, FullName: usr.FullName})

	return usr, nil
}

func (u *userService) Login(email, password string) (*domain.User, error) {
	email = normalizeEmail(email)
	password = strings.TrimSpace(password)

	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	// Same error for unknown email, password-less account and wrong
	// password; nothing here may reveal whether the email exists.
	user, err := u.repo.FindUserByEmail(email)
	if err != nil || user == nil || user.ID == 0 {
		return nil, domain.ErrInvalidCredentials
	}
	if user.PasswordHash == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.Enabled {
		return nil, domain.ErrAccountDisabled
	}
	if !user.Verified {
		return nil, domain.ErrUnverifiedAccount
	}

	return user, nil
}

func (u *userService) VerifyEmail(email, code string) (*domain.User, error) {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)

	user, err := u.repo.FindUserByEmail(email)
	if err != nil {
		return nil, err
	}

	if user.Verified {
		return nil, domain.ErrAlreadyVerified
	}
	if user.VerificationCode == nil || *user.VerificationCode != code {
		return nil, domain.ErrInvalidCode
	}
	if user.VerificationCodeExpiresAt == nil || time.Now().After(*user.VerificationCodeExpiresAt) {
		return nil, domain.ErrCodeExpired
	}

	ok, err := u.repo.MarkVerified(user.ID, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race against a concurrent attempt with the same code.
		return nil, domain.ErrAlreadyVerified
	}

	user.Verified = true
	user.VerificationCode = nil
	user.VerificationCodeExpiresAt = nil

	u.publish(dto.EventWelcome, dto.MailEvent{Email: user.Email, FullName: user.FullName})

	return user, nil
}

func (u *userService) ResendVerification(email string) error {
	email = normalizeEmail(email)

	user, err := u.repo.FindUserByEmail(email)
	if err != nil {
		return err
	}
	if user.Verified {
		return domain.ErrAlreadyVerified
	}

	code, err := utils.GenerateCode()
	if err != nil {
		return errors.New("failed to generate verification code")
	}
	exp := time.Now().Add(codeTTL)

	if err := u.repo.SetVerificationCode(user.ID, code, exp); err != nil {
		return err
	}

	u.publish(dto.EventVerifyEmail, dto.MailEvent{
		Email:     user.Email,
		FullName:  user.FullName,
		Code:      code,
		ExpiresAt: exp.Format(time.RFC3339),
	})

	return nil
}

// RequestPasswordReset always reports success so the endpoint cannot be used
// to probe which emails are registered.
func (u *userService) RequestPasswordReset(email string) error {
	email = normalizeEmail(email)

	user, err := u.repo.FindUserByEmail(email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}

	code, err := utils.GenerateCode()
	if err != nil {
		return errors.New("failed to generate reset code")
	}
	exp := time.Now().Add(codeTTL)

	if err := u.repo.SetResetCode(user.ID, code, exp); err != nil {
		return err
	}

	u.publish(dto.EventResetPassword, dto.MailEvent{
		Email:     user.Email,
		FullName:  user.FullName,
		Code:      code,
		ExpiresAt: exp.Format(time.RFC3339),
	})

	return nil
}

func (u *userService) ResetPassword(email, code, newPassword string) error {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	newPassword = strings.TrimSpace(newPassword)

	// A short password is the caller's mistake, not a bad code; it must not
	// be reported as a code failure.
	if len(newPassword) < 6 {
		return fmt.Errorf("%w: newPassword must be at least 6 characters", domain.ErrValidation)
	}
	if code == "" {
		return domain.ErrInvalidOrExpiredCode
	}

	// Unknown email, wrong code and expired code all collapse into one
	// error; the reset endpoint must not allow enumeration either.
	user, err := u.repo.FindUserByEmail(email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidOrExpiredCode
		}
		return err
	}
	if user.ResetCode == nil || *user.ResetCode != code {
		return domain.ErrInvalidOrExpiredCode
	}
	if user.ResetCodeExpiresAt == nil || time.Now().After(*user.ResetCodeExpiresAt) {
		return domain.ErrInvalidOrExpiredCode
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash password")
	}

	ok, err := u.repo.RedeemResetCode(user.ID, code, string(hashed), time.Now())
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrInvalidOrExpiredCode
	}
	return nil
}

func (u *userService) SetPassword(userID uint, newPassword string) error {
	newPassword = strings.TrimSpace(newPassword)
	if len(newPassword) < 6 {
		return fmt.Errorf("%w: password must be at least 6 characters", domain.ErrValidation)
	}

	user, err := u.repo.FindUserById(userID)
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash password")
	}
	h := string(hashed)
	user.PasswordHash = &h

	return u.repo.SaveUser(user)
}

// EXTERNAL IDENTITY

// LinkGoogleAccount reconciles a provider-vouched identity with the local
// store: match by sub, then by email (linking), else create a verified
// password-less account. Store races are resolved by re-querying.
func (u *userService) LinkGoogleAccount(sub, email, name, picture string) (*domain.User, error) {
	email = normalizeEmail(email)
	if sub == "" || email == "" {
		return nil, errors.New("invalid google identity")
	}

	if user, err := u.repo.FindUserByGoogleSub(sub); err == nil {
		u.backfillPicture(user, picture)
		return user, nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	if user, err := u.repo.FindUserByEmail(email); err == nil {
		ok, attachErr := u.repo.AttachGoogleSub(user.ID, sub)
		if attachErr != nil && !helper.IsUniqueViolation(attachErr) {
			return nil, attachErr
		}
		if ok {
			user.GoogleSub = &sub
			u.backfillPicture(user, picture)
			return user, nil
		}
		// Another identity is already linked, or a concurrent callback got
		// there first; trust whatever the store holds now.
		if linked, err := u.repo.FindUserByGoogleSub(sub); err == nil {
			return linked, nil
		}
		return user, nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	newUser := &domain.User{
		FullName:  strings.TrimSpace(name),
		Email:     email,
		GoogleSub: &sub,
		Verified:  true, // provider vouches for the email
		Enabled:   true,
	}
	if picture != "" {
		newUser.Picture = &picture
	}

	usr, err := u.repo.CreateUser(newUser)
	if err != nil {
		if helper.IsUniqueViolation(err) {
			// Concurrent duplicate creation; re-query instead of failing
			// the callback.
			if user, err := u.repo.FindUserByGoogleSub(sub); err == nil {
				return user, nil
			}
			return u.repo.FindUserByEmail(email)
		}
		return nil, err
	}

	u.publish(dto.EventWelcome, dto.MailEvent{Email: usr.Email, FullName: usr.FullName})

	return usr, nil
}

func (u *userService) backfillPicture(user *domain.User, picture string) {
	if picture == "" || user.Picture != nil {
		return
	}
	user.Picture = &picture
	if err := u.repo.SaveUser(user); err != nil {
		log.Printf("backfill picture failed for user %d: %v", user.ID, err)
	}
}

// PROFILE

func (u *userService) GetProfile(userID uint) (*domain.User, error) {
	if userID == 0 {
		return nil, domain.ErrUserNotFound
	}
	return u.repo.FindUserById(userID)
}

func (u *userService) ListUsers(page, limit int) (*dto.UserListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	users, total, err := u.repo.ListUsers(limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	return &dto.UserListResponse{
		TotalItems:  total,
		TotalPages:  totalPages,
		CurrentPage: page,
		Users:       users,
	}, nil
}

func (u *userService) UpdateProfile(userID uint, input dto.UpdateUserProfile) (*domain.User, error) {
	user, err := u.repo.FindUserById(userID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		fn := strings.TrimSpace(*input.FullName)
		if fn == "" {
			return nil, fmt.Errorf("%w: full_name cannot be empty", domain.ErrValidation)
		}
		user.FullName = fn
	}

	if input.Programme != nil {
		p := strings.TrimSpace(*input.Programme)
		if p == "" {
			return nil, fmt.Errorf("%w: programme cannot be empty", domain.ErrValidation)
		}
		user.Programme = &p
	}

	if input.ExperienceLevel != nil {
		lvl := strings.TrimSpace(*input.ExperienceLevel)
		if !domain.ValidExperienceLevel(lvl) {
			return nil, fmt.Errorf("%w: invalid experience level", domain.ErrValidation)
		}
		user.ExperienceLevel = &lvl
	}

	if err := u.repo.SaveUser(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (u *userService) UpdateAvatar(ctx context.Context, userID uint, filename string, data []byte) (*domain.User, error) {
	if u.uploader == nil {
		return nil, errors.New("uploader is not configured")
	}

	user, err := u.repo.FindUserById(userID)
	if err != nil {
		return nil, err
	}

	normalized, err := pkgutils.NormalizeAvatarJPEG(data, 512, 85)
	if err != nil {
		return nil, domain.ErrUnsupportedImage
	}

	url, err := u.uploader.UploadBytes(ctx, "members/avatars", filename, normalized)
	if err != nil {
		log.Printf("avatar upload failed for user %d: %v", userID, err)
		return nil, errors.New("failed to upload avatar")
	}

	user.Picture = &url
	if err := u.repo.SaveUser(user); err != nil {
		return nil, err
	}

	return user, nil
}

func (u *userService) DeleteUser(userID uint) error {
	return u.repo.DeleteUser(userID)
}
