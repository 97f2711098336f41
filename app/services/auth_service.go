// Package services implements the business rules between controllers and
// repositories.
package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/shashiranjanraj/bazaar/app/apperr"
	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/app/repositories"
	"github.com/shashiranjanraj/bazaar/config"
	"github.com/shashiranjanraj/bazaar/pkg/auth"
	"github.com/shashiranjanraj/bazaar/pkg/crypt"
	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/metrics"
	"github.com/shashiranjanraj/bazaar/pkg/queue"
)

// JobSendOTPMail is the queue job that emails a verification code.
const JobSendOTPMail = "mail.send_otp"

// OTPMailPayload is the payload for JobSendOTPMail.
type OTPMailPayload struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type AuthService struct {
	users *repositories.UserRepository
	queue *queue.Manager
}

func NewAuthService(users *repositories.UserRepository, q *queue.Manager) *AuthService {
	return &AuthService{users: users, queue: q}
}

// RegisterInput is the payload for account creation.
type RegisterInput struct {
	Username string `json:"username" validate:"required,alpha_dash,min=3,max=100"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Register creates a regular user account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	return s.register(ctx, in, models.RoleUser)
}

// RegisterAdmin creates an admin account. Callers must gate this behind
// the admin role check.
func (s *AuthService) RegisterAdmin(ctx context.Context, in RegisterInput) (*models.User, error) {
	return s.register(ctx, in, models.RoleAdmin)
}

func (s *AuthService) register(ctx context.Context, in RegisterInput, role string) (*models.User, error) {
	exists, err := s.users.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.ErrUserExists
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
		Role:     role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks credentials and returns the user with a signed token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, "", apperr.ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if !auth.CheckPassword(user.Password, password) {
		return nil, "", apperr.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// SendOTP generates a 6-digit passcode, stores it encrypted with an expiry
// and queues the verification email. The email is sent in the background;
// delivery failures surface through logs and the failed-jobs table, not
// through this call.
func (s *AuthService) SendOTP(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}
	encrypted, err := crypt.Encrypt(code)
	if err != nil {
		return err
	}
	expiresAt := time.Now().Add(config.OTPTTL())
	if err := s.users.SetOTP(ctx, user.ID, encrypted, &expiresAt); err != nil {
		return err
	}

	metrics.OTPIssued.Inc()
	if err := s.queue.Dispatch(ctx, JobSendOTPMail, OTPMailPayload{Email: user.Email, Code: code}); err != nil {
		logger.WithCtx(ctx).Error("otp mail not queued", "user_id", user.ID, "error", err)
	}
	return nil
}

// VerifyOTP checks the submitted code and marks the account verified.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) error {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user.OTPCode == "" || user.OTPExpiresAt == nil {
		return apperr.ErrInvalidOtp
	}
	// A code presented at exactly the expiry instant is already expired.
	if !time.Now().Before(*user.OTPExpiresAt) {
		return apperr.ErrOtpExpired
	}

	stored, err := crypt.Decrypt(user.OTPCode)
	if err != nil || stored != code {
		return apperr.ErrInvalidOtp
	}
	return s.users.MarkVerified(ctx, user.ID)
}

// PurgeExpiredOTPs clears stale passcodes. Run on a schedule.
func (s *AuthService) PurgeExpiredOTPs(ctx context.Context) error {
	n, err := s.users.PurgeExpiredOTPs(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.WithCtx(ctx).Info("expired otps purged", "count", n)
	}
	return nil
}

// Profile loads the account for the authenticated user.
func (s *AuthService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	return s.users.FindByID(ctx, userID)
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
