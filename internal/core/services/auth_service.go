package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/url"
	"strings"
	"time"

	"carepath-api/internal/adapters/persistence/models"
	"carepath-api/internal/adapters/persistence/repositories"
	"carepath-api/internal/config"
	"carepath-api/internal/core/domain"
	"carepath-api/internal/pkg/jwt"
	"carepath-api/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Auth errors
var (
	ErrUserNotFound       = domain.NewError(domain.ErrNotFound, "user not found")
	ErrInvalidCredentials = domain.NewError(domain.ErrUnauthorized, "invalid email or password")
	ErrEmailAlreadyExists = domain.NewError(domain.ErrConflict, "a user with this email already exists")
	ErrInvalidToken       = domain.NewError(domain.ErrUnauthorized, "invalid token")
	ErrTokenExpired       = domain.NewError(domain.ErrUnauthorized, "token expired")
	ErrTokenRevoked       = domain.NewError(domain.ErrUnauthorized, "refresh token has been revoked")
	ErrInvalidAdminCode   = domain.NewError(domain.ErrUnauthorized, "invalid admin creation code")
	ErrInvalidResetToken  = domain.NewError(domain.ErrInvalidInput, "invalid or expired reset token")
	ErrWrongOldPassword   = domain.NewError(domain.ErrUnauthorized, "old password is incorrect")
	ErrWeakPassword       = domain.NewError(domain.ErrInvalidInput, "password must be at least 8 characters")
	ErrMissingFields      = domain.NewError(domain.ErrInvalidInput, "name, email and password are required")
)

const resetTokenBytes = 32

// AuthService handles authentication business logic
type AuthService struct {
	userRepo repositories.UserRepository
	notifier PasswordResetNotifier
	cfg      *config.Config
	now      func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	notifier PasswordResetNotifier,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		notifier: notifier,
		cfg:      cfg,
		now:      systemClock,
	}
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterInput creates a staff member or an admin
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateAdminInput is RegisterInput plus the bootstrap code
type CreateAdminInput struct {
	RegisterInput
	AdminCreateCode string `json:"adminCreateCode"`
}

// ChangePasswordInput represents change-password input
type ChangePasswordInput struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// ResetPasswordInput represents reset-password input
type ResetPasswordInput struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *models.UserResponse `json:"user"`
	AccessToken  string               `json:"accessToken"`
	RefreshToken string               `json:"refreshToken"`
}

// Login authenticates a user by email and password
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	email := normalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(input.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	resp, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("✅ User logged in")
	return resp, nil
}

// RefreshToken rotates the token pair. The presented token must match the
// hash stored on the user, so a token replaced by an earlier refresh (or
// cleared by logout) is rejected.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.ID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if user.RefreshTokenHash == nil {
		return nil, ErrTokenRevoked
	}
	presented := password.HashToken(refreshToken)
	if subtle.ConstantTimeCompare([]byte(presented), []byte(*user.RefreshTokenHash)) != 1 {
		return nil, ErrTokenRevoked
	}

	resp, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("user_id", user.ID).Msg("🔄 Token refreshed")
	return resp, nil
}

// Logout clears the stored refresh token hash
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.userRepo.UpdateFields(ctx, userID, map[string]interface{}{
		"refresh_token_hash": nil,
	}); err != nil {
		return err
	}

	log.Info().Str("user_id", userID).Msg("✅ User logged out")
	return nil
}

// RegisterStaff creates a STAFF user (ADMIN only at the route level)
func (s *AuthService) RegisterStaff(ctx context.Context, input *RegisterInput) (*models.UserResponse, error) {
	return s.createUser(ctx, input, domain.RoleStaff)
}

// CreateAdmin creates an ADMIN user when the bootstrap code matches
func (s *AuthService) CreateAdmin(ctx context.Context, input *CreateAdminInput) (*models.UserResponse, error) {
	code := s.cfg.Admin.CreateCode
	if code == "" || subtle.ConstantTimeCompare([]byte(code), []byte(input.AdminCreateCode)) != 1 {
		return nil, ErrInvalidAdminCode
	}
	return s.createUser(ctx, &input.RegisterInput, domain.RoleAdmin)
}

func (s *AuthService) createUser(ctx context.Context, input *RegisterInput, role domain.Role) (*models.UserResponse, error) {
	email := normalizeEmail(input.Email)
	name := strings.TrimSpace(input.Name)
	if name == "" || email == "" || input.Password == "" {
		return nil, ErrMissingFields
	}
	if !password.ValidatePassword(input.Password) {
		return nil, ErrWeakPassword
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Password: hashedPassword,
		Role:     string(role),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if repositories.IsDuplicateKey(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	log.Info().Str("user_id", user.ID).Str("role", user.Role).Msg("✅ User created")
	return user.ToResponse(), nil
}

// GetUserByID gets a user by ID
func (s *AuthService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ForgotPassword stores a single-use reset token valid for the configured
// TTL and sends the reset link
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if repositories.IsNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}

	token, err := password.RandomToken(resetTokenBytes)
	if err != nil {
		return err
	}
	expiry := s.now().Add(s.resetTTL())

	if err := s.userRepo.UpdateFields(ctx, user.ID, map[string]interface{}{
		"reset_token":        token,
		"reset_token_expiry": expiry,
	}); err != nil {
		return err
	}

	link := strings.TrimRight(s.cfg.Reset.URLBase, "/") + "/auth/reset-password?token=" + url.QueryEscape(token)
	if err := s.notifier.NotifyPasswordReset(ctx, user.Email, link); err != nil {
		return err
	}

	log.Info().Str("user_id", user.ID).Msg("📧 Password reset requested")
	return nil
}

// ResetPassword consumes a reset token and sets a new password
func (s *AuthService) ResetPassword(ctx context.Context, input *ResetPasswordInput) error {
	if strings.TrimSpace(input.Token) == "" {
		return ErrInvalidResetToken
	}
	if !password.ValidatePassword(input.NewPassword) {
		return ErrWeakPassword
	}

	user, err := s.userRepo.GetByResetToken(ctx, input.Token, s.now())
	if err != nil {
		if repositories.IsNotFound(err) {
			return ErrInvalidResetToken
		}
		return err
	}

	hashedPassword, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	// a reset also signs the user out everywhere
	if err := s.userRepo.UpdateFields(ctx, user.ID, map[string]interface{}{
		"password":           hashedPassword,
		"reset_token":        nil,
		"reset_token_expiry": nil,
		"refresh_token_hash": nil,
	}); err != nil {
		return err
	}

	log.Info().Str("user_id", user.ID).Msg("✅ Password reset")
	return nil
}

// ChangePassword replaces the password of an authenticated user
func (s *AuthService) ChangePassword(ctx context.Context, userID string, input *ChangePasswordInput) error {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if !password.Verify(input.OldPassword, user.Password) {
		return ErrWrongOldPassword
	}
	if !password.ValidatePassword(input.NewPassword) {
		return ErrWeakPassword
	}

	hashedPassword, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	return s.userRepo.UpdateFields(ctx, user.ID, map[string]interface{}{"password": hashedPassword})
}

// ValidateAccessToken validates an access token
func (s *AuthService) ValidateAccessToken(accessToken string) (*jwt.Claims, error) {
	return jwt.ValidateAccessToken(accessToken, s.cfg.JWT.Secret)
}

// issueTokens signs a new pair and replaces the stored refresh hash
func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*AuthResponse, error) {
	accessToken, err := jwt.GenerateAccessToken(
		user.ID,
		user.Email,
		user.Role,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwt.GenerateRefreshToken(
		user.ID,
		user.Email,
		user.Role,
		uuid.NewString(),
		s.cfg.JWT.RefreshSecret,
		s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateFields(ctx, user.ID, map[string]interface{}{
		"refresh_token_hash": password.HashToken(refreshToken),
	}); err != nil {
		return nil, err
	}

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *AuthService) resetTTL() time.Duration {
	if s.cfg.Reset.TokenTTL > 0 {
		return s.cfg.Reset.TokenTTL
	}
	return time.Hour
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
