package services

import (
	"context"
	"errors"
	"log"

	"daf-fencereg/internal/adapters/persistence/models"
	"daf-fencereg/internal/adapters/persistence/repositories"
	"daf-fencereg/internal/config"
	"daf-fencereg/internal/core/domain"
	"daf-fencereg/internal/pkg/jwt"
	"daf-fencereg/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auth errors. Account sentinels alias the domain ones so handlers match
// on a single set.
var (
	ErrAccountNotFound      = domain.ErrAccountNotFound
	ErrInvalidCredentials   = domain.ErrInvalidCredentials
	ErrAccountAlreadyExists = domain.ErrAccountAlreadyExists
	ErrAccountInactive      = domain.ErrAccountInactive
	ErrInvalidRole          = errors.New("role must be one of the applicant roles")
	ErrInvalidToken         = errors.New("invalid token")
	ErrTokenExpired         = errors.New("token expired")
	ErrTokenRevoked         = errors.New("token revoked")
)

// AuthService handles authentication business logic
type AuthService struct {
	accountRepo      repositories.AccountRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	districtRepo     repositories.DistrictRepository
	cfg              *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	accountRepo repositories.AccountRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	districtRepo repositories.DistrictRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		accountRepo:      accountRepo,
		refreshTokenRepo: refreshTokenRepo,
		districtRepo:     districtRepo,
		cfg:              cfg,
	}
}

// RegisterInput represents registration input. Role and district are fixed
// at creation; admin roles are never self-registered.
type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
	District string `json:"district" validate:"required"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Account      *models.AccountResponse `json:"account"`
	AccessToken  string                  `json:"access_token"`
	RefreshToken string                  `json:"refresh_token"`
}

// Register creates a new applicant account
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResponse, error) {
	if !models.IsApplicantRole(input.Role) {
		return nil, ErrInvalidRole
	}
	if !password.Validate(input.Password) {
		return nil, ErrWeakPassword
	}

	district, err := s.districtRepo.GetByName(ctx, input.District)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDistrictUnknown
		}
		return nil, err
	}
	if !district.IsActive {
		return nil, ErrDistrictUnknown
	}

	exists, err := s.accountRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAccountAlreadyExists
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		Email:        input.Email,
		Password:     hashedPassword,
		Role:         input.Role,
		District:     district.Name,
		DistrictCode: district.Code,
		IsActive:     true,
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	tokens, err := s.generateTokens(account)
	if err != nil {
		return nil, err
	}

	if err := s.storeRefreshToken(ctx, account.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	log.Printf("account registered: %s (%s, %s)", account.Email, account.Role, account.District)

	return &AuthResponse{
		Account:      account.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Login authenticates an account
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	account, err := s.accountRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !account.IsActive {
		return nil, ErrAccountInactive
	}

	if !password.Verify(input.Password, account.Password) {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.generateTokens(account)
	if err != nil {
		return nil, err
	}

	if err := s.storeRefreshToken(ctx, account.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	return &AuthResponse{
		Account:      account.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// RefreshToken rotates a refresh token and issues a new pair
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	tokenHash := password.HashToken(refreshToken)

	storedToken, err := s.refreshTokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if storedToken.IsRevoked() {
		return nil, ErrTokenRevoked
	}
	if storedToken.IsExpired() {
		return nil, ErrTokenExpired
	}

	account, err := s.accountRepo.GetByID(ctx, claims.AccountID)
	if err != nil {
		return nil, ErrAccountNotFound
	}
	if !account.IsActive {
		return nil, ErrAccountInactive
	}

	// Token rotation: the old refresh token is single-use.
	if err := s.refreshTokenRepo.Revoke(ctx, storedToken.ID); err != nil {
		return nil, err
	}

	tokens, err := s.generateTokens(account)
	if err != nil {
		return nil, err
	}

	if err := s.storeRefreshToken(ctx, account.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	return &AuthResponse{
		Account:      account.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Logout revokes the refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	tokenHash := password.HashToken(refreshToken)
	return s.refreshTokenRepo.RevokeByTokenHash(ctx, tokenHash)
}

// LogoutAll revokes all refresh tokens for an account
func (s *AuthService) LogoutAll(ctx context.Context, accountID uint) error {
	return s.refreshTokenRepo.RevokeAllByAccountID(ctx, accountID)
}

// GetAccountByID gets an account by ID
func (s *AuthService) GetAccountByID(ctx context.Context, accountID uint) (*models.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

// generateTokens generates access and refresh tokens
func (s *AuthService) generateTokens(account *models.Account) (*TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(
		account.ID,
		account.Email,
		account.Role,
		account.District,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	tokenID := uuid.New().String()

	refreshToken, err := jwt.GenerateRefreshToken(
		account.ID,
		tokenID,
		s.cfg.JWT.RefreshSecret,
		s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// storeRefreshToken stores a refresh token hash in the database
func (s *AuthService) storeRefreshToken(ctx context.Context, accountID uint, refreshToken string) error {
	token := &models.RefreshToken{
		AccountID: accountID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays),
	}
	return s.refreshTokenRepo.Create(ctx, token)
}
