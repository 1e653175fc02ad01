package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"zapmanager/internal/auth"
	apperrors "zapmanager/internal/errors"
	"zapmanager/internal/model"
	"zapmanager/internal/repository"
)

const bcryptCost = 10

// AuthService handles authentication and user management.
type AuthService interface {
	Login(ctx context.Context, username, password string) (token string, user *model.User, err error)
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	Register(ctx context.Context, actor Actor, username, password string, role model.Role) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	EnsureAdmin(ctx context.Context, username, password string) (created bool, err error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	audit      AuditService
	log        *zap.Logger

	dummyOnce sync.Once
	dummyHash []byte
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	userRepo repository.UserRepository,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	audit AuditService,
	log *zap.Logger,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
		audit:      audit,
		log:        log.Named("auth"),
	}
}

// Login authenticates a user and returns a signed access token.
// Unknown usernames and wrong passwords fail identically with ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, fmt.Errorf("find user: %w", err)
	}

	if user == nil {
		// Spend the same bcrypt work as a real comparison.
		_ = bcrypt.CompareHashAndPassword(s.fallbackHash(), []byte(password))
		s.loginFailed(ctx, username)
		return "", nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.loginFailed(ctx, username)
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("generate access token: %w", err)
	}

	s.audit.Record(ctx, Actor{UserID: user.ID, Username: user.Username}, model.ActionLoginSuccess, "")
	return token, user, nil
}

func (s *authService) loginFailed(ctx context.Context, username string) {
	s.log.Info("login failed", zap.String("username", username))
	s.audit.Record(ctx, Actor{Username: username}, model.ActionLoginFailed, "invalid login attempt")
}

func (s *authService) fallbackHash() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcryptCost)
	})
	return s.dummyHash
}

// Authenticate validates a bearer token and rejects revoked ones.
func (s *authService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidToken, err)
	}
	revoked, err := s.tokenStore.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

// Logout revokes the token behind claims for the rest of its lifetime.
func (s *authService) Logout(ctx context.Context, claims *auth.Claims) error {
	if err := s.tokenStore.Revoke(ctx, claims.ID, s.jwtService.RemainingTTL(claims)); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.audit.Record(ctx, Actor{UserID: claims.UserID, Username: claims.Username}, model.ActionLogout, "")
	return nil
}

// Register creates a new user with hashed password. An empty role defaults to operator.
func (s *authService) Register(ctx context.Context, actor Actor, username, password string, role model.Role) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperrors.ErrValidation
	}
	if role == "" {
		role = model.RoleOperator
	}
	if !role.Valid() {
		return nil, apperrors.ErrInvalidRole
	}

	// Check if user already exists
	existing, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return nil, apperrors.ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// A concurrent registration may have won the unique index.
		if again, findErr := s.userRepo.FindByUsername(ctx, username); findErr == nil && again != nil {
			return nil, apperrors.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.audit.Record(ctx, actor, model.ActionUserRegistered, fmt.Sprintf("new user: %s (%s)", user.Username, user.Role))
	return user, nil
}

func (s *authService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.userRepo.List(ctx)
}

// EnsureAdmin seeds the bootstrap administrator when no user with that name exists.
func (s *authService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.userRepo.FindByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("check admin existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	admin := &model.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		Role:         model.RoleAdministrator,
	}
	if err := s.userRepo.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	s.log.Info("seeded administrator", zap.String("username", username))
	return true, nil
}
