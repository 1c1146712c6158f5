package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"boletamaster/internal/shared/config"
	"boletamaster/internal/users"
	"boletamaster/pkg/logger"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrRoleNotAllowed     = errors.New("role cannot be chosen at registration")
)

const (
	tokenIssuer  = "boletamaster"
	accessToken  = "access"
	refreshToken = "refresh"
)

type Service interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error)
	RefreshToken(ctx context.Context, token string) (*TokenPair, error)
	ChangePassword(ctx context.Context, userID string, req *ChangePasswordRequest) error
	ValidateToken(tokenString string) (*JWTClaims, error)
	BootstrapAdmin(ctx context.Context, email, password string) error
}

type service struct {
	repo        Repository
	provisioner Provisioner
	config      *config.Config
}

func NewService(repo Repository, provisioner Provisioner, cfg *config.Config) Service {
	return &service{
		repo:        repo,
		provisioner: provisioner,
		config:      cfg,
	}
}

func (s *service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	role := users.Role(strings.ToUpper(strings.TrimSpace(req.Role)))
	if role == "" {
		role = users.RoleClient
	}
	if !users.IsSelfService(role) {
		return nil, ErrRoleNotAllowed
	}

	user, err := s.createUser(ctx, req.Name, req.Organization, req.Email, req.Password, role)
	if err != nil {
		return nil, err
	}

	if err := s.provisioner.Provision(ctx, user); err != nil {
		return nil, err
	}
	logger.GetDefault().InfoContext(ctx, "User Registered",
		slog.String("user_id", user.ID.String()),
		slog.String("role", string(user.Role)),
	)

	return s.authResponse(user)
}

func (s *service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !passwordMatches(user, req.Password) {
		logger.GetDefault().WarnContext(ctx, "Login Rejected", slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	// Profiles live in memory; restore them for accounts loaded from the database
	if err := s.provisioner.Provision(ctx, user); err != nil {
		return nil, err
	}
	logger.GetDefault().LogAuthSuccess(ctx, user.ID.String(), "password")

	return s.authResponse(user)
}

func (s *service) RefreshToken(ctx context.Context, token string) (*TokenPair, error) {
	claims, err := s.validateToken(token)
	if err != nil {
		return nil, err
	}
	if claims.Type != refreshToken {
		return nil, ErrInvalidToken
	}

	// The account may have been removed since the token was issued
	user, err := s.repo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return s.issueTokens(user)
}

func (s *service) ChangePassword(ctx context.Context, userID string, req *ChangePasswordRequest) error {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return ErrUserNotFound
	}

	if !passwordMatches(user, req.CurrentPassword) {
		return ErrInvalidCredentials
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateUserPassword(ctx, userID, hash); err != nil {
		return err
	}
	logger.GetDefault().InfoContext(ctx, "Password Changed", slog.String("user_id", userID))
	return nil
}

// BootstrapAdmin creates the administrator account once. An empty password disables it.
func (s *service) BootstrapAdmin(ctx context.Context, email, password string) error {
	if password == "" {
		logger.GetDefault().WarnContext(ctx, "Admin Bootstrap Skipped", slog.String("reason", "ADMIN_PASSWORD not set"))
		return nil
	}
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	user, err := s.createUser(ctx, "Administrator", "", email, password, users.RoleAdmin)
	if err != nil {
		return err
	}
	logger.GetDefault().InfoContext(ctx, "Admin Account Created", slog.String("user_id", user.ID.String()))
	return nil
}

func (s *service) ValidateToken(tokenString string) (*JWTClaims, error) {
	return s.validateToken(tokenString)
}

func (s *service) createUser(ctx context.Context, name, organization, email, password string, role users.Role) (*users.User, error) {
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &users.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(name),
		Organization: strings.TrimSpace(organization),
		Email:        normalizeEmail(email),
		Password:     hash,
		Role:         role,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) authResponse(user *users.User) (*AuthResponse, error) {
	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		User:         toUserResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

// issueTokens signs an access and refresh token sharing one issue time
func (s *service) issueTokens(user *users.User) (*TokenPair, error) {
	now := time.Now()
	access, err := s.signToken(user, accessToken, now, s.config.JWT.JWTExpiresIn)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(user, refreshToken, now, s.config.JWT.RefreshExpiresIn)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.config.JWT.JWTExpiresIn.Seconds()),
	}, nil
}

func (s *service) signToken(user *users.User, tokenType string, now time.Time, ttl time.Duration) (string, error) {
	id := user.ID.String()
	claims := JWTClaims{
		UserID: id,
		Email:  user.Email,
		Role:   string(user.Role),
		Type:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    tokenIssuer,
			Subject:   id,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.JWT.Secret))
}

func (s *service) validateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.config.JWT.Secret), nil
	})

	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func passwordMatches(user *users.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
}
