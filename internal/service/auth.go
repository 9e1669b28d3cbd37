package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/apperr"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/pageza/foodgram/backend/internal/validation"
)

const tokenIssuer = "foodgram"

type AuthService struct {
	db        *gorm.DB
	jwtSecret []byte
	ttl       time.Duration
	denylist  TokenDenylist
	log       *logger.Logger
}

func NewAuthService(db *gorm.DB, jwtSecret string, ttl time.Duration, denylist TokenDenylist, log *logger.Logger) *AuthService {
	return &AuthService{
		db:        db,
		jwtSecret: []byte(jwtSecret),
		ttl:       ttl,
		denylist:  denylist,
		log:       log.With("service", "AuthService"),
	}
}

// Login checks the credentials and issues a signed token.
func (s *AuthService) Login(ctx context.Context, req *types.LoginRequest) (*types.TokenResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(req.Email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invalidCredentials()
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.log.Info("Rejected login", "user_id", user.ID)
		return nil, invalidCredentials()
	}

	token, err := s.GenerateToken(&user)
	if err != nil {
		return nil, err
	}
	s.log.Info("User logged in", "user_id", user.ID)
	return &types.TokenResponse{AuthToken: token}, nil
}

// Logout revokes the token described by claims.
func (s *AuthService) Logout(ctx context.Context, claims *types.TokenClaims) error {
	if claims == nil || claims.ID == "" {
		return apperr.Unauthorized(ErrInvalidToken.Error())
	}
	expiresAt := time.Now().Add(s.ttl)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := s.denylist.Revoke(ctx, claims.ID, expiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	s.log.Info("User logged out", "user_id", claims.UserID)
	return nil
}

// GenerateToken signs a token for user with a fresh id.
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID:   user.ID,
		Username: user.Username,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses a signed token and rejects revoked ones.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == uuid.Nil || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check token denylist: %w", err)
	}
	if revoked {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func invalidCredentials() error {
	return &apperr.Error{
		Status:  http.StatusBadRequest,
		Code:    apperr.CodeValidation,
		Message: ErrInvalidCredentials.Error(),
		Err:     ErrInvalidCredentials,
	}
}
