package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/apperr"
	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
	"github.com/pageza/foodgram/backend/internal/validation"
)

// UserService handles registration and user lookups.
type UserService struct {
	db        *gorm.DB
	projector *Projector
	log       *logger.Logger
}

func NewUserService(db *gorm.DB, log *logger.Logger) *UserService {
	return &UserService{db: db, projector: NewProjector(db), log: log.With("service", "UserService")}
}

// Register creates a user. Email and username must be unused.
func (s *UserService) Register(ctx context.Context, req *types.RegisterRequest) (*types.UserRead, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)

	verr := apperr.NewValidation()
	validation.ValidateStruct(req, verr)

	if !verr.Has("email") {
		taken, err := s.exists(ctx, "LOWER(email) = ?", strings.ToLower(req.Email))
		if err != nil {
			return nil, err
		}
		if taken {
			verr.Add("email", "A user with that email already exists.")
		}
	}
	if !verr.Has("username") {
		taken, err := s.exists(ctx, "username = ?", req.Username)
		if err != nil {
			return nil, err
		}
		if taken {
			verr.Add("username", "A user with that username already exists.")
		}
	}
	if !verr.Empty() {
		return nil, verr
	}

	hash, err := hashPassword("password", req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, classify(err, "register user", apperr.CodeAlreadyExists, "A user with that email or username already exists.")
	}

	s.log.Info("User registered", "user_id", user.ID, "username", user.Username)
	read := userRead(user, false)
	return &read, nil
}

// List returns one page of users ordered by username.
func (s *UserService) List(ctx context.Context, viewer types.Viewer, page types.PageQuery) ([]types.UserRead, int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	var users []models.User
	err := s.db.WithContext(ctx).Order("username").Offset(page.Offset()).Limit(page.Limit).Find(&users).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	reads, err := s.projector.Users(ctx, viewer, users)
	if err != nil {
		return nil, 0, err
	}
	return reads, count, nil
}

// Get returns a user as seen by the viewer.
func (s *UserService) Get(ctx context.Context, viewer types.Viewer, id uuid.UUID) (*types.UserRead, error) {
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	reads, err := s.projector.Users(ctx, viewer, []models.User{*user})
	if err != nil {
		return nil, err
	}
	return &reads[0], nil
}

// Me returns the viewer's own user.
func (s *UserService) Me(ctx context.Context, viewer types.Viewer) (*types.UserRead, error) {
	if !viewer.Authenticated {
		return nil, apperr.Unauthorized("Authentication credentials were not provided.")
	}
	return s.Get(ctx, viewer, viewer.UserID)
}

// SetPassword changes the viewer's password after checking the current one.
func (s *UserService) SetPassword(ctx context.Context, viewer types.Viewer, req *types.SetPasswordRequest) error {
	if !viewer.Authenticated {
		return apperr.Unauthorized("Authentication credentials were not provided.")
	}
	if err := validation.Struct(req); err != nil {
		return err
	}
	user, err := s.load(ctx, viewer.UserID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return apperr.Validation("current_password", "Invalid password.")
	}

	hash, err := hashPassword("new_password", req.NewPassword)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Model(user).Update("password_hash", string(hash)).Error
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	s.log.Info("Password changed", "user_id", user.ID)
	return nil
}

func (s *UserService) load(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("User not found.")
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}

func (s *UserService) exists(ctx context.Context, cond string, arg interface{}) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where(cond, arg).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check user uniqueness: %w", err)
	}
	return count > 0, nil
}

// hashPassword hashes a password with bcrypt. bcrypt only takes 72 bytes,
// so multi-byte passwords within the length rule can still be refused.
func hashPassword(field, password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, apperr.Validation(field, "Password must not exceed 72 bytes.")
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}
