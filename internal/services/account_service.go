package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/casafolio/go-property-backend/internal/auth"
	"github.com/casafolio/go-property-backend/internal/domain"
	"github.com/casafolio/go-property-backend/internal/faults"
)

// RegisterInput is the payload for account creation.
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Role     string `json:"role" binding:"omitempty,oneof=OWNER MANAGER TENANT"`
}

// LoginInput is the payload for credential verification.
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AccountService manages user accounts and credential checks.
type AccountService struct {
	db *gorm.DB
}

// NewAccountService constructs an AccountService.
func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

// Register creates an account with a hashed password. Duplicate emails
// surface as a conflict fault. Self-registration never grants ADMIN; the
// role defaults to OWNER.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	role := domain.Role(in.Role)
	if in.Role == "" {
		role = domain.RoleOwner
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := domain.User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, faults.Conflict("an account with this email already exists")
		}
		return nil, err
	}
	return &u, nil
}

// Login verifies credentials and returns the account. Unknown emails and
// wrong passwords produce the same fault so the endpoint does not confirm
// which emails have accounts.
func (s *AccountService) Login(ctx context.Context, in LoginInput) (*domain.User, error) {
	var u domain.User
	err := s.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(in.Email))).
		First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, faults.Unauthenticated("invalid email or password")
		}
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash, in.Password) {
		return nil, faults.Unauthenticated("invalid email or password")
	}
	return &u, nil
}

// Get fetches an account by id.
func (s *AccountService) Get(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, mapRepoErr(err, "account")
	}
	return &u, nil
}
