package services

import (
	"context"
	"errors"
	"fmt"

	"freight-backend/internal/auth"
	"freight-backend/internal/models"
)

// UserStore is the slice of the record store the user service needs.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id string) (*models.User, error)
	GetByMobileNumber(ctx context.Context, mobileNumber string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}

type UserService struct {
	Repo UserStore
	JWT  *auth.JWTManager
}

func NewUserService(repo UserStore, jwtManager *auth.JWTManager) *UserService {
	return &UserService{Repo: repo, JWT: jwtManager}
}

// Signup registers an operator. Mobile numbers are unique account
// identifiers; the store's constraint backstops the pre-check.
func (s *UserService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	if req.Name == "" || req.MobileNumber == "" || req.Password == "" {
		return nil, errors.New("name, mobile number and password are required")
	}

	if _, err := s.Repo.GetByMobileNumber(ctx, req.MobileNumber); err == nil {
		return nil, fmt.Errorf("user with this mobile number already exists: %w", models.ErrConflict)
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:                  req.Name,
		MobileNumber:          req.MobileNumber,
		SecondaryMobileNumber: req.SecondaryMobileNumber,
		State:                 req.State,
		PasswordHash:          hash,
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a bearer token.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.Repo.GetByMobileNumber(ctx, req.MobileNumber)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, errors.New("invalid mobile number or password")
		}
		return nil, err
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, errors.New("invalid mobile number or password")
	}

	token, err := s.JWT.GenerateToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &models.LoginResponse{Token: token, User: user}, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.Repo.Get(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.Repo.List(ctx)
}
