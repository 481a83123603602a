package service

import (
	"errors"
	"time"

	"github.com/jabol183/ezbots-V2/internal/models"
	"github.com/jabol183/ezbots-V2/internal/repository"
	"github.com/jabol183/ezbots-V2/pkg/jwt"

	"gorm.io/gorm"
)

var (
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// UserService handles account creation and authentication
type UserService struct {
	users      repository.UserRepository
	jwtService *jwt.Service
}

// NewUserService creates a new user service
func NewUserService(users repository.UserRepository, jwtService *jwt.Service) *UserService {
	return &UserService{users: users, jwtService: jwtService}
}

// Signup creates a new user and returns a signed token
func (s *UserService) Signup(req *models.SignupRequest) (*models.User, string, error) {
	if _, err := s.users.GetByEmail(req.Email); err == nil {
		return nil, "", ErrUserAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Company:  req.Company,
	}

	if err := s.users.Create(user); err != nil {
		return nil, "", err
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login authenticates a user and returns a signed token
func (s *UserService) Login(req *models.LoginRequest) (*models.User, string, error) {
	user, err := s.users.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !models.CheckPasswordHash(req.Password, user.Password) {
		return nil, "", ErrInvalidCredentials
	}

	user.LastLogin = time.Now()
	if err := s.users.Update(user); err != nil {
		// Login still succeeds when the timestamp write fails
		user.LastLogin = time.Time{}
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// GetByID returns a user by ID
func (s *UserService) GetByID(id uint) (*models.User, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
