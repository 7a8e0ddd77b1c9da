package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/martinresplandy/filmhub-project/internal/models"
	"github.com/martinresplandy/filmhub-project/internal/repository"
	"github.com/martinresplandy/filmhub-project/internal/status"
)

// userStore is the slice of UserRepository the user service consumes.
type userStore interface {
	Create(username, email, passwordHash string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByID(id int) (*models.User, error)
}

// UserService handles registration and login with JWT issuance.
type UserService struct {
	users     userStore
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewUserService creates a new UserService.
func NewUserService(users userStore, jwtSecret string, tokenTTL time.Duration) *UserService {
	return &UserService{users: users, jwtSecret: []byte(jwtSecret), tokenTTL: tokenTTL}
}

// Register creates a user and returns a signed token for immediate use.
func (s *UserService) Register(req models.RegisterRequest) (*models.AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" {
		return nil, status.Errorf(status.Invalid, "username cannot be empty")
	}
	if err := validateEmail(req.Email); err != nil {
		return nil, err
	}
	if req.Password == "" {
		return nil, status.Errorf(status.Invalid, "password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(req.Username, req.Email, string(hash))
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, status.Errorf(status.AlreadyExists, "username or email already registered")
		}
		return nil, err
	}

	return s.issueToken(user)
}

// Login verifies credentials and returns a signed token. Wrong username and
// wrong password are deliberately indistinguishable.
func (s *UserService) Login(req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.users.GetByUsername(strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, status.Errorf(status.Invalid, "invalid credentials")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, status.Errorf(status.Invalid, "invalid credentials")
	}

	return s.issueToken(user)
}

// GetUser returns a user by id.
func (s *UserService) GetUser(id int) (*models.User, error) {
	user, err := s.users.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, status.Errorf(status.NotFound, "user %d not found", id)
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) issueToken(user *models.User) (*models.AuthResponse, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(user.ID),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &models.AuthResponse{Token: token, User: *user}, nil
}

// validateEmail applies the same structural checks as the registration
// form: one "@", non-empty local part, dotted domain not starting or
// ending with a dot.
func validateEmail(email string) error {
	invalid := status.Errorf(status.Invalid, "email format is invalid, use name@example.com")

	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return invalid
	}
	domain := email[at+1:]
	if !strings.Contains(domain, ".") {
		return invalid
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return invalid
	}
	return nil
}
