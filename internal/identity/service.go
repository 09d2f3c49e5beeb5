package identity

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"motoyard/internal/auth"
	"motoyard/internal/models"
	"motoyard/internal/repo"
)

const minPasswordLen = 6

var (
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is the caller-visible "already exists" outcome.
	ErrEmailTaken = errors.New("a user with this email already exists")
	// ErrInvalidCredentials is deliberately generic: it does not reveal
	// whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError reports malformed caller input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func invalidf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// UserStore is the persistence contract the service consumes.
// Lookups return (nil, nil) when the row is absent.
type UserStore interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error)
	GetPage(ctx context.Context, p models.PageParams) ([]models.User, int64, error)
	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id uint) error
}

// Service manages user accounts and issues session credentials.
type Service struct {
	users  UserStore
	jwtCfg auth.Config
}

func NewService(users UserStore, jwtCfg auth.Config) *Service {
	return &Service{users: users, jwtCfg: jwtCfg}
}

type CreateUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if err := validateNewUser(in.Name, in.Email, in.Password); err != nil {
		return nil, err
	}
	exists, err := s.users.ExistsByEmail(ctx, in.Email, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

type UpdateUserInput struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
}

// UpdateUser applies the provided fields only. An email change is
// checked for collisions excluding the user itself; a new password is
// re-hashed before storage.
func (s *Service) UpdateUser(ctx context.Context, id uint, in UpdateUserInput) (*models.User, error) {
	if id == 0 {
		return nil, invalidf("id must be positive")
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	if e := strings.TrimSpace(in.Email); e != "" && !strings.EqualFold(e, u.Email) {
		if _, err := mail.ParseAddress(e); err != nil {
			return nil, invalidf("invalid email address")
		}
		exists, err := s.users.ExistsByEmail(ctx, e, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrEmailTaken
		}
		u.Email = e
	}
	if n := strings.TrimSpace(in.Name); n != "" {
		u.Name = n
	}
	if in.Password != "" {
		if len(in.Password) < minPasswordLen {
			return nil, invalidf("password must have at least %d characters", minPasswordLen)
		}
		hash, err := hashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}

	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) DeleteUser(ctx context.Context, id uint) error {
	if id == 0 {
		return invalidf("id must be positive")
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}
	return s.users.Delete(ctx, id)
}

func (s *Service) GetUser(ctx context.Context, id uint) (*models.User, error) {
	if id == 0 {
		return nil, invalidf("id must be positive")
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, invalidf("email is required")
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *Service) ListUsers(ctx context.Context, p models.PageParams) ([]models.User, int64, error) {
	return s.users.GetPage(ctx, p)
}

// AuthResponse is the issued session credential.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
}

// Register creates an account and issues a token. A taken email is the
// explicit "already exists" outcome, not an authentication failure.
func (s *Service) Register(ctx context.Context, in CreateUserInput) (*AuthResponse, error) {
	u, err := s.CreateUser(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.issue(u)
}

// Login verifies credentials. Unknown email and wrong password produce
// the same generic failure.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u)
}

func (s *Service) issue(u *models.User) (*AuthResponse, error) {
	token, expiresAt, err := auth.GenerateToken(s.jwtCfg, u.ID, u.Email, u.Name)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Email:     u.Email,
		Name:      u.Name,
	}, nil
}

func validateNewUser(name, email, password string) error {
	if strings.TrimSpace(name) == "" {
		return invalidf("name is required")
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		return invalidf("invalid email address")
	}
	if len(password) < minPasswordLen {
		return invalidf("password must have at least %d characters", minPasswordLen)
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
