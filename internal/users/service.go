package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/HiXaM94/cat-gallery/internal/auth"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrMissingCredentials indicates the username or password was empty.
	ErrMissingCredentials = errors.New("users: username and password are required")
	// ErrUsernameTaken indicates the username is already registered.
	ErrUsernameTaken = errors.New("users: username already taken")
	// ErrInvalidCredentials indicates the username/password pair did not authenticate.
	ErrInvalidCredentials = errors.New("users: invalid credentials")
	// ErrUserNotFound indicates no account exists for the identifier.
	ErrUserNotFound = errors.New("users: account not found")

	errMissingDatabase = errors.New("database handle is required")
	noOpLogger         = zap.NewNop()
)

const (
	opServiceNew     = "users.service.new"
	opRegister       = "users.register"
	opAuthenticate   = "users.authenticate"
	opGetByID        = "users.get_by_id"
	maxUsernameChars = 50
)

// ServiceError wraps a store failure with a stable operation code.
type ServiceError struct {
	code string
	err  error
}

func (e *ServiceError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *ServiceError) Unwrap() error {
	return e.err
}

// Code returns the stable operation code.
func (e *ServiceError) Code() string {
	return e.code
}

func newServiceError(operation, reason string, cause error) error {
	return &ServiceError{code: fmt.Sprintf("%s.%s", operation, reason), err: cause}
}

// ServiceConfig describes the dependencies required for account management.
type ServiceConfig struct {
	Database *gorm.DB
	Clock    func() time.Time
	Logger   *zap.Logger
}

// Service manages registration and credential verification for accounts.
type Service struct {
	db     *gorm.DB
	clock  func() time.Time
	logger *zap.Logger
}

// NewService constructs the account service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, newServiceError(opServiceNew, "missing_database", errMissingDatabase)
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}
	return &Service{db: cfg.Database, clock: clock, logger: logger}, nil
}

// Register creates a new account with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, username, password, email string) (User, error) {
	username = normalize(username)
	if username == "" || password == "" || len(username) > maxUsernameChars {
		return User{}, ErrMissingCredentials
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logError(opRegister, "hash_failed", err)
		return User{}, newServiceError(opRegister, "hash_failed", err)
	}

	user := User{
		Username:     username,
		PasswordHash: hash,
		Email:        normalize(email),
	}

	var existing User
	err = s.db.WithContext(ctx).Where("username = ?", username).Take(&existing).Error
	if err == nil {
		return User{}, ErrUsernameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logError(opRegister, "lookup_failed", err, zap.String("username", username))
		return User{}, newServiceError(opRegister, "lookup_failed", err)
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		// The unique index is the backstop against a concurrent registration
		// slipping between the lookup and the insert.
		if isUniqueViolation(err) {
			return User{}, ErrUsernameTaken
		}
		s.logError(opRegister, "insert_failed", err, zap.String("username", username))
		return User{}, newServiceError(opRegister, "insert_failed", err)
	}

	s.logger.Info("account registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Authenticate verifies the credential pair and refreshes the last-login timestamp.
func (s *Service) Authenticate(ctx context.Context, username, password string) (User, error) {
	username = normalize(username)
	if username == "" || password == "" {
		return User{}, ErrInvalidCredentials
	}

	var user User
	err := s.db.WithContext(ctx).Where("username = ?", username).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		s.logError(opAuthenticate, "lookup_failed", err, zap.String("username", username))
		return User{}, newServiceError(opAuthenticate, "lookup_failed", err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return User{}, ErrInvalidCredentials
	}

	now := s.clock().UTC()
	if err := s.db.WithContext(ctx).Model(&User{}).
		Where("id = ?", user.ID).
		Update("last_login_at", now).Error; err != nil {
		s.logError(opAuthenticate, "touch_failed", err, zap.Uint("user_id", user.ID))
	}
	user.LastLoginAt = &now

	return user, nil
}

// GetByID fetches an account by its numeric identifier.
func (s *Service) GetByID(ctx context.Context, userID uint) (User, error) {
	var user User
	err := s.db.WithContext(ctx).Take(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		s.logError(opGetByID, "lookup_failed", err, zap.Uint("user_id", userID))
		return User{}, newServiceError(opGetByID, "lookup_failed", err)
	}
	return user, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (s *Service) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	s.logger.Error("users service error", attrs...)
}
