package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrMissingField indicates name, email, or message was absent or blank.
	ErrMissingField = errors.New("contact: name, email, and message are required")

	errMissingDatabase = errors.New("database handle is required")
	noOpLogger         = zap.NewNop()
)

const (
	opServiceNew = "contact.service.new"
	opSubmit     = "contact.submit"
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

func newServiceError(operation, reason string, cause error) error {
	return &ServiceError{code: fmt.Sprintf("%s.%s", operation, reason), err: cause}
}

// SubmitRequest carries a contact form submission.
type SubmitRequest struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// ServiceConfig describes the dependencies of the contact inbox.
type ServiceConfig struct {
	Database *gorm.DB
	Clock    func() time.Time
	Logger   *zap.Logger
}

// Service stores contact form submissions.
type Service struct {
	db     *gorm.DB
	clock  func() time.Time
	logger *zap.Logger
}

// NewService constructs the contact service.
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

// Submit validates and persists a contact message.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (ContactMessage, error) {
	message := ContactMessage{
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Subject:   strings.TrimSpace(req.Subject),
		Message:   strings.TrimSpace(req.Message),
		CreatedAt: s.clock().UTC(),
	}
	if message.Name == "" || message.Email == "" || message.Message == "" {
		return ContactMessage{}, ErrMissingField
	}

	if err := s.db.WithContext(ctx).Create(&message).Error; err != nil {
		s.logger.Error("contact service error",
			zap.String("operation", opSubmit),
			zap.String("reason", "insert_failed"),
			zap.Error(err))
		return ContactMessage{}, newServiceError(opSubmit, "insert_failed", err)
	}

	s.logger.Info("contact message stored", zap.Uint("message_id", message.ID))
	return message, nil
}
