package adoptions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/HiXaM94/cat-gallery/internal/cats"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrAlreadyAdopted indicates the (account, cat) link already exists.
	ErrAlreadyAdopted = errors.New("adoptions: cat already adopted by this account")
	// ErrAdoptionNotFound indicates no link exists for the pair.
	ErrAdoptionNotFound = errors.New("adoptions: adoption not found")
	// ErrCatNotFound indicates the referenced cat does not exist.
	ErrCatNotFound = errors.New("adoptions: cat not found")

	errMissingDatabase = errors.New("database handle is required")
	noOpLogger         = zap.NewNop()
)

const (
	opServiceNew  = "adoptions.service.new"
	opAdopt       = "adoptions.adopt"
	opListForUser = "adoptions.list_for_user"
	opStatus      = "adoptions.status"
	opUnadopt     = "adoptions.unadopt"
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

// ServiceConfig describes the dependencies of the adoption service.
type ServiceConfig struct {
	Database *gorm.DB
	Clock    func() time.Time
	Logger   *zap.Logger
}

// Service manages the adoption join table scoped by acting identity.
type Service struct {
	db     *gorm.DB
	clock  func() time.Time
	logger *zap.Logger
}

// NewService constructs the adoption service.
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

// Adopt creates the link for the acting identity. A duplicate attempt is a
// conflict, never a silent no-op.
func (s *Service) Adopt(ctx context.Context, userID, catID uint) (Adoption, error) {
	var adoption Adoption
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cat cats.Cat
		if err := tx.Take(&cat, catID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCatNotFound
			}
			s.logError(opAdopt, "cat_lookup_failed", err, zap.Uint("cat_id", catID))
			return newServiceError(opAdopt, "cat_lookup_failed", err)
		}

		adoption = Adoption{
			UserID:    userID,
			CatID:     catID,
			CreatedAt: s.clock().UTC(),
		}
		if err := tx.Create(&adoption).Error; err != nil {
			// The composite unique index reports the duplicate; no separate
			// existence read is needed before the insert.
			if isUniqueViolation(err) {
				return ErrAlreadyAdopted
			}
			s.logError(opAdopt, "insert_failed", err,
				zap.Uint("user_id", userID), zap.Uint("cat_id", catID))
			return newServiceError(opAdopt, "insert_failed", err)
		}
		return nil
	})
	if txErr != nil {
		return Adoption{}, txErr
	}

	s.logger.Info("cat adopted", zap.Uint("user_id", userID), zap.Uint("cat_id", catID))
	return adoption, nil
}

// ListForUser returns the caller's adopted cats, newest adoption first.
func (s *Service) ListForUser(ctx context.Context, userID uint) ([]AdoptedCat, error) {
	adopted := make([]AdoptedCat, 0)
	err := s.db.WithContext(ctx).
		Table("adoptions").
		Select("cats.id, cats.name, cats.tag, cats.description, cats.img, cats.age, cats.origin, cats.gender, adoptions.created_at AS adopted_at").
		Joins("JOIN cats ON cats.id = adoptions.cat_id").
		Where("adoptions.user_id = ?", userID).
		Order("adoptions.created_at DESC, adoptions.id DESC").
		Scan(&adopted).Error
	if err != nil {
		s.logError(opListForUser, "query_failed", err, zap.Uint("user_id", userID))
		return nil, newServiceError(opListForUser, "query_failed", err)
	}
	return adopted, nil
}

// StatusForCat reports how many accounts adopted the cat and whether the
// optional acting identity is among them.
func (s *Service) StatusForCat(ctx context.Context, catID uint, userID *uint) (Status, error) {
	var cat cats.Cat
	if err := s.db.WithContext(ctx).Take(&cat, catID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Status{}, ErrCatNotFound
		}
		s.logError(opStatus, "cat_lookup_failed", err, zap.Uint("cat_id", catID))
		return Status{}, newServiceError(opStatus, "cat_lookup_failed", err)
	}

	var status Status
	if err := s.db.WithContext(ctx).Model(&Adoption{}).
		Where("cat_id = ?", catID).
		Count(&status.Count).Error; err != nil {
		s.logError(opStatus, "count_failed", err, zap.Uint("cat_id", catID))
		return Status{}, newServiceError(opStatus, "count_failed", err)
	}

	if userID != nil {
		var link Adoption
		err := s.db.WithContext(ctx).
			Where("cat_id = ? AND user_id = ?", catID, *userID).
			Take(&link).Error
		if err == nil {
			status.UserAdopted = true
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logError(opStatus, "link_lookup_failed", err, zap.Uint("cat_id", catID))
			return Status{}, newServiceError(opStatus, "link_lookup_failed", err)
		}
	}

	return status, nil
}

// Unadopt removes the caller's link to the cat.
func (s *Service) Unadopt(ctx context.Context, userID, catID uint) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND cat_id = ?", userID, catID).
		Delete(&Adoption{})
	if result.Error != nil {
		s.logError(opUnadopt, "delete_failed", result.Error,
			zap.Uint("user_id", userID), zap.Uint("cat_id", catID))
		return newServiceError(opUnadopt, "delete_failed", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAdoptionNotFound
	}
	s.logger.Info("cat unadopted", zap.Uint("user_id", userID), zap.Uint("cat_id", catID))
	return nil
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
	s.logger.Error("adoptions service error", attrs...)
}
