package cats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrMissingRequiredField indicates name or tag was absent or blank.
	ErrMissingRequiredField = errors.New("cats: name and tag are required")
	// ErrCatNotFound indicates the record does not exist.
	ErrCatNotFound = errors.New("cats: record not found")
	// ErrNotOwner indicates the record exists but belongs to another account.
	ErrNotOwner = errors.New("cats: record owned by another account")

	errMissingDatabase = errors.New("database handle is required")
	noOpLogger         = zap.NewNop()
)

const (
	opServiceNew   = "cats.service.new"
	opList         = "cats.list"
	opGet          = "cats.get"
	opCreate       = "cats.create"
	opUpdate       = "cats.update"
	opDelete       = "cats.delete"
	opDistinctTags = "cats.distinct_tags"
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

// ImageResolver supplies an image reference when the caller provides none.
// Implementations must not fail: a fetch problem resolves to a placeholder.
type ImageResolver interface {
	Resolve(ctx context.Context) string
}

// ServiceConfig describes the dependencies of the catalogue service.
type ServiceConfig struct {
	Database *gorm.DB
	Clock    func() time.Time
	Images   ImageResolver
	Logger   *zap.Logger
}

// Service implements the catalogue operations: filtered listing, CRUD with
// ownership-scoped mutations, and distinct tag enumeration.
type Service struct {
	db     *gorm.DB
	clock  func() time.Time
	images ImageResolver
	logger *zap.Logger
}

// NewService constructs the catalogue service.
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
	return &Service{
		db:     cfg.Database,
		clock:  clock,
		images: cfg.Images,
		logger: logger,
	}, nil
}

// List returns the filtered, paginated catalogue page. The count runs on the
// filtered predicate before pagination; ordering is newest first with id as
// the tie breaker so pages stay stable across inserts.
func (s *Service) List(ctx context.Context, query ListQuery) (ListResult, error) {
	query = query.normalized()

	var count int64
	if err := query.apply(s.db.WithContext(ctx).Model(&Cat{})).Count(&count).Error; err != nil {
		s.logError(opList, "count_failed", err)
		return ListResult{}, newServiceError(opList, "query_failed", err)
	}

	offset := (query.Page - 1) * query.PageSize
	var items []Cat
	if err := query.apply(s.db.WithContext(ctx).Model(&Cat{})).
		Order("created_at DESC, id DESC").
		Limit(query.PageSize).
		Offset(offset).
		Find(&items).Error; err != nil {
		s.logError(opList, "fetch_failed", err)
		return ListResult{}, newServiceError(opList, "query_failed", err)
	}

	return ListResult{
		Items:      items,
		TotalCount: count,
		TotalPages: totalPages(count, query.PageSize),
		Page:       query.Page,
		PageSize:   query.PageSize,
	}, nil
}

// Get fetches a single record by id.
func (s *Service) Get(ctx context.Context, catID uint) (Cat, error) {
	var cat Cat
	err := s.db.WithContext(ctx).Take(&cat, catID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Cat{}, ErrCatNotFound
	}
	if err != nil {
		s.logError(opGet, "lookup_failed", err, zap.Uint("cat_id", catID))
		return Cat{}, newServiceError(opGet, "lookup_failed", err)
	}
	return cat, nil
}

// Create persists a new record owned by the acting identity. When no image
// reference is supplied one is resolved externally, falling back to the
// configured placeholder.
func (s *Service) Create(ctx context.Context, req CreateRequest) (Cat, error) {
	name := normalize(req.Name)
	tag := normalize(req.Tag)
	if name == "" || tag == "" {
		return Cat{}, ErrMissingRequiredField
	}

	image := normalize(req.Image)
	if image == "" && s.images != nil {
		image = s.images.Resolve(ctx)
	}

	ownerID := req.ActorID
	cat := Cat{
		Name:        name,
		Tag:         tag,
		Description: normalize(req.Description),
		Image:       image,
		Age:         req.Age,
		Origin:      normalize(req.Origin),
		Gender:      normalize(req.Gender),
		OwnerID:     &ownerID,
		CreatedAt:   s.clock().UTC(),
	}

	if err := s.db.WithContext(ctx).Create(&cat).Error; err != nil {
		s.logError(opCreate, "insert_failed", err)
		return Cat{}, newServiceError(opCreate, "insert_failed", err)
	}

	s.logger.Info("cat created",
		zap.Uint("cat_id", cat.ID),
		zap.Uint("owner_id", req.ActorID),
		zap.String("tag", cat.Tag))
	return cat, nil
}

// Update applies full-replace semantics under the ownership rule. The write
// itself is conditioned on owner-match-or-null so the check and the mutation
// cannot race; a null owner is claimed by the acting identity as part of the
// same statement.
func (s *Service) Update(ctx context.Context, catID uint, req UpdateRequest) (Cat, error) {
	name := normalize(req.Name)
	tag := normalize(req.Tag)
	if name == "" || tag == "" {
		return Cat{}, ErrMissingRequiredField
	}

	columns := map[string]interface{}{
		"name":        name,
		"tag":         tag,
		"description": normalize(req.Description),
		"age":         req.Age,
		"origin":      normalize(req.Origin),
		"gender":      normalize(req.Gender),
		"owner_id":    req.ActorID,
	}
	if image := normalize(req.Image); image != "" {
		columns["img"] = image
	}

	var updated Cat
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Cat{}).
			Where("id = ? AND (owner_id IS NULL OR owner_id = ?)", catID, req.ActorID).
			Updates(columns)
		if result.Error != nil {
			s.logError(opUpdate, "update_failed", result.Error, zap.Uint("cat_id", catID))
			return newServiceError(opUpdate, "update_failed", result.Error)
		}
		if result.RowsAffected == 0 {
			return s.classifyDenied(tx, catID)
		}
		if err := tx.Take(&updated, catID).Error; err != nil {
			s.logError(opUpdate, "reload_failed", err, zap.Uint("cat_id", catID))
			return newServiceError(opUpdate, "reload_failed", err)
		}
		return nil
	})
	if txErr != nil {
		return Cat{}, txErr
	}

	return updated, nil
}

// Delete removes a record under the same conditional ownership predicate and
// drops any adoption links referencing it within the same transaction.
func (s *Service) Delete(ctx context.Context, catID uint, actorID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND (owner_id IS NULL OR owner_id = ?)", catID, actorID).
			Delete(&Cat{})
		if result.Error != nil {
			s.logError(opDelete, "delete_failed", result.Error, zap.Uint("cat_id", catID))
			return newServiceError(opDelete, "delete_failed", result.Error)
		}
		if result.RowsAffected == 0 {
			return s.classifyDenied(tx, catID)
		}
		if err := tx.Exec("DELETE FROM adoptions WHERE cat_id = ?", catID).Error; err != nil {
			s.logError(opDelete, "adoption_cascade_failed", err, zap.Uint("cat_id", catID))
			return newServiceError(opDelete, "adoption_cascade_failed", err)
		}
		s.logger.Info("cat deleted", zap.Uint("cat_id", catID), zap.Uint("actor_id", actorID))
		return nil
	})
}

// DistinctTags returns the distinct non-empty tag values in lexicographic order.
func (s *Service) DistinctTags(ctx context.Context) ([]string, error) {
	tags := make([]string, 0)
	err := s.db.WithContext(ctx).Model(&Cat{}).
		Distinct("tag").
		Where("tag <> ''").
		Order("tag ASC").
		Pluck("tag", &tags).Error
	if err != nil {
		s.logError(opDistinctTags, "query_failed", err)
		return nil, newServiceError(opDistinctTags, "query_failed", err)
	}
	return tags, nil
}

// classifyDenied distinguishes a vanished record from a foreign-owned one
// after a conditional write matched nothing.
func (s *Service) classifyDenied(tx *gorm.DB, catID uint) error {
	var existing Cat
	err := tx.Take(&existing, catID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCatNotFound
	}
	if err != nil {
		return newServiceError(opUpdate, "ownership_check_failed", err)
	}
	return ErrNotOwner
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
	s.logger.Error("cats service error", attrs...)
}
