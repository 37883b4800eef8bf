package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	dbutil "github.com/elite-acai/pdv-auth/internal/db"
	"github.com/elite-acai/pdv-auth/internal/models"
	"gorm.io/gorm"
)

// Operator lookup errors.
var (
	// ErrOperatorNotFound indicates no operator matched the lookup.
	ErrOperatorNotFound = errors.New("operator not found")
	// ErrAmbiguousOperator indicates a point lookup matched more than one row.
	ErrAmbiguousOperator = errors.New("operator lookup matched more than one record")
)

// OperatorStore is the remote operator collection used by authentication.
type OperatorStore interface {
	FindByCode(ctx context.Context, code string, activeOnly bool) (*models.Operator, error)
	FindByID(ctx context.Context, id uint64) (*models.Operator, error)
	Create(ctx context.Context, op *models.Operator) error
	TouchLastLogin(ctx context.Context, id uint64, at time.Time) error
}

// OperatorFilter narrows operator listings.
type OperatorFilter struct {
	Keyword    string
	ActiveOnly bool
}

// GormOperatorStore persists operators through GORM.
type GormOperatorStore struct {
	db *gorm.DB
}

// NewGormOperatorStore constructs a GormOperatorStore.
func NewGormOperatorStore(db *gorm.DB) *GormOperatorStore {
	return &GormOperatorStore{db: db}
}

// FindByCode returns the single operator whose code equals code exactly.
func (s *GormOperatorStore) FindByCode(ctx context.Context, code string, activeOnly bool) (*models.Operator, error) {
	q := s.db.WithContext(ctx).Model(&models.Operator{}).Where("code = ?", code)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var rows []models.Operator
	if errFind := q.Limit(2).Find(&rows).Error; errFind != nil {
		return nil, fmt.Errorf("find operator by code: %w", errFind)
	}
	switch len(rows) {
	case 0:
		return nil, ErrOperatorNotFound
	case 1:
		return &rows[0], nil
	default:
		return nil, ErrAmbiguousOperator
	}
}

// FindByID returns the operator with the given primary key.
func (s *GormOperatorStore) FindByID(ctx context.Context, id uint64) (*models.Operator, error) {
	var op models.Operator
	if errFind := s.db.WithContext(ctx).First(&op, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrOperatorNotFound
		}
		return nil, fmt.Errorf("find operator by id: %w", errFind)
	}
	return &op, nil
}

// Create inserts op and fills in its assigned identifier.
func (s *GormOperatorStore) Create(ctx context.Context, op *models.Operator) error {
	if op == nil {
		return fmt.Errorf("create operator: nil operator")
	}
	if errCreate := s.db.WithContext(ctx).Create(op).Error; errCreate != nil {
		return fmt.Errorf("create operator: %w", errCreate)
	}
	return nil
}

// TouchLastLogin advances last_login to at. An older timestamp never overwrites a newer one.
func (s *GormOperatorStore) TouchLastLogin(ctx context.Context, id uint64, at time.Time) error {
	at = at.UTC()
	res := s.db.WithContext(ctx).Model(&models.Operator{}).
		Where("id = ?", id).
		Where("last_login IS NULL OR last_login < ?", at).
		Updates(map[string]any{"last_login": at})
	if res.Error != nil {
		return fmt.Errorf("update operator last login: %w", res.Error)
	}
	return nil
}

// List returns operators ordered by code.
func (s *GormOperatorStore) List(ctx context.Context, filter OperatorFilter) ([]models.Operator, error) {
	q := s.db.WithContext(ctx).Model(&models.Operator{})
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		pattern := dbutil.NormalizeLikePattern(s.db, "%"+keyword+"%")
		q = q.Where(
			dbutil.CaseInsensitiveLikeExpr(s.db, "name")+" OR "+dbutil.CaseInsensitiveLikeExpr(s.db, "code"),
			pattern, pattern,
		)
	}
	if filter.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	var rows []models.Operator
	if errFind := q.Order("code ASC").Find(&rows).Error; errFind != nil {
		return nil, fmt.Errorf("list operators: %w", errFind)
	}
	return rows, nil
}
