package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"consignparts/internal/model"
)

// PartFilter narrows the admin parts listing. All supplied filters are
// combined with AND; zero values are ignored. Pagination is 1-indexed.
type PartFilter struct {
	PartNumber  string // substring, case-insensitive
	Serial      string // substring, case-insensitive
	Description string // substring, case-insensitive
	Condition   string // exact
	Date        string // exact date_added, YYYY-MM-DD
	Code        string // substring on consigner code, case-insensitive
	Page        int
	PageSize    int
}

// PartWithCode is a listing row annotated with the owning consigner's code.
type PartWithCode struct {
	model.Part
	ConsignerCode string `json:"consigner_code" gorm:"column:consigner_code"`
}

// PartRepository defines part persistence operations.
type PartRepository interface {
	Create(ctx context.Context, part *model.Part) error
	Update(ctx context.Context, part *model.Part) error
	FindByID(ctx context.Context, id uint) (*model.Part, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.Part, error)
	Delete(ctx context.Context, id uint) error
	ListByUser(ctx context.Context, userID uint, status string) ([]model.Part, error)
	ListUnsold(ctx context.Context, filter PartFilter) ([]PartWithCode, int64, error)
	// WithTransaction runs fn against a transactional copy of the
	// repository; multi-part mutations commit or roll back together.
	WithTransaction(ctx context.Context, fn func(repo PartRepository) error) error
}

type partRepository struct {
	db *gorm.DB
}

// NewPartRepository builds a GORM-backed repository.
func NewPartRepository(db *gorm.DB) PartRepository {
	return &partRepository{db: db}
}

func (r *partRepository) Create(ctx context.Context, part *model.Part) error {
	return r.db.WithContext(ctx).Create(part).Error
}

func (r *partRepository) Update(ctx context.Context, part *model.Part) error {
	return r.db.WithContext(ctx).Save(part).Error
}

func (r *partRepository) FindByID(ctx context.Context, id uint) (*model.Part, error) {
	var part model.Part
	if err := r.db.WithContext(ctx).First(&part, id).Error; err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *partRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Part, error) {
	var parts []model.Part
	if len(ids) == 0 {
		return parts, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&parts).Error; err != nil {
		return nil, err
	}
	return parts, nil
}

func (r *partRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Part{}, id).Error
}

// ListByUser returns a consigner's parts, newest first, optionally
// restricted to one status. This is the only listing that sees sold
// parts.
func (r *partRepository) ListByUser(ctx context.Context, userID uint, status string) ([]model.Part, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var parts []model.Part
	if err := q.Order("date_added DESC").Find(&parts).Error; err != nil {
		return nil, err
	}
	return parts, nil
}

// ListUnsold returns a page of unsold parts matching the filter plus
// the total match count before pagination.
func (r *partRepository) ListUnsold(ctx context.Context, filter PartFilter) ([]PartWithCode, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Part{}).
		Joins("JOIN users ON users.id = parts.user_id").
		Where("parts.status = ?", model.PartStatusUnsold)

	if filter.PartNumber != "" {
		q = q.Where("LOWER(parts.part_number) LIKE ?", "%"+strings.ToLower(filter.PartNumber)+"%")
	}
	if filter.Serial != "" {
		q = q.Where("LOWER(parts.serial_number) LIKE ?", "%"+strings.ToLower(filter.Serial)+"%")
	}
	if filter.Description != "" {
		q = q.Where("LOWER(parts.description) LIKE ?", "%"+strings.ToLower(filter.Description)+"%")
	}
	if filter.Condition != "" {
		q = q.Where("parts.condition = ?", filter.Condition)
	}
	if filter.Date != "" {
		q = q.Where("parts.date_added = ?", filter.Date)
	}
	if filter.Code != "" {
		q = q.Where("LOWER(users.code) LIKE ?", "%"+strings.ToLower(filter.Code)+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 40
	}

	var rows []PartWithCode
	err := q.Select("parts.*, users.code AS consigner_code").
		Order("parts.id").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// WithTransaction executes fn within a database transaction.
func (r *partRepository) WithTransaction(ctx context.Context, fn func(repo PartRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&partRepository{db: tx})
	})
}
