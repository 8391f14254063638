// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pocketledger/backend/internal/application/adapter"
	"github.com/pocketledger/backend/internal/application/usecase/stats"
	"github.com/pocketledger/backend/internal/domain/entity"
	domainerror "github.com/pocketledger/backend/internal/domain/error"
	"github.com/pocketledger/backend/internal/integration/persistence/model"
)

// EntryRepository implements adapter.EntryRepository and stats.EntrySource.
type EntryRepository struct {
	db *gorm.DB
}

// NewEntryRepository creates a new entry repository instance.
func NewEntryRepository(db *gorm.DB) *EntryRepository {
	return &EntryRepository{
		db: db,
	}
}

// Compile-time interface checks.
var (
	_ adapter.EntryRepository = (*EntryRepository)(nil)
	_ stats.EntrySource       = (*EntryRepository)(nil)
)

// Create creates a new entry in the database.
func (r *EntryRepository) Create(ctx context.Context, e *entity.Entry) error {
	entryModel := model.EntryFromEntity(e)
	if err := r.db.WithContext(ctx).Create(entryModel).Error; err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}
	return nil
}

// FindByID retrieves an entry by its ID.
func (r *EntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Entry, error) {
	var entryModel model.EntryModel
	err := r.db.WithContext(ctx).First(&entryModel, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerror.NewEntryError(
				domainerror.ErrCodeEntryNotFound,
				"entry not found",
				domainerror.ErrEntryNotFound,
			)
		}
		return nil, fmt.Errorf("failed to find entry: %w", err)
	}
	return entryModel.ToEntity(), nil
}

// FindByUser retrieves all entries for a given user, ordered by date.
func (r *EntryRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Entry, error) {
	var models []model.EntryModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date ASC, created_at ASC, id ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find entries: %w", err)
	}
	return toEntities(models), nil
}

// FindPageByUser retrieves one ordered page of a user's entries. The ordering
// includes the primary key so successive pages never overlap.
func (r *EntryRepository) FindPageByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit, offset int,
) ([]*entity.Entry, error) {
	var models []model.EntryModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date ASC, created_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find entry page: %w", err)
	}
	return toEntities(models), nil
}

// CountByUser returns the number of stored entries for a user.
func (r *EntryRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.EntryModel{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return count, nil
}

// PagesByUser returns a restartable pager over the user's entries. Each pull
// performs one query and honors the pull context.
func (r *EntryRepository) PagesByUser(userID uuid.UUID, pageSize int) stats.EntryPager {
	if pageSize <= 0 {
		pageSize = stats.DefaultPageSize
	}
	return &entryPager{
		repo:     r,
		userID:   userID,
		pageSize: pageSize,
	}
}

// List retrieves entries matching the filter with pagination.
func (r *EntryRepository) List(
	ctx context.Context,
	filter adapter.EntryFilter,
	pagination adapter.EntryPagination,
) (*entity.EntryListResult, error) {
	query := r.db.WithContext(ctx).
		Model(&model.EntryModel{}).
		Where("user_id = ?", filter.UserID)

	if filter.StartDate != nil {
		query = query.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("date <= ?", *filter.EndDate)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", string(*filter.Type))
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}

	offset := (pagination.Page - 1) * pagination.Limit

	var models []model.EntryModel
	err := query.
		Order("date DESC, created_at DESC, id DESC").
		Limit(pagination.Limit).
		Offset(offset).
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	totalPages := int((total + int64(pagination.Limit) - 1) / int64(pagination.Limit))

	return &entity.EntryListResult{
		Entries:    toEntities(models),
		Total:      total,
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		TotalPages: totalPages,
	}, nil
}

// entryPager pulls successive limit/offset pages for one user.
type entryPager struct {
	repo     *EntryRepository
	userID   uuid.UUID
	pageSize int
	offset   int
	done     bool
}

// NextPage returns the next page, or nil once the sequence is exhausted.
func (p *entryPager) NextPage(ctx context.Context) ([]*entity.Entry, error) {
	if p.done {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := p.repo.FindPageByUser(ctx, p.userID, p.pageSize, p.offset)
	if err != nil {
		return nil, err
	}
	if len(page) == 0 {
		p.done = true
		return nil, nil
	}

	p.offset += len(page)
	if len(page) < p.pageSize {
		p.done = true
	}
	return page, nil
}

// toEntities converts a slice of models to domain entities.
func toEntities(models []model.EntryModel) []*entity.Entry {
	entries := make([]*entity.Entry, len(models))
	for i := range models {
		entries[i] = models[i].ToEntity()
	}
	return entries
}
