package repository

import (
	"context"
	"strings"
	"time"

	"bookshelf/internal/apperrors"
	"bookshelf/internal/http-api/dto"
	"bookshelf/internal/http-api/models"

	"gorm.io/gorm"
)

type BookRepo struct {
	db *gorm.DB
}

func NewBookRepo(db *gorm.DB) *BookRepo {
	return &BookRepo{db: db}
}

// filtered builds a fresh query carrying only the WHERE clauses of filter,
// so it can be used once for the count and once for the page.
func (r *BookRepo) filtered(ctx context.Context, filter dto.BookFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Book{})
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.GenreID > 0 {
		q = q.Where("genre_id = ?", filter.GenreID)
	}
	if s := strings.TrimSpace(filter.Query); s != "" {
		p := "%" + s + "%"
		q = q.Where("(title ILIKE ? OR author ILIKE ?)", p, p)
	}
	return q
}

func orderFor(sort string) string {
	switch sort {
	case SortTitleDesc:
		return "title desc, id desc"
	case SortCreated:
		return "created_at asc, id asc"
	case SortCreatedDesc:
		return "created_at desc, id desc"
	default:
		return "title asc, id asc"
	}
}

func (r *BookRepo) FindAllBooks(ctx context.Context, filter dto.BookFilter) ([]models.Book, int64, error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, apperrors.Store("count books", err)
	}

	q := r.filtered(ctx, filter).Preload("Genre").Order(orderFor(filter.SortBy))
	if filter.PageSize > 0 {
		q = q.Limit(filter.PageSize).Offset(filter.Offset())
	}

	var list []models.Book
	if err := q.Find(&list).Error; err != nil {
		return nil, 0, apperrors.Store("find books", err)
	}
	return list, total, nil
}

func (r *BookRepo) FindBookByID(ctx context.Context, id int64) (*models.Book, error) {
	var b models.Book
	if err := r.db.WithContext(ctx).Preload("Genre").First(&b, id).Error; err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("book %d not found", id)
		}
		return nil, apperrors.Store("find book", err)
	}
	return &b, nil
}

func (r *BookRepo) CreateBook(ctx context.Context, patch models.BookPatch) (*models.Book, error) {
	var b models.Book
	patch.ApplyTo(&b)
	if err := r.db.WithContext(ctx).Create(&b).Error; err != nil {
		return nil, apperrors.Store("create book", err)
	}
	// GORM populates b.ID and the timestamps; reload for the genre association
	return r.FindBookByID(ctx, b.ID)
}

func (r *BookRepo) UpdateBook(ctx context.Context, id int64, patch models.BookPatch) (*models.Book, error) {
	if len(patch) == 0 {
		return r.FindBookByID(ctx, id)
	}

	values := make(map[string]any, len(patch)+1)
	for col, v := range patch {
		values[col] = v
	}
	values[models.ColUpdatedAt] = time.Now()

	res := r.db.WithContext(ctx).Model(&models.Book{}).Where("id = ?", id).Updates(values)
	if isCheckViolation(res.Error) {
		// another writer changed the columns this patch was validated against
		return nil, apperrors.Conflict("book %d was changed concurrently; reload and retry", id)
	}
	if res.Error != nil {
		return nil, apperrors.Store("update book", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.NotFound("book %d not found", id)
	}
	return r.FindBookByID(ctx, id)
}

func (r *BookRepo) DeleteBook(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&models.Book{}, id)
	if res.Error != nil {
		return apperrors.Store("delete book", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("book %d not found", id)
	}
	return nil
}
