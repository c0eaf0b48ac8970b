package repository

import (
	"context"
	"strings"

	"bookshelf/internal/apperrors"
	"bookshelf/internal/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GenreRepo struct {
	db *gorm.DB
}

func NewGenreRepo(db *gorm.DB) *GenreRepo {
	return &GenreRepo{db: db}
}

func (r *GenreRepo) FindAllGenres(ctx context.Context) ([]models.Genre, error) {
	var list []models.Genre
	if err := r.db.WithContext(ctx).Order("name asc").Find(&list).Error; err != nil {
		return nil, apperrors.Store("get genres", err)
	}
	return list, nil
}

func (r *GenreRepo) FindGenreByID(ctx context.Context, id int64) (*models.Genre, error) {
	var g models.Genre
	if err := r.db.WithContext(ctx).First(&g, id).Error; err != nil {
		if isNotFound(err) {
			return nil, apperrors.NotFound("genre %d not found", id)
		}
		return nil, apperrors.Store("get genre", err)
	}
	return &g, nil
}

func (r *GenreRepo) CreateGenre(ctx context.Context, name string) (*models.Genre, error) {
	g := models.Genre{Name: strings.TrimSpace(name)}
	if err := r.db.WithContext(ctx).Create(&g).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("genre %q already exists", g.Name)
		}
		return nil, apperrors.Store("create genre", err)
	}
	return &g, nil
}

// UpsertGenreByName inserts the genre unless the name is taken, then reads
// back whichever row owns the name. Safe to retry.
func (r *GenreRepo) UpsertGenreByName(ctx context.Context, name string) (*models.Genre, error) {
	name = strings.TrimSpace(name)
	db := r.db.WithContext(ctx)

	g := models.Genre{Name: name}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&g).Error; err != nil {
		return nil, apperrors.Store("upsert genre", err)
	}

	var out models.Genre
	if err := db.Where("name = ?", name).First(&out).Error; err != nil {
		return nil, apperrors.Store("upsert genre", err)
	}
	return &out, nil
}

func (r *GenreRepo) DeleteGenreByName(ctx context.Context, name string) error {
	res := r.db.WithContext(ctx).Where("name = ?", strings.TrimSpace(name)).Delete(&models.Genre{})
	if res.Error != nil {
		return apperrors.Store("delete genre", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("genre %q not found", name)
	}
	return nil
}
