package repository

import (
	"context"

	"bookshelf/internal/apperrors"

	"gorm.io/gorm"
)

// GormStore is the postgres-backed CatalogueStore.
type GormStore struct {
	*BookRepo
	*GenreRepo
	db *gorm.DB
}

var _ CatalogueStore = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		BookRepo:  NewBookRepo(db),
		GenreRepo: NewGenreRepo(db),
		db:        db,
	}
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return apperrors.Store("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return apperrors.Store("ping", err)
	}
	return nil
}
