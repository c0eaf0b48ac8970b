package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/apperrors"
	"bookshelf/internal/cache"
	"bookshelf/internal/http-api/repository"
)

func TestGenreService_CreateAndList(t *testing.T) {
	ctx := context.Background()
	svc := NewGenreService(repository.NewMemoryStore(), nil, nil)

	_, err := svc.Create(ctx, "  Poetry ")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Drama")
	require.NoError(t, err)

	list, err := svc.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Drama", list[0].Name)
	assert.Equal(t, "Poetry", list[1].Name)
}

func TestGenreService_CreateDuplicateConflicts(t *testing.T) {
	ctx := context.Background()
	svc := NewGenreService(repository.NewMemoryStore(), nil, nil)

	_, err := svc.Create(ctx, "Drama")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Drama")

	assert.True(t, errors.Is(err, apperrors.ErrConflict))
}

func TestGenreService_BlankNameIsValidationError(t *testing.T) {
	svc := NewGenreService(repository.NewMemoryStore(), nil, nil)

	_, err := svc.Create(context.Background(), "   ")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	_, err = svc.Upsert(context.Background(), "")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}

func TestGenreService_UpsertReturnsExisting(t *testing.T) {
	ctx := context.Background()
	svc := NewGenreService(repository.NewMemoryStore(), nil, nil)

	a, err := svc.Upsert(ctx, "Horror")
	require.NoError(t, err)
	b, err := svc.Upsert(ctx, "Horror")
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)
}

func TestGenreService_DeleteUnknown(t *testing.T) {
	svc := NewGenreService(repository.NewMemoryStore(), nil, nil)

	err := svc.Delete(context.Background(), "Nope")

	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestGenreService_FallsBackToStoreWhenCacheIsDown(t *testing.T) {
	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewGenreService(repository.NewMemoryStore(), cache.NewGenreCache(rdb, time.Minute), log)

	_, err := svc.Create(ctx, "Drama")
	require.NoError(t, err)

	list, err := svc.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
