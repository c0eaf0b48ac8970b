package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"bookshelf/internal/apperrors"
	"bookshelf/internal/http-api/dto"
	"bookshelf/internal/http-api/models"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(errors.New("boom")))
}

func TestIsCheckViolation(t *testing.T) {
	assert.True(t, isCheckViolation(gorm.ErrCheckConstraintViolated))
	assert.True(t, isCheckViolation(fmt.Errorf("update: %w", &pgconn.PgError{Code: "23514"})))
	assert.False(t, isCheckViolation(&pgconn.PgError{Code: "23505"}))
}

func TestOrderFor(t *testing.T) {
	assert.Equal(t, "title asc, id asc", orderFor(""))
	assert.Equal(t, "title desc, id desc", orderFor(SortTitleDesc))
	assert.Equal(t, "created_at desc, id desc", orderFor(SortCreatedDesc))
	assert.True(t, ValidSort(SortCreated))
	assert.False(t, ValidSort("pages"))
}

// GormStoreSuite runs against BOOKSHELF_TEST_DATABASE_URL when set, otherwise
// against a throwaway postgres container.
type GormStoreSuite struct {
	suite.Suite
	db    *gorm.DB
	store *GormStore
	ctx   context.Context
}

func TestGormStoreSuite(t *testing.T) {
	dsn := os.Getenv("BOOKSHELF_TEST_DATABASE_URL")
	if dsn == "" {
		dsn = startPostgres(t)
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}
	suite.Run(t, &GormStoreSuite{db: db})
}

// startPostgres boots postgres:16-alpine and returns its DSN. The container is
// removed when the test ends.
func startPostgres(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container skipped in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "bookshelf",
				"POSTGRES_PASSWORD": "bookshelf",
				"POSTGRES_DB":       "bookshelf_test",
			},
			// postgres logs readiness once for the init server and once for the real one
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	testcontainers.CleanupContainer(t, c)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("postgres host: %v", err)
	}
	port, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("postgres port: %v", err)
	}
	return fmt.Sprintf("host=%s port=%s user=bookshelf password=bookshelf dbname=bookshelf_test sslmode=disable",
		host, port.Port())
}

func (s *GormStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.Require().NoError(s.db.Migrator().DropTable(&models.Book{}, &models.Genre{}))
	s.Require().NoError(s.db.AutoMigrate(&models.Genre{}, &models.Book{}))
	s.store = NewGormStore(s.db)
}

func (s *GormStoreSuite) TestCreateFindUpdateDelete() {
	g, err := s.store.UpsertGenreByName(s.ctx, "Science Fiction")
	s.Require().NoError(err)

	created, err := s.store.CreateBook(s.ctx, models.BookPatch{
		models.ColTitle:    "Dune",
		models.ColAuthor:   "Frank Herbert",
		models.ColGenreID:  g.ID,
		models.ColPages:    688,
		models.ColSynopsis: "Spice",
		models.ColStatus:   string(models.StatusReading),
	})
	s.Require().NoError(err)
	s.NotZero(created.ID)
	s.Equal("Science Fiction", created.Genre.Name)

	updated, err := s.store.UpdateBook(s.ctx, created.ID, models.BookPatch{models.ColSynopsis: nil})
	s.Require().NoError(err)
	s.Nil(updated.Synopsis)
	s.Require().NotNil(updated.Pages)
	s.Equal(688, *updated.Pages)

	list, total, err := s.store.FindAllBooks(s.ctx, dto.BookFilter{Query: "herbert"})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Len(list, 1)

	s.Require().NoError(s.store.DeleteBook(s.ctx, created.ID))
	s.True(errors.Is(s.store.DeleteBook(s.ctx, created.ID), apperrors.ErrNotFound))

	_, err = s.store.UpdateBook(s.ctx, created.ID, models.BookPatch{models.ColTitle: "x"})
	s.True(errors.Is(err, apperrors.ErrNotFound))
}

func (s *GormStoreSuite) TestGenreUpsertAndConflict() {
	a, err := s.store.UpsertGenreByName(s.ctx, "Fantasy")
	s.Require().NoError(err)
	b, err := s.store.UpsertGenreByName(s.ctx, "Fantasy")
	s.Require().NoError(err)
	s.Equal(a.ID, b.ID)

	_, err = s.store.CreateGenre(s.ctx, "Fantasy")
	s.True(errors.Is(err, apperrors.ErrConflict))

	genres, err := s.store.FindAllGenres(s.ctx)
	s.Require().NoError(err)
	s.Len(genres, 1)

	s.Require().NoError(s.store.DeleteGenreByName(s.ctx, "Fantasy"))
	s.True(errors.Is(s.store.DeleteGenreByName(s.ctx, "Fantasy"), apperrors.ErrNotFound))
}

func (s *GormStoreSuite) TestDeleteGenreSetsBooksUngenred() {
	g, err := s.store.CreateGenre(s.ctx, "Horror")
	s.Require().NoError(err)
	b, err := s.store.CreateBook(s.ctx, models.BookPatch{
		models.ColTitle:   "It",
		models.ColAuthor:  "Stephen King",
		models.ColGenreID: g.ID,
		models.ColStatus:  string(models.StatusRead),
	})
	s.Require().NoError(err)

	s.Require().NoError(s.store.DeleteGenreByName(s.ctx, "Horror"))

	got, err := s.store.FindBookByID(s.ctx, b.ID)
	s.Require().NoError(err)
	s.Nil(got.GenreID)
}

func (s *GormStoreSuite) TestRowChecksRejectConflictingPatch() {
	created, err := s.store.CreateBook(s.ctx, models.BookPatch{
		models.ColTitle:       "Dune",
		models.ColAuthor:      "Frank Herbert",
		models.ColPages:       688,
		models.ColCurrentPage: 100,
		models.ColStatus:      string(models.StatusReading),
	})
	s.Require().NoError(err)

	_, err = s.store.UpdateBook(s.ctx, created.ID, models.BookPatch{models.ColPages: 200})
	s.Require().NoError(err)
	_, err = s.store.UpdateBook(s.ctx, created.ID, models.BookPatch{models.ColCurrentPage: 600})
	s.True(errors.Is(err, apperrors.ErrConflict))

	got, err := s.store.FindBookByID(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal(100, *got.CurrentPage)
}

func (s *GormStoreSuite) TestPageBeyondRangeIsEmpty() {
	_, err := s.store.CreateBook(s.ctx, models.BookPatch{
		models.ColTitle:  "Emma",
		models.ColAuthor: "Jane Austen",
		models.ColStatus: string(models.StatusRead),
	})
	s.Require().NoError(err)

	list, total, err := s.store.FindAllBooks(s.ctx, dto.BookFilter{Page: 1 << 30, PageSize: 20})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Empty(list)
}
