package application

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/reelstack/reelstack-api/internal/domain/entity"
	repo "github.com/reelstack/reelstack-api/internal/domain/repository"
	"github.com/reelstack/reelstack-api/pkg/helpers"
)

var (
	ErrNameTaken       = errors.New("name already exists")
	ErrUnknownCategory = errors.New("category does not exist")
)

const (
	categoriesCacheKey = "catalog:categories"
	catalogCacheTTL    = 60 * time.Second
)

// CatalogService serves categories and movies. The category list is
// cached in redis and invalidated on every category write; cache
// failures degrade to the store, they never fail a request.
type CatalogService struct {
	Categories repo.CategoryRepository
	Movies     repo.MovieRepository
	Redis      *redis.Client
	Logger     *logrus.Logger
}

func NewCatalogService(categories repo.CategoryRepository, movies repo.MovieRepository, rdb *redis.Client, logger *logrus.Logger) *CatalogService {
	return &CatalogService{Categories: categories, Movies: movies, Redis: rdb, Logger: logger}
}

func (s *CatalogService) dropCategoriesCache(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, categoriesCacheKey); err != nil && s.Logger != nil {
		s.Logger.WithError(err).Warn("category cache invalidation failed")
	}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	if s.Redis != nil {
		var cached []entity.Category
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, categoriesCacheKey, &cached); err == nil && ok {
			return cached, nil
		}
	}
	cats, err := s.Categories.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, categoriesCacheKey, cats, catalogCacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("category cache write failed")
		}
	}
	return cats, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id int64) (*entity.Category, error) {
	return s.Categories.GetByID(ctx, id)
}

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*entity.Category, error) {
	exists, err := s.Categories.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrNameTaken
	}
	c := &entity.Category{Name: name}
	if err := s.Categories.Create(ctx, c); err != nil {
		return nil, err
	}
	s.dropCategoriesCache(ctx)
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id int64, name string) (*entity.Category, error) {
	c := &entity.Category{ID: id, Name: name}
	if err := s.Categories.Update(ctx, c); err != nil {
		return nil, err
	}
	s.dropCategoriesCache(ctx)
	return s.Categories.GetByID(ctx, id)
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.Categories.Delete(ctx, id); err != nil {
		return err
	}
	s.dropCategoriesCache(ctx)
	return nil
}

// MoviePage is one page of the movie listing.
type MoviePage struct {
	Movies   []entity.Movie `json:"movies"`
	Total    int            `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

func (s *CatalogService) ListMovies(ctx context.Context, page, pageSize int) (MoviePage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	movies, total, err := s.Movies.List(ctx, page, pageSize)
	if err != nil {
		return MoviePage{}, err
	}
	return MoviePage{Movies: movies, Total: total, Page: page, PageSize: pageSize}, nil
}

func (s *CatalogService) GetMovie(ctx context.Context, id int64) (*entity.Movie, error) {
	return s.Movies.GetByID(ctx, id)
}

func (s *CatalogService) CreateMovie(ctx context.Context, m *entity.Movie) error {
	exists, err := s.Movies.ExistsByName(ctx, m.Name)
	if err != nil {
		return err
	}
	if exists {
		return ErrNameTaken
	}
	catOK, err := s.Categories.ExistsByID(ctx, m.CategoryID)
	if err != nil {
		return err
	}
	if !catOK {
		return ErrUnknownCategory
	}
	return s.Movies.Create(ctx, m)
}

func (s *CatalogService) UpdateMovie(ctx context.Context, m *entity.Movie) error {
	catOK, err := s.Categories.ExistsByID(ctx, m.CategoryID)
	if err != nil {
		return err
	}
	if !catOK {
		return ErrUnknownCategory
	}
	return s.Movies.Update(ctx, m)
}

func (s *CatalogService) DeleteMovie(ctx context.Context, id int64) error {
	return s.Movies.Delete(ctx, id)
}

func (s *CatalogService) MoviesInCategory(ctx context.Context, categoryID int64) ([]entity.Movie, error) {
	ok, err := s.Categories.ExistsByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnknownCategory
	}
	return s.Movies.ListByCategory(ctx, categoryID)
}

func (s *CatalogService) SearchMovies(ctx context.Context, query string) ([]entity.Movie, error) {
	return s.Movies.Search(ctx, query)
}
