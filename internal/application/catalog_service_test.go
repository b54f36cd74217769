package application_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelstack/reelstack-api/internal/application"
	"github.com/reelstack/reelstack-api/internal/domain/entity"
	repo "github.com/reelstack/reelstack-api/internal/domain/repository"
)

type memCatalog struct {
	mu         sync.Mutex
	categories map[int64]entity.Category
	movies     map[int64]entity.Movie
	nextCat    int64
	nextMovie  int64
	listCalls  int
}

func newMemCatalog() *memCatalog {
	return &memCatalog{
		categories: map[int64]entity.Category{},
		movies:     map[int64]entity.Movie{},
		nextCat:    1,
		nextMovie:  1,
	}
}

func (s *memCatalog) List(ctx context.Context) ([]entity.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	out := make([]entity.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memCatalog) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &c, nil
}

func (s *memCatalog) ExistsByID(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.categories[id]
	return ok, nil
}

func (s *memCatalog) ExistsByName(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if strings.EqualFold(strings.TrimSpace(c.Name), strings.TrimSpace(name)) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memCatalog) Create(ctx context.Context, c *entity.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.nextCat
	c.CreatedAt = time.Now()
	s.nextCat++
	s.categories[c.ID] = *c
	return nil
}

func (s *memCatalog) Update(ctx context.Context, c *entity.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.categories[c.ID]
	if !ok {
		return repo.ErrNotFound
	}
	cur.Name = c.Name
	s.categories[c.ID] = cur
	return nil
}

func (s *memCatalog) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.categories, id)
	return nil
}

type memMovies struct {
	catalog *memCatalog
}

func (s *memMovies) sorted() []entity.Movie {
	out := make([]entity.Movie, 0, len(s.catalog.movies))
	for _, m := range s.catalog.movies {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *memMovies) List(ctx context.Context, page, pageSize int) ([]entity.Movie, int, error) {
	s.catalog.mu.Lock()
	defer s.catalog.mu.Unlock()
	all := s.sorted()
	start := (page - 1) * pageSize
	if start > len(all) {
		start = len(all)
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

func (s *memMovies) GetByID(ctx context.Context, id int64) (*entity.Movie, error) {
	s.catalog.mu.Lock()
	defer s.catalog.mu.Unlock()
	m, ok := s.catalog.movies[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &m, nil
}

func (s *memMovies) ExistsByID(ctx context.Context, id int64) (bool, error) {
	s.catalog.mu.Lock()
	defer s.catalog.mu.Unlock()
	_, ok := s.catalog.movies[id]
	return ok, nil
}

func (s *memMovies) ExistsByName(ctx context.Context, name string) (bool, error) {
	s.catalog.mu.Lock()
	defer s.catalog.mu.Unlock()
	for _, m := range s.catalog.movies {
		if strings.EqualFold(strings.TrimSpace(m.Name), strings.TrimSpace(name)) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memMovies) Create(ctx context.Context, m *entity.Movie) error {
	s.catalog.mu.Lock()
	defer s.catalog.mu.Unlock()
	m.ID = s.catalog.nextMovie
	m.CreatedAt = time.Now()
	s.catalog.nextMovie++
	s.catalog.movies[m.ID] = *m
	return nil
}

func (s *memMovies) Update(ctx context.Context, m *entity.Movie) error {
	s.catalog.mu.Lock()
	defer s.catalog.mu.Unlock()
	if _, ok := s.catalog.movies[m.ID]; !ok {
		return repo.ErrNotFound
	}
	s.catalog.movies[m.ID] = *m
	return nil
}

func (s *memMovies) Delete(ctx context.Context, id int64) error {
	s.catalog.mu.Lock()
	defer s.catalog.mu.Unlock()
	if _, ok := s.catalog.movies[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.catalog.movies, id)
	return nil
}

func (s *memMovies) ListByCategory(ctx context.Context, categoryID int64) ([]entity.Movie, error) {
	s.catalog.mu.Lock()
	defer s.catalog.mu.Unlock()
	var out []entity.Movie
	for _, m := range s.sorted() {
		if m.CategoryID == categoryID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memMovies) Search(ctx context.Context, query string) ([]entity.Movie, error) {
	s.catalog.mu.Lock()
	defer s.catalog.mu.Unlock()
	q := strings.ToLower(query)
	var out []entity.Movie
	for _, m := range s.sorted() {
		if strings.Contains(strings.ToLower(m.Name), q) || strings.Contains(strings.ToLower(m.Description), q) {
			out = append(out, m)
		}
	}
	return out, nil
}

func newCatalogService(t *testing.T) (*application.CatalogService, *memCatalog) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := newMemCatalog()
	svc := application.NewCatalogService(store, &memMovies{catalog: store}, rdb, nil)
	return svc, store
}

func TestListCategoriesUsesCache(t *testing.T) {
	svc, store := newCatalogService(t)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, "Drama")
	require.NoError(t, err)

	first, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Name, second[0].Name)
	assert.Equal(t, 1, store.listCalls, "second read should be served from cache")
}

func TestCategoryWritesInvalidateCache(t *testing.T) {
	svc, store := newCatalogService(t)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, "Drama")
	require.NoError(t, err)
	_, err = svc.ListCategories(ctx)
	require.NoError(t, err)

	_, err = svc.CreateCategory(ctx, "Comedy")
	require.NoError(t, err)

	cats, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 2)
	assert.Equal(t, 2, store.listCalls)
}

func TestCreateCategoryRejectsDuplicateName(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, "Drama")
	require.NoError(t, err)

	_, err = svc.CreateCategory(ctx, " drama ")
	assert.ErrorIs(t, err, application.ErrNameTaken)
}

func TestCreateMovieRequiresCategory(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	m := &entity.Movie{Name: "Alien", Description: "Horror in space", Duration: 117, AgeRating: 18, CategoryID: 42}
	err := svc.CreateMovie(ctx, m)
	assert.ErrorIs(t, err, application.ErrUnknownCategory)
}

func TestMoviePagination(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, "Drama")
	require.NoError(t, err)

	names := []string{"Alpha", "Bravo", "Charlie", "Delta", "Echo"}
	for _, n := range names {
		m := &entity.Movie{Name: n, Description: "d", Duration: 90, AgeRating: 13, CategoryID: cat.ID}
		require.NoError(t, svc.CreateMovie(ctx, m))
	}

	page, err := svc.ListMovies(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	require.Len(t, page.Movies, 2)
	assert.Equal(t, "Charlie", page.Movies[0].Name)
	assert.Equal(t, "Delta", page.Movies[1].Name)

	// Out-of-range values are normalized.
	page, err = svc.ListMovies(ctx, 0, 1000)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.PageSize)
	assert.Len(t, page.Movies, 5)
}

func TestSearchMovies(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, "Sci-Fi")
	require.NoError(t, err)

	first := &entity.Movie{Name: "Blade Runner", Description: "Replicants in LA", Duration: 117, AgeRating: 16, CategoryID: cat.ID}
	second := &entity.Movie{Name: "Arrival", Description: "Linguists meet heptapods", Duration: 116, AgeRating: 13, CategoryID: cat.ID}
	require.NoError(t, svc.CreateMovie(ctx, first))
	require.NoError(t, svc.CreateMovie(ctx, second))

	byName, err := svc.SearchMovies(ctx, "blade")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Blade Runner", byName[0].Name)

	byDescription, err := svc.SearchMovies(ctx, "heptapods")
	require.NoError(t, err)
	require.Len(t, byDescription, 1)
	assert.Equal(t, "Arrival", byDescription[0].Name)
}

func TestMoviesInCategory(t *testing.T) {
	svc, _ := newCatalogService(t)
	ctx := context.Background()

	drama, err := svc.CreateCategory(ctx, "Drama")
	require.NoError(t, err)
	scifi, err := svc.CreateCategory(ctx, "Sci-Fi")
	require.NoError(t, err)

	require.NoError(t, svc.CreateMovie(ctx, &entity.Movie{Name: "Alien", Description: "d", Duration: 117, AgeRating: 18, CategoryID: scifi.ID}))
	require.NoError(t, svc.CreateMovie(ctx, &entity.Movie{Name: "Amadeus", Description: "d", Duration: 160, AgeRating: 13, CategoryID: drama.ID}))

	movies, err := svc.MoviesInCategory(ctx, scifi.ID)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "Alien", movies[0].Name)

	_, err = svc.MoviesInCategory(ctx, 999)
	assert.ErrorIs(t, err, application.ErrUnknownCategory)
}
