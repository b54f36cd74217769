package repository

import (
	"context"

	"github.com/reelstack/reelstack-api/internal/domain/entity"
)

// CategoryRepository defines persistence for movie categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]entity.Category, error)
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, c *entity.Category) error
	Update(ctx context.Context, c *entity.Category) error
	Delete(ctx context.Context, id int64) error
}

// MovieRepository defines persistence for movies.
type MovieRepository interface {
	// List returns one page of movies ordered by name plus the total
	// number of movies in the catalog.
	List(ctx context.Context, page, pageSize int) ([]entity.Movie, int, error)
	GetByID(ctx context.Context, id int64) (*entity.Movie, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, m *entity.Movie) error
	Update(ctx context.Context, m *entity.Movie) error
	Delete(ctx context.Context, id int64) error
	ListByCategory(ctx context.Context, categoryID int64) ([]entity.Movie, error)
	// Search matches the query as a substring of name or description.
	Search(ctx context.Context, query string) ([]entity.Movie, error)
}
