package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reelstack/reelstack-api/internal/domain/entity"
	"github.com/reelstack/reelstack-api/internal/domain/repository"
)

type MovieRepository struct {
	pool *pgxpool.Pool
}

func NewMovieRepository(pool *pgxpool.Pool) *MovieRepository {
	return &MovieRepository{pool: pool}
}

const movieColumns = `id, name, description, image_url, duration_minutes, age_rating, category_id, created_at`

func scanMovie(row pgx.Row) (*entity.Movie, error) {
	m := &entity.Movie{}
	if err := row.Scan(&m.ID, &m.Name, &m.Description, &m.ImageURL, &m.Duration,
		&m.AgeRating, &m.CategoryID, &m.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return m, nil
}

func scanMovies(rows pgx.Rows) ([]entity.Movie, error) {
	defer rows.Close()
	var movies []entity.Movie
	for rows.Next() {
		m := entity.Movie{}
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.ImageURL, &m.Duration,
			&m.AgeRating, &m.CategoryID, &m.CreatedAt); err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

func (r *MovieRepository) List(ctx context.Context, page, pageSize int) ([]entity.Movie, int, error) {
	if page < 1 {
		page = 1
	}
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM movies`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+movieColumns+`
		FROM movies
		ORDER BY name
		OFFSET $1 LIMIT $2
	`, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, err
	}
	movies, err := scanMovies(rows)
	return movies, total, err
}

func (r *MovieRepository) GetByID(ctx context.Context, id int64) (*entity.Movie, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+movieColumns+`
		FROM movies
		WHERE id = $1
	`, id)
	return scanMovie(row)
}

func (r *MovieRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM movies WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *MovieRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM movies WHERE lower(trim(name)) = lower(trim($1)))`, name).Scan(&exists)
	return exists, err
}

func (r *MovieRepository) Create(ctx context.Context, m *entity.Movie) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO movies (name, description, image_url, duration_minutes, age_rating, category_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, m.Name, m.Description, m.ImageURL, m.Duration, m.AgeRating, m.CategoryID).Scan(&m.ID, &m.CreatedAt)
}

func (r *MovieRepository) Update(ctx context.Context, m *entity.Movie) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE movies
		SET name = $1, description = $2, image_url = $3,
		    duration_minutes = $4, age_rating = $5, category_id = $6
		WHERE id = $7
	`, m.Name, m.Description, m.ImageURL, m.Duration, m.AgeRating, m.CategoryID, m.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MovieRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MovieRepository) ListByCategory(ctx context.Context, categoryID int64) ([]entity.Movie, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+movieColumns+`
		FROM movies
		WHERE category_id = $1
		ORDER BY name
	`, categoryID)
	if err != nil {
		return nil, err
	}
	return scanMovies(rows)
}

func (r *MovieRepository) Search(ctx context.Context, query string) ([]entity.Movie, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+movieColumns+`
		FROM movies
		WHERE name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%'
		ORDER BY name
	`, query)
	if err != nil {
		return nil, err
	}
	return scanMovies(rows)
}

var _ repository.MovieRepository = (*MovieRepository)(nil)
