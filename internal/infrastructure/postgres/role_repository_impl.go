package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reelstack/reelstack-api/internal/domain/entity"
	"github.com/reelstack/reelstack-api/internal/domain/repository"
)

// RoleRepository is the pgx-backed role registry. Creation and
// assignment both ride on ON CONFLICT DO NOTHING, which makes them
// safe for concurrent first-time callers.
type RoleRepository struct {
	pool *pgxpool.Pool
}

func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{pool: pool}
}

func (r *RoleRepository) EnsureExist(ctx context.Context, names ...string) error {
	for _, name := range names {
		if _, err := r.pool.Exec(ctx, `
			INSERT INTO roles (name) VALUES ($1)
			ON CONFLICT (name) DO NOTHING
		`, name); err != nil {
			return fmt.Errorf("ensure role %q: %w", name, err)
		}
	}
	return nil
}

func (r *RoleRepository) Assign(ctx context.Context, u *entity.User, roleName string) error {
	var roleID string
	err := r.pool.QueryRow(ctx, `SELECT id FROM roles WHERE name = $1`, roleName).Scan(&roleID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return fmt.Errorf("assign role: role %q does not exist", roleName)
		}
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO user_roles (user_id, role_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role_id) DO NOTHING
	`, u.ID, roleID)
	return err
}

var _ repository.RoleRepository = (*RoleRepository)(nil)
