package postgres

import (
	"context"

	"github.com/polkiloo/sourbakery/internal/domain/model"
)

func (r *adminRepository) Upsert(ctx context.Context, email, passwordHash string) (*model.Admin, error) {
	const query = `INSERT INTO admins (email, password_hash) VALUES ($1, $2)
        ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash
        RETURNING email, password_hash, created_at`

	var admin model.Admin
	if err := r.storage.pool.QueryRow(ctx, query, email, passwordHash).Scan(&admin.Email, &admin.PasswordHash, &admin.CreatedAt); err != nil {
		return nil, classify(err)
	}
	return &admin, nil
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	const query = `SELECT email, password_hash, created_at FROM admins WHERE email = $1`

	var admin model.Admin
	if err := r.storage.pool.QueryRow(ctx, query, email).Scan(&admin.Email, &admin.PasswordHash, &admin.CreatedAt); err != nil {
		return nil, classify(err)
	}
	return &admin, nil
}
