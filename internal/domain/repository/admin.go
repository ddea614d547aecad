package repository

import (
	"context"

	"github.com/polkiloo/sourbakery/internal/domain/model"
)

// AdminRepository stores admin credentials.
type AdminRepository interface {
	Upsert(ctx context.Context, email, passwordHash string) (*model.Admin, error)
	GetByEmail(ctx context.Context, email string) (*model.Admin, error)
}
