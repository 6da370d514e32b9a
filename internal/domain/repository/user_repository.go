package repository

import (
	"context"

	"gamemarket/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, role string, limit, offset int) ([]*entity.User, int64, error)
	SetFlags(ctx context.Context, id string, banned, disabled *bool) (*entity.User, error)
	SetRole(ctx context.Context, id, role string) (*entity.User, error)
	UpdateRating(ctx context.Context, id string, rating float64, reviewCount int) error
	Count(ctx context.Context) (int, error)
}
