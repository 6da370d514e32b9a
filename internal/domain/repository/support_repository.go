package repository

import (
	"context"

	"gamemarket/internal/domain/entity"
)

type SupportRepository interface {
	Create(ctx context.Context, ticket *entity.SupportTicket) error
	GetByID(ctx context.Context, id string) (*entity.SupportTicket, error)
	Update(ctx context.Context, ticket *entity.SupportTicket) error
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.SupportTicket, int64, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.SupportTicket, int64, error)
}
