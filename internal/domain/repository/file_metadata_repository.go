package repository

import (
	"context"

	"gamemarket/internal/domain/entity"
)

type FileMetadataRepository interface {
	Create(ctx context.Context, metadata *entity.FileMetadata) error
	GetByID(ctx context.Context, id string) (*entity.FileMetadata, error)
	ListByOwnerID(ctx context.Context, ownerID string, limit, offset int) ([]*entity.FileMetadata, int64, error)
	Delete(ctx context.Context, id string) error
}
