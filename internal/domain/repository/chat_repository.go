package repository

import (
	"context"

	"gamemarket/internal/domain/entity"
)

type ChatRepository interface {
	// GetOrCreate looks up the room by its deterministic pair key and creates
	// it when absent.
	GetOrCreate(ctx context.Context, chat *entity.Chat) (*entity.Chat, error)
	GetByID(ctx context.Context, id string) (*entity.Chat, error)
	Update(ctx context.Context, chat *entity.Chat) error
	ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Chat, int64, error)

	CreateMessage(ctx context.Context, message *entity.Message) error
	GetMessage(ctx context.Context, chatID, messageID string) (*entity.Message, error)
	UpdateMessage(ctx context.Context, message *entity.Message) error
	ListMessages(ctx context.Context, chatID string, limit, offset int) ([]*entity.Message, int64, error)
	MarkRead(ctx context.Context, chatID, userID string) error
}
