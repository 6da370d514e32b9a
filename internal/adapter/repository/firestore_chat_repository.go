package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gamemarket/internal/domain/entity"
	"gamemarket/internal/domain/repository"
	"gamemarket/pkg/errors"
)

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

// Chat documents are keyed by the sorted participant pair, messages live in a
// subcollection under the room.
func (r *firestoreChatRepository) chatRef(id string) *firestore.DocumentRef {
	return r.client.Collection("chats").Doc(id)
}

func (r *firestoreChatRepository) messagesRef(chatID string) *firestore.CollectionRef {
	return r.chatRef(chatID).Collection("messages")
}

func (r *firestoreChatRepository) GetOrCreate(ctx context.Context, chat *entity.Chat) (*entity.Chat, error) {
	if len(chat.Participants) != 2 {
		return nil, errors.BadRequest("A chat requires exactly two participants", nil)
	}
	chat.ID = entity.ChatPairKey(chat.Participants[0], chat.Participants[1])

	var result entity.Chat
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(r.chatRef(chat.ID))
		if err == nil {
			return doc.DataTo(&result)
		}
		if status.Code(err) != codes.NotFound {
			return err
		}

		now := time.Now()
		chat.CreatedAt = now
		chat.UpdatedAt = now
		chat.LastMessageAt = now
		if chat.UnreadCount == nil {
			chat.UnreadCount = map[string]int{}
		}
		if err := tx.Set(r.chatRef(chat.ID), chat); err != nil {
			return err
		}

		result = *chat
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *firestoreChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	doc, err := r.chatRef(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Chat", err)
		}
		return nil, errors.Internal("Failed to get chat", err)
	}

	var chat entity.Chat
	if err := doc.DataTo(&chat); err != nil {
		return nil, errors.Internal("Failed to parse chat data", err)
	}
	return &chat, nil
}

func (r *firestoreChatRepository) Update(ctx context.Context, chat *entity.Chat) error {
	chat.UpdatedAt = time.Now()
	_, err := r.chatRef(chat.ID).Set(ctx, chat)
	if err != nil {
		return errors.Internal("Failed to update chat", err)
	}
	return nil
}

func (r *firestoreChatRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Chat, int64, error) {
	query := r.client.Collection("chats").
		Where("participants", "array-contains", userID).
		OrderBy("lastMessageAt", firestore.Desc)

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count chats", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var chats []*entity.Chat
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to list chats", err)
		}

		var chat entity.Chat
		if err := doc.DataTo(&chat); err != nil {
			return nil, 0, errors.Internal("Failed to parse chat data", err)
		}
		chats = append(chats, &chat)
	}

	return chats, total, nil
}

func (r *firestoreChatRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = time.Now()

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		chatDoc, err := tx.Get(r.chatRef(message.ChatID))
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Chat", err)
			}
			return err
		}

		var chat entity.Chat
		if err := chatDoc.DataTo(&chat); err != nil {
			return err
		}

		if err := tx.Set(r.messagesRef(message.ChatID).Doc(message.ID), message); err != nil {
			return err
		}

		if chat.UnreadCount == nil {
			chat.UnreadCount = map[string]int{}
		}
		for _, participant := range chat.Participants {
			if participant != message.SenderID {
				chat.UnreadCount[participant]++
			}
		}
		chat.LastMessage = message.Content
		chat.LastMessageAt = message.CreatedAt
		chat.UpdatedAt = message.CreatedAt
		return tx.Set(r.chatRef(message.ChatID), &chat)
	})
}

func (r *firestoreChatRepository) GetMessage(ctx context.Context, chatID, messageID string) (*entity.Message, error) {
	doc, err := r.messagesRef(chatID).Doc(messageID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Message", err)
		}
		return nil, errors.Internal("Failed to get message", err)
	}

	var message entity.Message
	if err := doc.DataTo(&message); err != nil {
		return nil, errors.Internal("Failed to parse message data", err)
	}
	return &message, nil
}

func (r *firestoreChatRepository) UpdateMessage(ctx context.Context, message *entity.Message) error {
	_, err := r.messagesRef(message.ChatID).Doc(message.ID).Set(ctx, message)
	if err != nil {
		return errors.Internal("Failed to update message", err)
	}
	return nil
}

func (r *firestoreChatRepository) ListMessages(ctx context.Context, chatID string, limit, offset int) ([]*entity.Message, int64, error) {
	query := r.messagesRef(chatID).OrderBy("createdAt", firestore.Desc)

	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count messages", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var messages []*entity.Message
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to list messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			return nil, 0, errors.Internal("Failed to parse message data", err)
		}
		messages = append(messages, &message)
	}

	return messages, total, nil
}

func (r *firestoreChatRepository) MarkRead(ctx context.Context, chatID, userID string) error {
	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(r.chatRef(chatID))
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Chat", err)
			}
			return err
		}

		var chat entity.Chat
		if err := doc.DataTo(&chat); err != nil {
			return err
		}

		if chat.UnreadCount == nil {
			chat.UnreadCount = map[string]int{}
		}
		chat.UnreadCount[userID] = 0
		chat.UpdatedAt = time.Now()
		return tx.Set(r.chatRef(chatID), &chat)
	})
}
