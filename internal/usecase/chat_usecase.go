package usecase

import (
	"context"
	"fmt"
	"time"

	"gamemarket/internal/domain/entity"
	"gamemarket/internal/domain/repository"
	"gamemarket/internal/infrastructure/ratelimit"
	"gamemarket/pkg/errors"
)

type ChatUseCase struct {
	chatRepo    repository.ChatRepository
	listingRepo repository.GameAccountRepository
	userRepo    repository.UserRepository
	orderUC     *OrderUseCase
	notifier    Notifier
	limiter     *ratelimit.RateLimiter
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	listingRepo repository.GameAccountRepository,
	userRepo repository.UserRepository,
	orderUC *OrderUseCase,
	notifier Notifier,
	limiter *ratelimit.RateLimiter,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:    chatRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		orderUC:     orderUC,
		notifier:    notifier,
		limiter:     limiter,
	}
}

// OpenChat finds or creates the room between two users. The room ID is
// derived from the sorted pair, so both sides always land in the same room.
func (uc *ChatUseCase) OpenChat(ctx context.Context, userID, otherUserID, accountID string) (*entity.Chat, error) {
	if userID == otherUserID {
		return nil, errors.BadRequest("You cannot open a chat with yourself", nil)
	}

	other, err := uc.userRepo.GetByID(ctx, otherUserID)
	if err != nil {
		return nil, errors.NotFound("User", err)
	}
	if !other.Active() {
		return nil, errors.BadRequest("This user is not available", nil)
	}

	if accountID != "" {
		if _, err := uc.listingRepo.GetByID(ctx, accountID); err != nil {
			return nil, err
		}
	}

	return uc.chatRepo.GetOrCreate(ctx, &entity.Chat{
		Participants: []string{userID, otherUserID},
		AccountID:    accountID,
	})
}

func (uc *ChatUseCase) ListChats(ctx context.Context, userID string, limit, offset int) ([]*entity.Chat, int64, error) {
	return uc.chatRepo.ListByUserID(ctx, userID, limit, offset)
}

func (uc *ChatUseCase) participant(chat *entity.Chat, userID string) bool {
	for _, p := range chat.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

type SendMessageInput struct {
	ChatID         string
	Content        string
	Type           string
	OfferPrice     float64
	AccountID      string
	AttachmentURLs []string
}

// SendMessage posts a message to a room. Text content passes through the
// contact filter before it is stored, so off-platform contact details never
// reach the other side.
func (uc *ChatUseCase) SendMessage(ctx context.Context, senderID string, input SendMessageInput) (*entity.Message, error) {
	if allowed, wait := uc.limiter.Allow(senderID, "send_message"); !allowed {
		return nil, errors.TooManyRequests(fmt.Sprintf("Too many messages, retry in %s", wait.Round(time.Second)))
	}

	chat, err := uc.chatRepo.GetByID(ctx, input.ChatID)
	if err != nil {
		return nil, err
	}
	if !uc.participant(chat, senderID) {
		return nil, errors.Forbidden("You are not a participant of this chat", nil)
	}

	msgType := input.Type
	if msgType == "" {
		msgType = entity.MessageTypeText
	}

	content := input.Content
	var metadata map[string]interface{}

	switch msgType {
	case entity.MessageTypeText:
		filtered, masked := FilterContactInfo(content)
		content = filtered
		if masked {
			metadata = map[string]interface{}{"contact_filtered": true}
		}
	case entity.MessageTypeOffer:
		if input.OfferPrice <= 0 {
			return nil, errors.BadRequest("Offer price must be positive", nil)
		}
		if input.AccountID == "" {
			return nil, errors.BadRequest("An offer must reference a listing", nil)
		}
		metadata = map[string]interface{}{
			"offer_price": input.OfferPrice,
			"account_id":  input.AccountID,
			"status":      "pending",
		}
	case entity.MessageTypeProduct:
		if input.AccountID == "" {
			return nil, errors.BadRequest("A product message must reference a listing", nil)
		}
	}

	message := &entity.Message{
		ChatID:         input.ChatID,
		SenderID:       senderID,
		Content:        content,
		Type:           msgType,
		Metadata:       metadata,
		AccountID:      input.AccountID,
		AttachmentURLs: input.AttachmentURLs,
		ReadBy:         []string{senderID},
	}

	if err := uc.chatRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	for _, p := range chat.Participants {
		if p != senderID {
			uc.notifier.NotifyUser(p, "chat_message", message)
		}
	}
	return message, nil
}

func (uc *ChatUseCase) ListMessages(ctx context.Context, userID, chatID string, limit, offset int) ([]*entity.Message, int64, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, 0, err
	}
	if !uc.participant(chat, userID) {
		return nil, 0, errors.Forbidden("You are not a participant of this chat", nil)
	}

	return uc.chatRepo.ListMessages(ctx, chatID, limit, offset)
}

func (uc *ChatUseCase) MarkRead(ctx context.Context, userID, chatID string) error {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return err
	}
	if !uc.participant(chat, userID) {
		return errors.Forbidden("You are not a participant of this chat", nil)
	}

	return uc.chatRepo.MarkRead(ctx, chatID, userID)
}

// AcceptOffer turns a pending offer message into an escrow order and posts a
// system message back into the room. Only the listing's seller can accept,
// and the buyer pays the listed price held in the offer.
func (uc *ChatUseCase) AcceptOffer(ctx context.Context, sellerID, chatID, messageID string) (*entity.Order, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !uc.participant(chat, sellerID) {
		return nil, errors.Forbidden("You are not a participant of this chat", nil)
	}

	message, err := uc.chatRepo.GetMessage(ctx, chatID, messageID)
	if err != nil {
		return nil, err
	}
	if message.Type != entity.MessageTypeOffer {
		return nil, errors.BadRequest("Message is not an offer", nil)
	}
	if message.SenderID == sellerID {
		return nil, errors.BadRequest("You cannot accept your own offer", nil)
	}
	if offerStatus, _ := message.Metadata["status"].(string); offerStatus != "pending" {
		return nil, errors.Conflict("Offer has already been handled")
	}

	listing, err := uc.listingRepo.GetByID(ctx, message.AccountID)
	if err != nil {
		return nil, err
	}
	if listing.SellerID != sellerID {
		return nil, errors.Forbidden("Only the seller can accept this offer", nil)
	}

	offerPrice, _ := message.Metadata["offer_price"].(float64)

	// The offer message ID doubles as the idempotency key, so accepting the
	// same offer twice cannot place two orders.
	order, err := uc.orderUC.Create(ctx, message.SenderID, CreateOrderInput{
		AccountID:      message.AccountID,
		IdempotencyKey: message.ID,
		Price:          offerPrice,
	})
	if err != nil {
		return nil, err
	}

	message.Metadata["status"] = "accepted"
	message.Metadata["order_id"] = order.ID
	if err := uc.chatRepo.UpdateMessage(ctx, message); err != nil {
		return nil, err
	}

	system := &entity.Message{
		ChatID:   chatID,
		SenderID: sellerID,
		Content:  fmt.Sprintf("Offer accepted. Order %s placed with funds in escrow.", order.ID),
		Type:     entity.MessageTypeSystem,
		Metadata: map[string]interface{}{"order_id": order.ID},
		ReadBy:   []string{sellerID},
	}
	if err := uc.chatRepo.CreateMessage(ctx, system); err != nil {
		return nil, err
	}

	uc.notifier.NotifyUser(message.SenderID, "chat_message", system)
	return order, nil
}
