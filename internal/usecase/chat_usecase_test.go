package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamemarket/internal/domain/entity"
	"gamemarket/internal/infrastructure/ratelimit"
	"gamemarket/pkg/errors"
)

type fakeChatRepo struct {
	mu       sync.Mutex
	chats    map[string]*entity.Chat
	messages map[string][]*entity.Message
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{chats: map[string]*entity.Chat{}, messages: map[string][]*entity.Message{}}
}

func (r *fakeChatRepo) GetOrCreate(_ context.Context, chat *entity.Chat) (*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := entity.ChatPairKey(chat.Participants[0], chat.Participants[1])
	if existing, ok := r.chats[id]; ok {
		return existing, nil
	}
	chat.ID = id
	chat.UnreadCount = map[string]int{}
	r.chats[id] = chat
	return chat, nil
}

func (r *fakeChatRepo) GetByID(_ context.Context, id string) (*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.chats[id]
	if !ok {
		return nil, errors.NotFound("Chat", nil)
	}
	return chat, nil
}

func (r *fakeChatRepo) Update(_ context.Context, chat *entity.Chat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chats[chat.ID] = chat
	return nil
}

func (r *fakeChatRepo) ListByUserID(_ context.Context, userID string, limit, offset int) ([]*entity.Chat, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var chats []*entity.Chat
	for _, chat := range r.chats {
		for _, p := range chat.Participants {
			if p == userID {
				chats = append(chats, chat)
				break
			}
		}
	}
	return chats, int64(len(chats)), nil
}

func (r *fakeChatRepo) CreateMessage(_ context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = time.Now()
	r.messages[message.ChatID] = append(r.messages[message.ChatID], message)
	if chat, ok := r.chats[message.ChatID]; ok {
		chat.LastMessage = message.Content
		chat.LastMessageAt = message.CreatedAt
	}
	return nil
}

func (r *fakeChatRepo) GetMessage(_ context.Context, chatID, messageID string) (*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, message := range r.messages[chatID] {
		if message.ID == messageID {
			return message, nil
		}
	}
	return nil, errors.NotFound("Message", nil)
}

func (r *fakeChatRepo) UpdateMessage(_ context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.messages[message.ChatID] {
		if existing.ID == message.ID {
			r.messages[message.ChatID][i] = message
			return nil
		}
	}
	return errors.NotFound("Message", nil)
}

func (r *fakeChatRepo) ListMessages(_ context.Context, chatID string, limit, offset int) ([]*entity.Message, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	messages := r.messages[chatID]
	return messages, int64(len(messages)), nil
}

func (r *fakeChatRepo) MarkRead(_ context.Context, chatID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if chat, ok := r.chats[chatID]; ok && chat.UnreadCount != nil {
		chat.UnreadCount[userID] = 0
	}
	return nil
}

func newChatFixture(t *testing.T) (*ChatUseCase, *fakeChatRepo, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	chatRepo := newFakeChatRepo()
	notifier := &fakeNotifier{}
	orderUC := NewOrderUseCase(&fakeOrderRepo{s: store}, &fakeListingRepo{s: store}, &fakeUserRepo{s: store}, notifier, ratelimit.NewRateLimiter(), 72*time.Hour)
	uc := NewChatUseCase(chatRepo, &fakeListingRepo{s: store}, &fakeUserRepo{s: store}, orderUC, notifier, ratelimit.NewRateLimiter())
	return uc, chatRepo, store
}

func TestOpenChatDeterministicRoom(t *testing.T) {
	uc, _, store := newChatFixture(t)
	store.addUser("alice", 0)
	store.addUser("bob", 0)

	ctx := context.Background()
	first, err := uc.OpenChat(ctx, "alice", "bob", "")
	require.NoError(t, err)
	second, err := uc.OpenChat(ctx, "bob", "alice", "")
	require.NoError(t, err)

	assert.Equal(t, "alice_bob", first.ID)
	assert.Equal(t, first.ID, second.ID)
}

func TestOpenChatWithSelfRejected(t *testing.T) {
	uc, _, store := newChatFixture(t)
	store.addUser("alice", 0)

	_, err := uc.OpenChat(context.Background(), "alice", "alice", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, "BAD_REQUEST"))
}

func TestSendMessageFiltersContactInfo(t *testing.T) {
	uc, _, store := newChatFixture(t)
	store.addUser("alice", 0)
	store.addUser("bob", 0)

	ctx := context.Background()
	chat, err := uc.OpenChat(ctx, "alice", "bob", "")
	require.NoError(t, err)

	message, err := uc.SendMessage(ctx, "alice", SendMessageInput{
		ChatID:  chat.ID,
		Content: "deal, my number is 01012345678",
	})
	require.NoError(t, err)

	assert.NotContains(t, message.Content, "01012345678")
	assert.Contains(t, message.Content, maskedText)
	assert.Equal(t, true, message.Metadata["contact_filtered"])
}

func TestSendMessageNonParticipantRejected(t *testing.T) {
	uc, _, store := newChatFixture(t)
	store.addUser("alice", 0)
	store.addUser("bob", 0)
	store.addUser("eve", 0)

	ctx := context.Background()
	chat, err := uc.OpenChat(ctx, "alice", "bob", "")
	require.NoError(t, err)

	_, err = uc.SendMessage(ctx, "eve", SendMessageInput{ChatID: chat.ID, Content: "hi"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, "FORBIDDEN"))
}

func TestAcceptOfferPlacesEscrowOrder(t *testing.T) {
	uc, _, store := newChatFixture(t)
	store.addUser("buyer", 5000)
	store.addUser("seller", 0)
	store.addListing("acc-1", "seller", 1200)

	ctx := context.Background()
	chat, err := uc.OpenChat(ctx, "buyer", "seller", "acc-1")
	require.NoError(t, err)

	offer, err := uc.SendMessage(ctx, "buyer", SendMessageInput{
		ChatID:     chat.ID,
		Type:       entity.MessageTypeOffer,
		OfferPrice: 1000,
		AccountID:  "acc-1",
	})
	require.NoError(t, err)

	order, err := uc.AcceptOffer(ctx, "seller", chat.ID, offer.ID)
	require.NoError(t, err)

	// The offer message ID is the idempotency key of the resulting order,
	// and the negotiated price wins over the listed 1200.
	assert.Equal(t, offer.ID, order.ID)
	assert.Equal(t, entity.OrderStatusEscrow, order.Status)
	assert.Equal(t, 1000.0, order.Amount)
	assert.Equal(t, 4000.0, store.wallets["buyer"].Balance)
	assert.Equal(t, "accepted", offer.Metadata["status"])

	// Accepting again is rejected without placing a second order.
	_, err = uc.AcceptOffer(ctx, "seller", chat.ID, offer.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, "CONFLICT"))
	assert.Equal(t, 4000.0, store.wallets["buyer"].Balance)
}

func TestAcceptOwnOfferRejected(t *testing.T) {
	uc, _, store := newChatFixture(t)
	store.addUser("buyer", 5000)
	store.addUser("seller", 0)
	store.addListing("acc-1", "seller", 1200)

	ctx := context.Background()
	chat, err := uc.OpenChat(ctx, "seller", "buyer", "acc-1")
	require.NoError(t, err)

	offer, err := uc.SendMessage(ctx, "seller", SendMessageInput{
		ChatID:     chat.ID,
		Type:       entity.MessageTypeOffer,
		OfferPrice: 1200,
		AccountID:  "acc-1",
	})
	require.NoError(t, err)

	_, err = uc.AcceptOffer(ctx, "seller", chat.ID, offer.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "own offer")
}
