package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"gamemarket/internal/domain/entity"
	"gamemarket/internal/domain/repository"
	"gamemarket/pkg/errors"
)

// fakeStore is a shared in-memory backend for the fake repositories, so a
// purchase in the order repo is visible to the wallet repo the same way the
// Firestore transactions make it visible in production.
type fakeStore struct {
	mu       sync.Mutex
	users    map[string]*entity.User
	listings map[string]*entity.GameAccount
	orders   map[string]*entity.Order
	escrows  map[string]*entity.EscrowHold
	wallets  map[string]*entity.Wallet
	ledger   []*entity.WalletTransaction
	requests map[string]*entity.WalletRequest
	events   []*entity.OrderEvent
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:    map[string]*entity.User{},
		listings: map[string]*entity.GameAccount{},
		orders:   map[string]*entity.Order{},
		escrows:  map[string]*entity.EscrowHold{},
		wallets:  map[string]*entity.Wallet{},
		requests: map[string]*entity.WalletRequest{},
	}
}

func (s *fakeStore) addUser(id string, balance float64) *entity.User {
	user := &entity.User{ID: id, Email: id + "@test.local", Username: id, Role: entity.RoleUser, Level: 1}
	s.users[id] = user
	s.wallets[id] = &entity.Wallet{ID: "w-" + id, UserID: id, Balance: balance, Currency: entity.DefaultCurrency, Status: "active"}
	return user
}

func (s *fakeStore) addListing(id, sellerID string, price float64) *entity.GameAccount {
	listing := &entity.GameAccount{ID: id, SellerID: sellerID, Game: "valorant", Title: "Test account", Price: price, Status: entity.ListingStatusActive}
	s.listings[id] = listing
	return listing
}

type fakeUserRepo struct{ s *fakeStore }

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, user := range r.s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, role string, limit, offset int) ([]*entity.User, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var users []*entity.User
	for _, user := range r.s.users {
		if role == "" || user.Role == role {
			users = append(users, user)
		}
	}
	return users, int64(len(users)), nil
}

func (r *fakeUserRepo) SetFlags(_ context.Context, id string, banned, disabled *bool) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	if banned != nil {
		user.IsBanned = *banned
	}
	if disabled != nil {
		user.IsDisabled = *disabled
	}
	return user, nil
}

func (r *fakeUserRepo) SetRole(_ context.Context, id, role string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	user.Role = role
	return user, nil
}

func (r *fakeUserRepo) UpdateRating(_ context.Context, id string, rating float64, reviewCount int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[id]
	if !ok {
		return errors.NotFound("User", nil)
	}
	user.Rating = rating
	user.ReviewCount = reviewCount
	return nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.users), nil
}

type fakeListingRepo struct{ s *fakeStore }

func (r *fakeListingRepo) Create(_ context.Context, account *entity.GameAccount) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.listings[account.ID] = account
	return nil
}

func (r *fakeListingRepo) GetByID(_ context.Context, id string) (*entity.GameAccount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	listing, ok := r.s.listings[id]
	if !ok {
		return nil, errors.NotFound("Listing", nil)
	}
	copied := *listing
	return &copied, nil
}

func (r *fakeListingRepo) Update(_ context.Context, account *entity.GameAccount) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.listings[account.ID] = account
	return nil
}

func (r *fakeListingRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	listing, ok := r.s.listings[id]
	if !ok {
		return errors.NotFound("Listing", nil)
	}
	listing.Status = entity.ListingStatusRemoved
	return nil
}

func (r *fakeListingRepo) List(_ context.Context, filter repository.ListingFilter, limit, offset int) ([]*entity.GameAccount, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var listings []*entity.GameAccount
	for _, listing := range r.s.listings {
		if filter.Status != "" && listing.Status != filter.Status {
			continue
		}
		if filter.Game != "" && listing.Game != filter.Game {
			continue
		}
		listings = append(listings, listing)
	}
	return listings, int64(len(listings)), nil
}

func (r *fakeListingRepo) ListBySellerID(_ context.Context, sellerID, status string, limit, offset int) ([]*entity.GameAccount, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var listings []*entity.GameAccount
	for _, listing := range r.s.listings {
		if listing.SellerID != sellerID {
			continue
		}
		if status != "" && listing.Status != status {
			continue
		}
		listings = append(listings, listing)
	}
	return listings, int64(len(listings)), nil
}

func (r *fakeListingRepo) IncrementViews(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if listing, ok := r.s.listings[id]; ok {
		listing.Views++
	}
	return nil
}

func (r *fakeListingRepo) CountByStatus(_ context.Context) (map[string]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := map[string]int{}
	for _, listing := range r.s.listings {
		counts[listing.Status]++
	}
	return counts, nil
}

type fakeOrderRepo struct{ s *fakeStore }

func (r *fakeOrderRepo) CreateEscrow(_ context.Context, order *entity.Order) (*entity.Order, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if existing, ok := r.s.orders[order.ID]; ok {
		copied := *existing
		return &copied, false, nil
	}

	wallet, ok := r.s.wallets[order.BuyerID]
	if !ok {
		return nil, false, errors.NotFound("Wallet", nil)
	}
	if wallet.Balance < order.Amount {
		return nil, false, errors.BadRequest("Insufficient wallet balance", nil)
	}

	listing, ok := r.s.listings[order.AccountID]
	if !ok {
		return nil, false, errors.NotFound("Listing", nil)
	}
	if listing.Status != entity.ListingStatusActive {
		return nil, false, errors.Conflict("Listing is no longer available")
	}

	wallet.Balance -= order.Amount
	r.s.ledger = append(r.s.ledger, &entity.WalletTransaction{
		ID: uuid.New().String(), UserID: order.BuyerID, Type: entity.WalletTxnPurchase,
		Amount: -order.Amount, NewBalance: wallet.Balance, Reference: order.ID,
	})

	order.Status = entity.OrderStatusEscrow
	order.EscrowAmount = order.Amount
	order.EscrowStatus = entity.EscrowStatusHeld
	order.CreatedAt = time.Now()
	r.s.orders[order.ID] = order
	r.s.escrows[order.ID] = &entity.EscrowHold{
		ID: order.ID, OrderID: order.ID, BuyerID: order.BuyerID, SellerID: order.SellerID,
		Amount: order.Amount, Status: entity.EscrowStatusHeld,
	}
	listing.Status = entity.ListingStatusPending

	copied := *order
	return &copied, true, nil
}

func (r *fakeOrderRepo) Settle(_ context.Context, instr repository.SettlementInstruction) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	order, ok := r.s.orders[instr.OrderID]
	if !ok {
		return nil, errors.NotFound("Order", nil)
	}
	if !statusIn(order.Status, instr.ExpectedStatuses) {
		return nil, errors.Conflict("Order cannot be settled in its current status")
	}

	hold := r.s.escrows[order.ID]
	if hold == nil || hold.Status != entity.EscrowStatusHeld {
		return nil, errors.Conflict("Escrow funds already released or refunded")
	}

	proceeds, commission := entity.SellerPayout(order.Amount)

	order.Status = entity.OrderStatusDelivered
	order.EscrowStatus = entity.EscrowStatusReleased
	order.Commission = commission
	order.SellerProceeds = proceeds
	hold.Status = entity.EscrowStatusReleased

	sellerWallet := r.s.wallets[order.SellerID]
	sellerWallet.Balance += proceeds
	r.s.ledger = append(r.s.ledger, &entity.WalletTransaction{
		ID: uuid.New().String(), UserID: order.SellerID, Type: entity.WalletTxnEscrowRelease,
		Amount: proceeds, NewBalance: sellerWallet.Balance, Reference: order.ID,
	})

	for _, id := range []string{order.BuyerID, order.SellerID} {
		user := r.s.users[id]
		user.TotalTransactionValue += order.Amount
		user.Level = entity.LevelForValue(user.TotalTransactionValue)
		user.Role = entity.PromoteRole(user.Role, user.Level)
	}

	if listing, ok := r.s.listings[order.AccountID]; ok {
		listing.Status = entity.ListingStatusSold
	}

	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) Refund(_ context.Context, instr repository.RefundInstruction) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	order, ok := r.s.orders[instr.OrderID]
	if !ok {
		return nil, errors.NotFound("Order", nil)
	}
	if !statusIn(order.Status, instr.ExpectedStatuses) {
		return nil, errors.Conflict("Order cannot be cancelled in its current status")
	}

	hold := r.s.escrows[order.ID]
	if hold == nil || hold.Status != entity.EscrowStatusHeld {
		return nil, errors.Conflict("Escrow funds already released or refunded")
	}

	order.Status = entity.OrderStatusCancelled
	order.EscrowStatus = entity.EscrowStatusRefunded
	order.CancellationReason = instr.Reason
	hold.Status = entity.EscrowStatusRefunded

	buyerWallet := r.s.wallets[order.BuyerID]
	buyerWallet.Balance += order.EscrowAmount
	r.s.ledger = append(r.s.ledger, &entity.WalletTransaction{
		ID: uuid.New().String(), UserID: order.BuyerID, Type: entity.WalletTxnRefund,
		Amount: order.EscrowAmount, NewBalance: buyerWallet.Balance, Reference: order.ID,
	})

	if listing, ok := r.s.listings[order.AccountID]; ok {
		listing.Status = entity.ListingStatusActive
	}

	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) UpdateGuarded(_ context.Context, orderID string, expected []string, mutate func(*entity.Order) error) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	order, ok := r.s.orders[orderID]
	if !ok {
		return nil, errors.NotFound("Order", nil)
	}
	if !statusIn(order.Status, expected) {
		return nil, errors.Conflict("Order is not in a valid status for this action")
	}
	if err := mutate(order); err != nil {
		return nil, err
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	order, ok := r.s.orders[id]
	if !ok {
		return nil, errors.NotFound("Order", nil)
	}
	copied := *order
	return &copied, nil
}

func (r *fakeOrderRepo) ListByUserID(_ context.Context, userID, role, status string, limit, offset int) ([]*entity.Order, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var orders []*entity.Order
	for _, order := range r.s.orders {
		if role == "seller" && order.SellerID != userID {
			continue
		}
		if role != "seller" && order.BuyerID != userID {
			continue
		}
		if status != "" && order.Status != status {
			continue
		}
		orders = append(orders, order)
	}
	return orders, int64(len(orders)), nil
}

func (r *fakeOrderRepo) List(_ context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Order, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var orders []*entity.Order
	for _, order := range r.s.orders {
		if status, ok := filter["status"]; ok && order.Status != status {
			continue
		}
		orders = append(orders, order)
	}
	return orders, int64(len(orders)), nil
}

func (r *fakeOrderRepo) ListDueForAutoRelease(_ context.Context, before time.Time, limit int) ([]*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var due []*entity.Order
	for _, order := range r.s.orders {
		if order.Status == entity.OrderStatusAwaitingConfirmation && order.AutoReleaseAt != nil && !order.AutoReleaseAt.After(before) {
			due = append(due, order)
		}
	}
	return due, nil
}

func (r *fakeOrderRepo) CountByStatus(_ context.Context) (map[string]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := map[string]int{}
	for _, order := range r.s.orders {
		counts[order.Status]++
	}
	return counts, nil
}

func (r *fakeOrderRepo) GetEscrowHold(_ context.Context, orderID string) (*entity.EscrowHold, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	hold, ok := r.s.escrows[orderID]
	if !ok {
		return nil, errors.NotFound("Escrow hold", nil)
	}
	copied := *hold
	return &copied, nil
}

func (r *fakeOrderRepo) CreateEvent(_ context.Context, event *entity.OrderEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.events = append(r.s.events, event)
	return nil
}

func (r *fakeOrderRepo) ListEventsByOrderID(_ context.Context, orderID string) ([]*entity.OrderEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var events []*entity.OrderEvent
	for _, event := range r.s.events {
		if event.OrderID == orderID {
			events = append(events, event)
		}
	}
	return events, nil
}

type fakeWalletRepo struct{ s *fakeStore }

func (r *fakeWalletRepo) CreateWallet(_ context.Context, wallet *entity.Wallet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.wallets[wallet.UserID]; ok {
		return errors.Conflict("Wallet already exists for this user")
	}
	wallet.Status = "active"
	r.s.wallets[wallet.UserID] = wallet
	return nil
}

func (r *fakeWalletRepo) GetWalletByID(_ context.Context, walletID string) (*entity.Wallet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, wallet := range r.s.wallets {
		if wallet.ID == walletID {
			copied := *wallet
			return &copied, nil
		}
	}
	return nil, errors.NotFound("Wallet", nil)
}

func (r *fakeWalletRepo) GetWalletByUserID(_ context.Context, userID string) (*entity.Wallet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	wallet, ok := r.s.wallets[userID]
	if !ok {
		return nil, errors.NotFound("Wallet", nil)
	}
	copied := *wallet
	return &copied, nil
}

func (r *fakeWalletRepo) ApplyTransaction(_ context.Context, userID, txnType string, amount float64, reference, description string) (*entity.WalletTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	wallet, ok := r.s.wallets[userID]
	if !ok {
		return nil, errors.NotFound("Wallet", nil)
	}
	if wallet.Balance+amount < 0 {
		return nil, errors.BadRequest("Insufficient wallet balance", nil)
	}
	wallet.Balance += amount
	txn := &entity.WalletTransaction{
		ID: uuid.New().String(), UserID: userID, Type: txnType,
		Amount: amount, NewBalance: wallet.Balance, Reference: reference,
	}
	r.s.ledger = append(r.s.ledger, txn)
	return txn, nil
}

func (r *fakeWalletRepo) GetTransactionsByUserID(_ context.Context, userID string, limit, offset int) ([]*entity.WalletTransaction, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var txns []*entity.WalletTransaction
	for _, txn := range r.s.ledger {
		if txn.UserID == userID {
			txns = append(txns, txn)
		}
	}
	return txns, int64(len(txns)), nil
}

func (r *fakeWalletRepo) GetWalletCount(_ context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.wallets), nil
}

func (r *fakeWalletRepo) GetTotalBalance(_ context.Context) (float64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var total float64
	for _, wallet := range r.s.wallets {
		total += wallet.Balance
	}
	return total, nil
}

type fakeWalletRequestRepo struct{ s *fakeStore }

func (r *fakeWalletRequestRepo) Create(_ context.Context, request *entity.WalletRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	request.Status = entity.WalletRequestPending
	r.s.requests[request.ID] = request
	return nil
}

func (r *fakeWalletRequestRepo) GetByID(_ context.Context, requestID string) (*entity.WalletRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	request, ok := r.s.requests[requestID]
	if !ok {
		return nil, errors.NotFound("Wallet request", nil)
	}
	copied := *request
	return &copied, nil
}

func (r *fakeWalletRequestRepo) ListByUserID(_ context.Context, userID string, limit, offset int) ([]*entity.WalletRequest, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var requests []*entity.WalletRequest
	for _, request := range r.s.requests {
		if request.UserID == userID {
			requests = append(requests, request)
		}
	}
	return requests, int64(len(requests)), nil
}

func (r *fakeWalletRequestRepo) ListPending(_ context.Context, requestType string, limit, offset int) ([]*entity.WalletRequest, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var requests []*entity.WalletRequest
	for _, request := range r.s.requests {
		if request.Status != entity.WalletRequestPending {
			continue
		}
		if requestType != "" && request.Type != requestType {
			continue
		}
		requests = append(requests, request)
	}
	return requests, int64(len(requests)), nil
}

func (r *fakeWalletRequestRepo) Process(_ context.Context, requestID, adminID string, approve bool, notes string) (*entity.WalletRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	request, ok := r.s.requests[requestID]
	if !ok {
		return nil, errors.NotFound("Wallet request", nil)
	}
	if request.Status != entity.WalletRequestPending {
		return nil, errors.Conflict("Wallet request has already been processed")
	}

	if approve {
		wallet := r.s.wallets[request.UserID]
		delta := request.Amount
		if request.Type == entity.WalletRequestWithdraw {
			delta = -request.Amount
		}
		if wallet.Balance+delta < 0 {
			return nil, errors.BadRequest("Insufficient wallet balance", nil)
		}
		wallet.Balance += delta
		request.Status = entity.WalletRequestApproved
	} else {
		request.Status = entity.WalletRequestRejected
	}

	request.AdminNotes = notes
	request.ProcessedBy = adminID
	copied := *request
	return &copied, nil
}

func statusIn(status string, expected []string) bool {
	for _, s := range expected {
		if s == status {
			return true
		}
	}
	return false
}

// fakeNotifier records pushed events instead of delivering them.
type fakeNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *fakeNotifier) NotifyUser(userID, eventType string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, userID+":"+eventType)
}
