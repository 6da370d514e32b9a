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

type firestoreSupportRepository struct {
	client *firestore.Client
}

func NewFirestoreSupportRepository(client *firestore.Client) repository.SupportRepository {
	return &firestoreSupportRepository{
		client: client,
	}
}

func (r *firestoreSupportRepository) Create(ctx context.Context, ticket *entity.SupportTicket) error {
	if ticket.ID == "" {
		ticket.ID = uuid.New().String()
	}
	ticket.Status = entity.TicketStatusOpen
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = time.Now()

	_, err := r.client.Collection("supportTickets").Doc(ticket.ID).Set(ctx, ticket)
	if err != nil {
		return errors.Internal("Failed to create support ticket", err)
	}
	return nil
}

func (r *firestoreSupportRepository) GetByID(ctx context.Context, id string) (*entity.SupportTicket, error) {
	doc, err := r.client.Collection("supportTickets").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Support ticket", err)
		}
		return nil, errors.Internal("Failed to get support ticket", err)
	}

	var ticket entity.SupportTicket
	if err := doc.DataTo(&ticket); err != nil {
		return nil, errors.Internal("Failed to parse support ticket data", err)
	}
	return &ticket, nil
}

func (r *firestoreSupportRepository) Update(ctx context.Context, ticket *entity.SupportTicket) error {
	ticket.UpdatedAt = time.Now()
	_, err := r.client.Collection("supportTickets").Doc(ticket.ID).Set(ctx, ticket)
	if err != nil {
		return errors.Internal("Failed to update support ticket", err)
	}
	return nil
}

func (r *firestoreSupportRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.SupportTicket, int64, error) {
	query := r.client.Collection("supportTickets").
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc)
	return r.collectTickets(ctx, query, limit, offset)
}

func (r *firestoreSupportRepository) ListByStatus(ctx context.Context, ticketStatus string, limit, offset int) ([]*entity.SupportTicket, int64, error) {
	query := r.client.Collection("supportTickets").Query
	if ticketStatus != "" {
		query = query.Where("status", "==", ticketStatus)
	}
	query = query.OrderBy("createdAt", firestore.Asc)
	return r.collectTickets(ctx, query, limit, offset)
}

func (r *firestoreSupportRepository) collectTickets(ctx context.Context, query firestore.Query, limit, offset int) ([]*entity.SupportTicket, int64, error) {
	countDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to count support tickets", err)
	}
	total := int64(len(countDocs))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	var tickets []*entity.SupportTicket
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Internal("Failed to list support tickets", err)
		}

		var ticket entity.SupportTicket
		if err := doc.DataTo(&ticket); err != nil {
			return nil, 0, errors.Internal("Failed to parse support ticket data", err)
		}
		tickets = append(tickets, &ticket)
	}

	return tickets, total, nil
}
