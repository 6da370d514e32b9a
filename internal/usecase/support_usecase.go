package usecase

import (
	"context"
	"time"

	"gamemarket/internal/domain/entity"
	"gamemarket/internal/domain/repository"
	"gamemarket/pkg/errors"
)

type SupportUseCase struct {
	supportRepo repository.SupportRepository
	notifier    Notifier
}

func NewSupportUseCase(supportRepo repository.SupportRepository, notifier Notifier) *SupportUseCase {
	return &SupportUseCase{
		supportRepo: supportRepo,
		notifier:    notifier,
	}
}

func (uc *SupportUseCase) CreateTicket(ctx context.Context, userID, subject, message string) (*entity.SupportTicket, error) {
	if subject == "" || message == "" {
		return nil, errors.BadRequest("Subject and message are required", nil)
	}

	ticket := &entity.SupportTicket{
		UserID:  userID,
		Subject: subject,
		Message: message,
	}
	if err := uc.supportRepo.Create(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (uc *SupportUseCase) GetTicket(ctx context.Context, userID, ticketID string, isAdmin bool) (*entity.SupportTicket, error) {
	ticket, err := uc.supportRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && ticket.UserID != userID {
		return nil, errors.Forbidden("You do not own this ticket", nil)
	}
	return ticket, nil
}

func (uc *SupportUseCase) ListMyTickets(ctx context.Context, userID string, limit, offset int) ([]*entity.SupportTicket, int64, error) {
	return uc.supportRepo.ListByUserID(ctx, userID, limit, offset)
}

func (uc *SupportUseCase) ListTickets(ctx context.Context, status string, limit, offset int) ([]*entity.SupportTicket, int64, error) {
	return uc.supportRepo.ListByStatus(ctx, status, limit, offset)
}

// Reply posts the admin answer and moves the ticket along. Replying to a
// closed ticket reopens nothing; it is rejected instead.
func (uc *SupportUseCase) Reply(ctx context.Context, adminID, ticketID, reply string, resolve bool) (*entity.SupportTicket, error) {
	if reply == "" {
		return nil, errors.BadRequest("A reply message is required", nil)
	}

	ticket, err := uc.supportRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == entity.TicketStatusClosed {
		return nil, errors.Conflict("Ticket is closed")
	}

	now := time.Now()
	ticket.AdminReply = reply
	ticket.RepliedBy = adminID
	ticket.RepliedAt = &now
	if resolve {
		ticket.Status = entity.TicketStatusResolved
	} else {
		ticket.Status = entity.TicketStatusInProgress
	}

	if err := uc.supportRepo.Update(ctx, ticket); err != nil {
		return nil, err
	}

	uc.notifier.NotifyUser(ticket.UserID, "support_update", ticket)
	return ticket, nil
}

func (uc *SupportUseCase) Close(ctx context.Context, userID, ticketID string, isAdmin bool) (*entity.SupportTicket, error) {
	ticket, err := uc.supportRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && ticket.UserID != userID {
		return nil, errors.Forbidden("You do not own this ticket", nil)
	}
	if ticket.Status == entity.TicketStatusClosed {
		return ticket, nil
	}

	ticket.Status = entity.TicketStatusClosed
	if err := uc.supportRepo.Update(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}
