package entity

import "time"

const (
	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusResolved   = "resolved"
	TicketStatusClosed     = "closed"
)

type SupportTicket struct {
	ID         string     `json:"id" firestore:"id"`
	UserID     string     `json:"user_id" firestore:"userId"`
	Subject    string     `json:"subject" firestore:"subject"`
	Message    string     `json:"message" firestore:"message"`
	Status     string     `json:"status" firestore:"status"`
	AdminReply string     `json:"admin_reply,omitempty" firestore:"adminReply,omitempty"`
	RepliedBy  string     `json:"replied_by,omitempty" firestore:"repliedBy,omitempty"`
	RepliedAt  *time.Time `json:"replied_at,omitempty" firestore:"repliedAt,omitempty"`
	CreatedAt  time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt  time.Time  `json:"updated_at" firestore:"updatedAt"`
}
