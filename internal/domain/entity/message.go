package entity

import "time"

const (
	MessageTypeText    = "text"
	MessageTypeOffer   = "offer"
	MessageTypeProduct = "product"
	MessageTypeImage   = "image"
	MessageTypeSystem  = "system"
)

type Message struct {
	ID             string                 `json:"id" firestore:"id"`
	ChatID         string                 `json:"chat_id" firestore:"chatId"`
	SenderID       string                 `json:"sender_id" firestore:"senderId"`
	Content        string                 `json:"content" firestore:"content"`
	Type           string                 `json:"type" firestore:"type"`
	Metadata       map[string]interface{} `json:"metadata,omitempty" firestore:"metadata,omitempty"` // offer price, system payloads
	AttachmentURLs []string               `json:"attachment_urls,omitempty" firestore:"attachmentUrls,omitempty"`
	AccountID      string                 `json:"account_id,omitempty" firestore:"accountId,omitempty"`
	ReadBy         []string               `json:"read_by" firestore:"readBy"`
	CreatedAt      time.Time              `json:"created_at" firestore:"createdAt"`
}
