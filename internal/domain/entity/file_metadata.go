package entity

import "time"

type FileMetadata struct {
	ID         string    `json:"id" firestore:"id"`
	OwnerID    string    `json:"owner_id" firestore:"ownerId"`
	URL        string    `json:"url" firestore:"url"`
	ObjectName string    `json:"object_name" firestore:"objectName"`
	FileType   string    `json:"file_type" firestore:"fileType"`
	Purpose    string    `json:"purpose" firestore:"purpose"` // listing_image, receipt, chat_image
	Public     bool      `json:"public" firestore:"public"`
	CreatedAt  time.Time `json:"created_at" firestore:"createdAt"`
}
