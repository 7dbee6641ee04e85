package model

import (
	"time"

	"github.com/google/uuid"
)

// Notice is a board announcement, visible to everyone.
type Notice struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateNoticeRequest is the payload for posting a notice.
type CreateNoticeRequest struct {
	Title   string `json:"title" binding:"required,min=1,max=255"`
	Content string `json:"content" binding:"required,min=1,max=5000"`
}
