package models

import "time"

type CommentStatus string

const (
	CommentStatusPending     CommentStatus = "pending"
	CommentStatusApproved    CommentStatus = "approved"
	CommentStatusNotApproved CommentStatus = "not approved"
)

type Comment struct {
	ID        int64         `json:"id"`
	ProductID int64         `json:"-"`
	Name      string        `json:"name"`
	Body      string        `json:"body"`
	Status    CommentStatus `json:"-"`
	CreatedAt time.Time     `json:"created_at"`
}

type CreateCommentRequest struct {
	Name string `json:"name" validate:"required,max=255"`
	Body string `json:"body" validate:"required"`
}
