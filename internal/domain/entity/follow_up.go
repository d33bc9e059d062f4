package entity

import (
	"time"

	"github.com/google/uuid"
)

// FollowUpRecord is a free-text note written by whoever is working a customer.
type FollowUpRecord struct {
	ID          uuid.UUID `json:"id"`
	CustomerID  uuid.UUID `json:"customerId"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	CreatorID   uuid.UUID `json:"creatorId"`
	CreatorName string    `json:"creatorName"`
	CreatorType Role      `json:"creatorType"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
