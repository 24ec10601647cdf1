package models

import "github.com/google/uuid"

// Review is a customer review shown in the storefront carousel.
type Review struct {
	BaseModel
	UserID        uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	ReviewerName  string    `json:"reviewer_name"`
	ReviewerEmail string    `json:"reviewer_email"`
	PhotoURL      string    `json:"photo_url"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
}
