package models

// Sign-in providers.
const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
)

// User represents an authenticated customer or administrator.
type User struct {
	BaseModel
	Name         string  `json:"name"`
	Email        string  `gorm:"uniqueIndex" json:"email"`
	Phone        string  `json:"phone"`
	PasswordHash string  `json:"-"`
	Provider     string  `json:"provider"`
	PhotoURL     string  `json:"photo_url"`
	IsAdmin      bool    `json:"is_admin"`
	Orders       []Order `json:"orders,omitempty"`
}
