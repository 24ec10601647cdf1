package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment methods offered at checkout.
const (
	PaymentMethodBkash = "bkash"
	PaymentMethodNagad = "nagad"
	PaymentMethodCard  = "card"
	PaymentMethodCOD   = "cod"
)

// Payment statuses.
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// Order statuses. Orders start as Pending; the rest are set from the admin dashboard.
const (
	OrderStatusPending   = "Pending"
	OrderStatusApproved  = "Approved"
	OrderStatusShipped   = "Shipped"
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"
)

// PaymentMethods lists the accepted checkout methods.
var PaymentMethods = []string{
	PaymentMethodBkash,
	PaymentMethodNagad,
	PaymentMethodCard,
	PaymentMethodCOD,
}

// OrderStatuses lists the states an order can be moved through by an admin.
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusApproved,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// IsValidPaymentMethod reports whether m is one of the accepted methods.
func IsValidPaymentMethod(m string) bool {
	for _, method := range PaymentMethods {
		if m == method {
			return true
		}
	}
	return false
}

// IsValidOrderStatus reports whether s is a known order status.
func IsValidOrderStatus(s string) bool {
	for _, status := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// DerivePaymentStatus maps a payment method to the status the order is created
// with: cash on delivery stays pending until the courier collects, everything
// else is treated as paid up front.
func DerivePaymentStatus(method string) string {
	if method == PaymentMethodCOD {
		return PaymentStatusPending
	}
	return PaymentStatusPaid
}

// Order is a placed purchase of a single bike.
type Order struct {
	BaseModel
	UserID           uuid.UUID  `gorm:"type:uuid;index" json:"user_id"`
	User             *User      `json:"user,omitempty"`
	BikeID           *uuid.UUID `gorm:"type:uuid" json:"bike_id"`
	CustomerName     string     `json:"customer_name"`
	CustomerEmail    string     `json:"customer_email"`
	CustomerPhone    string     `json:"customer_phone"`
	BikeModel        string     `json:"bike_model"`
	Price            float64    `json:"price"`
	Status           string     `json:"status"`
	DeliveryLocation string     `json:"delivery_location"`
	Lat              *float64   `json:"lat"`
	Lng              *float64   `json:"lng"`
	DeliveryNotes    string     `json:"delivery_notes"`
	PaymentMethod    string     `json:"payment_method"`
	PaymentStatus    string     `json:"payment_status"`
	PaymentTime      time.Time  `json:"payment_time"`
}

// Payment is the record written alongside a successful order. It duplicates the
// customer and amount fields so the payments table reads standalone.
type Payment struct {
	BaseModel
	OrderID          string    `gorm:"index" json:"order_id"`
	TransactionID    string    `gorm:"uniqueIndex" json:"transaction_id"`
	CustomerName     string    `json:"customer_name"`
	CustomerEmail    string    `json:"customer_email"`
	CustomerPhone    string    `json:"customer_phone"`
	BikeModel        string    `json:"bike_model"`
	Amount           float64   `json:"amount"`
	PaymentMethod    string    `json:"payment_method"`
	PaymentStatus    string    `json:"payment_status"`
	OrderStatus      string    `json:"order_status"`
	DeliveryLocation string    `json:"delivery_location"`
	PaidAt           time.Time `json:"paid_at"`
}
