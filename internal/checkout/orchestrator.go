package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/example/bikezone/internal/metrics"
	"github.com/example/bikezone/internal/models"
	"github.com/example/bikezone/internal/utils"
)

// Completion tells the client how to wrap up after a successful submission.
const (
	// CompletionCelebrate: digital payments show the success animation before
	// the confirmation dialog.
	CompletionCelebrate = "celebrate"
	// CompletionDirect: cash on delivery goes straight to the confirmation
	// dialog, payment is due on delivery.
	CompletionDirect = "direct"
)

// ErrOrderWrite is returned when the primary order write fails or yields no
// inserted identifier. The session stays editable for a retry.
var ErrOrderWrite = errors.New("order could not be placed")

// OrderStore persists orders. InsertOrder returns the inserted identifier;
// an empty identifier counts as a failed write.
type OrderStore interface {
	InsertOrder(ctx context.Context, order *models.Order) (string, error)
}

// PaymentStore persists payment records.
type PaymentStore interface {
	InsertPayment(ctx context.Context, payment *models.Payment) error
}

// Notifier pushes a best-effort new-order notification to the shop admins.
type Notifier interface {
	NotifyNewOrder(order models.Order, transactionID string) error
}

// Result reports the outcome of a successful submission.
type Result struct {
	OrderID         string `json:"order_id"`
	TransactionID   string `json:"transaction_id"`
	PaymentStatus   string `json:"payment_status"`
	Completion      string `json:"completion"`
	PaymentRecorded bool   `json:"payment_recorded"`
}

// Orchestrator runs the two-write submission sequence: the order insert,
// then the dependent best-effort payment record.
type Orchestrator struct {
	orders   OrderStore
	payments PaymentStore
	notifier Notifier
	now      func() time.Time
}

// NewOrchestrator constructs an Orchestrator. notifier may be nil.
func NewOrchestrator(orders OrderStore, payments PaymentStore, notifier Notifier) *Orchestrator {
	return &Orchestrator{
		orders:   orders,
		payments: payments,
		notifier: notifier,
		now:      time.Now,
	}
}

// Submit consumes the session's draft exactly once. It is only legal from the
// confirmation sub-state; a second call while one is in flight is rejected
// before any network activity. On success the caller destroys the session; on
// a primary write failure the session is left intact for a retry.
func (o *Orchestrator) Submit(ctx context.Context, s *Session) (*Result, error) {
	if err := s.beginSubmit(); err != nil {
		return nil, err
	}

	snap := s.Snapshot()
	order := assembleOrder(s, snap, o.now())

	orderID, err := o.orders.InsertOrder(ctx, &order)
	if err != nil {
		s.endSubmit()
		return nil, fmt.Errorf("%w: %v", ErrOrderWrite, err)
	}
	if orderID == "" {
		s.endSubmit()
		return nil, fmt.Errorf("%w: backend returned no inserted id", ErrOrderWrite)
	}

	result := &Result{
		OrderID:         orderID,
		TransactionID:   utils.NewTransactionID(),
		PaymentStatus:   order.PaymentStatus,
		Completion:      completionFor(order.PaymentMethod),
		PaymentRecorded: true,
	}

	payment := assemblePayment(order, orderID, result.TransactionID)
	if err := o.payments.InsertPayment(ctx, &payment); err != nil {
		// Best-effort secondary write: the order already exists, so the
		// failure is logged and counted, never surfaced or rolled back.
		log.Printf("[Checkout] payment record write failed for order %s: %v", orderID, err)
		metrics.PaymentRecordFailures.Inc()
		result.PaymentRecorded = false
	}

	metrics.OrdersPlaced.WithLabelValues(order.PaymentMethod).Inc()

	if o.notifier != nil {
		go func() {
			if err := o.notifier.NotifyNewOrder(order, result.TransactionID); err != nil {
				log.Printf("[Checkout] admin notification failed for order %s: %v", orderID, err)
			}
		}()
	}

	s.endSubmit()
	return result, nil
}

func assembleOrder(s *Session, snap Snapshot, paymentTime time.Time) models.Order {
	bikeID := s.BikeID
	order := models.Order{
		UserID:           s.UserID,
		BikeID:           &bikeID,
		CustomerName:     snap.Draft.CustomerName,
		CustomerEmail:    snap.Draft.CustomerEmail,
		CustomerPhone:    snap.Draft.CustomerPhone,
		BikeModel:        snap.Draft.BikeModel,
		Price:            snap.Draft.Price,
		Status:           models.OrderStatusPending,
		DeliveryLocation: snap.Draft.DeliveryLocation,
		DeliveryNotes:    snap.Draft.DeliveryNotes,
		PaymentMethod:    snap.Draft.PaymentMethod,
		PaymentStatus:    models.DerivePaymentStatus(snap.Draft.PaymentMethod),
		PaymentTime:      paymentTime,
	}
	if snap.Draft.Coordinates != nil {
		lat, lng := snap.Draft.Coordinates.Lat, snap.Draft.Coordinates.Lng
		order.Lat, order.Lng = &lat, &lng
	}
	return order
}

func assemblePayment(order models.Order, orderID, transactionID string) models.Payment {
	return models.Payment{
		OrderID:          orderID,
		TransactionID:    transactionID,
		CustomerName:     order.CustomerName,
		CustomerEmail:    order.CustomerEmail,
		CustomerPhone:    order.CustomerPhone,
		BikeModel:        order.BikeModel,
		Amount:           order.Price,
		PaymentMethod:    order.PaymentMethod,
		PaymentStatus:    order.PaymentStatus,
		OrderStatus:      order.Status,
		DeliveryLocation: order.DeliveryLocation,
		PaidAt:           order.PaymentTime,
	}
}

func completionFor(method string) string {
	if method == models.PaymentMethodCOD {
		return CompletionDirect
	}
	return CompletionCelebrate
}
