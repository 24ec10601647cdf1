package checkout

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/bikezone/internal/models"
)

type fakeOrderStore struct {
	mu       sync.Mutex
	inserted []models.Order
	nextID   string
	err      error
	entered  chan struct{}
	release  chan struct{}
}

func (f *fakeOrderStore) InsertOrder(ctx context.Context, order *models.Order) (string, error) {
	f.mu.Lock()
	f.inserted = append(f.inserted, *order)
	f.mu.Unlock()

	if f.entered != nil {
		close(f.entered)
		f.entered = nil
	}
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return "", f.err
	}
	return f.nextID, nil
}

func (f *fakeOrderStore) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.inserted)
}

type fakePaymentStore struct {
	mu       sync.Mutex
	inserted []models.Payment
	err      error
}

func (f *fakePaymentStore) InsertPayment(ctx context.Context, payment *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, *payment)
	return nil
}

func confirmedSession(t *testing.T, method string) *Session {
	t.Helper()
	s := newTestSession()
	advanceToPayment(t, s)
	require.NoError(t, s.ApplyFields(FieldPatch{PaymentMethod: &method}))
	require.NoError(t, s.Confirm())
	return s
}

// Cash on delivery: the payment record rides on the inserted order id with a
// pending status and the completion skips the animation.
func TestSubmitCashOnDelivery(t *testing.T) {
	orders := &fakeOrderStore{nextID: "abc123"}
	payments := &fakePaymentStore{}
	o := NewOrchestrator(orders, payments, nil)
	o.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	s := confirmedSession(t, models.PaymentMethodCOD)
	result, err := o.Submit(context.Background(), s)
	require.NoError(t, err)

	assert.Equal(t, "abc123", result.OrderID)
	assert.Equal(t, models.PaymentStatusPending, result.PaymentStatus)
	assert.Equal(t, CompletionDirect, result.Completion)
	assert.True(t, result.PaymentRecorded)
	assert.True(t, strings.HasPrefix(result.TransactionID, "TXN-"))

	require.Len(t, orders.inserted, 1)
	order := orders.inserted[0]
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), order.PaymentTime)

	require.Len(t, payments.inserted, 1)
	payment := payments.inserted[0]
	assert.Equal(t, "abc123", payment.OrderID)
	assert.Equal(t, result.TransactionID, payment.TransactionID)
	assert.Equal(t, models.PaymentStatusPending, payment.PaymentStatus)
	assert.Equal(t, order.Price, payment.Amount)
	assert.Equal(t, order.CustomerName, payment.CustomerName)

	assert.False(t, s.Snapshot().Processing)
}

func TestSubmitDigitalMethodsArePaidAndCelebrate(t *testing.T) {
	for _, method := range []string{models.PaymentMethodBkash, models.PaymentMethodNagad, models.PaymentMethodCard} {
		t.Run(method, func(t *testing.T) {
			orders := &fakeOrderStore{nextID: "ord-1"}
			payments := &fakePaymentStore{}
			o := NewOrchestrator(orders, payments, nil)

			result, err := o.Submit(context.Background(), confirmedSession(t, method))
			require.NoError(t, err)

			assert.Equal(t, models.PaymentStatusPaid, result.PaymentStatus)
			assert.Equal(t, CompletionCelebrate, result.Completion)
			require.Len(t, payments.inserted, 1)
			assert.Equal(t, models.PaymentStatusPaid, payments.inserted[0].PaymentStatus)
		})
	}
}

// Scenario B: the primary write fails, the user gets an error, and the session
// stays at the payment step with the draft intact for a retry.
func TestSubmitPrimaryWriteFailureKeepsSessionEditable(t *testing.T) {
	orders := &fakeOrderStore{err: errors.New("connection refused")}
	payments := &fakePaymentStore{}
	o := NewOrchestrator(orders, payments, nil)

	s := confirmedSession(t, models.PaymentMethodBkash)
	_, err := o.Submit(context.Background(), s)
	require.ErrorIs(t, err, ErrOrderWrite)

	snap := s.Snapshot()
	assert.False(t, snap.Processing)
	assert.True(t, snap.AwaitingConfirmation)
	assert.Equal(t, StepPayment, snap.CurrentStep)
	assert.Equal(t, "01712345678", snap.Draft.CustomerPhone, "form data is retained")
	assert.Empty(t, payments.inserted, "no dependent write after a failed order")

	// Retry succeeds against a recovered backend.
	orders.err = nil
	orders.nextID = "ord-2"
	result, err := o.Submit(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, "ord-2", result.OrderID)
}

func TestSubmitMissingInsertedIDIsAFailure(t *testing.T) {
	orders := &fakeOrderStore{nextID: ""}
	payments := &fakePaymentStore{}
	o := NewOrchestrator(orders, payments, nil)

	s := confirmedSession(t, models.PaymentMethodCard)
	_, err := o.Submit(context.Background(), s)
	require.ErrorIs(t, err, ErrOrderWrite)
	assert.False(t, s.Snapshot().Processing)
	assert.Empty(t, payments.inserted)
}

// Scenario C: the payment record write fails after a successful order. The
// order stands, the user still sees success, only the result notes the miss.
func TestSubmitPaymentRecordFailureIsBestEffort(t *testing.T) {
	orders := &fakeOrderStore{nextID: "ord-3"}
	payments := &fakePaymentStore{err: errors.New("payments table unavailable")}
	o := NewOrchestrator(orders, payments, nil)

	result, err := o.Submit(context.Background(), confirmedSession(t, models.PaymentMethodNagad))
	require.NoError(t, err, "a failed secondary write must not fail the order")

	assert.Equal(t, "ord-3", result.OrderID)
	assert.Equal(t, CompletionCelebrate, result.Completion)
	assert.False(t, result.PaymentRecorded)
}

func TestSubmitIgnoresDuplicateTriggerWhileInFlight(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	orders := &fakeOrderStore{nextID: "ord-4", entered: entered, release: release}
	payments := &fakePaymentStore{}
	o := NewOrchestrator(orders, payments, nil)

	s := confirmedSession(t, models.PaymentMethodCOD)

	done := make(chan error, 1)
	go func() {
		_, err := o.Submit(context.Background(), s)
		done <- err
	}()

	<-entered

	// Second trigger while the first is in flight: rejected before any write.
	_, err := o.Submit(context.Background(), s)
	require.ErrorIs(t, err, ErrSubmissionInFlight)
	assert.Equal(t, 1, orders.calls())

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, orders.calls())
	require.Len(t, payments.inserted, 1)
}
