package checkout

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/bikezone/internal/models"
)

func strPtr(s string) *string { return &s }

func newTestSession() *Session {
	return newSession(uuid.New(), uuid.New(), DraftOrder{
		CustomerName:  "Rahim Uddin",
		CustomerEmail: "rahim@example.com",
		BikeModel:     "Yamaha R15 V4",
		Price:         525000,
	})
}

func TestSessionStartsAtDetailsStep(t *testing.T) {
	s := newTestSession()
	snap := s.Snapshot()

	assert.Equal(t, StepDetails, snap.CurrentStep)
	assert.False(t, snap.AwaitingConfirmation)
	assert.False(t, snap.Processing)
	assert.Equal(t, "Rahim Uddin", snap.Draft.CustomerName)
}

func TestNextBlockedWithoutPhone(t *testing.T) {
	s := newTestSession()

	err := s.Next()
	require.ErrorIs(t, err, ErrPhoneRequired)
	assert.Equal(t, StepDetails, s.Snapshot().CurrentStep)
}

func TestNextBlockedWithoutDeliveryLocation(t *testing.T) {
	s := newTestSession()
	require.NoError(t, s.ApplyFields(FieldPatch{CustomerPhone: strPtr("01712345678")}))
	require.NoError(t, s.Next())

	err := s.Next()
	require.ErrorIs(t, err, ErrLocationRequired)
	assert.Equal(t, StepLocation, s.Snapshot().CurrentStep)
}

func TestNextAdvancesThroughValidatedSteps(t *testing.T) {
	s := newTestSession()

	require.NoError(t, s.ApplyFields(FieldPatch{CustomerPhone: strPtr("01712345678")}))
	require.NoError(t, s.Next())
	assert.Equal(t, StepLocation, s.Snapshot().CurrentStep)

	require.NoError(t, s.ApplyFields(FieldPatch{DeliveryLocation: strPtr("Mirpur 10, Dhaka")}))
	require.NoError(t, s.Next())
	assert.Equal(t, StepPayment, s.Snapshot().CurrentStep)
}

func TestNextAtPaymentStepOpensConfirmationNotStepFour(t *testing.T) {
	s := newTestSession()
	advanceToPayment(t, s)

	// Without a payment method the confirmation guard fails.
	err := s.Next()
	require.ErrorIs(t, err, ErrPaymentMethodRequired)
	assert.Equal(t, StepPayment, s.Snapshot().CurrentStep)

	require.NoError(t, s.ApplyFields(FieldPatch{PaymentMethod: strPtr(models.PaymentMethodBkash)}))
	require.NoError(t, s.Next())

	snap := s.Snapshot()
	assert.Equal(t, StepPayment, snap.CurrentStep, "next at the final step must never increment")
	assert.True(t, snap.AwaitingConfirmation)
}

func TestConfirmRejectsUnknownPaymentMethod(t *testing.T) {
	s := newTestSession()
	advanceToPayment(t, s)

	require.NoError(t, s.ApplyFields(FieldPatch{PaymentMethod: strPtr("paypal")}))
	err := s.Confirm()
	require.ErrorIs(t, err, ErrPaymentMethodRequired)
	assert.False(t, s.Snapshot().AwaitingConfirmation)
}

func TestBackIsNoOpAtFirstStep(t *testing.T) {
	s := newTestSession()

	require.NoError(t, s.Back())
	assert.Equal(t, StepDetails, s.Snapshot().CurrentStep)
}

func TestBackDecrementsOneStepAtATime(t *testing.T) {
	s := newTestSession()
	advanceToPayment(t, s)

	require.NoError(t, s.Back())
	assert.Equal(t, StepLocation, s.Snapshot().CurrentStep)

	require.NoError(t, s.Back())
	assert.Equal(t, StepDetails, s.Snapshot().CurrentStep)
}

func TestBackLeavesConfirmationBeforeChangingStep(t *testing.T) {
	s := newTestSession()
	advanceToPayment(t, s)
	require.NoError(t, s.ApplyFields(FieldPatch{PaymentMethod: strPtr(models.PaymentMethodCOD)}))
	require.NoError(t, s.Confirm())

	require.NoError(t, s.Back())
	snap := s.Snapshot()
	assert.False(t, snap.AwaitingConfirmation)
	assert.Equal(t, StepPayment, snap.CurrentStep)
}

func TestApplyFieldsMergesNonDestructively(t *testing.T) {
	s := newTestSession()

	require.NoError(t, s.ApplyFields(FieldPatch{CustomerPhone: strPtr("01712345678")}))
	require.NoError(t, s.ApplyFields(FieldPatch{DeliveryNotes: strPtr("call before delivery")}))

	snap := s.Snapshot()
	assert.Equal(t, "01712345678", snap.Draft.CustomerPhone)
	assert.Equal(t, "call before delivery", snap.Draft.DeliveryNotes)
	assert.Equal(t, "Rahim Uddin", snap.Draft.CustomerName, "seeded fields survive patches")
}

func TestSetResolvedLocationFillsAddressAndCoordinates(t *testing.T) {
	s := newTestSession()

	require.NoError(t, s.SetResolvedLocation("Gulshan 2, Dhaka", 23.7925, 90.4078))

	snap := s.Snapshot()
	assert.Equal(t, "Gulshan 2, Dhaka", snap.Draft.DeliveryLocation)
	require.NotNil(t, snap.Draft.Coordinates)
	assert.InDelta(t, 23.7925, snap.Draft.Coordinates.Lat, 1e-9)
	assert.InDelta(t, 90.4078, snap.Draft.Coordinates.Lng, 1e-9)
}

func TestSubmitRequiresConfirmation(t *testing.T) {
	s := newTestSession()
	advanceToPayment(t, s)
	require.NoError(t, s.ApplyFields(FieldPatch{PaymentMethod: strPtr(models.PaymentMethodCard)}))

	err := s.beginSubmit()
	require.ErrorIs(t, err, ErrNotConfirmed)
}

func TestMutationsRejectedWhileProcessing(t *testing.T) {
	s := newTestSession()
	advanceToPayment(t, s)
	require.NoError(t, s.ApplyFields(FieldPatch{PaymentMethod: strPtr(models.PaymentMethodCard)}))
	require.NoError(t, s.Confirm())
	require.NoError(t, s.beginSubmit())

	assert.ErrorIs(t, s.ApplyFields(FieldPatch{DeliveryNotes: strPtr("x")}), ErrSubmissionInFlight)
	assert.ErrorIs(t, s.Next(), ErrSubmissionInFlight)
	assert.ErrorIs(t, s.Back(), ErrSubmissionInFlight)
	assert.ErrorIs(t, s.Confirm(), ErrSubmissionInFlight)
	assert.ErrorIs(t, s.beginSubmit(), ErrSubmissionInFlight)

	s.endSubmit()
	assert.NoError(t, s.ApplyFields(FieldPatch{DeliveryNotes: strPtr("x")}))
}

func advanceToPayment(t *testing.T, s *Session) {
	t.Helper()
	require.NoError(t, s.ApplyFields(FieldPatch{
		CustomerPhone:    strPtr("01712345678"),
		DeliveryLocation: strPtr("Mirpur 10, Dhaka"),
	}))
	require.NoError(t, s.Next())
	require.NoError(t, s.Next())
	require.Equal(t, StepPayment, s.Snapshot().CurrentStep)
}
