package checkout

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/bikezone/internal/models"
)

// Checkout steps.
const (
	StepDetails  = 1
	StepLocation = 2
	StepPayment  = 3
)

var (
	// ErrPhoneRequired blocks leaving the details step without a phone number.
	ErrPhoneRequired = errors.New("a contact phone number is required")
	// ErrLocationRequired blocks leaving the location step without a delivery address.
	ErrLocationRequired = errors.New("a delivery location is required")
	// ErrPaymentMethodRequired blocks confirmation until a valid method is chosen.
	ErrPaymentMethodRequired = errors.New("a payment method must be selected")
	// ErrNotConfirmed rejects submission before the confirmation sub-state.
	ErrNotConfirmed = errors.New("payment has not been confirmed")
	// ErrSubmissionInFlight rejects any mutation while a submission is running.
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
)

// Session is one checkout attempt: a draft order plus the step state that
// gates its progress. All methods are safe for concurrent use; the zero value
// is not usable, sessions come from a Manager.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	BikeID    uuid.UUID
	CreatedAt time.Time

	mu                   sync.Mutex
	currentStep          int
	awaitingConfirmation bool
	processing           bool
	draft                DraftOrder
}

func newSession(userID, bikeID uuid.UUID, draft DraftOrder) *Session {
	return &Session{
		ID:          uuid.New(),
		UserID:      userID,
		BikeID:      bikeID,
		CreatedAt:   time.Now(),
		currentStep: StepDetails,
		draft:       draft,
	}
}

// Snapshot is a point-in-time copy of the session for responses and assembly.
type Snapshot struct {
	ID                   uuid.UUID  `json:"id"`
	CurrentStep          int        `json:"current_step"`
	AwaitingConfirmation bool       `json:"awaiting_confirmation"`
	Processing           bool       `json:"processing"`
	Draft                DraftOrder `json:"draft"`
}

// Snapshot returns a copy of the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:                   s.ID,
		CurrentStep:          s.currentStep,
		AwaitingConfirmation: s.awaitingConfirmation,
		Processing:           s.processing,
		Draft:                s.draft,
	}
}

// ApplyFields merges a partial field patch into the draft. No validation
// happens here; the step guards decide whether the values are good enough.
func (s *Session) ApplyFields(p FieldPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.processing {
		return ErrSubmissionInFlight
	}
	s.draft.apply(p)
	return nil
}

// SetResolvedLocation records a geocoded delivery point on the draft.
func (s *Session) SetResolvedLocation(address string, lat, lng float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.processing {
		return ErrSubmissionInFlight
	}
	s.draft.DeliveryLocation = address
	s.draft.Coordinates = &Coordinates{Lat: lat, Lng: lng}
	return nil
}

// Next advances one step if the current step's guard passes. On the payment
// step it never increments; it enters the confirmation sub-state instead.
func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.processing {
		return ErrSubmissionInFlight
	}

	switch s.currentStep {
	case StepDetails:
		if s.draft.CustomerPhone == "" {
			return ErrPhoneRequired
		}
		s.currentStep = StepLocation
	case StepLocation:
		if s.draft.DeliveryLocation == "" {
			return ErrLocationRequired
		}
		s.currentStep = StepPayment
	case StepPayment:
		return s.confirmLocked()
	}
	return nil
}

// Confirm checks the chosen payment method and enters the confirmation
// sub-state. The step does not change.
func (s *Session) Confirm() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.processing {
		return ErrSubmissionInFlight
	}
	return s.confirmLocked()
}

func (s *Session) confirmLocked() error {
	if !models.IsValidPaymentMethod(s.draft.PaymentMethod) {
		return ErrPaymentMethodRequired
	}
	s.awaitingConfirmation = true
	return nil
}

// Back moves one step toward the start. At the first step it is a no-op.
// Backing out of the confirmation sub-state returns to the payment step.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.processing {
		return ErrSubmissionInFlight
	}
	if s.awaitingConfirmation {
		s.awaitingConfirmation = false
		return nil
	}
	if s.currentStep > StepDetails {
		s.currentStep--
	}
	return nil
}

// beginSubmit flips the processing guard. A second call while a submission is
// in flight is rejected without side effects.
func (s *Session) beginSubmit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.processing {
		return ErrSubmissionInFlight
	}
	if !s.awaitingConfirmation {
		return ErrNotConfirmed
	}
	s.processing = true
	return nil
}

// endSubmit clears the processing guard. After a failed primary write the
// session stays in the confirmation sub-state with the draft intact so the
// user can retry.
func (s *Session) endSubmit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processing = false
}
