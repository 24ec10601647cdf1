package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/bikezone/internal/checkout"
	"github.com/example/bikezone/internal/middleware"
	"github.com/example/bikezone/internal/models"
	"github.com/example/bikezone/internal/services"
)

// Per-method instructions shown in the payment confirmation sub-state.
var paymentInstructions = map[string]string{
	models.PaymentMethodBkash: "Send the total amount to the BikeZone bKash merchant number and confirm below.",
	models.PaymentMethodNagad: "Send the total amount to the BikeZone Nagad merchant number and confirm below.",
	models.PaymentMethodCard:  "Your card will be charged the total amount once you confirm.",
	models.PaymentMethodCOD:   "Payment is due in cash when the bike is delivered.",
}

// CheckoutHandler drives the three-step checkout workflow.
type CheckoutHandler struct {
	db           *gorm.DB
	sessions     *checkout.Manager
	orchestrator *checkout.Orchestrator
	geocoder     *services.GeocodeService
	guard        *services.SubmitGuard
}

// NewCheckoutHandler constructs CheckoutHandler. guard may be nil when Redis
// is not configured.
func NewCheckoutHandler(db *gorm.DB, sessions *checkout.Manager, orchestrator *checkout.Orchestrator, geocoder *services.GeocodeService, guard *services.SubmitGuard) *CheckoutHandler {
	return &CheckoutHandler{
		db:           db,
		sessions:     sessions,
		orchestrator: orchestrator,
		geocoder:     geocoder,
		guard:        guard,
	}
}

type openSessionRequest struct {
	BikeID string `json:"bike_id"`
}

// OpenSession starts a checkout for one bike, seeding the draft from the
// authenticated user and the selected bike.
func (h *CheckoutHandler) OpenSession(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req openSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	bikeID, err := uuid.Parse(req.BikeID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid bike id")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var bike models.Bike
	if err := h.db.First(&bike, "id = ?", bikeID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "bike not found")
		}
		return err
	}

	session := h.sessions.Open(userID, bikeID, checkout.DraftOrder{
		CustomerName:  user.Name,
		CustomerEmail: user.Email,
		CustomerPhone: user.Phone,
		BikeModel:     bike.Name,
		Price:         bike.Price,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    h.sessionView(session),
	})
}

// GetSession returns the current state of a checkout session.
func (h *CheckoutHandler) GetSession(c *fiber.Ctx) error {
	session, err := h.loadSession(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": h.sessionView(session)})
}

// PatchFields merges user-editable fields into the draft. Validation waits
// for the step guards.
func (h *CheckoutHandler) PatchFields(c *fiber.Ctx) error {
	session, err := h.loadSession(c)
	if err != nil {
		return err
	}

	var patch checkout.FieldPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := session.ApplyFields(patch); err != nil {
		return mapCheckoutError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": h.sessionView(session)})
}

// Next advances the step controller.
func (h *CheckoutHandler) Next(c *fiber.Ctx) error {
	session, err := h.loadSession(c)
	if err != nil {
		return err
	}

	if err := session.Next(); err != nil {
		return mapCheckoutError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": h.sessionView(session)})
}

// Back moves one step toward the start.
func (h *CheckoutHandler) Back(c *fiber.Ctx) error {
	session, err := h.loadSession(c)
	if err != nil {
		return err
	}

	if err := session.Back(); err != nil {
		return mapCheckoutError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": h.sessionView(session)})
}

// Confirm enters the payment confirmation sub-state.
func (h *CheckoutHandler) Confirm(c *fiber.Ctx) error {
	session, err := h.loadSession(c)
	if err != nil {
		return err
	}

	if err := session.Confirm(); err != nil {
		return mapCheckoutError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": h.sessionView(session)})
}

type locateRequest struct {
	Query string   `json:"query"`
	Lat   *float64 `json:"lat"`
	Lng   *float64 `json:"lng"`
}

// Locate resolves a free-text address or device coordinates through the
// geocoder and stores the result on the draft. Failures are non-fatal; the
// user can always type the address by hand.
func (h *CheckoutHandler) Locate(c *fiber.Ctx) error {
	session, err := h.loadSession(c)
	if err != nil {
		return err
	}

	var req locateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var result *services.GeocodeResult
	switch {
	case req.Lat != nil && req.Lng != nil:
		result, err = h.geocoder.Reverse(c.Context(), *req.Lat, *req.Lng)
	case req.Query != "":
		result, err = h.geocoder.Forward(c.Context(), req.Query)
	default:
		return fiber.NewError(fiber.StatusBadRequest, "query or coordinates required")
	}
	if err != nil {
		log.Printf("[Checkout] geocoding failed for session %s: %v", session.ID, err)
		return fiber.NewError(fiber.StatusBadGateway, "could not resolve the location, please enter the address manually")
	}

	if err := session.SetResolvedLocation(result.DisplayName, result.Lat, result.Lng); err != nil {
		return mapCheckoutError(err)
	}

	return c.JSON(fiber.Map{"success": true, "data": h.sessionView(session)})
}

// Submit runs the order submission orchestrator and, on success, destroys the
// session.
func (h *CheckoutHandler) Submit(c *fiber.Ctx) error {
	session, err := h.loadSession(c)
	if err != nil {
		return err
	}

	acquired, err := h.guard.Acquire(c.Context(), session.ID.String())
	if err != nil {
		log.Printf("[Checkout] submit guard unavailable for session %s: %v", session.ID, err)
	} else if !acquired {
		return fiber.NewError(fiber.StatusConflict, "a submission is already in progress")
	}

	result, err := h.orchestrator.Submit(c.Context(), session)
	if err != nil {
		if releaseErr := h.guard.Release(c.Context(), session.ID.String()); releaseErr != nil {
			log.Printf("[Checkout] submit guard release failed for session %s: %v", session.ID, releaseErr)
		}
		return mapCheckoutError(err)
	}

	h.sessions.Close(session.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    result,
	})
}

// CancelSession closes the checkout and discards the draft.
func (h *CheckoutHandler) CancelSession(c *fiber.Ctx) error {
	session, err := h.loadSession(c)
	if err != nil {
		return err
	}

	h.sessions.Close(session.ID)
	return c.JSON(fiber.Map{"success": true})
}

func (h *CheckoutHandler) loadSession(c *fiber.Ctx) (*checkout.Session, error) {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	session, err := h.sessions.Get(id, userID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "checkout session not found")
	}
	return session, nil
}

// sessionView decorates a snapshot with the confirmation instructions once
// the session reaches the confirmation sub-state.
func (h *CheckoutHandler) sessionView(session *checkout.Session) fiber.Map {
	snap := session.Snapshot()
	view := fiber.Map{"session": snap}
	if snap.AwaitingConfirmation {
		view["payment_status_preview"] = models.DerivePaymentStatus(snap.Draft.PaymentMethod)
		view["instructions"] = paymentInstructions[snap.Draft.PaymentMethod]
	}
	return view
}

func mapCheckoutError(err error) error {
	switch {
	case errors.Is(err, checkout.ErrPhoneRequired),
		errors.Is(err, checkout.ErrLocationRequired),
		errors.Is(err, checkout.ErrPaymentMethodRequired):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, checkout.ErrNotConfirmed):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, checkout.ErrSubmissionInFlight):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, checkout.ErrOrderWrite):
		return fiber.NewError(fiber.StatusBadGateway, "the order could not be placed, please try again")
	default:
		return err
	}
}
