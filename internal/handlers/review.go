package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/bikezone/internal/middleware"
	"github.com/example/bikezone/internal/models"
	"github.com/example/bikezone/internal/utils"
)

// ReviewHandler manages customer reviews.
type ReviewHandler struct {
	db *gorm.DB
}

// NewReviewHandler constructs ReviewHandler.
func NewReviewHandler(db *gorm.DB) *ReviewHandler {
	return &ReviewHandler{db: db}
}

type createReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// CreateReview stores a review seeded with the authenticated user's identity.
func (h *ReviewHandler) CreateReview(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Rating < 1 || req.Rating > 5 {
		return fiber.NewError(fiber.StatusBadRequest, "rating must be between 1 and 5")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	review := models.Review{
		UserID:        userID,
		ReviewerName:  user.Name,
		ReviewerEmail: user.Email,
		PhotoURL:      user.PhotoURL,
		Rating:        req.Rating,
		Comment:       req.Comment,
	}

	if err := h.db.Create(&review).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": review})
}

// ListReviews returns the latest reviews for the home carousel.
func (h *ReviewHandler) ListReviews(c *fiber.Ctx) error {
	limit := utils.ParseLimit(c, 6)

	var reviews []models.Review
	if err := h.db.Order("created_at desc").
		Limit(limit).
		Find(&reviews).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": reviews})
}
