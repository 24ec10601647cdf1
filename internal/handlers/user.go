package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/bikezone/internal/middleware"
	"github.com/example/bikezone/internal/models"
	"github.com/example/bikezone/internal/utils"
)

// UserHandler manages user profile and admin-flag endpoints.
type UserHandler struct {
	db *gorm.DB
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// Me returns the authenticated user's profile.
func (h *UserHandler) Me(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	return c.JSON(fiber.Map{"success": true, "data": publicUser(user)})
}

// IsAdmin reports whether the given email belongs to an admin. The dashboard
// gate polls this on sign-in.
func (h *UserHandler) IsAdmin(c *fiber.Ctx) error {
	email := strings.ToLower(c.Params("email"))

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return c.JSON(fiber.Map{"success": true, "admin": false})
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "admin": user.IsAdmin})
}

// GrantAdmin promotes the user with the given email (admin only).
func (h *UserHandler) GrantAdmin(c *fiber.Ctx) error {
	email := strings.ToLower(c.Params("email"))

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	if !user.IsAdmin {
		if err := h.db.Model(&user).Update("is_admin", true).Error; err != nil {
			return err
		}
	}

	return c.JSON(fiber.Map{"success": true, "data": publicUser(user)})
}

// ListUsers returns paginated users (admin only).
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.User{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var users []models.User
	if err := query.Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&users).Error; err != nil {
		return err
	}

	data := make([]map[string]interface{}, 0, len(users))
	for _, user := range users {
		data = append(data, publicUser(user))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}
