package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/bikezone/internal/models"
	"github.com/example/bikezone/internal/utils"
)

// BikeHandler manages the bike catalog.
type BikeHandler struct {
	db *gorm.DB
}

// NewBikeHandler constructs BikeHandler.
func NewBikeHandler(db *gorm.DB) *BikeHandler {
	return &BikeHandler{db: db}
}

// ListBikes returns paginated bikes with optional filters.
func (h *BikeHandler) ListBikes(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Bike{})

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q := "%" + search + "%"
		query = query.Where("name ILIKE ? OR brand ILIKE ?", q, q)
	}

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	if minPrice := c.Query("min_price"); minPrice != "" {
		if val, err := strconv.ParseFloat(minPrice, 64); err == nil {
			query = query.Where("price >= ?", val)
		}
	}

	if maxPrice := c.Query("max_price"); maxPrice != "" {
		if val, err := strconv.ParseFloat(maxPrice, 64); err == nil {
			query = query.Where("price <= ?", val)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var bikes []models.Bike
	if err := query.Limit(pg.Limit).Offset(pg.Offset).
		Order("created_at desc").
		Find(&bikes).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    bikes,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// FeaturedBikes returns the home-page subset: featured first, newest first.
func (h *BikeHandler) FeaturedBikes(c *fiber.Ctx) error {
	limit := utils.ParseLimit(c, 6)

	var bikes []models.Bike
	if err := h.db.Order("is_featured desc, created_at desc").
		Limit(limit).
		Find(&bikes).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": bikes})
}

// GetBike loads a single bike.
func (h *BikeHandler) GetBike(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var bike models.Bike
	if err := h.db.First(&bike, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "bike not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": bike})
}

type bikeRequest struct {
	Name             string  `json:"name"`
	Brand            string  `json:"brand"`
	ModelYear        int     `json:"model_year"`
	Category         string  `json:"category"`
	Price            float64 `json:"price"`
	Currency         string  `json:"currency"`
	EngineCC         int     `json:"engine_cc"`
	ShortDescription string  `json:"short_description"`
	LongDescription  string  `json:"long_description"`
	ImageURL         string  `json:"image_url"`
	StockCount       int     `json:"stock_count"`
	IsFeatured       bool    `json:"is_featured"`
}

// CreateBike adds a bike to the catalog (admin only).
func (h *BikeHandler) CreateBike(c *fiber.Ctx) error {
	var req bikeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" || req.Price <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "name and a positive price are required")
	}

	if req.Currency == "" {
		req.Currency = "BDT"
	}

	bike := models.Bike{
		Name:             req.Name,
		Brand:            req.Brand,
		ModelYear:        req.ModelYear,
		Category:         req.Category,
		Price:            req.Price,
		Currency:         req.Currency,
		EngineCC:         req.EngineCC,
		ShortDescription: req.ShortDescription,
		LongDescription:  req.LongDescription,
		ImageURL:         req.ImageURL,
		StockCount:       req.StockCount,
		IsFeatured:       req.IsFeatured,
	}

	if err := h.db.Create(&bike).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": bike})
}

// UpdateBike replaces a bike's editable fields (admin only).
func (h *BikeHandler) UpdateBike(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var bike models.Bike
	if err := h.db.First(&bike, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusNotFound, "bike not found")
		}
		return err
	}

	var req bikeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	bike.Name = req.Name
	bike.Brand = req.Brand
	bike.ModelYear = req.ModelYear
	bike.Category = req.Category
	bike.Price = req.Price
	bike.Currency = req.Currency
	bike.EngineCC = req.EngineCC
	bike.ShortDescription = req.ShortDescription
	bike.LongDescription = req.LongDescription
	bike.ImageURL = req.ImageURL
	bike.StockCount = req.StockCount
	bike.IsFeatured = req.IsFeatured

	if err := h.db.Save(&bike).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": bike})
}

// DeleteBike removes a bike from the catalog (admin only).
func (h *BikeHandler) DeleteBike(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	result := h.db.Delete(&models.Bike{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "bike not found")
	}

	return c.JSON(fiber.Map{"success": true})
}
