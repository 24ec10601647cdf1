package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/bikezone/internal/models"
)

// AdminHandler manages admin-only dashboard endpoints.
type AdminHandler struct {
	db *gorm.DB
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// DashboardStats returns aggregate statistics for the admin dashboard.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	var totalUsers int64
	if err := h.db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return err
	}

	var totalBikes int64
	if err := h.db.Model(&models.Bike{}).Count(&totalBikes).Error; err != nil {
		return err
	}

	var totalOrders int64
	if err := h.db.Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
		return err
	}

	type bucketCount struct {
		Bucket string `json:"bucket"`
		Count  int64  `json:"count"`
	}

	var statusCounts []bucketCount
	if err := h.db.Model(&models.Order{}).
		Select("status as bucket, count(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return err
	}

	ordersByStatus := make(map[string]int64)
	for _, sc := range statusCounts {
		ordersByStatus[sc.Bucket] = sc.Count
	}

	var methodCounts []bucketCount
	if err := h.db.Model(&models.Order{}).
		Select("payment_method as bucket, count(*) as count").
		Group("payment_method").
		Scan(&methodCounts).Error; err != nil {
		return err
	}

	ordersByMethod := make(map[string]int64)
	for _, mc := range methodCounts {
		ordersByMethod[mc.Bucket] = mc.Count
	}

	// Revenue excludes cancelled orders.
	var totalRevenue float64
	if err := h.db.Model(&models.Order{}).
		Where("status != ?", models.OrderStatusCancelled).
		Select("COALESCE(SUM(price), 0)").
		Scan(&totalRevenue).Error; err != nil {
		return err
	}

	var pendingPayments int64
	if err := h.db.Model(&models.Order{}).
		Where("payment_status = ?", models.PaymentStatusPending).
		Count(&pendingPayments).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_users":              totalUsers,
			"total_bikes":              totalBikes,
			"total_orders":             totalOrders,
			"total_revenue":            totalRevenue,
			"pending_payments":         pendingPayments,
			"orders_by_status":         ordersByStatus,
			"orders_by_payment_method": ordersByMethod,
		},
	})
}
