package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/frychicken/internal/models"
	"github.com/example/frychicken/internal/utils"
)

// AdminHandler manages branches and courier onboarding, and gives admins a
// view over every order.
type AdminHandler struct {
	db *gorm.DB
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{db: db}
}

// ListBranches returns all branches.
func (h *AdminHandler) ListBranches(c *fiber.Ctx) error {
	var branches []models.Branch
	if err := h.db.Order("name asc").Find(&branches).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": branches})
}

type branchRequest struct {
	Name         string `json:"name"`
	AddressLine  string `json:"addressLine"`
	District     string `json:"district"`
	ContactPhone string `json:"contactPhone"`
	IsActive     *bool  `json:"isActive"`
}

// CreateBranch creates a branch.
func (h *AdminHandler) CreateBranch(c *fiber.Ctx) error {
	var req branchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	branch := models.Branch{
		Name:         req.Name,
		AddressLine:  req.AddressLine,
		District:     req.District,
		ContactPhone: req.ContactPhone,
		IsActive:     true,
	}
	if req.IsActive != nil {
		branch.IsActive = *req.IsActive
	}

	if err := h.db.Create(&branch).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": branch})
}

// UpdateBranch updates branch fields.
func (h *AdminHandler) UpdateBranch(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req branchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.AddressLine != "" {
		updates["address_line"] = req.AddressLine
	}
	if req.District != "" {
		updates["district"] = req.District
	}
	if req.ContactPhone != "" {
		updates["contact_phone"] = req.ContactPhone
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	res := h.db.Model(&models.Branch{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "branch not found")
	}
	return c.JSON(fiber.Map{"success": true, "message": "branch updated"})
}

// ListCouriers returns couriers, optionally filtered by branch or status.
func (h *AdminHandler) ListCouriers(c *fiber.Ctx) error {
	query := h.db.Model(&models.DeliveryUser{})
	if branch := c.Query("branchId"); branch != "" {
		id, err := uuid.Parse(branch)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid branch id")
		}
		query = query.Where("branch_id = ?", id)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var couriers []models.DeliveryUser
	if err := query.Order("created_at desc").Find(&couriers).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": couriers})
}

type createCourierRequest struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	BranchID     string `json:"branchId"`
	DeliveryCode string `json:"deliveryCode"`
}

// CreateCourier registers a courier in pending state.
func (h *AdminHandler) CreateCourier(c *fiber.Ctx) error {
	var req createCourierRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" || req.Phone == "" || req.DeliveryCode == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing required fields")
	}

	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid branch id")
	}

	var existing models.DeliveryUser
	if err := h.db.Where("phone = ?", req.Phone).First(&existing).Error; err == nil {
		return fiber.NewError(fiber.StatusConflict, "courier already exists")
	} else if err != gorm.ErrRecordNotFound {
		return err
	}

	codeHash, err := utils.HashPassword(req.DeliveryCode)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash delivery code")
	}

	courier := models.DeliveryUser{
		Name:             req.Name,
		Phone:            req.Phone,
		BranchID:         branchID,
		Status:           models.CourierStatusPending,
		DeliveryCodeHash: codeHash,
	}
	if err := h.db.Create(&courier).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": courier})
}

type courierStatusRequest struct {
	Status string `json:"status"`
}

// SetCourierStatus approves or rejects a courier account.
func (h *AdminHandler) SetCourierStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req courierStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Status != models.CourierStatusApproved && req.Status != models.CourierStatusRejected {
		return fiber.NewError(fiber.StatusBadRequest, "status must be approved or rejected")
	}

	res := h.db.Model(&models.DeliveryUser{}).Where("id = ?", id).Update("status", req.Status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fiber.NewError(fiber.StatusNotFound, "courier not found")
	}
	return c.JSON(fiber.Map{"success": true, "message": "courier status updated"})
}

// ListAllOrders gives admins the full order board with optional filters.
func (h *AdminHandler) ListAllOrders(c *fiber.Ctx) error {
	pg := utils.ParsePagination(c)
	query := h.db.Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if branch := c.Query("branchId"); branch != "" {
		id, err := uuid.Parse(branch)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid branch id")
		}
		query = query.Where("branch_id = ?", id)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("created_at desc").
		Limit(pg.Limit).Offset(pg.Offset).
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    orders,
		"pagination": fiber.Map{
			"currentPage":  pg.Page,
			"itemsPerPage": pg.Limit,
			"totalItems":   total,
		},
	})
}
