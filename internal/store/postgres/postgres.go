package postgres

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/frychicken/internal/models"
	"github.com/example/frychicken/internal/store"
)

// Store implements store.Store on top of PostgreSQL via gorm. Every
// conditional write is a single UPDATE with its guard in the WHERE clause,
// so concurrent actors race on the database row, not in memory.
type Store struct {
	db *gorm.DB
}

// New wraps an initialized gorm connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) CreateOrder(order *models.Order) error {
	return s.db.Create(order).Error
}

func (s *Store) GetOrder(id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (s *Store) NextOrderNumber() (int64, error) {
	var value int64
	err := s.db.Raw(
		`UPDATE order_counters SET value = value + 1 WHERE name = ? RETURNING value`,
		models.OrderCounterName,
	).Scan(&value).Error
	return value, err
}

func (s *Store) OrdersByBranch(branchID uuid.UUID, status string, limit, offset int) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).Where("branch_id = ?", branchID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	return s.listOrders(query, limit, offset)
}

func (s *Store) OrdersByCustomer(customerID uuid.UUID, status string, limit, offset int) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).Where("customer_id = ?", customerID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	return s.listOrders(query, limit, offset)
}

func (s *Store) listOrders(query *gorm.DB, limit, offset int) ([]models.Order, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	if err := query.Preload("Items").
		Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (s *Store) OrdersByCourier(courierID uuid.UUID, statuses ...string) ([]models.Order, error) {
	query := s.db.Where("delivery_id = ?", courierID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}

	var orders []models.Order
	if err := query.Preload("Items").Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Store) AvailableForClaim(branchID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items").
		Where("branch_id = ? AND status = ? AND delivery_type = ? AND delivery_id IS NULL",
			branchID, models.OrderStatusPreparing, models.DeliveryTypeDelivery).
		Order("created_at asc").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Store) CountActiveByCourier(courierID, excludeID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&models.Order{}).
		Where("delivery_id = ? AND id <> ? AND status IN ?",
			courierID, excludeID, []string{models.OrderStatusPreparing, models.OrderStatusDispatched}).
		Count(&count).Error
	return count, err
}

func (s *Store) ClaimIfUnassigned(orderID, courierID uuid.UUID) (bool, error) {
	res := s.db.Model(&models.Order{}).
		Where("id = ? AND delivery_id IS NULL AND status = ?", orderID, models.OrderStatusPreparing).
		Updates(map[string]interface{}{
			"delivery_id":           courierID,
			"status":                models.OrderStatusDispatched,
			"assigned_by_branch":    false,
			"delivery_requested_by": nil,
			"request_approved":      false,
		})
	return res.RowsAffected > 0, res.Error
}

func (s *Store) RequestClaim(orderID, courierID uuid.UUID) (bool, error) {
	res := s.db.Model(&models.Order{}).
		Where("id = ? AND delivery_id IS NULL AND status = ?", orderID, models.OrderStatusPreparing).
		Updates(map[string]interface{}{
			"delivery_requested_by": courierID,
			"request_approved":      false,
		})
	return res.RowsAffected > 0, res.Error
}

func (s *Store) PromoteClaim(orderID, courierID uuid.UUID) (bool, error) {
	res := s.db.Model(&models.Order{}).
		Where("id = ? AND delivery_requested_by = ? AND delivery_id IS NULL", orderID, courierID).
		Updates(map[string]interface{}{
			"delivery_id":           courierID,
			"delivery_requested_by": nil,
			"request_approved":      true,
			"assigned_by_branch":    true,
			"status":                models.OrderStatusDispatched,
		})
	return res.RowsAffected > 0, res.Error
}

func (s *Store) ClearClaim(orderID uuid.UUID) error {
	return s.db.Model(&models.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"delivery_requested_by": nil,
			"request_approved":      false,
		}).Error
}

func (s *Store) AssignCourier(orderID, courierID uuid.UUID) (bool, error) {
	res := s.db.Model(&models.Order{}).
		Where("id = ? AND delivery_id IS NULL AND status = ?", orderID, models.OrderStatusReady).
		Updates(map[string]interface{}{
			"delivery_id":           courierID,
			"delivery_requested_by": nil,
			"assigned_by_branch":    true,
			"request_approved":      true,
			"status":                models.OrderStatusDispatched,
		})
	return res.RowsAffected > 0, res.Error
}

func (s *Store) ConfirmReceived(orderID, courierID uuid.UUID) (bool, error) {
	res := s.db.Model(&models.Order{}).
		Where("id = ? AND delivery_id = ? AND assigned_by_branch = true AND delivery_received = false AND status = ?",
			orderID, courierID, models.OrderStatusDispatched).
		Update("delivery_received", true)
	return res.RowsAffected > 0, res.Error
}

func (s *Store) TransitionStatus(orderID uuid.UUID, from, to string, updates map[string]interface{}) (bool, error) {
	values := map[string]interface{}{"status": to}
	for k, v := range updates {
		values[k] = v
	}

	res := s.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Updates(values)
	return res.RowsAffected > 0, res.Error
}

func (s *Store) GetOrCreatePoints(userID uuid.UUID) (*models.UserPoints, error) {
	var points models.UserPoints
	err := s.db.Where(models.UserPoints{UserID: userID}).
		Attrs(models.UserPoints{LastUpdated: time.Now()}).
		FirstOrCreate(&points).Error
	if err != nil {
		return nil, err
	}
	return &points, nil
}

func (s *Store) AddPoints(userID uuid.UUID, points int) error {
	if _, err := s.GetOrCreatePoints(userID); err != nil {
		return err
	}

	return s.db.Model(&models.UserPoints{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"available_points": gorm.Expr("available_points + ?", points),
			"total_points":     gorm.Expr("total_points + ?", points),
			"last_updated":     time.Now(),
		}).Error
}

func (s *Store) DeductPoints(userID uuid.UUID, amount int) (bool, error) {
	res := s.db.Model(&models.UserPoints{}).
		Where("user_id = ? AND available_points >= ?", userID, amount).
		Updates(map[string]interface{}{
			"available_points": gorm.Expr("available_points - ?", amount),
			"last_updated":     time.Now(),
		})
	return res.RowsAffected > 0, res.Error
}

func (s *Store) AppendNotification(n *models.BranchNotification) error {
	return s.db.Create(n).Error
}

func (s *Store) NotificationsByBranch(branchID uuid.UUID, limit, offset int) ([]models.BranchNotification, int64, error) {
	query := s.db.Model(&models.BranchNotification{}).Where("branch_id = ?", branchID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.BranchNotification
	if err := query.Order("created_at desc").
		Limit(limit).Offset(offset).
		Find(&notifications).Error; err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (s *Store) MarkNotificationRead(id uuid.UUID) error {
	res := s.db.Model(&models.BranchNotification{}).
		Where("id = ?", id).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) UnreadNotificationCount(branchID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&models.BranchNotification{}).
		Where("branch_id = ? AND read = false", branchID).
		Count(&count).Error
	return count, err
}

func (s *Store) CreateCancellation(rec *models.OrderCancellation) error {
	return s.db.Create(rec).Error
}

func (s *Store) CreateDelay(rec *models.OrderDelay) error {
	return s.db.Create(rec).Error
}

func (s *Store) CreateRating(rec *models.DeliveryRating) error {
	return s.db.Create(rec).Error
}

func (s *Store) GetCourier(id uuid.UUID) (*models.DeliveryUser, error) {
	var courier models.DeliveryUser
	if err := s.db.First(&courier, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &courier, nil
}
