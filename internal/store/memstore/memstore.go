package memstore

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/frychicken/internal/models"
	"github.com/example/frychicken/internal/store"
)

// Store is a mutex-guarded in-memory implementation of store.Store. It backs
// the engine tests and mirrors the conditional-write semantics of the
// postgres store: guards are checked under the lock, so two goroutines racing
// on the same order see exactly one winner.
type Store struct {
	mu            sync.Mutex
	orders        map[uuid.UUID]*models.Order
	points        map[uuid.UUID]*models.UserPoints
	notifications []*models.BranchNotification
	cancellations map[uuid.UUID]*models.OrderCancellation
	delays        []*models.OrderDelay
	ratings       map[uuid.UUID]*models.DeliveryRating
	couriers      map[uuid.UUID]*models.DeliveryUser
	orderCounter  int64
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		orders:        make(map[uuid.UUID]*models.Order),
		points:        make(map[uuid.UUID]*models.UserPoints),
		cancellations: make(map[uuid.UUID]*models.OrderCancellation),
		ratings:       make(map[uuid.UUID]*models.DeliveryRating),
		couriers:      make(map[uuid.UUID]*models.DeliveryUser),
	}
}

// PutCourier seeds a courier record.
func (s *Store) PutCourier(courier *models.DeliveryUser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if courier.ID == uuid.Nil {
		courier.ID = uuid.New()
	}
	s.couriers[courier.ID] = courier
}

func (s *Store) CreateOrder(order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	clone := *order
	s.orders[order.ID] = &clone
	return nil
}

func (s *Store) GetOrder(id uuid.UUID) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *order
	return &clone, nil
}

func (s *Store) NextOrderNumber() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orderCounter++
	return s.orderCounter, nil
}

func (s *Store) OrdersByBranch(branchID uuid.UUID, status string, limit, offset int) ([]models.Order, int64, error) {
	return s.listOrders(func(o *models.Order) bool {
		return o.BranchID == branchID && (status == "" || o.Status == status)
	}, limit, offset)
}

func (s *Store) OrdersByCustomer(customerID uuid.UUID, status string, limit, offset int) ([]models.Order, int64, error) {
	return s.listOrders(func(o *models.Order) bool {
		return o.CustomerID == customerID && (status == "" || o.Status == status)
	}, limit, offset)
}

func (s *Store) listOrders(match func(*models.Order) bool, limit, offset int) ([]models.Order, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []models.Order
	for _, o := range s.orders {
		if match(o) {
			all = append(all, *o)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (s *Store) OrdersByCourier(courierID uuid.UUID, statuses ...string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []models.Order
	for _, o := range s.orders {
		if o.DeliveryID == nil || *o.DeliveryID != courierID {
			continue
		}
		if len(statuses) > 0 && !contains(statuses, o.Status) {
			continue
		}
		result = append(result, *o)
	}
	return result, nil
}

func (s *Store) AvailableForClaim(branchID uuid.UUID) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []models.Order
	for _, o := range s.orders {
		if o.BranchID == branchID && o.Status == models.OrderStatusPreparing &&
			o.DeliveryType == models.DeliveryTypeDelivery && o.DeliveryID == nil {
			result = append(result, *o)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (s *Store) CountActiveByCourier(courierID, excludeID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, o := range s.orders {
		if o.ID == excludeID || o.DeliveryID == nil || *o.DeliveryID != courierID {
			continue
		}
		if o.Status == models.OrderStatusPreparing || o.Status == models.OrderStatusDispatched {
			count++
		}
	}
	return count, nil
}

func (s *Store) ClaimIfUnassigned(orderID, courierID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok || order.DeliveryID != nil || order.Status != models.OrderStatusPreparing {
		return false, nil
	}

	courier := courierID
	order.DeliveryID = &courier
	order.Status = models.OrderStatusDispatched
	order.AssignedByBranch = false
	order.DeliveryRequestedBy = nil
	order.RequestApproved = false
	order.UpdatedAt = time.Now()
	return true, nil
}

func (s *Store) RequestClaim(orderID, courierID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok || order.DeliveryID != nil || order.Status != models.OrderStatusPreparing {
		return false, nil
	}

	courier := courierID
	order.DeliveryRequestedBy = &courier
	order.RequestApproved = false
	order.UpdatedAt = time.Now()
	return true, nil
}

func (s *Store) PromoteClaim(orderID, courierID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok || order.DeliveryID != nil ||
		order.DeliveryRequestedBy == nil || *order.DeliveryRequestedBy != courierID {
		return false, nil
	}

	courier := courierID
	order.DeliveryID = &courier
	order.DeliveryRequestedBy = nil
	order.RequestApproved = true
	order.AssignedByBranch = true
	order.Status = models.OrderStatusDispatched
	order.UpdatedAt = time.Now()
	return true, nil
}

func (s *Store) ClearClaim(orderID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok {
		return store.ErrNotFound
	}
	order.DeliveryRequestedBy = nil
	order.RequestApproved = false
	order.UpdatedAt = time.Now()
	return nil
}

func (s *Store) AssignCourier(orderID, courierID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok || order.DeliveryID != nil || order.Status != models.OrderStatusReady {
		return false, nil
	}

	courier := courierID
	order.DeliveryID = &courier
	order.DeliveryRequestedBy = nil
	order.AssignedByBranch = true
	order.RequestApproved = true
	order.Status = models.OrderStatusDispatched
	order.UpdatedAt = time.Now()
	return true, nil
}

func (s *Store) ConfirmReceived(orderID, courierID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok || order.DeliveryID == nil || *order.DeliveryID != courierID ||
		!order.AssignedByBranch || order.DeliveryReceived ||
		order.Status != models.OrderStatusDispatched {
		return false, nil
	}
	order.DeliveryReceived = true
	order.UpdatedAt = time.Now()
	return true, nil
}

func (s *Store) TransitionStatus(orderID uuid.UUID, from, to string, updates map[string]interface{}) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[orderID]
	if !ok || order.Status != from {
		return false, nil
	}

	order.Status = to
	applyUpdates(order, updates)
	order.UpdatedAt = time.Now()
	return true, nil
}

// applyUpdates mirrors the column map the postgres store feeds to gorm.
func applyUpdates(order *models.Order, updates map[string]interface{}) {
	for key, value := range updates {
		switch key {
		case "delivery_id":
			if value == nil {
				order.DeliveryID = nil
			} else if id, ok := value.(uuid.UUID); ok {
				courier := id
				order.DeliveryID = &courier
			}
		case "delivery_requested_by":
			if value == nil {
				order.DeliveryRequestedBy = nil
			} else if id, ok := value.(uuid.UUID); ok {
				courier := id
				order.DeliveryRequestedBy = &courier
			}
		case "assigned_by_branch":
			if b, ok := value.(bool); ok {
				order.AssignedByBranch = b
			}
		case "request_approved":
			if b, ok := value.(bool); ok {
				order.RequestApproved = b
			}
		case "delivery_received":
			if b, ok := value.(bool); ok {
				order.DeliveryReceived = b
			}
		case "points_awarded":
			if b, ok := value.(bool); ok {
				order.PointsAwarded = b
			}
		}
	}
}

func (s *Store) GetOrCreatePoints(userID uuid.UUID) (*models.UserPoints, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	points := s.getOrCreatePointsLocked(userID)
	clone := *points
	return &clone, nil
}

func (s *Store) getOrCreatePointsLocked(userID uuid.UUID) *models.UserPoints {
	if points, ok := s.points[userID]; ok {
		return points
	}
	points := &models.UserPoints{
		BaseModel:   models.BaseModel{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
		UserID:      userID,
		LastUpdated: time.Now(),
	}
	s.points[userID] = points
	return points
}

func (s *Store) AddPoints(userID uuid.UUID, pts int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	points := s.getOrCreatePointsLocked(userID)
	points.AvailablePoints += pts
	points.TotalPoints += pts
	points.LastUpdated = time.Now()
	return nil
}

func (s *Store) DeductPoints(userID uuid.UUID, amount int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	points, ok := s.points[userID]
	if !ok || points.AvailablePoints < amount {
		return false, nil
	}
	points.AvailablePoints -= amount
	points.LastUpdated = time.Now()
	return true, nil
}

func (s *Store) AppendNotification(n *models.BranchNotification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	n.CreatedAt = time.Now()
	n.UpdatedAt = n.CreatedAt

	clone := *n
	s.notifications = append(s.notifications, &clone)
	return nil
}

func (s *Store) NotificationsByBranch(branchID uuid.UUID, limit, offset int) ([]models.BranchNotification, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []models.BranchNotification
	for i := len(s.notifications) - 1; i >= 0; i-- {
		if s.notifications[i].BranchID == branchID {
			all = append(all, *s.notifications[i])
		}
	}

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (s *Store) MarkNotificationRead(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.notifications {
		if n.ID == id {
			n.Read = true
			n.UpdatedAt = time.Now()
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) UnreadNotificationCount(branchID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, n := range s.notifications {
		if n.BranchID == branchID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (s *Store) CreateCancellation(rec *models.OrderCancellation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.CreatedAt = time.Now()
	clone := *rec
	s.cancellations[rec.OrderID] = &clone
	return nil
}

func (s *Store) CreateDelay(rec *models.OrderDelay) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.CreatedAt = time.Now()
	clone := *rec
	s.delays = append(s.delays, &clone)
	return nil
}

func (s *Store) CreateRating(rec *models.DeliveryRating) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.CreatedAt = time.Now()
	clone := *rec
	s.ratings[rec.OrderID] = &clone
	return nil
}

func (s *Store) GetCourier(id uuid.UUID) (*models.DeliveryUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	courier, ok := s.couriers[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *courier
	return &clone, nil
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
