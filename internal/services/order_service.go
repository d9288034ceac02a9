package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"resto-tracker/internal/models"
)

// DefaultListLimit caps listings when the caller does not supply one.
const DefaultListLimit = 100

// OrderLineInput references a live catalog item. The item's current price
// is frozen into the line at write time.
type OrderLineInput struct {
	MenuItemID uint `json:"menuItemId"`
	Quantity   int  `json:"quantity"`
}

// CreateOrderInput is the flat order-creation payload.
type CreateOrderInput struct {
	CustomerName    string           `json:"customerName"`
	CustomerContact string           `json:"customerContact"`
	Notes           string           `json:"notes"`
	ServiceType     string           `json:"serviceType"`
	DeliveryAddress string           `json:"deliveryAddress"`
	Lines           []OrderLineInput `json:"lines"`
}

// OrderFilter narrows listings. Search matches customer name, contact and
// notes. Limit defaults to DefaultListLimit when zero.
type OrderFilter struct {
	Status string
	Search string
	Limit  int
}

// OrderSummary is one listing row. TotalCents is always computed from the
// persisted line snapshots, never from live catalog prices.
type OrderSummary struct {
	ID              uint      `json:"id"`
	CustomerName    string    `json:"customerName"`
	CustomerContact string    `json:"customerContact"`
	Status          string    `json:"status"`
	ServiceType     string    `json:"serviceType"`
	CreatedAt       time.Time `json:"createdAt"`
	TotalCents      int64     `json:"totalCents"`
}

// DeliverySummary additionally surfaces the delivery address for couriers.
type DeliverySummary struct {
	ID              uint      `json:"id"`
	CustomerName    string    `json:"customerName"`
	CustomerContact string    `json:"customerContact"`
	Status          string    `json:"status"`
	ServiceType     string    `json:"serviceType"`
	DeliveryAddress string    `json:"deliveryAddress"`
	CreatedAt       time.Time `json:"createdAt"`
	TotalCents      int64     `json:"totalCents"`
}

// OrderLineDetail is one named line of an order, priced from its snapshot.
type OrderLineDetail struct {
	MenuItemID     uint   `json:"menuItemId"`
	ItemName       string `json:"itemName"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	SubtotalCents  int64  `json:"subtotalCents"`
}

// OrderDetail is a full order read.
type OrderDetail struct {
	ID              uint              `json:"id"`
	CustomerName    string            `json:"customerName"`
	CustomerContact string            `json:"customerContact"`
	Notes           string            `json:"notes"`
	ServiceType     string            `json:"serviceType"`
	DeliveryAddress string            `json:"deliveryAddress,omitempty"`
	Status          string            `json:"status"`
	AccountID       uint              `json:"accountId"`
	CreatedAt       time.Time         `json:"createdAt"`
	Lines           []OrderLineDetail `json:"lines"`
	TotalCents      int64             `json:"totalCents"`
}

// OrderService owns the order lifecycle: creation with price snapshotting,
// the status state machine, owner-scoped edits and filtered listings.
type OrderService interface {
	// NextStatuses exposes the legal-next-status lookup to callers.
	NextStatuses(current string) []string
	// CreateOrder writes the order and all its lines atomically. The acting
	// account is mandatory; anonymous orders do not exist.
	CreateOrder(accountID uint, in CreateOrderInput) (*models.Order, error)
	// GetOrder returns the full order with named, snapshot-priced lines.
	GetOrder(orderID uint) (*OrderDetail, error)
	// ReplaceOrderLines rewrites all lines, re-snapshotting current prices.
	// Owner-only, and only while the order is still RECEIVED.
	ReplaceOrderLines(orderID, requesterID uint, lines []OrderLineInput) error
	// AdvanceStatus applies one validated transition.
	AdvanceStatus(orderID uint, target string) error
	// CancelByStaff cancels from any non-terminal status.
	CancelByStaff(orderID uint) error
	// CancelByCustomer is the owner's self-service cancel.
	CancelByCustomer(orderID, requesterID uint) error

	ListOrders(filter OrderFilter) ([]OrderSummary, error)
	ListOrdersForAccount(accountID uint, filter OrderFilter) ([]OrderSummary, error)
	ListDeliveries(filter OrderFilter) ([]DeliverySummary, error)
}

type orderService struct {
	db *gorm.DB
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(db *gorm.DB) OrderService {
	return &orderService{db: db}
}

func (s *orderService) NextStatuses(current string) []string {
	return NextStatuses(current)
}

func (s *orderService) CreateOrder(accountID uint, in CreateOrderInput) (*models.Order, error) {
	if accountID == 0 {
		return nil, models.NewError(models.KindPreconditionFailed, "no acting account set")
	}
	if err := s.db.First(&models.Account{}, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewError(models.KindNotFound, "account %d does not exist", accountID)
		}
		return nil, err
	}

	serviceType := in.ServiceType
	if serviceType == "" {
		serviceType = models.ServiceDineIn
	}
	switch serviceType {
	case models.ServiceDineIn, models.ServiceTakeaway, models.ServiceDelivery:
	default:
		return nil, models.NewError(models.KindValidationFailed, "unknown service type %q", in.ServiceType)
	}
	if serviceType == models.ServiceDelivery && in.DeliveryAddress == "" {
		return nil, models.NewError(models.KindPreconditionFailed, "delivery orders require a delivery address")
	}
	if err := validateLines(in.Lines); err != nil {
		return nil, err
	}

	order := models.Order{
		CustomerName:    in.CustomerName,
		CustomerContact: in.CustomerContact,
		Notes:           in.Notes,
		ServiceType:     serviceType,
		DeliveryAddress: in.DeliveryAddress,
		StatusCode:      models.StatusReceived,
		AccountID:       accountID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		return snapshotLines(tx, order.ID, in.Lines)
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *orderService) GetOrder(orderID uint) (*OrderDetail, error) {
	order, err := s.loadOrder(orderID)
	if err != nil {
		return nil, err
	}

	var lines []OrderLineDetail
	err = s.db.Table("order_line_items l").
		Select("l.menu_item_id, mi.name AS item_name, l.quantity, l.price_at_order_cents AS unit_price_cents, l.quantity * l.price_at_order_cents AS subtotal_cents").
		Joins("JOIN menu_items mi ON mi.id = l.menu_item_id").
		Where("l.order_id = ?", orderID).
		Order("mi.name ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}

	detail := &OrderDetail{
		ID:              order.ID,
		CustomerName:    order.CustomerName,
		CustomerContact: order.CustomerContact,
		Notes:           order.Notes,
		ServiceType:     order.ServiceType,
		DeliveryAddress: order.DeliveryAddress,
		Status:          order.StatusCode,
		AccountID:       order.AccountID,
		CreatedAt:       order.CreatedAt,
		Lines:           lines,
	}
	for _, line := range lines {
		detail.TotalCents += line.SubtotalCents
	}
	return detail, nil
}

func (s *orderService) ReplaceOrderLines(orderID, requesterID uint, lines []OrderLineInput) error {
	order, err := s.loadOrder(orderID)
	if err != nil {
		return err
	}
	if order.AccountID != requesterID {
		return models.NewError(models.KindPermissionDenied, "order %d belongs to another account", orderID)
	}
	if order.StatusCode != models.StatusReceived {
		return models.NewError(models.KindInvalidTransition, "order %d is %s and can no longer be edited", orderID, order.StatusCode)
	}
	if err := validateLines(lines); err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderLineItem{}).Error; err != nil {
			return err
		}
		return snapshotLines(tx, orderID, lines)
	})
}

func (s *orderService) AdvanceStatus(orderID uint, target string) error {
	order, err := s.loadOrder(orderID)
	if err != nil {
		return err
	}
	if err := validateTransition(order.StatusCode, target); err != nil {
		return err
	}
	return s.db.Model(order).Update("status_code", target).Error
}

func (s *orderService) CancelByStaff(orderID uint) error {
	return s.AdvanceStatus(orderID, models.StatusCanceled)
}

func (s *orderService) CancelByCustomer(orderID, requesterID uint) error {
	order, err := s.loadOrder(orderID)
	if err != nil {
		return err
	}
	if order.AccountID != requesterID {
		return models.NewError(models.KindPermissionDenied, "order %d belongs to another account", orderID)
	}
	if err := validateTransition(order.StatusCode, models.StatusCanceled); err != nil {
		return err
	}
	return s.db.Model(order).Update("status_code", models.StatusCanceled).Error
}

func (s *orderService) ListOrders(filter OrderFilter) ([]OrderSummary, error) {
	var summaries []OrderSummary
	if err := s.listQuery(filter).Scan(&summaries).Error; err != nil {
		return nil, err
	}
	return summaries, nil
}

func (s *orderService) ListOrdersForAccount(accountID uint, filter OrderFilter) ([]OrderSummary, error) {
	if accountID == 0 {
		return nil, models.NewError(models.KindPreconditionFailed, "no acting account set")
	}
	var summaries []OrderSummary
	err := s.listQuery(filter).Where("o.account_id = ?", accountID).Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func (s *orderService) ListDeliveries(filter OrderFilter) ([]DeliverySummary, error) {
	var summaries []DeliverySummary
	err := s.listQuery(filter).
		Where("o.service_type = ?", models.ServiceDelivery).
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// listQuery builds the shared listing projection. Totals come from the
// order_totals view over the persisted snapshots.
func (s *orderService) listQuery(filter OrderFilter) *gorm.DB {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := s.db.Table("orders o").
		Select("o.id, o.customer_name, o.customer_contact, o.status_code AS status, o.service_type, o.delivery_address, o.created_at, COALESCE(t.total_cents, 0) AS total_cents").
		Joins("LEFT JOIN order_totals t ON t.order_id = o.id").
		Order("o.created_at DESC, o.id DESC").
		Limit(limit)

	if filter.Status != "" {
		query = query.Where("o.status_code = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("o.customer_name LIKE ? OR o.customer_contact LIKE ? OR o.notes LIKE ?", like, like, like)
	}
	return query
}

func (s *orderService) loadOrder(orderID uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewError(models.KindNotFound, "order %d does not exist", orderID)
		}
		return nil, err
	}
	return &order, nil
}

func validateLines(lines []OrderLineInput) error {
	if len(lines) == 0 {
		return models.NewError(models.KindValidationFailed, "an order needs at least one line")
	}
	seen := make(map[uint]bool, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return models.NewError(models.KindValidationFailed, "quantity must be positive for item %d", line.MenuItemID)
		}
		if seen[line.MenuItemID] {
			return models.NewError(models.KindValidationFailed, "item %d appears on more than one line", line.MenuItemID)
		}
		seen[line.MenuItemID] = true
	}
	return nil
}

// snapshotLines writes the lines inside the caller's transaction, freezing
// each item's current price. Any unknown or inactive item aborts the whole
// transaction so no partial order survives.
func snapshotLines(tx *gorm.DB, orderID uint, lines []OrderLineInput) error {
	for _, line := range lines {
		var item models.MenuItem
		if err := tx.First(&item, line.MenuItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewError(models.KindNotFound, "item %d does not exist", line.MenuItemID)
			}
			return err
		}
		if !item.IsActive {
			return models.NewError(models.KindValidationFailed, "item %q is not available", item.Name)
		}

		record := models.OrderLineItem{
			OrderID:           orderID,
			MenuItemID:        item.ID,
			Quantity:          line.Quantity,
			PriceAtOrderCents: item.PriceCents,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
	}
	return nil
}
