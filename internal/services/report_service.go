package services

import (
	"time"

	"gorm.io/gorm"

	"resto-tracker/internal/models"
)

// ReportOrderRow is one order inside the report window, with its total
// computed from the persisted line snapshots.
type ReportOrderRow struct {
	ID           uint      `json:"id"`
	CustomerName string    `json:"customerName"`
	Status       string    `json:"status"`
	ServiceType  string    `json:"serviceType"`
	CreatedAt    time.Time `json:"createdAt"`
	TotalCents   int64     `json:"totalCents"`
}

// TopItemRow aggregates one item's sales across the window.
type TopItemRow struct {
	ItemName     string `json:"itemName"`
	Quantity     int64  `json:"quantity"`
	RevenueCents int64  `json:"revenueCents"`
}

// ReportService builds read-only projections over committed order data.
// Both reports tolerate an empty window and return empty slices.
type ReportService interface {
	// ReportOrders lists every order created inside the closed interval
	// [start, end], optionally restricted to a set of statuses.
	ReportOrders(start, end time.Time, statuses []string) ([]ReportOrderRow, error)
	// ReportTopItems aggregates quantity and revenue per item name over the
	// matching orders' line snapshots, ordered by quantity desc then revenue
	// desc, capped at limit.
	ReportTopItems(start, end time.Time, statuses []string, limit int) ([]TopItemRow, error)
}

type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new instance of ReportService
func NewReportService(db *gorm.DB) ReportService {
	return &reportService{db: db}
}

func (s *reportService) ReportOrders(start, end time.Time, statuses []string) ([]ReportOrderRow, error) {
	if err := validateWindow(start, end); err != nil {
		return nil, err
	}

	query := s.db.Table("orders o").
		Select("o.id, o.customer_name, o.status_code AS status, o.service_type, o.created_at, COALESCE(t.total_cents, 0) AS total_cents").
		Joins("LEFT JOIN order_totals t ON t.order_id = o.id").
		Where("o.created_at BETWEEN ? AND ?", start, end).
		Order("o.created_at ASC, o.id ASC")
	if len(statuses) > 0 {
		query = query.Where("o.status_code IN ?", statuses)
	}

	rows := []ReportOrderRow{}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *reportService) ReportTopItems(start, end time.Time, statuses []string, limit int) ([]TopItemRow, error) {
	if err := validateWindow(start, end); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := s.db.Table("order_line_items l").
		Select("mi.name AS item_name, SUM(l.quantity) AS quantity, SUM(l.quantity * l.price_at_order_cents) AS revenue_cents").
		Joins("JOIN menu_items mi ON mi.id = l.menu_item_id").
		Joins("JOIN orders o ON o.id = l.order_id").
		Where("o.created_at BETWEEN ? AND ?", start, end).
		Group("mi.name").
		Order("quantity DESC, revenue_cents DESC").
		Limit(limit)
	if len(statuses) > 0 {
		query = query.Where("o.status_code IN ?", statuses)
	}

	rows := []TopItemRow{}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func validateWindow(start, end time.Time) error {
	if end.Before(start) {
		return models.NewError(models.KindValidationFailed, "report window ends before it starts")
	}
	return nil
}
