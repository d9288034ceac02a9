package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resto-tracker/internal/models"
)

func TestReportOrders(t *testing.T) {
	db := setupTestDB(t)
	orders := NewOrderService(db)
	reports := NewReportService(db)

	account := createTestAccount(t, db, "alice")
	margherita := createTestItem(t, db, "Pizza", "Margherita", 790)
	coke := createTestItem(t, db, "Drinks", "Coke 0.5L", 180)

	day := func(n int) time.Time {
		return time.Date(2025, 3, n, 12, 0, 0, 0, time.UTC)
	}

	newOrder := func(name string, createdAt time.Time, lines ...OrderLineInput) uint {
		order, err := orders.CreateOrder(account.ID, CreateOrderInput{
			CustomerName: name,
			ServiceType:  models.ServiceDineIn,
			Lines:        lines,
		})
		require.NoError(t, err)
		require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).Update("created_at", createdAt).Error)
		return order.ID
	}

	smith := newOrder("Smith", day(1),
		OrderLineInput{MenuItemID: margherita.ID, Quantity: 2},
		OrderLineInput{MenuItemID: coke.ID, Quantity: 1})
	jones := newOrder("Jones", day(2), OrderLineInput{MenuItemID: margherita.ID, Quantity: 1})
	newOrder("Brown", day(5), OrderLineInput{MenuItemID: coke.ID, Quantity: 3})

	require.NoError(t, orders.AdvanceStatus(smith, models.StatusInProgress))
	require.NoError(t, orders.AdvanceStatus(smith, models.StatusReady))
	require.NoError(t, orders.AdvanceStatus(smith, models.StatusCompleted))
	require.NoError(t, orders.CancelByStaff(jones))

	t.Run("closed interval includes both endpoints", func(t *testing.T) {
		rows, err := reports.ReportOrders(day(1), day(2), nil)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Smith", rows[0].CustomerName)
		assert.EqualValues(t, 1760, rows[0].TotalCents)
		assert.Equal(t, "Jones", rows[1].CustomerName)
	})

	t.Run("status filter", func(t *testing.T) {
		rows, err := reports.ReportOrders(day(1), day(5), []string{models.StatusCompleted})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, smith, rows[0].ID)
		assert.Equal(t, models.StatusCompleted, rows[0].Status)

		rows, err = reports.ReportOrders(day(1), day(5), []string{models.StatusCompleted, models.StatusCanceled})
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("empty window is an empty slice, not an error", func(t *testing.T) {
		rows, err := reports.ReportOrders(day(10), day(20), nil)
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	})

	t.Run("inverted window is rejected", func(t *testing.T) {
		_, err := reports.ReportOrders(day(5), day(1), nil)
		assert.True(t, models.IsKind(err, models.KindValidationFailed))
	})
}

func TestReportTopItems(t *testing.T) {
	db := setupTestDB(t)
	orders := NewOrderService(db)
	reports := NewReportService(db)

	account := createTestAccount(t, db, "bob")
	margherita := createTestItem(t, db, "Pizza", "Margherita", 790)
	pepperoni := createTestItem(t, db, "Pizza", "Pepperoni", 890)
	coke := createTestItem(t, db, "Drinks", "Coke 0.5L", 180)

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC)

	place := func(lines ...OrderLineInput) {
		order, err := orders.CreateOrder(account.ID, CreateOrderInput{
			ServiceType: models.ServiceDineIn,
			Lines:       lines,
		})
		require.NoError(t, err)
		require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("created_at", time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)).Error)
	}

	// Margherita: 3 units / 2370; Pepperoni: 3 units / 2670; Coke: 2 units / 360
	place(
		OrderLineInput{MenuItemID: margherita.ID, Quantity: 2},
		OrderLineInput{MenuItemID: coke.ID, Quantity: 2})
	place(
		OrderLineInput{MenuItemID: margherita.ID, Quantity: 1},
		OrderLineInput{MenuItemID: pepperoni.ID, Quantity: 3})

	t.Run("ordered by quantity then revenue", func(t *testing.T) {
		rows, err := reports.ReportTopItems(start, end, nil, 10)
		require.NoError(t, err)
		require.Len(t, rows, 3)

		// Pepperoni and Margherita tie on quantity; revenue breaks the tie
		assert.Equal(t, "Pepperoni", rows[0].ItemName)
		assert.EqualValues(t, 3, rows[0].Quantity)
		assert.EqualValues(t, 2670, rows[0].RevenueCents)

		assert.Equal(t, "Margherita", rows[1].ItemName)
		assert.EqualValues(t, 3, rows[1].Quantity)
		assert.EqualValues(t, 2370, rows[1].RevenueCents)

		assert.Equal(t, "Coke 0.5L", rows[2].ItemName)
		assert.EqualValues(t, 2, rows[2].Quantity)
		assert.EqualValues(t, 360, rows[2].RevenueCents)
	})

	t.Run("limit caps the rows", func(t *testing.T) {
		rows, err := reports.ReportTopItems(start, end, nil, 1)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Pepperoni", rows[0].ItemName)
	})

	t.Run("revenue uses the snapshot, not the live price", func(t *testing.T) {
		catalog := NewCatalogService(db)
		bump := int64(9999)
		_, err := catalog.UpdateItem(pepperoni.ID, ItemUpdate{PriceCents: &bump})
		require.NoError(t, err)

		rows, err := reports.ReportTopItems(start, end, nil, 1)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.EqualValues(t, 2670, rows[0].RevenueCents)
	})

	t.Run("empty window", func(t *testing.T) {
		rows, err := reports.ReportTopItems(end.Add(time.Hour), end.Add(2*time.Hour), nil, 10)
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	})
}
