package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"resto-tracker/internal/models"
	"resto-tracker/internal/schema"
)

const (
	testAdminPassword = "admin"
	testAdminCode     = "ADMIN123"
	testChefCode      = "CHEF123"
	testCourierCode   = "COURIER123"
)

// setupTestDB opens an in-memory database and runs the full schema
// bootstrap, exactly like process start does.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// A second pooled connection would see its own empty in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, schema.Migrate(db))
	require.NoError(t, schema.Seed(db, schema.SeedConfig{
		DefaultAdminPassword: testAdminPassword,
		AdminAccessCode:      testAdminCode,
		ChefAccessCode:       testChefCode,
		CourierAccessCode:    testCourierCode,
	}))

	return db
}

// createTestAccount registers a plain user and returns it.
func createTestAccount(t *testing.T, db *gorm.DB, username string) *models.Account {
	t.Helper()

	account, err := NewAccountService(db).CreateAccount(username, "password123", models.RoleUser)
	require.NoError(t, err)
	return account
}

// createTestItem adds a menu item under the given category name,
// creating the category if needed.
func createTestItem(t *testing.T, db *gorm.DB, categoryName, itemName string, priceCents int64) *models.MenuItem {
	t.Helper()

	catalog := NewCatalogService(db)
	var category models.Category
	err := db.Where(models.Category{Name: categoryName}).FirstOrCreate(&category).Error
	require.NoError(t, err)

	item, err := catalog.AddItem(itemName, priceCents, category.ID)
	require.NoError(t, err)
	return item
}
