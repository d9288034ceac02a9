package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"resto-tracker/internal/models"
)

var testSeed = SeedConfig{
	DefaultAdminPassword: "admin",
	AdminAccessCode:      "ADMIN123",
	ChefAccessCode:       "CHEF123",
	CourierAccessCode:    "COURIER123",
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	return db
}

func TestMigrateCreatesFullSchema(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))

	m := db.Migrator()
	for _, table := range []interface{}{
		&models.Account{}, &models.Category{}, &models.MenuItem{},
		&models.Order{}, &models.OrderLineItem{}, &models.Setting{},
		&models.StatusReference{},
	} {
		assert.True(t, m.HasTable(table), "%T", table)
	}
	assert.True(t, m.HasColumn(&models.MenuItem{}, "is_active"))
	assert.True(t, m.HasIndex(&models.MenuItem{}, "idx_menu_items_active"))
	assert.True(t, m.HasColumn(&models.Order{}, "service_type"))
	assert.True(t, m.HasColumn(&models.Order{}, "delivery_address"))

	present, err := hasOrderTotalsView(db)
	require.NoError(t, err)
	assert.True(t, present, "order_totals view must exist")

	// Every step is recorded in the ledger
	var recorded int64
	require.NoError(t, db.Model(&appliedMigration{}).Count(&recorded).Error)
	assert.EqualValues(t, len(migrations()), recorded)
}

func TestMigrateIsRerunSafe(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	var recorded int64
	require.NoError(t, db.Model(&appliedMigration{}).Count(&recorded).Error)
	assert.EqualValues(t, len(migrations()), recorded)
}

func TestMigrateRecoversFromLostLedger(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))

	// Wipe the ledger: the existence checks must carry the rerun without
	// tripping over already-present objects.
	require.NoError(t, db.Exec("DELETE FROM schema_migrations").Error)
	require.NoError(t, Migrate(db))

	var recorded int64
	require.NoError(t, db.Model(&appliedMigration{}).Count(&recorded).Error)
	assert.EqualValues(t, len(migrations()), recorded)
}

func TestSeedReferenceData(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))
	require.NoError(t, Seed(db, testSeed))

	var statuses []models.StatusReference
	require.NoError(t, db.Order("sort_order ASC").Find(&statuses).Error)
	require.Len(t, statuses, 5)
	assert.Equal(t, models.StatusReceived, statuses[0].Code)
	assert.Equal(t, models.StatusCanceled, statuses[4].Code)

	for _, name := range append([]string{FallbackCategoryName}, starterCategories...) {
		var count int64
		require.NoError(t, db.Model(&models.Category{}).Where("name = ?", name).Count(&count).Error)
		assert.EqualValues(t, 1, count, name)
	}

	var admin models.Account
	require.NoError(t, db.Where("role = ?", models.RoleAdmin).First(&admin).Error)
	assert.Equal(t, "admin", admin.Username)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin")))

	for key, code := range map[string]string{
		models.SettingAdminAccessCodeHash:   "ADMIN123",
		models.SettingChefAccessCodeHash:    "CHEF123",
		models.SettingCourierAccessCodeHash: "COURIER123",
	} {
		var setting models.Setting
		require.NoError(t, db.Where("setting_key = ?", key).First(&setting).Error)
		assert.NotEqual(t, code, setting.SettingValue, "codes are stored hashed")
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(setting.SettingValue), []byte(code)))
	}
}

func TestSeedIsRerunSafe(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))
	require.NoError(t, Seed(db, testSeed))

	// Rerunning with different values must not touch existing rows
	require.NoError(t, Seed(db, SeedConfig{
		DefaultAdminPassword: "other",
		AdminAccessCode:      "OTHER1",
		ChefAccessCode:       "OTHER2",
		CourierAccessCode:    "OTHER3",
	}))

	var admins int64
	require.NoError(t, db.Model(&models.Account{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error)
	assert.EqualValues(t, 1, admins)

	var admin models.Account
	require.NoError(t, db.Where("role = ?", models.RoleAdmin).First(&admin).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin")),
		"original password survives a reseed")

	var setting models.Setting
	require.NoError(t, db.Where("setting_key = ?", models.SettingAdminAccessCodeHash).First(&setting).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(setting.SettingValue), []byte("ADMIN123")))

	var categories int64
	require.NoError(t, db.Model(&models.Category{}).Count(&categories).Error)
	assert.EqualValues(t, 4, categories, "General plus three starters, no duplicates")
}

func TestSeedBackfillsUncategorizedItems(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db))

	// A legacy row with no category, inserted before the first seed
	require.NoError(t, db.Exec(
		"INSERT INTO menu_items (name, price_cents, category_id, is_active) VALUES (?, ?, 0, ?)",
		"Mystery Special", 500, true).Error)

	require.NoError(t, Seed(db, testSeed))

	var general models.Category
	require.NoError(t, db.Where("name = ?", FallbackCategoryName).First(&general).Error)

	var item models.MenuItem
	require.NoError(t, db.Where("name = ?", "Mystery Special").First(&item).Error)
	assert.Equal(t, general.ID, item.CategoryID)
}
