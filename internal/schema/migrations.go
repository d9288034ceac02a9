package schema

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"resto-tracker/internal/models"
)

// appliedMigration records a migration step that already ran, so reruns can
// skip the per-object introspection queries. The existence checks below stay
// in place regardless, which keeps the whole sequence safe to rerun against
// a database whose ledger was lost.
type appliedMigration struct {
	ID        string `gorm:"primaryKey;size:64"`
	AppliedAt time.Time
}

func (appliedMigration) TableName() string {
	return "schema_migrations"
}

// migration is one additive schema step. Applied answers "does the target
// object already exist"; Apply performs the DDL.
type migration struct {
	ID      string
	Applied func(db *gorm.DB) (bool, error)
	Apply   func(db *gorm.DB) error
}

// Migrate brings the schema up to date. It runs every step that has not been
// applied yet, in order. Any DDL failure is returned to the caller and must
// abort startup: the engines assume the full target schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&appliedMigration{}); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for _, m := range migrations() {
		var recorded int64
		if err := db.Model(&appliedMigration{}).Where("id = ?", m.ID).Count(&recorded).Error; err != nil {
			return fmt.Errorf("migration %s: read ledger: %w", m.ID, err)
		}
		if recorded > 0 {
			log.WithField("migration", m.ID).Debug("Migration already recorded, skipping")
			continue
		}

		applied, err := m.Applied(db)
		if err != nil {
			return fmt.Errorf("migration %s: existence check: %w", m.ID, err)
		}
		if !applied {
			log.WithField("migration", m.ID).Info("Applying migration")
			if err := m.Apply(db); err != nil {
				return fmt.Errorf("migration %s: %w", m.ID, err)
			}
		} else {
			log.WithField("migration", m.ID).Debug("Schema object already present, recording only")
		}

		record := appliedMigration{ID: m.ID, AppliedAt: time.Now()}
		if err := db.Create(&record).Error; err != nil {
			// A concurrent starter may have recorded the same step first.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return fmt.Errorf("migration %s: record: %w", m.ID, err)
		}
	}

	log.Info("Schema is up to date")
	return nil
}

func migrations() []migration {
	return []migration{
		{
			ID: "001_base_tables",
			Applied: func(db *gorm.DB) (bool, error) {
				m := db.Migrator()
				for _, table := range []interface{}{&models.Account{}, &models.MenuItem{}, &models.Order{}, &models.OrderLineItem{}, &models.Setting{}} {
					if !m.HasTable(table) {
						return false, nil
					}
				}
				return true, nil
			},
			Apply: func(db *gorm.DB) error {
				return db.AutoMigrate(
					&models.Account{},
					&models.MenuItem{},
					&models.Order{},
					&models.OrderLineItem{},
					&models.Setting{},
				)
			},
		},
		{
			ID: "002_categories",
			Applied: func(db *gorm.DB) (bool, error) {
				m := db.Migrator()
				return m.HasTable(&models.Category{}) && m.HasColumn(&models.MenuItem{}, "category_id"), nil
			},
			Apply: func(db *gorm.DB) error {
				if err := db.AutoMigrate(&models.Category{}); err != nil {
					return err
				}
				if !db.Migrator().HasColumn(&models.MenuItem{}, "category_id") {
					return db.Migrator().AddColumn(&models.MenuItem{}, "CategoryID")
				}
				return nil
			},
		},
		{
			ID: "003_menu_item_active_flag",
			Applied: func(db *gorm.DB) (bool, error) {
				return db.Migrator().HasColumn(&models.MenuItem{}, "is_active"), nil
			},
			Apply: func(db *gorm.DB) error {
				return db.Migrator().AddColumn(&models.MenuItem{}, "IsActive")
			},
		},
		{
			ID: "004_menu_items_active_index",
			Applied: func(db *gorm.DB) (bool, error) {
				return db.Migrator().HasIndex(&models.MenuItem{}, "idx_menu_items_active"), nil
			},
			Apply: func(db *gorm.DB) error {
				return db.Migrator().CreateIndex(&models.MenuItem{}, "idx_menu_items_active")
			},
		},
		{
			ID: "005_status_references",
			Applied: func(db *gorm.DB) (bool, error) {
				return db.Migrator().HasTable(&models.StatusReference{}), nil
			},
			Apply: func(db *gorm.DB) error {
				return db.AutoMigrate(&models.StatusReference{})
			},
		},
		{
			// Orders predating service types carried everything in free-text
			// notes; the columns below make that a one-time upgrade instead of
			// a permanent runtime branch.
			ID: "006_order_service_columns",
			Applied: func(db *gorm.DB) (bool, error) {
				m := db.Migrator()
				return m.HasColumn(&models.Order{}, "notes") &&
					m.HasColumn(&models.Order{}, "service_type") &&
					m.HasColumn(&models.Order{}, "delivery_address"), nil
			},
			Apply: func(db *gorm.DB) error {
				m := db.Migrator()
				for field, column := range map[string]string{
					"Notes":           "notes",
					"ServiceType":     "service_type",
					"DeliveryAddress": "delivery_address",
				} {
					if !m.HasColumn(&models.Order{}, column) {
						if err := m.AddColumn(&models.Order{}, field); err != nil {
							return err
						}
					}
				}
				return nil
			},
		},
		{
			ID:      "007_order_totals_view",
			Applied: hasOrderTotalsView,
			Apply: func(db *gorm.DB) error {
				return db.Exec(`CREATE VIEW order_totals AS
					SELECT order_id, SUM(quantity * price_at_order_cents) AS total_cents
					FROM order_line_items
					GROUP BY order_id`).Error
			},
		},
	}
}

// hasOrderTotalsView checks for the derived totals view. gorm's Migrator has
// no view introspection, so this queries the catalog per dialect.
func hasOrderTotalsView(db *gorm.DB) (bool, error) {
	var count int64
	var err error
	switch db.Dialector.Name() {
	case "sqlite":
		err = db.Raw(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'view' AND name = 'order_totals'`).Scan(&count).Error
	case "postgres":
		err = db.Raw(`SELECT COUNT(*) FROM information_schema.views WHERE table_name = 'order_totals'`).Scan(&count).Error
	default:
		return false, fmt.Errorf("unsupported dialect for view introspection: %s", db.Dialector.Name())
	}
	return count > 0, err
}
