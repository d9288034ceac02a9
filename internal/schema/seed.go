package schema

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"resto-tracker/internal/models"
)

// SeedConfig carries the first-run seed values. They are consulted only
// when the corresponding row is missing; afterwards the database wins and
// environment changes have no effect.
type SeedConfig struct {
	DefaultAdminPassword string
	AdminAccessCode      string
	ChefAccessCode       string
	CourierAccessCode    string
}

// FallbackCategoryName is the category items are backfilled into when they
// have none.
const FallbackCategoryName = "General"

var starterCategories = []string{"Pizza", "Drinks", "Desserts"}

var statusVocabulary = []models.StatusReference{
	{Code: models.StatusReceived, Label: "Received", SortOrder: 1},
	{Code: models.StatusInProgress, Label: "In progress", SortOrder: 2},
	{Code: models.StatusReady, Label: "Ready", SortOrder: 3},
	{Code: models.StatusCompleted, Label: "Completed", SortOrder: 4},
	{Code: models.StatusCanceled, Label: "Canceled", SortOrder: 5},
}

// Seed inserts the default reference data. Every step is rerun-safe and
// "already exists" races with a concurrent starter are swallowed; anything
// else is returned to the caller.
func Seed(db *gorm.DB, cfg SeedConfig) error {
	general, err := seedFallbackCategory(db)
	if err != nil {
		return err
	}
	if err := backfillItemCategories(db, general.ID); err != nil {
		return err
	}
	if err := seedStatusVocabulary(db); err != nil {
		return err
	}
	if err := seedStarterCategories(db); err != nil {
		return err
	}
	if err := seedAdminAccount(db, cfg.DefaultAdminPassword); err != nil {
		return err
	}
	return seedAccessCodes(db, cfg)
}

func seedFallbackCategory(db *gorm.DB) (*models.Category, error) {
	var general models.Category
	err := db.Where(models.Category{Name: FallbackCategoryName}).FirstOrCreate(&general).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = db.Where("name = ?", FallbackCategoryName).First(&general).Error
	}
	if err != nil {
		return nil, fmt.Errorf("seed fallback category: %w", err)
	}
	return &general, nil
}

// backfillItemCategories moves any item without a category into the
// fallback one, so the NOT NULL expectation holds for legacy rows.
func backfillItemCategories(db *gorm.DB, generalID uint) error {
	result := db.Model(&models.MenuItem{}).
		Where("category_id IS NULL OR category_id = 0").
		Update("category_id", generalID)
	if result.Error != nil {
		return fmt.Errorf("backfill item categories: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		log.WithField("items", result.RowsAffected).Info("Backfilled items into the fallback category")
	}
	return nil
}

func seedStatusVocabulary(db *gorm.DB) error {
	for _, status := range statusVocabulary {
		err := db.Where(models.StatusReference{Code: status.Code}).
			Attrs(models.StatusReference{Label: status.Label, SortOrder: status.SortOrder}).
			FirstOrCreate(&models.StatusReference{}).Error
		if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("seed status %s: %w", status.Code, err)
		}
	}
	return nil
}

func seedStarterCategories(db *gorm.DB) error {
	for _, name := range starterCategories {
		err := db.Where(models.Category{Name: name}).FirstOrCreate(&models.Category{}).Error
		if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("seed category %s: %w", name, err)
		}
	}
	return nil
}

// seedAdminAccount creates the sole admin on first run. The count check and
// the insert share one transaction so two concurrent bootstraps cannot both
// pass the check; a duplicate-username violation from a racing process is
// treated as "already seeded".
func seedAdminAccount(db *gorm.DB, defaultPassword string) error {
	var count int64
	if err := db.Model(&models.Account{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return fmt.Errorf("count admins: %w", err)
	}

	if count > 1 {
		log.Warn("More than one admin account exists. Please keep exactly one.")
		return nil
	}
	if count == 1 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash default admin password: %w", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var inner int64
		if err := tx.Model(&models.Account{}).Where("role = ?", models.RoleAdmin).Count(&inner).Error; err != nil {
			return err
		}
		if inner > 0 {
			return nil
		}
		return tx.Create(&models.Account{
			Username:     "admin",
			PasswordHash: string(hash),
			Role:         models.RoleAdmin,
		}).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed admin account: %w", err)
	}

	log.Warn("Initialized default admin account (username 'admin'). Change the password ASAP.")
	return nil
}

func seedAccessCodes(db *gorm.DB, cfg SeedConfig) error {
	codes := map[string]string{
		models.SettingAdminAccessCodeHash:   cfg.AdminAccessCode,
		models.SettingChefAccessCodeHash:    cfg.ChefAccessCode,
		models.SettingCourierAccessCodeHash: cfg.CourierAccessCode,
	}
	for key, code := range codes {
		var existing models.Setting
		err := db.Where("setting_key = ?", key).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("read setting %s: %w", key, err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash access code for %s: %w", key, err)
		}
		err = db.Create(&models.Setting{SettingKey: key, SettingValue: string(hash)}).Error
		if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("seed setting %s: %w", key, err)
		}
		log.WithField("setting", key).Warn("Initialized default access code. Change it via the admin area.")
	}
	return nil
}
