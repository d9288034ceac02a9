package services

import (
	"errors"

	"gorm.io/gorm"

	"resto-tracker/internal/models"
)

// ItemFilter narrows item listings. Zero values mean "no filter".
type ItemFilter struct {
	CategoryID uint
	ActiveOnly bool
}

// ItemUpdate carries the mutable item fields. Nil pointers leave the
// current value untouched.
type ItemUpdate struct {
	Name       *string
	PriceCents *int64
	CategoryID *uint
	IsActive   *bool
}

// CatalogService manages categories and menu items. Rows referenced by
// other rows are protected from deletion rather than cascaded.
type CatalogService interface {
	ListCategories() ([]models.Category, error)
	AddCategory(name string) (*models.Category, error)
	DeleteCategory(id uint) error

	ListItems(filter ItemFilter) ([]models.MenuItem, error)
	GetItem(id uint) (*models.MenuItem, error)
	AddItem(name string, priceCents int64, categoryID uint) (*models.MenuItem, error)
	UpdateItem(id uint, update ItemUpdate) (*models.MenuItem, error)
	DeleteItem(id uint) error
	DeleteItemByName(name string) error
}

type catalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(db *gorm.DB) CatalogService {
	return &catalogService{db: db}
}

func (s *catalogService) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *catalogService) AddCategory(name string) (*models.Category, error) {
	if name == "" {
		return nil, models.NewError(models.KindValidationFailed, "category name is required")
	}

	category := models.Category{Name: name}
	if err := s.db.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.WrapError(models.KindConflict, err, "category %q already exists", name)
		}
		return nil, err
	}
	return &category, nil
}

func (s *catalogService) DeleteCategory(id uint) error {
	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewError(models.KindNotFound, "category %d does not exist", id)
		}
		return err
	}

	var inUse int64
	if err := s.db.Model(&models.MenuItem{}).Where("category_id = ?", id).Count(&inUse).Error; err != nil {
		return err
	}
	if inUse > 0 {
		return models.NewError(models.KindReferentialBlock, "category %q is used by %d item(s)", category.Name, inUse)
	}

	if err := s.db.Delete(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return models.WrapError(models.KindReferentialBlock, err, "category %q is in use", category.Name)
		}
		return err
	}
	return nil
}

func (s *catalogService) ListItems(filter ItemFilter) ([]models.MenuItem, error) {
	query := s.db.Order("name ASC")
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var items []models.MenuItem
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *catalogService) GetItem(id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewError(models.KindNotFound, "item %d does not exist", id)
		}
		return nil, err
	}
	return &item, nil
}

func (s *catalogService) AddItem(name string, priceCents int64, categoryID uint) (*models.MenuItem, error) {
	if name == "" {
		return nil, models.NewError(models.KindValidationFailed, "item name is required")
	}
	if priceCents < 0 {
		return nil, models.NewError(models.KindValidationFailed, "price must not be negative")
	}
	if categoryID == 0 {
		return nil, models.NewError(models.KindValidationFailed, "category is required")
	}
	if err := s.db.First(&models.Category{}, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewError(models.KindNotFound, "category %d does not exist", categoryID)
		}
		return nil, err
	}

	item := models.MenuItem{Name: name, PriceCents: priceCents, CategoryID: categoryID, IsActive: true}
	if err := s.db.Create(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.WrapError(models.KindConflict, err, "item %q already exists", name)
		}
		return nil, err
	}
	return &item, nil
}

func (s *catalogService) UpdateItem(id uint, update ItemUpdate) (*models.MenuItem, error) {
	item, err := s.GetItem(id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		if *update.Name == "" {
			return nil, models.NewError(models.KindValidationFailed, "item name is required")
		}
		item.Name = *update.Name
	}
	if update.PriceCents != nil {
		if *update.PriceCents < 0 {
			return nil, models.NewError(models.KindValidationFailed, "price must not be negative")
		}
		item.PriceCents = *update.PriceCents
	}
	if update.CategoryID != nil {
		if err := s.db.First(&models.Category{}, *update.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewError(models.KindNotFound, "category %d does not exist", *update.CategoryID)
			}
			return nil, err
		}
		item.CategoryID = *update.CategoryID
	}
	if update.IsActive != nil {
		item.IsActive = *update.IsActive
	}

	// Save with Select so a false IsActive is written too.
	err = s.db.Model(item).
		Select("name", "price_cents", "category_id", "is_active").
		Updates(item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.WrapError(models.KindConflict, err, "another item is already named %q", item.Name)
		}
		return nil, err
	}
	return item, nil
}

func (s *catalogService) DeleteItem(id uint) error {
	var item models.MenuItem
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewError(models.KindNotFound, "item %d does not exist", id)
		}
		return err
	}
	return s.deleteItem(&item)
}

func (s *catalogService) DeleteItemByName(name string) error {
	var item models.MenuItem
	if err := s.db.Where("name = ?", name).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewError(models.KindNotFound, "item %q does not exist", name)
		}
		return err
	}
	return s.deleteItem(&item)
}

// deleteItem enforces referential protection: an item that appears on any
// order line stays, because its snapshots belong to order history.
func (s *catalogService) deleteItem(item *models.MenuItem) error {
	var referenced int64
	if err := s.db.Model(&models.OrderLineItem{}).Where("menu_item_id = ?", item.ID).Count(&referenced).Error; err != nil {
		return err
	}
	if referenced > 0 {
		return models.NewError(models.KindReferentialBlock, "item %q appears on %d order line(s)", item.Name, referenced)
	}

	if err := s.db.Delete(item).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return models.WrapError(models.KindReferentialBlock, err, "item %q is in use", item.Name)
		}
		return err
	}
	return nil
}
