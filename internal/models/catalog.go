package models

// Category groups menu items. Deleting a category is blocked while any
// item still references it.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null;size:100" json:"name"`
}

func (Category) TableName() string {
	return "categories"
}

// MenuItem is a sellable catalog entry. Prices are integer cents.
// IsActive hides an item from customers without deleting its history;
// items referenced by order lines can never be deleted.
type MenuItem struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"uniqueIndex;not null;size:100" json:"name"`
	PriceCents int64  `gorm:"not null;check:price_cents >= 0" json:"priceCents"`
	CategoryID uint   `gorm:"not null;index:idx_menu_items_active,priority:2" json:"categoryId"`
	IsActive   bool   `gorm:"not null;default:true;index:idx_menu_items_active,priority:1" json:"isActive"`
}

func (MenuItem) TableName() string {
	return "menu_items"
}
