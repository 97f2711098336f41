package models

import "time"

// Category is a top-level product grouping.
type Category struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"uniqueIndex;size:255" json:"name"`
	Image string `gorm:"size:1024" json:"image"`

	Subcategories []Subcategory `gorm:"constraint:OnDelete:CASCADE" json:"subcategories,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Subcategory nests under a category.
type Subcategory struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Name       string `gorm:"size:255;index:idx_subcat_name_cat,unique" json:"name"`
	Image      string `gorm:"size:1024" json:"image"`
	CategoryID uint   `gorm:"index:idx_subcat_name_cat,unique" json:"category_id"`

	Category *Category `json:"category,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
