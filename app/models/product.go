package models

import "time"

// Product is a sellable item. AverageRating is denormalized and recomputed
// whenever a rating is added or changed.
type Product struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	Name          string      `gorm:"size:255;index" json:"name"`
	Description   string      `gorm:"type:text" json:"description"`
	Brand         string      `gorm:"size:255;index" json:"brand"`
	Price         float64     `json:"price"`
	Stock         int         `json:"stock"`
	Images        StringSlice `gorm:"type:text" json:"images"`
	Specifications StringMap  `gorm:"type:text" json:"specifications"`
	AverageRating float64     `json:"average_rating"`

	CategoryID    uint `gorm:"index" json:"category_id"`
	SubcategoryID uint `gorm:"index" json:"subcategory_id"`

	Category    *Category    `json:"category,omitempty"`
	Subcategory *Subcategory `json:"subcategory,omitempty"`

	Ratings  []Rating  `gorm:"constraint:OnDelete:CASCADE" json:"ratings,omitempty"`
	Comments []Comment `gorm:"constraint:OnDelete:CASCADE" json:"comments,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Rating is one user's score for a product. A user has at most one rating
// per product; re-rating replaces the value.
type Rating struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ProductID uint `gorm:"index:idx_rating_product_user,unique" json:"product_id"`
	UserID    uint `gorm:"index:idx_rating_product_user,unique" json:"user_id"`
	Value     int  `json:"value"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Comment is a user remark on a product. Username is denormalized at
// write time so comments survive account changes.
type Comment struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"index" json:"product_id"`
	UserID    uint   `gorm:"index" json:"user_id"`
	Username  string `gorm:"size:100" json:"username"`
	Text      string `gorm:"type:text" json:"text"`

	CreatedAt time.Time `json:"created_at"`
}
