package model

import "time"

// Category groups products on the shelf and in the web shop.
type Category struct {
	Base
	Name         string `gorm:"uniqueIndex;size:100;not null"`
	Description  string
	DisplayOrder int  `gorm:"not null"`
	IsActive     bool `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Category) TableName() string { return "categories" }
