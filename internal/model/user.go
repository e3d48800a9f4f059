package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles.
const (
	RoleAdmin    = "admin"
	RoleCashier  = "cashier"
	RoleCustomer = "customer"
)

// User is an account able to obtain API tokens. Web-shop accounts link to a Customer.
type User struct {
	Base
	Username     string     `gorm:"uniqueIndex;size:150;not null"`
	Email        string     `gorm:"size:254"`
	FullName     string     `gorm:"size:200"`
	PasswordHash string     `gorm:"not null"`
	Role         string     `gorm:"size:20;not null"`
	IsActive     bool       `gorm:"not null"`
	CustomerID   *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Customer *Customer `gorm:"foreignKey:CustomerID"`
}

func (User) TableName() string { return "users" }
