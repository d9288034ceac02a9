package models

import (
	"time"
)

// Account roles. Exactly one admin account exists; it is created by the
// schema bootstrap, never through registration.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type Account struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Username     string `gorm:"uniqueIndex;not null;size:50" json:"username"`
	PasswordHash string `gorm:"not null;size:100" json:"-"`
	Role         string `gorm:"not null;default:'user';size:10" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Account) TableName() string {
	return "accounts"
}
