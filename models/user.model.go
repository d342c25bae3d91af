package models

import "gorm.io/gorm"

// User roles
const (
	RoleUser       = "USER"
	RoleInstructor = "INSTRUCTOR"
)

type User struct {
	gorm.Model
	Name      string `json:"name"`
	Email     string `json:"email" gorm:"uniqueIndex;not null"`
	Mobile    string `json:"mobile" gorm:"index"`
	Password  string `json:"-" gorm:"not null"`
	Role      string `json:"role" gorm:"default:'USER'"`
	IsDeleted bool   `gorm:"default:false"`
}

// LoginTracking records every successful login
type LoginTracking struct {
	gorm.Model
	UserID    uint   `json:"user_id" gorm:"index;not null"`
	IP        string `json:"ip"`
	UserAgent string `json:"user_agent"`
}
