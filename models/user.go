package models

import (
	"time"
)

type Role string

const (
	RoleCompany Role = "COMPANY"
	RoleBuyer   Role = "BUYER"
	RoleAdmin   Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCompany, RoleBuyer, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"not null"`
	Email       string     `json:"email" gorm:"uniqueIndex;not null"`
	Password    string     `json:"-" gorm:"not null"`
	Role        Role       `json:"role" gorm:"type:varchar(16);not null;index"`
	Description string     `json:"description,omitempty"`
	Website     string     `json:"website,omitempty"`
	TimeSlots   []TimeSlot `json:"timeSlots,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}
