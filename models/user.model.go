package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	ProfileImage  string `gorm:"default:''"`
	Name          string `gorm:"default:''"`
	Email         string `gorm:"unique;not null"`
	Mobile        string `gorm:"default:''"`
	Role          string `gorm:"default:'USER'"` // USER, INSTRUCTOR, ADMIN, SUPER-ADMIN
	Password      string `gorm:"not null"`
	ReferralCode  *string `json:"referral_code" gorm:"uniqueIndex"` // Pointer so unset codes stay NULL under the unique index
	ReferralCount uint    `json:"referral_count" gorm:"default:0"`  // Only ever incremented, never decremented
	LastLogin     *time.Time
	IsBlocked     bool `gorm:"default:false"`
	IsDeleted     bool `gorm:"default:false"`
}
