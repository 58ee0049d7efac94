package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	UUID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4()"`
	Email        string    `gorm:"uniqueIndex"`
	PasswordHash string
	Name         string
	Active       bool `gorm:"default:true"`
	Staff        bool
	Superuser    bool
}

// CanModify reports whether the user may mutate a record owned by ownerID.
// Staff and superusers may edit any record.
func (u *User) CanModify(ownerID uint) bool {
	return u.ID == ownerID || u.Staff || u.Superuser
}
