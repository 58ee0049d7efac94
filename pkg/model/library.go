package model

import "gorm.io/gorm"

type Library struct {
	gorm.Model
	Name        string
	Description *string
	Public      bool `gorm:"default:false"`
	UserID      uint
	Wines       []Wine `gorm:"many2many:wine_libraries;"`

	User User `gorm:"foreignKey:UserID"`
}

// VisibleTo reports whether viewerID may read the library. The owner
// always may, anyone else only when the library is public.
func (l *Library) VisibleTo(viewerID uint) bool {
	return l.UserID == viewerID || l.Public
}
