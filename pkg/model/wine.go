package model

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	MinPoints = 0
	MaxPoints = 100
)

// Price bounds for a wine, inclusive.
var (
	MinPrice = decimal.NewFromInt(1)
	MaxPrice = decimal.NewFromInt(1000000)
)

type Wine struct {
	gorm.Model
	Name        string `gorm:"uniqueIndex"`
	Description *string
	Price       *decimal.Decimal `gorm:"type:numeric(30,2)"`
	Designation *string
	Variety     *string
	Region1     *string `gorm:"column:region_1"`
	Region2     *string `gorm:"column:region_2"`
	Province    *string
	Country     *string
	Winery      *string
	UserID      uint
	Tags        []Tag     `gorm:"many2many:wine_tags;"`
	Libraries   []Library `gorm:"many2many:wine_libraries;"`
	Reviews     []Review

	// Mean of linked review points, zero when there are none.
	// Selected as an aggregate on reads, never stored.
	PointAverage decimal.Decimal `gorm:"->;-:migration"`

	User User `gorm:"foreignKey:UserID"`
}

type Review struct {
	gorm.Model
	WineID  uint
	Points  uint `gorm:"check:points <= 100"`
	Comment *string
	UserID  uint

	User User `gorm:"foreignKey:UserID"`
}

type Tag struct {
	gorm.Model
	Name   string
	UserID uint

	User User `gorm:"foreignKey:UserID"`
}
