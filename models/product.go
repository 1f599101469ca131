package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"size:200;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	Image       string          `gorm:"size:500" json:"image"`
	CategoryID  *uint           `gorm:"index" json:"category"`
	Category    *Category       `gorm:"foreignKey:CategoryID" json:"-"`
	SellerID    uint            `gorm:"index;not null" json:"seller"`
	Seller      User            `gorm:"foreignKey:SellerID" json:"-"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
