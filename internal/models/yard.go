package models

import (
	"time"

	"gorm.io/datatypes"
)

// Yard is a physical lot with bounded vehicle capacity. It owns the
// Vehicles collection for query convenience only; the vehicle row holds
// the foreign key and is the authoritative side of the relationship.
type Yard struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name       string         `gorm:"size:100;not null" json:"name"`
	Address    string         `gorm:"size:200;not null" json:"address"`
	Capacity   int            `gorm:"not null" json:"capacity"`
	PostalCode string         `gorm:"size:10" json:"postal_code,omitempty"`
	City       string         `gorm:"size:50" json:"city,omitempty"`
	State      string         `gorm:"size:2" json:"state,omitempty"`
	Phone      string         `gorm:"size:15" json:"phone,omitempty"`
	Active     bool           `gorm:"default:true" json:"active"`
	Metadata   datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`

	Vehicles []Vehicle `gorm:"foreignKey:YardID" json:"-"`
}
