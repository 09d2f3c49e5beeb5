package models

import (
	"time"
)

// Vehicle is a tracked motorcycle. Plate and chassis are stored
// uppercased and are globally unique regardless of yard assignment.
// YardID == nil means the vehicle is known but not parked in any yard.
type Vehicle struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Model   string `gorm:"size:100;not null" json:"model"`
	Plate   string `gorm:"uniqueIndex;size:10;not null" json:"plate"`
	Chassis string `gorm:"uniqueIndex;size:17;not null" json:"chassis"`
	Year    *int   `json:"year,omitempty"`
	Color   string `gorm:"size:30" json:"color,omitempty"`
	Active  bool   `gorm:"default:true" json:"active"`

	YardID *uint `gorm:"index" json:"yard_id,omitempty"`
	Yard   *Yard `gorm:"foreignKey:YardID" json:"yard,omitempty"`
}

// Assigned reports whether the vehicle currently occupies a yard.
func (v *Vehicle) Assigned() bool { return v.YardID != nil }
