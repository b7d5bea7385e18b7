package models

import "time"

// Organisation is the tenant boundary. Every user, employee, team and log row belongs to
// exactly one organisation.
type Organisation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Users     []User     `gorm:"foreignKey:OrganisationID" json:"-"`
	Employees []Employee `gorm:"foreignKey:OrganisationID" json:"-"`
	Teams     []Team     `gorm:"foreignKey:OrganisationID" json:"-"`
}
