package models

import "time"

// Employee is a person managed by an organisation. It is not an account.
type Employee struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganisationID uint      `gorm:"not null;index" json:"organisationId"`
	FirstName      string    `gorm:"size:100;not null" json:"firstName"`
	LastName       string    `gorm:"size:100;not null" json:"lastName"`
	Email          string    `gorm:"size:255" json:"email"`
	Phone          string    `gorm:"size:50" json:"phone"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	// Relations
	Organisation *Organisation  `gorm:"foreignKey:OrganisationID" json:"-"`
	Memberships  []EmployeeTeam `gorm:"foreignKey:EmployeeID" json:"-"`
}
