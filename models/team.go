package models

import "time"

// Team groups employees of a single organisation.
type Team struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganisationID uint      `gorm:"not null;index" json:"organisationId"`
	Name           string    `gorm:"size:200;not null" json:"name"`
	Description    string    `gorm:"type:text" json:"description"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	// Relations
	Organisation *Organisation  `gorm:"foreignKey:OrganisationID" json:"-"`
	Memberships  []EmployeeTeam `gorm:"foreignKey:TeamID" json:"-"`
}

// EmployeeTeam links an employee to a team. The composite primary key keeps at most one
// row per pair.
type EmployeeTeam struct {
	EmployeeID uint      `gorm:"primaryKey;autoIncrement:false" json:"employeeId"`
	TeamID     uint      `gorm:"primaryKey;autoIncrement:false;index" json:"teamId"`
	CreatedAt  time.Time `json:"createdAt"`

	// Relations
	Employee *Employee `gorm:"foreignKey:EmployeeID" json:"-"`
	Team     *Team     `gorm:"foreignKey:TeamID" json:"-"`
}
