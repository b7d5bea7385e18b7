package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit actions written to the log table.
const (
	ActionOrganisationCreated = "organisation_created"
	ActionUserLoggedIn        = "user_logged_in"
	ActionEmployeeCreated     = "employee_created"
	ActionEmployeeUpdated     = "employee_updated"
	ActionEmployeeDeleted     = "employee_deleted"
	ActionTeamCreated         = "team_created"
	ActionTeamUpdated         = "team_updated"
	ActionTeamDeleted         = "team_deleted"
	ActionEmployeeAssigned    = "employee_assigned_to_team"
	ActionEmployeeUnassigned  = "employee_unassigned_from_team"
)

// Log is an append-only audit record. Rows are inserted by the mutating handlers and
// never updated or deleted.
type Log struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	OrganisationID uint           `gorm:"not null;index" json:"organisationId"`
	UserID         uint           `gorm:"not null;index" json:"userId"`
	Action         string         `gorm:"size:100;not null" json:"action"`
	Meta           datatypes.JSON `json:"meta"`
	CreatedAt      time.Time      `gorm:"index" json:"createdAt"`

	// Relations
	Organisation *Organisation `gorm:"foreignKey:OrganisationID" json:"-"`
	User         *LogUser      `gorm:"foreignKey:UserID" json:"User"`
}

// LogUser is the slice of the users table joined onto log listings.
type LogUser struct {
	ID    uint   `json:"-"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (LogUser) TableName() string { return "users" }
