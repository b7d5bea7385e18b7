package models

import "time"

// User is an account that can sign in to an organisation. Email is unique across all
// organisations.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganisationID uint      `gorm:"not null;index" json:"organisationId"`
	Name           string    `gorm:"size:200;not null" json:"name"`
	Email          string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash   string    `gorm:"not null" json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	// Relations
	Organisation *Organisation `gorm:"foreignKey:OrganisationID" json:"-"`
}

// UserSummary is the outward view of a user returned by the auth endpoints.
type UserSummary struct {
	ID             uint   `json:"id"`
	OrganisationID uint   `json:"organisationId"`
	Name           string `json:"name"`
	Email          string `json:"email"`
}

// Summary strips everything but the public profile fields.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:             u.ID,
		OrganisationID: u.OrganisationID,
		Name:           u.Name,
		Email:          u.Email,
	}
}
