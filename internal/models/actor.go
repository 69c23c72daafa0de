package models

import "time"

// Actor represents a conversation participant (applicant or operator),
// identified by the stable id the messaging platform assigns to them.
type Actor struct {
	ID           int64     `json:"id" db:"actor_id"`
	Username     string    `json:"username" db:"username"`
	DisplayName  string    `json:"displayName" db:"display_name"`
	FormID       *int64    `json:"formId,omitempty" db:"form_id"`
	IsEmployee   bool      `json:"isEmployee" db:"is_employee"`
	RegisteredAt time.Time `json:"registeredAt" db:"registered_at"`
}
