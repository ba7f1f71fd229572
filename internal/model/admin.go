package model

import "time"

// AdminSettings is the singleton registry of the identity authorized to
// configure raffles, allocate rewards, and claim proceeds. Created once
// at deployment, rotated by the current admin, never destroyed.
type AdminSettings struct {
	ID        string    `json:"id"`
	AdminID   string    `json:"admin_id"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}
