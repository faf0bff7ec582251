package entity

import "time"

// Listing categories a user can apply to.
const (
	CategoryJob        = "job"
	CategoryInternship = "internship"
	CategoryWorkshop   = "workshop"
)

// Application records that a user applied to an external listing.
type Application struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	JobID       string    `json:"job_id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Category    string    `json:"category"`
	AppliedDate time.Time `json:"applied_date"`
	CreatedAt   time.Time `json:"created_at"`
}
